package sheetjson

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ColToName converts a 0-based column index to letters (0 -> "A", 26 -> "AA").
func ColToName(col int) string {
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// ColumnKey synthesizes the key of column index in a sheet of numCols columns.
func ColumnKey(index, numCols int, style KeyStyle) string {
	if style == KeyStyleNumbered {
		width := max(2, len(strconv.Itoa(max(numCols-1, 0))))
		return fmt.Sprintf("C%0*d", width, index)
	}
	return ColToName(index)
}

// normalizeHeader trims and collapses internal whitespace.
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ResolveKeys returns one unique key per column. header is the header row,
// nil when absent or omitted. Per column the first non-empty source wins:
// an override header, the override spec key, the header text, a synthesized key.
// A ColumnsByKey spec with a Key then renames the column it matched.
func ResolveKeys(header []RawCell, numCols int, opts OptionSet) []string {
	return renameKeys(headerKeys(header, numCols, opts), opts)
}

// headerKeys resolves the keys ColumnsByKey entries are matched against.
func headerKeys(header []RawCell, numCols int, opts OptionSet) []string {
	numCols = max(numCols, len(opts.Headers))
	keys := make([]string, numCols)
	for i := range keys {
		keys[i] = resolveKey(i, header, numCols, opts)
	}
	return uniqueKeys(keys)
}

// renameKeys applies the Key of ColumnsByKey specs. Positional specs take
// precedence and were already applied by resolveKey.
func renameKeys(matchKeys []string, opts OptionSet) []string {
	keys := slices.Clone(matchKeys)
	renamed := false
	for i, k := range matchKeys {
		if _, ok := opts.Columns[i]; ok {
			continue
		}
		if spec, ok := opts.ColumnsByKey[k]; ok && spec.Key != "" {
			keys[i] = spec.Key
			renamed = true
		}
	}
	if !renamed {
		return keys
	}
	return uniqueKeys(keys)
}

func resolveKey(i int, header []RawCell, numCols int, opts OptionSet) string {
	if i < len(opts.Headers) && opts.Headers[i] != "" {
		return opts.Headers[i]
	}
	if spec, ok := opts.Columns[i]; ok && spec.Key != "" {
		return spec.Key
	}
	if i < len(header) && !header[i].IsBlank() {
		if key := normalizeHeader(header[i].String()); key != "" {
			return key
		}
	}
	return ColumnKey(i, numCols, opts.KeyStyle)
}

// uniqueKeys suffixes repeated keys with _2, _3 and so on.
func uniqueKeys(keys []string) []string {
	used := make(map[string]bool, len(keys))
	out := make([]string, len(keys))
	for i, k := range keys {
		key := k
		for n := 2; used[key]; n++ {
			key = k + "_" + strconv.Itoa(n)
		}
		used[key] = true
		out[i] = key
	}
	return out
}
