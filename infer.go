package sheetjson

import "strings"

// ResolvedColumn is the per-column casting plan, built once per sheet.
type ResolvedColumn struct {
	Index        int
	Key          string
	Format       Format
	Default      any
	DecimalComma bool
}

// InferFormat infers the format of one cell. ok is false for blank cells.
func InferFormat(cell RawCell, dateOnly, decimalComma bool) (f Format, ok bool) {
	switch cell.Kind {
	case CellBool:
		return Format{Kind: FormatBoolean}, true
	case CellNumber:
		return numberFormat(cell.Number), true
	case CellDate:
		if dateOnly {
			return Format{Kind: FormatDate}, true
		}
		return Format{Kind: FormatDateTime}, true
	case CellText:
		text := strings.TrimSpace(cell.Text)
		if text == "" {
			return Format{}, false
		}
		return inferText(text, decimalComma), true
	default:
		return Format{}, false
	}
}

func numberFormat(f float64) Format {
	if isWhole(f) {
		return Format{Kind: FormatInteger}
	}
	return Format{Kind: FormatFloat}
}

func inferText(text string, decimalComma bool) Format {
	if f, ok := parseNumericText(text, decimalComma); ok {
		return numberFormat(f)
	}
	if d, ok := parseISODate(text); ok && d.hasDay {
		if d.hasTime {
			return Format{Kind: FormatDateTime}
		}
		return Format{Kind: FormatDate}
	}
	if _, ok := boolToken(text); ok {
		return Format{Kind: FormatBoolean}
	}
	if isTruthyWord(text) {
		return Format{Kind: FormatTruthy}
	}
	return Format{Kind: FormatString}
}

// mergeFormats combines two inferred formats of the same column.
func mergeFormats(a, b Format) Format {
	if a.Kind == b.Kind {
		return a
	}
	pair := func(x, y FormatKind) bool {
		return (a.Kind == x && b.Kind == y) || (a.Kind == y && b.Kind == x)
	}
	switch {
	case pair(FormatInteger, FormatFloat):
		return Format{Kind: FormatFloat}
	case pair(FormatDate, FormatDateTime):
		return Format{Kind: FormatDateTime}
	case pair(FormatBoolean, FormatTruthy):
		return Format{Kind: FormatTruthy}
	default:
		return Format{Kind: FormatString}
	}
}

// ResolveColumnFormat returns the format of a column: the ColumnSpec format when
// set, otherwise the merged inference over sample. An empty sample infers String.
func ResolveColumnFormat(spec *ColumnSpec, sample []RawCell, dateOnly, decimalComma bool) Format {
	if spec != nil && spec.Format.Kind != FormatAuto {
		return spec.Format
	}
	var (
		merged Format
		seen   bool
	)
	for _, cell := range sample {
		f, ok := InferFormat(cell, dateOnly, decimalComma)
		if !ok {
			continue
		}
		if !seen {
			merged, seen = f, true
			continue
		}
		merged = mergeFormats(merged, f)
		if merged.Kind == FormatString {
			break
		}
	}
	if !seen {
		return Format{Kind: FormatString}
	}
	return merged
}

// resolveColumns builds the casting plan for every column of grid.
// Data rows start at firstRow; inference samples up to opts.sampleSize() of them.
func resolveColumns(grid Grid, keys []string, firstRow int, opts OptionSet) []ResolvedColumn {
	numRows := grid.NumRows()
	lastSample := min(numRows, firstRow+opts.sampleSize())

	cols := make([]ResolvedColumn, len(keys))
	sample := make([]RawCell, 0, max(lastSample-firstRow, 0))
	for i, key := range keys {
		col := ResolvedColumn{Index: i, Key: key, DecimalComma: opts.DecimalComma}
		var specPtr *ColumnSpec
		if spec, ok := opts.columnSpec(i, key); ok {
			specPtr = &spec
			col.Default = spec.Default
			if spec.DecimalComma != nil {
				col.DecimalComma = *spec.DecimalComma
			}
		}

		sample = sample[:0]
		if specPtr == nil || specPtr.Format.Kind == FormatAuto {
			for r := firstRow; r < lastSample; r++ {
				sample = append(sample, grid.Cell(r, i))
			}
		}
		col.Format = ResolveColumnFormat(specPtr, sample, opts.DateOnly, col.DecimalComma)
		cols[i] = col
	}
	return cols
}
