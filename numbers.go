package sheetjson

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// numericRegex matches plain numbers (integers, decimals, scientific).
	numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	// groupedRegex matches numbers with thousands separators in either convention.
	groupedRegex = regexp.MustCompile(`^[+-]?\d{1,3}([.,' ]\d{3})+([.,]\d+)?$`)
	// firstNumberRegex finds the first numeric run inside free text.
	firstNumberRegex = regexp.MustCompile(`[+-]?\d[\d.,]*|[+-]?[.,]\d+`)
)

// isEuroNumberFormat reports whether txt uses a comma as decimal separator
// and dots as thousands separators. A lone comma counts as decimal unless it
// sits exactly three digits from the end; enforce forces decimal-comma reading
// for a lone comma or a lone dot.
func isEuroNumberFormat(txt string, enforce bool) bool {
	dotPos, commaPos := strings.IndexByte(txt, '.'), strings.IndexByte(txt, ',')
	numDots, numCommas := strings.Count(txt, "."), strings.Count(txt, ",")

	switch {
	case dotPos >= 0 && commaPos >= 0:
		return dotPos < commaPos
	case dotPos >= 0:
		return numDots > 1 || enforce
	case commaPos >= 0:
		if numCommas > 1 {
			return false
		}
		return len(txt)-commaPos != 4 || enforce
	default:
		return false
	}
}

// normalizeNumber strips grouping characters and converts the decimal
// separator to a dot.
func normalizeNumber(txt string, decimalComma bool) string {
	txt = strings.NewReplacer(" ", "", "'", "", "\u00a0", "", "_", "").Replace(txt)
	if isEuroNumberFormat(txt, decimalComma) {
		txt = strings.ReplaceAll(txt, ".", "")
		return strings.Replace(txt, ",", ".", 1)
	}
	return strings.ReplaceAll(txt, ",", "")
}

// parseNumericText parses text that is entirely a number, allowing
// thousands separators. Currency symbols and units are rejected.
func parseNumericText(s string, decimalComma bool) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !numericRegex.MatchString(s) {
		if !groupedRegex.MatchString(s) && !(decimalComma && isCommaDecimal(s)) {
			return 0, false
		}
		s = normalizeNumber(s, decimalComma)
	}
	return parseFinite(s)
}

var commaDecimalRegex = regexp.MustCompile(`^[+-]?\d+,\d+$`)

func isCommaDecimal(s string) bool { return commaDecimalRegex.MatchString(s) }

// firstNumber extracts the first number embedded in free text, so "112cm"
// yields 112 and "EUR 1.234,50" yields 1234.5.
func firstNumber(s string, decimalComma bool) (float64, bool) {
	if f, ok := parseNumericText(s, decimalComma); ok {
		return f, true
	}
	m := firstNumberRegex.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.TrimRight(m, ".,")
	return parseFinite(normalizeNumber(m, decimalComma))
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// roundHalfAway rounds v to places fractional digits, halves away from zero.
func roundHalfAway(v float64, places int) float64 {
	if places <= 0 {
		return math.Round(v)
	}
	pow := math.Pow10(places)
	r := math.Round(v*pow) / pow
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

// isWhole reports whether f has no fractional component.
func isWhole(f float64) bool {
	return f == math.Trunc(f)
}
