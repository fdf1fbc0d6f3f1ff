package sheetjson

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatKind identifies a casting rule.
type FormatKind int

const (
	FormatAuto FormatKind = iota // infer from the column's values
	FormatString
	FormatInteger
	FormatFloat
	FormatDecimal
	FormatBoolean
	FormatTruthy
	FormatTruthyCustom
	FormatDate
	FormatDateTime
)

// MaxDecimalPlaces bounds Decimal(n).
const MaxDecimalPlaces = 8

// Format is the casting rule applied to every cell of a column.
// Places is used by FormatDecimal, the labels by FormatTruthyCustom.
type Format struct {
	Kind       FormatKind
	Places     int
	TrueLabel  string
	FalseLabel string
}

// Decimal returns a float format rounded to places fractional digits (clamped to 1..8).
func Decimal(places int) Format {
	if places < 1 {
		places = 1
	}
	if places > MaxDecimalPlaces {
		places = MaxDecimalPlaces
	}
	return Format{Kind: FormatDecimal, Places: places}
}

// TruthyPair returns a boolean format matching a custom label pair.
func TruthyPair(trueLabel, falseLabel string) Format {
	return Format{Kind: FormatTruthyCustom, TrueLabel: trueLabel, FalseLabel: falseLabel}
}

// String returns the canonical name accepted by ParseFormat.
func (f Format) String() string {
	switch f.Kind {
	case FormatAuto:
		return "auto"
	case FormatString:
		return "string"
	case FormatInteger:
		return "integer"
	case FormatFloat:
		return "float"
	case FormatDecimal:
		return fmt.Sprintf("decimal(%d)", f.Places)
	case FormatBoolean:
		return "boolean"
	case FormatTruthy:
		return "truthy"
	case FormatTruthyCustom:
		return fmt.Sprintf("truthy(%s,%s)", f.TrueLabel, f.FalseLabel)
	case FormatDate:
		return "date"
	case FormatDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name. Short aliases from the command line are
// accepted: s, i, f, d2, b, da, dt, and "truthy:yes,no" for a custom pair.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "", "auto":
		return Format{Kind: FormatAuto}, nil
	case "s", "str", "string", "t", "txt", "text":
		return Format{Kind: FormatString}, nil
	case "i", "int", "integer":
		return Format{Kind: FormatInteger}, nil
	case "f", "fl", "float":
		return Format{Kind: FormatFloat}, nil
	case "b", "bool", "boolean":
		return Format{Kind: FormatBoolean}, nil
	case "truthy", "yn":
		return Format{Kind: FormatTruthy}, nil
	case "da", "date":
		return Format{Kind: FormatDate}, nil
	case "dt", "datetime":
		return Format{Kind: FormatDateTime}, nil
	}

	if places, ok := decimalPlaces(key); ok {
		return Decimal(places), nil
	}
	if t, f, ok := truthyLabels(strings.TrimSpace(s)); ok {
		return TruthyPair(t, f), nil
	}
	return Format{}, fmt.Errorf("unknown format %q", s)
}

// decimalPlaces recognises d2, decimal_2 and decimal(2).
func decimalPlaces(key string) (int, bool) {
	var digits string
	switch {
	case strings.HasPrefix(key, "decimal(") && strings.HasSuffix(key, ")"):
		digits = key[len("decimal(") : len(key)-1]
	case strings.HasPrefix(key, "decimal_"):
		digits = key[len("decimal_"):]
	case strings.HasPrefix(key, "d"):
		digits = key[1:]
	default:
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > MaxDecimalPlaces {
		return 0, false
	}
	return n, true
}

// truthyLabels recognises truthy:yes,no and truthy(yes,no).
func truthyLabels(s string) (string, string, bool) {
	lower := strings.ToLower(s)
	var body string
	switch {
	case strings.HasPrefix(lower, "truthy:"):
		body = s[len("truthy:"):]
	case strings.HasPrefix(lower, "truthy(") && strings.HasSuffix(lower, ")"):
		body = s[len("truthy(") : len(s)-1]
	default:
		return "", "", false
	}
	t, f, ok := strings.Cut(body, ",")
	t, f = strings.TrimSpace(t), strings.TrimSpace(f)
	if !ok || t == "" || f == "" {
		return "", "", false
	}
	return t, f, true
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalYAML decodes a format from a scalar node.
func (f *Format) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: format must be a string", value.Line)
	}
	return f.UnmarshalText([]byte(value.Value))
}
