package sheetjson

import (
	"strconv"
	"strings"
	"time"
)

// CellKind is the native kind of a raw cell as surfaced by a decoder.
type CellKind int

const (
	CellBlank CellKind = iota
	CellText
	CellNumber
	CellBool
	CellDate
)

// String returns a human-readable name for the CellKind.
func (k CellKind) String() string {
	switch k {
	case CellBlank:
		return "Blank"
	case CellText:
		return "Text"
	case CellNumber:
		return "Number"
	case CellBool:
		return "Bool"
	case CellDate:
		return "Date"
	default:
		return "Unknown"
	}
}

// RawCell is one loosely typed value at a (row, column) position.
// Only the fields matching Kind are meaningful.
type RawCell struct {
	Kind   CellKind
	Text   string
	Number float64 // numeric value, or the day serial of a serial date
	Bool   bool
	Time   time.Time

	// Serial marks a CellDate decoded from a 1900-epoch day serial held in Number.
	Serial bool
}

// BlankCell returns an empty cell.
func BlankCell() RawCell { return RawCell{Kind: CellBlank} }

// TextCell returns a text cell. Empty text yields a blank cell.
func TextCell(s string) RawCell {
	if s == "" {
		return BlankCell()
	}
	return RawCell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) RawCell { return RawCell{Kind: CellNumber, Number: f} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) RawCell { return RawCell{Kind: CellBool, Bool: b} }

// DateCell returns an already-typed date/time cell.
func DateCell(t time.Time) RawCell { return RawCell{Kind: CellDate, Time: t} }

// SerialDateCell returns a date cell stored as a spreadsheet day serial.
func SerialDateCell(serial float64) RawCell {
	return RawCell{Kind: CellDate, Number: serial, Serial: true}
}

// IsBlank reports whether the cell carries no value. Whitespace-only text counts as blank.
func (c RawCell) IsBlank() bool {
	switch c.Kind {
	case CellBlank:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// HasTime reports whether a date cell carries a time of day.
func (c RawCell) HasTime() bool {
	if c.Kind != CellDate {
		return false
	}
	if c.Serial {
		return c.Number != float64(int64(c.Number))
	}
	h, m, s := c.Time.Clock()
	return h != 0 || m != 0 || s != 0 || c.Time.Nanosecond() != 0
}

// String renders the cell in its natural textual form.
func (c RawCell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return formatNumber(c.Number)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	case CellDate:
		s, _ := formatDateCell(c, c.HasTime())
		return s
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
