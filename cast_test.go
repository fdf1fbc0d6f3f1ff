package sheetjson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func column(f Format) ResolvedColumn {
	return ResolvedColumn{Key: "v", Format: f}
}

func TestCast_Blank(t *testing.T) {
	withDefault := ResolvedColumn{Key: "v", Format: Format{Kind: FormatString}, Default: "N/A"}
	assert.Equal(t, "N/A", Cast(BlankCell(), withDefault))
	assert.Equal(t, "N/A", Cast(TextCell("   "), withDefault))
	assert.Nil(t, Cast(BlankCell(), column(Format{Kind: FormatString})))
	assert.Nil(t, Cast(BlankCell(), column(Format{Kind: FormatInteger})))
}

func TestCast_String(t *testing.T) {
	col := column(Format{Kind: FormatString})
	assert.Equal(t, "hello", Cast(TextCell("hello"), col))
	assert.Equal(t, "3.5", Cast(NumberCell(3.5), col))
	assert.Equal(t, "42", Cast(NumberCell(42), col))
	assert.Equal(t, "true", Cast(BoolCell(true), col))
	assert.Equal(t, "2024-01-01", Cast(SerialDateCell(45292), col))
	assert.Equal(t, "2024-01-01T06:00:00", Cast(SerialDateCell(45292.25), col))
	assert.Equal(t, "02134", Cast(TextCell("02134"), col))
}

func TestCast_Integer(t *testing.T) {
	col := column(Format{Kind: FormatInteger})
	assert.Equal(t, int64(112), Cast(TextCell("112cm"), col))
	assert.Equal(t, int64(1234), Cast(TextCell("1,234"), col))
	assert.Equal(t, int64(3), Cast(NumberCell(2.5), col))
	assert.Equal(t, int64(-3), Cast(NumberCell(-2.5), col))
	assert.Equal(t, int64(1), Cast(BoolCell(true), col))
	assert.Nil(t, Cast(TextCell("abc"), col))

	col.Default = int64(0)
	assert.Equal(t, int64(0), Cast(TextCell("abc"), col))
}

func TestCast_Float(t *testing.T) {
	col := column(Format{Kind: FormatFloat})
	assert.Equal(t, 3.5, Cast(NumberCell(3.5), col))
	assert.Equal(t, 1234.5, Cast(TextCell("EUR 1.234,50"), col))
	assert.Equal(t, 12.56, Cast(TextCell("12,56"), col))
	assert.Nil(t, Cast(TextCell("n/a"), col))

	col.DecimalComma = true
	assert.Equal(t, 1.5, Cast(TextCell("1,5"), col))
}

func TestCast_DecimalIsIdempotent(t *testing.T) {
	col := column(Decimal(2))
	first := Cast(NumberCell(3.14159), col)
	assert.Equal(t, 3.14, first)
	second := Cast(NumberCell(first.(float64)), col)
	assert.Equal(t, 3.14, second)

	assert.Equal(t, 3.14, Cast(TextCell("3.14159"), col))
	assert.Equal(t, 0.13, Cast(NumberCell(0.125), col))
	assert.Equal(t, -0.13, Cast(NumberCell(-0.125), col))
}

func TestCast_Boolean(t *testing.T) {
	col := column(Format{Kind: FormatBoolean})
	assert.Equal(t, true, Cast(NumberCell(1), col))
	assert.Equal(t, true, Cast(NumberCell(2), col))
	assert.Equal(t, false, Cast(NumberCell(0.5), col))
	assert.Equal(t, true, Cast(TextCell("TRUE"), col))
	assert.Equal(t, true, Cast(TextCell("1"), col))
	assert.Equal(t, false, Cast(TextCell(" 0 "), col))
	assert.Equal(t, false, Cast(TextCell("False"), col))
	assert.Equal(t, true, Cast(BoolCell(true), col))
	assert.Nil(t, Cast(TextCell("yes"), col))
}

func TestCast_Truthy(t *testing.T) {
	col := column(Format{Kind: FormatTruthy})
	for _, s := range []string{"y", "Yes", " YES ", "ok", "true", "1"} {
		assert.Equal(t, true, Cast(TextCell(s), col), s)
	}
	for _, s := range []string{"n", "No", " n ", "none", "false", "0"} {
		assert.Equal(t, false, Cast(TextCell(s), col), s)
	}
	assert.Nil(t, Cast(TextCell("maybe"), col))
	assert.Equal(t, true, Cast(NumberCell(1), col))
}

func TestCast_TruthyCustomPair(t *testing.T) {
	col := column(TruthyPair("oui", "non"))
	assert.Equal(t, true, Cast(TextCell("Oui"), col))
	assert.Equal(t, false, Cast(TextCell("NON"), col))
	assert.Nil(t, Cast(TextCell("maybe"), col))
	assert.Nil(t, Cast(TextCell("yes"), col))

	col.Default = false
	assert.Equal(t, false, Cast(TextCell("maybe"), col))
}

func TestCast_Date(t *testing.T) {
	col := column(Format{Kind: FormatDate})
	assert.Equal(t, "1900-02-29", Cast(NumberCell(60), col))
	assert.Equal(t, "1900-03-01", Cast(NumberCell(61), col))
	assert.Equal(t, "1900-02-28", Cast(NumberCell(59), col))
	assert.Equal(t, "2024-03-01", Cast(TextCell("2024-03-01"), col))
	assert.Equal(t, "2001-09-23", Cast(TextCell("2001-9-23"), col))
	assert.Equal(t, "2024-01-01", Cast(TextCell("45292"), col))
	assert.Equal(t, "2024-01-01", Cast(SerialDateCell(45292.75), col))
	assert.Equal(t, "2020-05-17", Cast(DateCell(time.Date(2020, 5, 17, 8, 0, 0, 0, time.UTC)), col))
	assert.Nil(t, Cast(TextCell("next tuesday"), col))
	assert.Nil(t, Cast(TextCell("2024-02-30"), col))
	assert.Nil(t, Cast(BoolCell(true), col))
}

func TestCast_DateTime(t *testing.T) {
	col := column(Format{Kind: FormatDateTime})
	assert.Equal(t, "2024-03-01T00:00:00", Cast(TextCell("2024-03-01"), col))
	assert.Equal(t, "2024-03-01T10:30:00", Cast(TextCell("2024-03-01 10:30"), col))
	assert.Equal(t, "2024-03-01T10:30:15", Cast(TextCell("2024-03-01T10:30:15Z"), col))
	assert.Equal(t, "2024-01-01T12:00:00", Cast(NumberCell(45292.5), col))
	assert.Equal(t, "1900-02-29T00:00:00", Cast(NumberCell(60), col))
}

func TestCast_IsDeterministic(t *testing.T) {
	cells := []RawCell{
		TextCell("112cm"), TextCell("yes"), NumberCell(3.14159), BoolCell(false),
		SerialDateCell(60), TextCell("2024-03-01"), BlankCell(),
	}
	formats := []Format{
		{Kind: FormatString}, {Kind: FormatInteger}, {Kind: FormatFloat}, Decimal(3),
		{Kind: FormatBoolean}, {Kind: FormatTruthy}, TruthyPair("a", "b"),
		{Kind: FormatDate}, {Kind: FormatDateTime},
	}
	for _, f := range formats {
		col := column(f)
		for _, c := range cells {
			assert.Equal(t, Cast(c, col), Cast(c, col), "%s %s", f, c.Kind)
		}
	}
}
