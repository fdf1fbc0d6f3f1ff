package sheetjson

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yamitzky/xlrd-go/xlrd"
)

func TestXLSCell(t *testing.T) {
	tests := []struct {
		name     string
		ctype    int
		v        any
		isDate   bool
		datemode int
		want     RawCell
	}{
		{"text", xlrd.XL_CELL_TEXT, "Ada", false, 0, TextCell("Ada")},
		{"empty text", xlrd.XL_CELL_TEXT, "", false, 0, BlankCell()},
		{"number", xlrd.XL_CELL_NUMBER, 36.0, false, 0, NumberCell(36)},
		{"int number", xlrd.XL_CELL_NUMBER, 4, false, 0, NumberCell(4)},
		{"date 1900", xlrd.XL_CELL_NUMBER, 45292.0, true, 0, SerialDateCell(45292)},
		{"bool", xlrd.XL_CELL_BOOLEAN, true, false, 0, BoolCell(true)},
		{"bool as int", xlrd.XL_CELL_BOOLEAN, 0, false, 0, BoolCell(false)},
		{"error", xlrd.XL_CELL_ERROR, 7, false, 0, BlankCell()},
		{"empty", xlrd.XL_CELL_EMPTY, "", false, 0, BlankCell()},
		{"blank", xlrd.XL_CELL_BLANK, "", false, 0, BlankCell()},
		{"number not numeric", xlrd.XL_CELL_NUMBER, "n/a", false, 0, BlankCell()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, xlsCell(tc.ctype, tc.v, tc.isDate, tc.datemode))
		})
	}
}

func TestXLSCell_Datemode1904(t *testing.T) {
	// Day 0 of the 1904 system is 1904-01-01.
	cell := xlsCell(xlrd.XL_CELL_DATE, 1.0, true, 1)
	assert.Equal(t, CellDate, cell.Kind)
	assert.False(t, cell.Serial)
	assert.Equal(t, "1904-01-02", cell.Time.Format(time.DateOnly))
}

func TestOpenXLS_Broken(t *testing.T) {
	_, err := Process(context.Background(), NewOptionSet(writeFile(t, "old.xls", "binary")))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, CodeCannotOpen, Code(err))
}
