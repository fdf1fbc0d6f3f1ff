package sheetjson

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/yamitzky/xlrd-go/xlrd"
)

// xlsWorkbook wraps a legacy BIFF workbook. The reader loads every sheet on
// open; grids are converted on first access.
type xlsWorkbook struct {
	book     *xlrd.Book
	filename string
	grids    map[int]*memoryGrid
}

// OpenXLS opens a legacy xls file.
func OpenXLS(path string) (Workbook, error) {
	book, err := xlrd.OpenWorkbook(path, &xlrd.OpenWorkbookOptions{
		Logfile:        io.Discard,
		FormattingInfo: true,
	})
	if err != nil {
		return nil, newError(SourceUnavailable, CodeCannotOpen, fmt.Errorf("open workbook %q: %w", path, err))
	}
	return &xlsWorkbook{
		book:     book,
		filename: filepath.Base(path),
		grids:    make(map[int]*memoryGrid),
	}, nil
}

func (w *xlsWorkbook) Filename() string     { return w.filename }
func (w *xlsWorkbook) Extension() string    { return "xls" }
func (w *xlsWorkbook) SheetNames() []string { return w.book.SheetNames() }

func (w *xlsWorkbook) Close() error {
	w.book.ReleaseResources()
	return nil
}

func (w *xlsWorkbook) Sheet(index int) (Grid, error) {
	if index < 0 || index >= len(w.book.SheetNames()) {
		return nil, newError(SheetNotFound, CodeSheetNotFound, nil)
	}
	if g, ok := w.grids[index]; ok {
		return g, nil
	}
	sheet, err := w.book.SheetByIndex(index)
	if err != nil {
		return nil, newError(SourceUnavailable, CodeCannotOpen, err)
	}
	cells := make([][]RawCell, sheet.NRows)
	for r := range cells {
		cells[r] = make([]RawCell, sheet.NCols)
		for c := range cells[r] {
			cells[r][c] = w.readCell(sheet, r, c)
		}
	}
	g := newMemoryGrid(cells)
	w.grids[index] = g
	return g, nil
}

func (w *xlsWorkbook) readCell(sheet *xlrd.Sheet, r, c int) RawCell {
	ctype := sheet.CellType(r, c)
	isDate := ctype == xlrd.XL_CELL_DATE ||
		(ctype == xlrd.XL_CELL_NUMBER && w.isDateXF(sheet.CellXFIndex(r, c)))
	return xlsCell(ctype, sheet.CellValue(r, c), isDate, w.book.Datemode)
}

// isDateXF reports whether the XF record at xfIndex carries a date format.
func (w *xlsWorkbook) isDateXF(xfIndex int) bool {
	if xfIndex < 0 || xfIndex >= len(w.book.XFList) {
		return false
	}
	key := w.book.XFList[xfIndex].FormatKey
	var custom *string
	if f := w.book.FormatMap[key]; f != nil && f.FormatString != "" {
		custom = &f.FormatString
	}
	return isDateNumFmt(key, custom)
}

// xlsCell maps a BIFF cell onto a RawCell. Dates in the 1904 system are
// converted to a time directly since day serials assume the 1900 epoch.
func xlsCell(ctype int, v any, isDate bool, datemode int) RawCell {
	switch ctype {
	case xlrd.XL_CELL_TEXT:
		s, _ := v.(string)
		if s == "" {
			return BlankCell()
		}
		return TextCell(s)
	case xlrd.XL_CELL_NUMBER, xlrd.XL_CELL_DATE:
		f, ok := xlsNumber(v)
		if !ok {
			return BlankCell()
		}
		if !isDate {
			return NumberCell(f)
		}
		if datemode == 0 {
			return SerialDateCell(f)
		}
		t, err := xlrd.XldateAsDatetime(f, datemode)
		if err != nil {
			return NumberCell(f)
		}
		return DateCell(t)
	case xlrd.XL_CELL_BOOLEAN:
		switch b := v.(type) {
		case bool:
			return BoolCell(b)
		case int:
			return BoolCell(b != 0)
		}
		return BlankCell()
	default:
		// empty, blank and error cells
		return BlankCell()
	}
}

func xlsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
