package sheetjson

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// excelWorkbook decodes worksheets of an xlsx-family file on demand.
type excelWorkbook struct {
	file      *excelize.File
	filename  string
	extension string
	names     []string
	grids     map[int]*memoryGrid
	dateStyle map[int]bool
}

// OpenExcel opens an xlsx, xlsm, xltx or xltm file.
func OpenExcel(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, newError(SourceUnavailable, CodeCannotOpen, fmt.Errorf("open workbook %q: %w", path, err))
	}
	return NewExcelWorkbook(f, filepath.Base(path)), nil
}

// NewExcelWorkbook wraps an open excelize file. Close releases it.
func NewExcelWorkbook(f *excelize.File, filename string) Workbook {
	return &excelWorkbook{
		file:      f,
		filename:  filename,
		extension: strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		names:     f.GetSheetList(),
		grids:     make(map[int]*memoryGrid),
		dateStyle: make(map[int]bool),
	}
}

func (w *excelWorkbook) Filename() string     { return w.filename }
func (w *excelWorkbook) Extension() string    { return w.extension }
func (w *excelWorkbook) SheetNames() []string { return w.names }
func (w *excelWorkbook) Close() error         { return w.file.Close() }

func (w *excelWorkbook) Sheet(index int) (Grid, error) {
	if index < 0 || index >= len(w.names) {
		return nil, newError(SheetNotFound, CodeSheetNotFound, nil)
	}
	if g, ok := w.grids[index]; ok {
		return g, nil
	}
	g, err := w.readSheet(w.names[index])
	if err != nil {
		return nil, newError(SourceUnavailable, CodeCannotOpen, err)
	}
	w.grids[index] = g
	return g, nil
}

// readSheet reads all rows of sheet with cached formula results.
func (w *excelWorkbook) readSheet(sheet string) (*memoryGrid, error) {
	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	cells := make([][]RawCell, len(rows))
	for rowIdx, row := range rows {
		cells[rowIdx] = make([]RawCell, len(row))
		for colIdx, val := range row {
			if val == "" {
				cells[rowIdx][colIdx] = BlankCell()
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cells[rowIdx][colIdx] = w.readCell(sheet, cellName, val)
		}
	}
	return newMemoryGrid(cells), nil
}

// readCell classifies a raw cell value using its stored type and number format.
func (w *excelWorkbook) readCell(sheet, cellName, val string) RawCell {
	typ, err := w.file.GetCellType(sheet, cellName)
	if err != nil {
		return TextCell(val)
	}
	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(val == "1" || strings.EqualFold(val, "true"))
	case excelize.CellTypeDate:
		if d, ok := parseISODate(val); ok {
			return DateCell(d.t)
		}
		return TextCell(val)
	case excelize.CellTypeError:
		return BlankCell()
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return TextCell(val)
		}
		if w.isDateCell(sheet, cellName) {
			return SerialDateCell(f)
		}
		return NumberCell(f)
	default:
		return TextCell(val)
	}
}

// isDateCell reports whether the cell's number format renders a date.
func (w *excelWorkbook) isDateCell(sheet, cellName string) bool {
	styleID, err := w.file.GetCellStyle(sheet, cellName)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := w.dateStyle[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := w.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	w.dateStyle[styleID] = isDate
	return isDate
}

var (
	quotedRegex  = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)
	dateTokenReg = regexp.MustCompile(`[yYdDhHsS]|m{3,}`)
)

// isDateNumFmt reports whether a built-in or custom number format is a date format.
func isDateNumFmt(id int, custom *string) bool {
	switch {
	case id >= 14 && id <= 22, id >= 45 && id <= 47, id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	format := quotedRegex.ReplaceAllString(*custom, "")
	if i := strings.IndexByte(format, ';'); i >= 0 {
		format = format[:i]
	}
	return dateTokenReg.MatchString(format)
}
