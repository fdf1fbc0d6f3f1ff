package sheetjson

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Grid is a random-access worksheet of raw cells. Cell returns a blank cell
// outside the populated range.
type Grid interface {
	NumRows() int
	NumCols() int
	Cell(row, col int) RawCell
}

// Workbook is a decoded source: a named list of worksheets.
type Workbook interface {
	Filename() string
	Extension() string
	SheetNames() []string
	Sheet(index int) (Grid, error)
}

// flatSource marks sources with a single implicit sheet, such as CSV.
type flatSource interface {
	Flat() bool
}

func isFlat(wb Workbook) bool {
	f, ok := wb.(flatSource)
	return ok && f.Flat()
}

var excelExtensions = map[string]bool{"xlsx": true, "xlsm": true, "xltx": true, "xltm": true}

// sourceExtension returns the lowercased extension of path and any
// compression suffix, so "a.csv.gz" yields ("csv", "gz").
func sourceExtension(path string) (ext, compression string) {
	base := strings.ToLower(filepath.Base(path))
	ext = strings.TrimPrefix(filepath.Ext(base), ".")
	if _, ok := decompressors[ext]; ok {
		compression = ext
		ext = strings.TrimPrefix(filepath.Ext(strings.TrimSuffix(base, "."+compression)), ".")
	}
	return ext, compression
}

// Open decodes the file at opts.Path, dispatching on its extension.
func Open(opts OptionSet) (Workbook, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, newError(SourceUnavailable, CodeNoFilepath, nil)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err == nil {
			err = fs.ErrInvalid
		}
		return nil, newError(SourceUnavailable, CodeFileUnavailable, err)
	}

	ext, compression := sourceExtension(path)
	switch {
	case excelExtensions[ext] && compression == "":
		return OpenExcel(path)
	case ext == "xlsb" && compression == "":
		return OpenXLSB(path)
	case ext == "xls" && compression == "":
		return OpenXLS(path)
	case ext == "ods" && compression == "":
		return OpenODS(path)
	case ext == "csv" || ext == "tsv":
		return OpenCSV(path, opts.Encoding)
	default:
		return nil, newError(SourceUnavailable, CodeUnsupportedFormat, errors.New(filepath.Ext(path)))
	}
}

// memoryWorkbook is a Workbook held in memory.
type memoryWorkbook struct {
	filename  string
	extension string
	names     []string
	sheets    []*memoryGrid
}

// NewMemoryWorkbook builds a Workbook from rows of cells, one entry per sheet
// name. Sheet order follows names.
func NewMemoryWorkbook(filename string, names []string, sheets map[string][][]RawCell) Workbook {
	wb := &memoryWorkbook{
		filename:  filename,
		extension: strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		names:     names,
	}
	for _, name := range names {
		wb.sheets = append(wb.sheets, newMemoryGrid(sheets[name]))
	}
	return wb
}

func (w *memoryWorkbook) Filename() string     { return w.filename }
func (w *memoryWorkbook) Extension() string    { return w.extension }
func (w *memoryWorkbook) SheetNames() []string { return w.names }

func (w *memoryWorkbook) Sheet(index int) (Grid, error) {
	if index < 0 || index >= len(w.sheets) {
		return nil, newError(SheetNotFound, CodeSheetNotFound, nil)
	}
	return w.sheets[index], nil
}

// memoryGrid is a Grid over a jagged slice of rows.
type memoryGrid struct {
	rows [][]RawCell
	cols int
}

func newMemoryGrid(rows [][]RawCell) *memoryGrid {
	g := &memoryGrid{rows: rows}
	for _, r := range rows {
		g.cols = max(g.cols, len(r))
	}
	return g
}

func (g *memoryGrid) NumRows() int { return len(g.rows) }
func (g *memoryGrid) NumCols() int { return g.cols }

func (g *memoryGrid) Cell(row, col int) RawCell {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return BlankCell()
	}
	return g.rows[row][col]
}

// TextRows converts string rows to text cells, handy for building grids by hand.
func TextRows(rows ...[]string) [][]RawCell {
	out := make([][]RawCell, len(rows))
	for i, r := range rows {
		out[i] = make([]RawCell, len(r))
		for j, s := range r {
			out[i][j] = TextCell(s)
		}
	}
	return out
}
