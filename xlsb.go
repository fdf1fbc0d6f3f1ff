package sheetjson

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TsubasaBE/go-xlsb/workbook"
)

// OpenXLSB opens an xlsb file and decodes every worksheet.
func OpenXLSB(path string) (Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(SourceUnavailable, CodeFileUnavailable, err)
	}
	wb, err := workbook.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newError(SourceUnavailable, CodeCannotOpen, fmt.Errorf("open workbook %q: %w", path, err))
	}
	defer wb.Close()

	out := &memoryWorkbook{filename: filepath.Base(path), extension: "xlsb", names: wb.Sheets()}
	for i, name := range out.names {
		// Sheets are 1-based in the binary reader.
		sheet, err := wb.Sheet(i + 1)
		if err != nil {
			return nil, newError(SourceUnavailable, CodeCannotOpen, fmt.Errorf("read sheet %q: %w", name, err))
		}
		var cells [][]RawCell
		for row := range sheet.Rows(true) {
			for _, c := range row {
				cells = placeCell(cells, c.R, c.C, xlsbCell(c.V, wb.Styles.IsDate(c.Style)))
			}
		}
		out.sheets = append(out.sheets, newMemoryGrid(cells))
	}
	return out, nil
}

// xlsbCell maps a decoded binary cell value onto a RawCell. Numbers under a
// date style become day serials.
func xlsbCell(v any, isDate bool) RawCell {
	switch v := v.(type) {
	case nil:
		return BlankCell()
	case string:
		if v == "" {
			return BlankCell()
		}
		return TextCell(v)
	case bool:
		return BoolCell(v)
	case float64:
		if isDate {
			return SerialDateCell(v)
		}
		return NumberCell(v)
	default:
		// error codes
		return BlankCell()
	}
}

// placeCell stores cell at (row, col), growing the jagged rows as needed.
func placeCell(cells [][]RawCell, row, col int, cell RawCell) [][]RawCell {
	if row < 0 || col < 0 || cell.Kind == CellBlank {
		return cells
	}
	for len(cells) <= row {
		cells = append(cells, nil)
	}
	for len(cells[row]) <= col {
		cells[row] = append(cells[row], BlankCell())
	}
	cells[row][col] = cell
	return cells
}
