package sheetjson

import (
	"context"
	"log/slog"
)

// RowSink receives rows in deferred mode, one at a time in source order.
// A returned error stops processing.
type RowSink func(ctx context.Context, row Row) error

// sheetPlan is the resolved layout of one worksheet.
type sheetPlan struct {
	keys      []string
	matchKeys []string // keys before ColumnsByKey renames
	columns   []ResolvedColumn
	firstRow  int // first data row
	end       int // one past the last row with a non-blank cell
}

// planSheet resolves keys and column formats of grid.
func planSheet(grid Grid, opts OptionSet) sheetPlan {
	headerRow := opts.headerRow()
	var header []RawCell
	firstRow := headerRow
	if !opts.OmitHeader {
		header = rowCells(grid, headerRow, grid.NumCols())
		firstRow = headerRow + 1
	}
	matchKeys := headerKeys(header, grid.NumCols(), opts)
	keys := renameKeys(matchKeys, opts)
	columns := resolveColumns(grid, matchKeys, firstRow, opts)
	for i := range columns {
		columns[i].Key = keys[i]
	}
	end := grid.NumRows()
	for end > firstRow && isBlankRow(grid, end-1, len(columns)) {
		end--
	}
	return sheetPlan{
		keys:      keys,
		matchKeys: matchKeys,
		columns:   columns,
		firstRow:  firstRow,
		end:       max(end, firstRow),
	}
}

func rowCells(grid Grid, r, numCols int) []RawCell {
	if r >= grid.NumRows() {
		return nil
	}
	cells := make([]RawCell, numCols)
	for c := range cells {
		cells[c] = grid.Cell(r, c)
	}
	return cells
}

func isBlankRow(grid Grid, r, numCols int) bool {
	for c := 0; c < numCols; c++ {
		if !grid.Cell(r, c).IsBlank() {
			return false
		}
	}
	return true
}

// assembleRow casts every cell of row r into a Row in column order.
func assembleRow(grid Grid, r int, columns []ResolvedColumn) Row {
	row := NewRow(len(columns))
	for _, col := range columns {
		row.Set(col.Key, Cast(grid.Cell(r, col.Index), col))
	}
	return row
}

// streamRows emits the data rows of grid until the source is exhausted or
// maxRows rows were emitted. Trailing blank rows and rows rejected by filter
// are skipped and not counted; interior blank rows are emitted with defaults. It returns the number of rows emitted; an emit
// error stops the stream with the rows already emitted counted.
func streamRows(ctx context.Context, grid Grid, plan sheetPlan, filter *rowFilter, maxRows int, log *slog.Logger, emit func(Row) error) (int, error) {
	count := 0
	for r := plan.firstRow; r < plan.end && count < maxRows; r++ {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		row := assembleRow(grid, r, plan.columns)
		ok, err := filter.Match(row)
		if err != nil {
			log.Debug("filter skipped row", "row", r, "error", err)
		}
		if !ok {
			continue
		}
		if err := emit(row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
