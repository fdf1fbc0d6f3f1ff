package sheetjson

import (
	"fmt"
	"io"
	"strings"
)

// Description summarises how a source would be converted without emitting rows.
type Description struct {
	Filename  string             `json:"filename"`
	Extension string             `json:"extension"`
	Sheets    []SheetDescription `json:"sheets"`
}

// SheetDescription is the resolved layout of one worksheet.
type SheetDescription struct {
	Sheet    SheetRef            `json:"sheet"`
	NumRows  int                 `json:"num_rows"` // rows a conversion would emit before any filter
	NumCols  int                 `json:"num_cols"`
	Selected bool                `json:"selected"`
	Columns  []ColumnDescription `json:"columns"`
}

// ColumnDescription is one resolved column.
type ColumnDescription struct {
	Index   int    `json:"index"`
	Letter  string `json:"letter"`
	Key     string `json:"key"`
	Format  Format `json:"format"`
	Default any    `json:"default,omitempty"`
}

// Describe opens the source at path and resolves keys and formats of every
// worksheet. Useful for checking inference before a conversion.
func Describe(path string, opts ...Option) (*Description, error) {
	o := NewOptionSet(path, opts...)
	wb, err := Open(o)
	if err != nil {
		return nil, err
	}
	if c, ok := wb.(io.Closer); ok {
		defer c.Close()
	}
	return DescribeWorkbook(wb, o)
}

// DescribeWorkbook describes an already decoded workbook. Column overrides
// apply to the selected worksheet only.
func DescribeWorkbook(wb Workbook, opts OptionSet) (*Description, error) {
	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, newError(SheetNotFound, CodeNoSheets, nil)
	}
	selected, err := selectSheet(wb, opts)
	if err != nil {
		return nil, err
	}

	d := &Description{Filename: wb.Filename(), Extension: wb.Extension()}
	for i, name := range names {
		grid, err := wb.Sheet(i)
		if err != nil {
			return nil, fmt.Errorf("describe sheet %q: %w", name, err)
		}
		sheetOpts := opts
		if i != selected {
			sheetOpts = opts.withoutOverrides()
		}
		plan := planSheet(grid, sheetOpts)
		sd := SheetDescription{
			Sheet:    SheetRef{Name: name, Index: i},
			NumRows:  min(plan.end-plan.firstRow, sheetOpts.maxRows()),
			NumCols:  len(plan.columns),
			Selected: i == selected,
		}
		for _, col := range plan.columns {
			sd.Columns = append(sd.Columns, ColumnDescription{
				Index:   col.Index,
				Letter:  ColToName(col.Index),
				Key:     col.Key,
				Format:  col.Format,
				Default: col.Default,
			})
		}
		d.Sheets = append(d.Sheets, sd)
	}
	return d, nil
}

// String returns a human-readable tree of sheets and columns.
func (d *Description) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s (%s)\n", d.Filename, d.Extension)
	for _, s := range d.Sheets {
		marker := ""
		if s.Selected {
			marker = " *"
		}
		fmt.Fprintf(&b, "  [%d] %s%s: %d rows x %d cols\n", s.Sheet.Index, s.Sheet.Name, marker, s.NumRows, s.NumCols)
		for _, c := range s.Columns {
			fmt.Fprintf(&b, "    %s %q %s", c.Letter, c.Key, c.Format)
			if c.Default != nil {
				fmt.Fprintf(&b, " default=%v", c.Default)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
