package sheetjson

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode"
)

// Process reads the source named by opts.Path and returns its rows.
// Deferred mode needs a sink; use ProcessDeferred.
func Process(ctx context.Context, opts OptionSet) (*ResultSet, error) {
	if opts.ReadMode == ReadDeferred {
		return nil, newError(InvalidOption, CodeMissingSink, errors.New("deferred mode requires a row sink"))
	}
	return process(ctx, opts, nil, nil)
}

// ProcessDeferred reads the source named by opts.Path and hands every row to
// sink instead of accumulating it. outRef is reported as the result's out_ref.
func ProcessDeferred(ctx context.Context, opts OptionSet, sink RowSink, outRef *string) (*ResultSet, error) {
	if sink == nil {
		return nil, newError(InvalidOption, CodeMissingSink, errors.New("deferred mode requires a row sink"))
	}
	opts.ReadMode = ReadDeferred
	return process(ctx, opts, sink, outRef)
}

func process(ctx context.Context, opts OptionSet, sink RowSink, outRef *string) (*ResultSet, error) {
	filter, err := compileFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	wb, err := Open(opts)
	if err != nil {
		return nil, err
	}
	if c, ok := wb.(io.Closer); ok {
		defer c.Close()
	}
	return processWorkbook(ctx, wb, opts, filter, sink, outRef)
}

// ProcessWorkbook processes an already decoded workbook. sink is required in
// deferred mode and ignored otherwise.
func ProcessWorkbook(ctx context.Context, wb Workbook, opts OptionSet, sink RowSink, outRef *string) (*ResultSet, error) {
	if opts.ReadMode == ReadDeferred && sink == nil {
		return nil, newError(InvalidOption, CodeMissingSink, errors.New("deferred mode requires a row sink"))
	}
	filter, err := compileFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	return processWorkbook(ctx, wb, opts, filter, sink, outRef)
}

func processWorkbook(ctx context.Context, wb Workbook, opts OptionSet, filter *rowFilter, sink RowSink, outRef *string) (*ResultSet, error) {
	log := opts.logger()
	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, newError(SheetNotFound, CodeNoSheets, nil)
	}
	rs := &ResultSet{
		Filename:  wb.Filename(),
		Extension: wb.Extension(),
		Sheets:    names,
		Data:      []Row{},
		OutRef:    outRef,
	}
	if opts.ReadMode == ReadPreview {
		return previewSheets(ctx, wb, opts, filter, rs)
	}

	idx, err := selectSheet(wb, opts)
	if err != nil {
		return nil, err
	}
	grid, err := wb.Sheet(idx)
	if err != nil {
		return nil, err
	}
	plan := planSheet(grid, opts)
	rs.Sheet = SheetRef{Name: names[idx], Index: idx}
	rs.Keys = plan.keys
	log.Debug("sheet selected", "sheet", names[idx], "index", idx, "keys", len(plan.keys), "rows", grid.NumRows())

	emit := func(row Row) error {
		rs.Data = append(rs.Data, row)
		return nil
	}
	if opts.ReadMode == ReadDeferred {
		emit = func(row Row) error {
			if err := sink(ctx, row); err != nil {
				return newError(CallbackFailed, CodeCallbackFailed, err)
			}
			return nil
		}
	}

	n, err := streamRows(ctx, grid, plan, filter, opts.maxRows(), log, emit)
	rs.NumRows = n
	if err != nil {
		log.Debug("row stream stopped", "sheet", names[idx], "rows", n, "error", err)
		return rs, err
	}
	log.Debug("sheet processed", "sheet", names[idx], "rows", n)
	return rs, nil
}

// previewSheets reads every worksheet, each capped at the row limit. Column
// overrides apply to the first worksheet only.
func previewSheets(ctx context.Context, wb Workbook, opts OptionSet, filter *rowFilter, rs *ResultSet) (*ResultSet, error) {
	log := opts.logger()
	for i, name := range rs.Sheets {
		grid, err := wb.Sheet(i)
		if err != nil {
			return nil, err
		}
		sheetOpts := opts
		if i > 0 {
			sheetOpts = opts.withoutOverrides()
		}
		plan := planSheet(grid, sheetOpts)
		group := SheetGroup{Sheet: SheetRef{Name: name, Index: i}, Keys: plan.keys, Offset: len(rs.Data)}
		n, err := streamRows(ctx, grid, plan, filter, opts.maxRows(), log, func(row Row) error {
			rs.Data = append(rs.Data, row)
			return nil
		})
		group.NumRows = n
		rs.Groups = append(rs.Groups, group)
		rs.NumRows += n
		if i == 0 {
			rs.Sheet = group.Sheet
			rs.Keys = plan.keys
		}
		if err != nil {
			return rs, err
		}
		log.Debug("sheet previewed", "sheet", name, "rows", n)
	}
	return rs, nil
}

// selectSheet picks the worksheet: a positive index, then a name, then the first.
func selectSheet(wb Workbook, opts OptionSet) (int, error) {
	names := wb.SheetNames()
	if isFlat(wb) {
		return 0, nil
	}
	if opts.SheetIndex > 0 {
		if opts.SheetIndex >= len(names) {
			return 0, newError(SheetNotFound, CodeSheetNotFound, nil)
		}
		return opts.SheetIndex, nil
	}
	if opts.SheetName != "" {
		want := sheetKey(opts.SheetName)
		for i, name := range names {
			if sheetKey(name) == want {
				return i, nil
			}
		}
		return 0, newError(SheetNotFound, CodeSheetNotFound, nil)
	}
	return 0, nil
}

// sheetKey lowercases name and drops everything but letters and digits.
func sheetKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
