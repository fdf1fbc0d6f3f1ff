package sheetjson

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Conversion will fail
	SeverityWarning                 // Conversion may produce unexpected results
)

// ValidationIssue is a single problem found in an OptionSet.
type ValidationIssue struct {
	Severity Severity
	Field    string // option the issue refers to, e.g. "filter" or "columns[3]"
	Message  string
}

// String formats the issue as "[ERROR] filter: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Field, v.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []ValidationIssue) bool {
	return slices.ContainsFunc(issues, func(v ValidationIssue) bool { return v.Severity == SeverityError })
}

// ValidateOptions checks opts without opening the source.
func ValidateOptions(opts OptionSet) []ValidationIssue {
	var issues []ValidationIssue
	if strings.TrimSpace(opts.Path) == "" {
		issues = append(issues, ValidationIssue{SeverityError, "path", "no source path specified"})
	}
	if opts.SheetIndex > 0 && opts.SheetName != "" {
		issues = append(issues, ValidationIssue{SeverityWarning, "sheet",
			fmt.Sprintf("sheet index %d overrides sheet name %q", opts.SheetIndex, opts.SheetName)})
	}
	if opts.HeaderRow < 0 {
		issues = append(issues, ValidationIssue{SeverityError, "header_row", fmt.Sprintf("negative header row %d", opts.HeaderRow)})
	}
	if opts.MaxRows < 0 {
		issues = append(issues, ValidationIssue{SeverityError, "max_rows", fmt.Sprintf("negative row cap %d", opts.MaxRows)})
	}
	if opts.Filter != "" {
		if _, err := expr.Compile(opts.Filter, expr.AllowUndefinedVariables()); err != nil {
			issues = append(issues, ValidationIssue{SeverityError, "filter",
				fmt.Sprintf("invalid filter expression %q: %v", opts.Filter, err)})
		}
	}
	if opts.Encoding != "" {
		if _, err := decodeText(strings.NewReader(""), opts.Encoding); err != nil {
			issues = append(issues, ValidationIssue{SeverityError, "encoding", err.Error()})
		}
	}
	issues = append(issues, validateHeaders(opts.Headers)...)
	issues = append(issues, validateColumns(opts)...)
	return issues
}

func validateHeaders(headers []string) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if j, ok := seen[h]; ok {
			issues = append(issues, ValidationIssue{SeverityWarning, fmt.Sprintf("headers[%d]", i),
				fmt.Sprintf("duplicate header %q (also at %d) will be suffixed", h, j)})
			continue
		}
		seen[h] = i
	}
	return issues
}

func validateColumns(opts OptionSet) []ValidationIssue {
	var issues []ValidationIssue
	indexes := make([]int, 0, len(opts.Columns))
	for i := range opts.Columns {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)
	for _, i := range indexes {
		field := fmt.Sprintf("columns[%d]", i)
		if i < 0 {
			issues = append(issues, ValidationIssue{SeverityError, field, "negative column index"})
			continue
		}
		issues = append(issues, validateSpec(field, opts.Columns[i])...)
	}
	keys := make([]string, 0, len(opts.ColumnsByKey))
	for k := range opts.ColumnsByKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		issues = append(issues, validateSpec(fmt.Sprintf("columns[%q]", k), opts.ColumnsByKey[k])...)
	}
	return issues
}

func validateSpec(field string, spec ColumnSpec) []ValidationIssue {
	var issues []ValidationIssue
	f := spec.Format
	switch f.Kind {
	case FormatDecimal:
		if f.Places < 1 || f.Places > MaxDecimalPlaces {
			issues = append(issues, ValidationIssue{SeverityError, field,
				fmt.Sprintf("decimal places %d outside 1..%d", f.Places, MaxDecimalPlaces)})
		}
	case FormatTruthyCustom:
		if strings.TrimSpace(f.TrueLabel) == "" || strings.TrimSpace(f.FalseLabel) == "" {
			issues = append(issues, ValidationIssue{SeverityError, field, "truthy labels must not be empty"})
		} else if strings.EqualFold(strings.TrimSpace(f.TrueLabel), strings.TrimSpace(f.FalseLabel)) {
			issues = append(issues, ValidationIssue{SeverityError, field,
				fmt.Sprintf("truthy labels %q and %q are identical", f.TrueLabel, f.FalseLabel)})
		}
	}
	switch spec.Default.(type) {
	case nil, string, bool, int, int64, float64:
	default:
		issues = append(issues, ValidationIssue{SeverityWarning, field,
			fmt.Sprintf("default of type %T is not a JSON scalar", spec.Default)})
	}
	return issues
}

// Validate opens the source and checks opts against it: the selected sheet
// must exist, the header row must be in range and key overrides must match
// a resolved key. A non-nil error means the source could not be opened.
func Validate(path string, opts ...Option) ([]ValidationIssue, error) {
	o := NewOptionSet(path, opts...)
	issues := ValidateOptions(o)
	if HasErrors(issues) {
		return issues, nil
	}
	wb, err := Open(o)
	if err != nil {
		return issues, err
	}
	if c, ok := wb.(io.Closer); ok {
		defer c.Close()
	}
	return append(issues, validateAgainst(wb, o)...), nil
}

func validateAgainst(wb Workbook, opts OptionSet) []ValidationIssue {
	var issues []ValidationIssue
	idx, err := selectSheet(wb, opts)
	if err == nil && len(wb.SheetNames()) == 0 {
		err = newError(SheetNotFound, CodeNoSheets, nil)
	}
	if err != nil {
		var e *Error
		code := CodeSheetNotFound
		if errors.As(err, &e) {
			code = e.Code
		}
		return append(issues, ValidationIssue{SeverityError, "sheet", code})
	}
	grid, err := wb.Sheet(idx)
	if err != nil {
		return append(issues, ValidationIssue{SeverityError, "sheet", err.Error()})
	}
	if !opts.OmitHeader && opts.HeaderRow >= grid.NumRows() {
		issues = append(issues, ValidationIssue{SeverityError, "header_row",
			fmt.Sprintf("header row %d beyond last row %d", opts.HeaderRow, grid.NumRows()-1)})
	}
	plan := planSheet(grid, opts)
	for i := range opts.Columns {
		if i >= len(plan.keys) {
			issues = append(issues, ValidationIssue{SeverityWarning, fmt.Sprintf("columns[%d]", i),
				fmt.Sprintf("sheet has only %d columns", len(plan.keys))})
		}
	}
	for k := range opts.ColumnsByKey {
		if !slices.Contains(plan.matchKeys, k) {
			issues = append(issues, ValidationIssue{SeverityWarning, fmt.Sprintf("columns[%q]", k),
				"key does not match any resolved column"})
		}
	}
	return issues
}
