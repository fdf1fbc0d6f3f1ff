package sheetjson

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// rowFilter keeps rows for which a boolean expression holds. Row values
// are visible by key and through the "row" map for keys that are not
// identifiers, e.g. row["First name"] == "Ada".
type rowFilter struct {
	source  string
	program *vm.Program
}

// compileFilter compiles expression. An empty expression yields a nil filter.
func compileFilter(expression string) (*rowFilter, error) {
	if expression == "" {
		return nil, nil
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, newError(InvalidOption, CodeInvalidFilter, fmt.Errorf("compile filter %q: %w", expression, err))
	}
	return &rowFilter{source: expression, program: program}, nil
}

// Match evaluates the filter against row. Evaluation errors and non-boolean
// results count as a mismatch.
func (f *rowFilter) Match(row Row) (bool, error) {
	if f == nil {
		return true, nil
	}
	env := row.Map()
	env["row"] = row.Map()
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.source, err)
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q evaluated to %T, expected bool", f.source, result)
	}
	return b, nil
}

// ValidateFilter reports whether expression compiles.
func ValidateFilter(expression string) error {
	_, err := compileFilter(expression)
	return err
}
