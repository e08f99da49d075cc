package pnl

import (
	"github.com/google/cel-go/cel"

	"barback/internal/core/apperror"
)

// RowFilter is a compiled boolean expression evaluated against performance
// rows, e.g. `category == "whiskey" && revenue > 100.0`. Monetary fields
// are exposed as doubles for comparison purposes only.
type RowFilter struct {
	prg cel.Program
}

// NewRowFilter compiles a filter expression. A non-boolean or malformed
// expression yields a validation error.
func NewRowFilter(expr string) (*RowFilter, error) {
	env, err := cel.NewEnv(
		cel.Variable("upc", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("revenue", cel.DoubleType),
		cel.Variable("cogs", cel.DoubleType),
		cel.Variable("grossProfit", cel.DoubleType),
		cel.Variable("grossMargin", cel.DoubleType),
		cel.Variable("unitsSold", cel.IntType),
		cel.Variable("transactions", cel.IntType),
		cel.Variable("averageSellingPrice", cel.DoubleType),
		cel.Variable("inventoryTurnover", cel.DoubleType),
	)
	if err != nil {
		return nil, err
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("filter", expr).
			WithCause(iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, apperror.NewValidation("filter expression must be boolean").
			WithDetail("filter", expr).
			WithDetail("type", ast.OutputType().String())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("filter", expr).
			WithCause(err)
	}
	return &RowFilter{prg: prg}, nil
}

// Match evaluates the filter against one row's variable bindings.
func (f *RowFilter) Match(row map[string]any) (bool, error) {
	out, _, err := f.prg.Eval(row)
	if err != nil {
		return false, apperror.NewValidation("filter evaluation failed").WithCause(err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, apperror.NewValidation("filter expression must be boolean")
	}
	return b, nil
}

func categoryRow(r CategoryPerformance) map[string]any {
	return map[string]any{
		"upc":                 "",
		"description":         "",
		"category":            r.Category,
		"revenue":             r.Revenue.InexactFloat64(),
		"cogs":                r.COGS.InexactFloat64(),
		"grossProfit":         r.GrossProfit.InexactFloat64(),
		"grossMargin":         r.GrossMargin,
		"unitsSold":           r.UnitsSold,
		"transactions":        r.Transactions,
		"averageSellingPrice": 0.0,
		"inventoryTurnover":   0.0,
	}
}

func productRow(r ProductPerformance) map[string]any {
	return map[string]any{
		"upc":                 r.UPC,
		"description":         r.Description,
		"category":            r.Category,
		"revenue":             r.Revenue.InexactFloat64(),
		"cogs":                r.COGS.InexactFloat64(),
		"grossProfit":         r.GrossProfit.InexactFloat64(),
		"grossMargin":         r.GrossMargin,
		"unitsSold":           r.UnitsSold,
		"transactions":        r.Transactions,
		"averageSellingPrice": r.AverageSellingPrice.InexactFloat64(),
		"inventoryTurnover":   r.InventoryTurnover,
	}
}
