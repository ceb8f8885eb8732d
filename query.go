package finance

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// queryEnv is what a query expression sees of a transaction.
type queryEnv struct {
	Type        string    `expr:"type"`
	Description string    `expr:"description"`
	Amount      float64   `expr:"amount"`
	Category    string    `expr:"category"`
	Date        time.Time `expr:"date"`
	Day         string    `expr:"day"` // YYYY-MM-DD
}

// Query is a compiled boolean expression over a transaction, like
//
//	category == "food" && amount > 20
//	type == "income" || description contains "refund"
//	day >= "2025-09-01"
type Query struct {
	src     string
	program *vm.Program
}

// CompileQuery compiles a query expression. The expression must evaluate to a
// boolean.
func CompileQuery(src string) (*Query, error) {
	program, err := expr.Compile(src, expr.Env(queryEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", src, err)
	}
	return &Query{src: src, program: program}, nil
}

// String returns the source of the query.
func (q *Query) String() string { return q.src }

// Match reports whether tx satisfies the query. Evaluation errors count as no
// match.
func (q *Query) Match(tx Transaction) bool {
	env := queryEnv{
		Type:        string(tx.Type),
		Description: tx.Description,
		Amount:      tx.Amount.Float(),
		Category:    tx.Category,
		Date:        tx.Date,
		Day:         tx.Day().String(),
	}
	out, err := expr.Run(q.program, env)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}
