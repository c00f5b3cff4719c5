// Package sqlgen composes the variable parts of parameterized Postgres
// statements: WHERE clauses from optional predicates and SET clauses from
// partial updates.
//
// Placeholders are 1-based ($1, $2, ...) and always numbered in the order
// their arguments are appended, so a Clause's SQL and Args can be handed to
// pgx as-is. Every function in this package is pure and safe for
// concurrent use.
package sqlgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrEmptyPayload is returned by Set when there is nothing to assign.
var ErrEmptyPayload = errors.New("no fields to update")

// UnknownFieldError reports an update field with no known column.
type UnknownFieldError struct{ Field string }

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// Placeholder returns the positional parameter marker for index n.
func Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// Clause is a rendered SQL fragment and the arguments its placeholders
// refer to, in placeholder order.
type Clause struct {
	SQL  string
	Args []any
}

// Next returns the index the next placeholder after this clause must use.
func (c Clause) Next() int { return len(c.Args) + 1 }

// Empty reports whether the clause renders to nothing.
func (c Clause) Empty() bool { return c.SQL == "" }

// Where accumulates AND-joined predicates. The zero value is ready to use.
type Where struct {
	parts []string
	args  []any
}

// Bind appends "expr $n" and records v as the value for $n.
func (w *Where) Bind(expr string, v any) {
	w.args = append(w.args, v)
	w.parts = append(w.parts, expr+" "+Placeholder(len(w.args)))
}

// Literal appends a predicate that carries no bound value.
func (w *Where) Literal(pred string) {
	w.parts = append(w.parts, pred)
}

// Clause renders "WHERE p1 AND p2 ..." or an empty Clause when no
// predicate was added.
func (w *Where) Clause() Clause {
	if len(w.parts) == 0 {
		return Clause{}
	}
	return Clause{
		SQL:  "WHERE " + strings.Join(w.parts, " AND "),
		Args: w.args,
	}
}

// Assignment is one field of a partial update.
type Assignment struct {
	Field string
	Value any
}

// Columns maps logical field names to physical column names. An empty
// column name means the column is named after the field. Fields missing
// from the map are rejected.
type Columns map[string]string

// Column resolves field to its physical column.
func (c Columns) Column(field string) (string, bool) {
	col, ok := c[field]
	if !ok {
		return "", false
	}
	if col == "" {
		return field, true
	}
	return col, true
}

// Set compiles assignments into the body of a SET clause,
// `"col_a" = $1, "col_b" = $2`, emitting them in slice order.
// The row key of the enclosing UPDATE goes at Clause.Next().
func Set(assignments []Assignment, columns Columns) (Clause, error) {
	if len(assignments) == 0 {
		return Clause{}, ErrEmptyPayload
	}

	parts := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments))
	for _, a := range assignments {
		col, ok := columns.Column(a.Field)
		if !ok {
			return Clause{}, &UnknownFieldError{Field: a.Field}
		}
		args = append(args, a.Value)
		parts = append(parts, pgx.Identifier{col}.Sanitize()+" = "+Placeholder(len(args)))
	}

	return Clause{SQL: strings.Join(parts, ", "), Args: args}, nil
}
