// Package dbtest provides a scripted, in-memory db.Querier for tests.
package dbtest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobmate/jobs-service/internal/db"
)

var _ db.Querier = (*Fake)(nil)

// Call is one recorded statement.
type Call struct {
	SQL  string
	Args []any
}

// Result scripts the outcome of one call. Rows feed Query and QueryRow
// (an empty Rows makes QueryRow return pgx.ErrNoRows); Tag feeds Exec.
type Result struct {
	Rows [][]any
	Tag  string
	Err  error
}

// Fake is a db.Querier that answers each call with the next pushed Result
// and records every call in Calls. Calls past the script fail.
type Fake struct {
	mu      sync.Mutex
	results []Result
	Calls   []Call
}

// Push appends results to the script.
func (f *Fake) Push(r ...Result) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r...)
	return f
}

func (f *Fake) next(sql string, args []any) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{SQL: sql, Args: args})
	if len(f.results) == 0 {
		return Result{Err: fmt.Errorf("dbtest: unexpected call %q", sql)}
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r
}

func (f *Fake) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	r := f.next(sql, args)
	if r.Err != nil {
		return nil, r.Err
	}
	return &rows{rows: r.Rows, pos: -1}, nil
}

func (f *Fake) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	r := f.next(sql, args)
	return row{rows: r.Rows, err: r.Err}
}

func (f *Fake) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r := f.next(sql, args)
	return pgconn.NewCommandTag(r.Tag), r.Err
}

type row struct {
	rows [][]any
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(r.rows) == 0 {
		return pgx.ErrNoRows
	}
	return assign(dest, r.rows[0])
}

type rows struct {
	rows [][]any
	pos  int
}

func (r *rows) Close()                                       {}
func (r *rows) Err() error                                   { return nil }
func (r *rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rows) RawValues() [][]byte                          { return nil }
func (r *rows) Conn() *pgx.Conn                              { return nil }

func (r *rows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *rows) Scan(dest ...any) error { return assign(dest, r.rows[r.pos]) }
func (r *rows) Values() ([]any, error) { return r.rows[r.pos], nil }

// assign copies src into scan targets, allocating pointers for nullable
// columns the way pgx does.
func assign(dest, src []any) error {
	if len(dest) != len(src) {
		return fmt.Errorf("dbtest: %d scan targets for %d values", len(dest), len(src))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if src[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		sv := reflect.ValueOf(src[i])
		if dv.Kind() == reflect.Pointer {
			p := reflect.New(dv.Type().Elem())
			p.Elem().Set(sv.Convert(dv.Type().Elem()))
			dv.Set(p)
			continue
		}
		dv.Set(sv.Convert(dv.Type()))
	}
	return nil
}
