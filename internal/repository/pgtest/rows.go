// Package pgtest provides pgx test doubles and a disposable Postgres for repository tests.
package pgtest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Rows is an in-memory pgx.Rows. Each row holds values in column order; nil is SQL NULL.
type Rows struct {
	data   [][]any
	err    error
	idx    int
	closed bool
}

var _ pgx.Rows = (*Rows)(nil)

// NewRows creates rows over data.
func NewRows(data ...[]any) *Rows {
	return &Rows{data: data}
}

// WithErr makes Err report err once iteration finishes.
func (r *Rows) WithErr(err error) *Rows {
	r.err = err
	return r
}

// Closed reports whether the consumer released the rows.
func (r *Rows) Closed() bool { return r.closed }

func (r *Rows) Close()                                       { r.closed = true }
func (r *Rows) Err() error                                   { return r.err }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

func (r *Rows) Next() bool {
	if r.closed || r.idx >= len(r.data) {
		r.closed = true
		return false
	}
	r.idx++
	return true
}

func (r *Rows) Values() ([]any, error) {
	if r.idx == 0 {
		return nil, fmt.Errorf("no current row")
	}
	return r.data[r.idx-1], nil
}

// Scan assigns the current row into dest. Values convert to the destination type,
// and a non-nil value fills a pointer destination.
func (r *Rows) Scan(dest ...any) error {
	if r.idx == 0 {
		return fmt.Errorf("no current row")
	}
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, v := range row {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		if err := assign(target, reflect.ValueOf(v)); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

func assign(target, val reflect.Value) error {
	if target.Kind() == reflect.Pointer {
		p := reflect.New(target.Type().Elem())
		if err := assign(p.Elem(), val); err != nil {
			return err
		}
		target.Set(p)
		return nil
	}
	switch {
	case val.Type().AssignableTo(target.Type()):
		target.Set(val)
	case val.Type().ConvertibleTo(target.Type()):
		target.Set(val.Convert(target.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", val.Type(), target.Type())
	}
	return nil
}

// Call records one Query invocation.
type Call struct {
	SQL  string
	Args []any
}

// Querier is a scripted stand-in for pgxpool.Pool.Query.
type Querier struct {
	Rows  *Rows
	Err   error
	Calls []Call
}

// Query records the call and returns the scripted rows or error.
func (q *Querier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.Calls = append(q.Calls, Call{SQL: sql, Args: args})
	if q.Err != nil {
		return nil, q.Err
	}
	if q.Rows == nil {
		return NewRows(), nil
	}
	return q.Rows, nil
}
