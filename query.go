// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlrun

import (
	"context"
	"database/sql"
	"fmt"
)

// query runs the command with a cursor and hands it to body, closing the
// cursor on every exit path before the connection is released.
func (c *Command) query(ctx context.Context, body func(rows *sql.Rows) error) error {
	return c.execute(ctx, func(ctx context.Context, r runner) (err error) {
		query, args := c.render()
		rows, err := r.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rows.Close(); err == nil {
				err = cerr
			}
		}()
		return body(rows)
	})
}

// One executes the command and reads at most one row. It returns
// [ErrNoRows] if and only if the statement yields no rows; otherwise f, if
// not nil, is applied to the first row and any further rows are ignored.
func (c *Command) One(ctx context.Context, f func(*Row) error) error {
	return c.query(ctx, func(rows *sql.Rows) error {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return ErrNoRows
		}
		if f == nil {
			return nil
		}
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		return f(&Row{rows: rows, cols: cols})
	})
}

// All executes the command and hands every row of the first result set to f
// in result order.
func (c *Command) All(ctx context.Context, f func(*Row) error) error {
	return c.query(ctx, func(rows *sql.Rows) error {
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		row := &Row{rows: rows, cols: cols}
		for rows.Next() {
			row.reset()
			if err := f(row); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// AllSets executes the command and hands every row of every result set to
// f together with the zero-based index of the result set the row belongs
// to. The index increments once per result set boundary crossed, whether or
// not the result set contained any rows.
func (c *Command) AllSets(ctx context.Context, f func(row *Row, set int) error) error {
	return c.query(ctx, func(rows *sql.Rows) error {
		for set := 0; ; set++ {
			cols, err := rows.Columns()
			if err != nil {
				return err
			}
			row := &Row{rows: rows, cols: cols}
			for rows.Next() {
				row.reset()
				if err := f(row, set); err != nil {
					return err
				}
			}
			if err := rows.Err(); err != nil {
				return err
			}
			if !rows.NextResultSet() {
				return rows.Err()
			}
		}
	})
}

// One executes the command, maps its first row with f and returns the
// result. It returns [ErrNoRows] if and only if the statement yields no
// rows; any further rows are ignored.
func One[T any](ctx context.Context, c *Command, f func(*Row) (T, error)) (T, error) {
	var out T
	err := c.One(ctx, func(r *Row) error {
		var ferr error
		out, ferr = f(r)
		return ferr
	})
	return out, err
}

// All executes the command, maps every row of the first result set with f
// and returns the mapped values in result order. An empty result set
// returns a nil slice and no error.
func All[T any](ctx context.Context, c *Command, f func(*Row) (T, error)) ([]T, error) {
	var out []T
	err := c.All(ctx, func(r *Row) error {
		v, ferr := f(r)
		if ferr != nil {
			return ferr
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Dict executes the command and builds a map over the first result set,
// reading the key of each row with key and its element with elem. A key
// produced by two distinct rows is an error wrapping [ErrDuplicateKey],
// never an overwrite.
func Dict[K comparable, V any](ctx context.Context, c *Command, key func(*Row) (K, error), elem func(*Row) (V, error)) (map[K]V, error) {
	out := map[K]V{}
	err := c.All(ctx, func(r *Row) error {
		k, kerr := key(r)
		if kerr != nil {
			return kerr
		}
		if _, ok := out[k]; ok {
			return fmt.Errorf("cannot build dictionary: %w %v", ErrDuplicateKey, k)
		}
		v, verr := elem(r)
		if verr != nil {
			return verr
		}
		out[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
