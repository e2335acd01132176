// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlrun

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

type commandKind int

const (
	textCommand commandKind = iota
	procedureCommand
)

// Command accumulates a statement, parameters and execution options, then
// runs exactly one terminal method. It is intended for single-threaded,
// single-use construction and execution; a second terminal call returns
// [ErrCommandDone].
type Command struct {
	db        *DB
	kind      commandKind
	statement string
	params    []*Param
	inTX      bool
	txopts    *TXOptions
	// err records a builder mistake and is surfaced by the terminal call.
	err error
	// done flips on the first terminal call.
	done int32
}

func newCommand(db *DB, kind commandKind, statement string, sizeHint []int) *Command {
	hint := 0
	if len(sizeHint) > 0 {
		hint = sizeHint[0]
	}
	return &Command{
		db:        db,
		kind:      kind,
		statement: statement,
		params:    make([]*Param, 0, hint),
	}
}

// Param appends a fully specified parameter.
func (c *Command) Param(p *Param) *Command {
	if p == nil {
		c.fail(fmt.Errorf("cannot add parameter: nil parameter"))
		return c
	}
	c.params = append(c.params, p)
	return c
}

// Bind appends an input parameter built from a name and value, normalizing
// nil values to a database NULL. It is shorthand for Param(In(name, value)).
func (c *Command) Bind(name string, value any) *Command {
	return c.Param(In(name, value))
}

// BindAll appends every given parameter in order.
func (c *Command) BindAll(ps ...*Param) *Command {
	for _, p := range ps {
		c.Param(p)
	}
	return c
}

// Out appends an output parameter and returns its handle. The scratch
// destination the database assigns into takes the dynamic type of sample; a
// nil sample accepts any value. The optional size is a declared size hint
// for drivers that require one. Read the assigned value from the handle
// with [Param.Value] once the command has executed.
func (c *Command) Out(name string, sample any, size ...int) *Param {
	n := 0
	if len(size) > 0 {
		n = size[0]
	}
	p, err := outParam(name, sample, n)
	if err != nil {
		c.fail(err)
		return &Param{name: name, out: true}
	}
	c.params = append(c.params, p)
	return p
}

// Transactional wraps the terminal call in a transaction on the command's
// connection. The transaction commits if the body succeeds and is rolled
// back before the error propagates if any step fails.
func (c *Command) Transactional(opts ...*TXOptions) *Command {
	c.inTX = true
	if len(opts) > 0 {
		c.txopts = opts[0]
	}
	return c
}

func (c *Command) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// render returns the SQL handed to the driver and the bind arguments in
// insertion order. Text statements pass through verbatim; procedure calls
// are rendered with one placeholder per parameter in the factory's
// placeholder style.
func (c *Command) render() (string, []any) {
	args := make([]any, len(c.params))
	for i, p := range c.params {
		args[i] = p.bindArg()
	}
	if c.kind == textCommand {
		return c.statement, args
	}
	var b strings.Builder
	b.WriteString("CALL ")
	b.WriteString(c.statement)
	b.WriteByte('(')
	for i := range c.params {
		if i > 0 {
			b.WriteString(", ")
		}
		if c.db.style == Dollar {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(i + 1))
		} else {
			b.WriteByte('?')
		}
	}
	b.WriteByte(')')
	return b.String(), args
}

// runner is the slice of database/sql shared by *sql.Conn and *sql.Tx that
// terminal bodies run against.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ runner = (*sql.Conn)(nil)
	_ runner = (*sql.Tx)(nil)
)

// execute is the single execution protocol behind every terminal method:
// acquire a dedicated connection from the pool, optionally begin a
// transaction, run the body, and release everything on every exit path in
// reverse order of acquisition. On a body failure inside a transaction the
// rollback runs first and the original error propagates; a rollback failure
// is discarded.
func (c *Command) execute(ctx context.Context, body func(ctx context.Context, r runner) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.err != nil {
		return c.err
	}
	if !atomic.CompareAndSwapInt32(&c.done, 0, 1) {
		return ErrCommandDone
	}

	conn, err := c.db.sqldb.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); err == nil {
			err = cerr
		}
	}()

	if !c.inTX {
		return body(ctx, conn)
	}

	tx, err := conn.BeginTx(ctx, c.txopts.plainTXOptions())
	if err != nil {
		return err
	}
	// Runs on every exit path, including a panic in the caller's handler.
	// After a successful commit it returns ErrTxDone, which is discarded
	// along with any other rollback failure; the triggering error alone
	// propagates.
	defer tx.Rollback()
	if err := body(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Run executes the command and discards any results.
func (c *Command) Run(ctx context.Context) error {
	return c.execute(ctx, func(ctx context.Context, r runner) error {
		query, args := c.render()
		_, err := r.ExecContext(ctx, query, args...)
		return err
	})
}
