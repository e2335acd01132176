// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlrun

import (
	"database/sql"
	"errors"
)

// ErrNoRows is returned by single-row reads when the statement yields no
// rows.
var ErrNoRows = sql.ErrNoRows

// ErrCommandDone is returned when a terminal method is called on a
// [Command] that has already been executed.
var ErrCommandDone = errors.New("command already executed")

// ErrDuplicateKey is returned by [Dict] when two rows of the same result
// set produce the same key.
var ErrDuplicateKey = errors.New("duplicate key")

// PlaceholderStyle selects how parameter placeholders are rendered in
// statements that sqlrun generates itself, i.e. stored procedure calls.
// Literal text statements are passed to the driver verbatim.
type PlaceholderStyle int

const (
	// Question renders ?, ?, ... (MySQL, SQLite).
	Question PlaceholderStyle = iota
	// Dollar renders $1, $2, ... (PostgreSQL).
	Dollar
)

// Option configures a [DB].
type Option func(*DB)

// WithPlaceholders sets the placeholder style used when rendering stored
// procedure calls.
func WithPlaceholders(style PlaceholderStyle) Option {
	return func(db *DB) { db.style = style }
}

// DB is the session factory. It wraps a *sql.DB and manufactures commands;
// it holds no state beyond the pool reference and rendering options, and
// performs no I/O itself. Each command acquires its own connection from the
// pool for the duration of a single terminal call.
type DB struct {
	sqldb *sql.DB
	style PlaceholderStyle
}

// NewDB creates a [DB] from an open *sql.DB.
func NewDB(sqldb *sql.DB, opts ...Option) *DB {
	if sqldb == nil {
		return nil
	}
	db := &DB{sqldb: sqldb}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open opens a database via [sql.Open] and wraps it in a [DB]. The data
// source name is passed to the driver opaquely.
func Open(driverName, dataSourceName string, opts ...Option) (*DB, error) {
	sqldb, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	return NewDB(sqldb, opts...), nil
}

// PlainDB returns the underlying database object.
func (db *DB) PlainDB() *sql.DB {
	return db.sqldb
}

// Text returns a [Command] that executes the given statement verbatim.
// An optional sizeHint pre-sizes the parameter list.
func (db *DB) Text(statement string, sizeHint ...int) *Command {
	return newCommand(db, textCommand, statement, sizeHint)
}

// Procedure returns a [Command] that invokes the named stored procedure.
// The CALL statement is rendered at execution time with one placeholder per
// accumulated parameter. An optional sizeHint pre-sizes the parameter list.
func (db *DB) Procedure(name string, sizeHint ...int) *Command {
	return newCommand(db, procedureCommand, name, sizeHint)
}

// TXOptions holds the transaction options used by [Command.Transactional].
type TXOptions struct {
	// Isolation is the transaction isolation level.
	// If zero, the driver or database's default level is used.
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

func (txopts *TXOptions) plainTXOptions() *sql.TxOptions {
	if txopts == nil {
		return nil
	}
	return &sql.TxOptions{Isolation: txopts.Isolation, ReadOnly: txopts.ReadOnly}
}
