// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlrun

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/mattn/go-sqlite3"
)

// This file contains a wrapper sql.Driver over the SQLite driver which
// counts the connections it hands out and the connections given back. Every
// terminal operation owns a private connection for the duration of one
// call, so once the pool is closed the two counts must match, on the error
// paths as much as the success ones.

var openedConns int64
var closedConns int64

type countingDriver struct {
	driver.Driver
}

type countingConn struct {
	*sqlite3.SQLiteConn
}

func (c *countingConn) Close() error {
	atomic.AddInt64(&closedConns, 1)
	return c.SQLiteConn.Close()
}

func (d *countingDriver) Open(name string) (driver.Conn, error) {
	conn, err := d.Driver.Open(name)
	if err != nil {
		return nil, err
	}
	sc, ok := conn.(*sqlite3.SQLiteConn)
	if !ok {
		panic("internal error: base driver is not SQLite")
	}
	atomic.AddInt64(&openedConns, 1)
	return &countingConn{SQLiteConn: sc}, nil
}

func init() {
	sql.Register("sqlite3_connChecked", &countingDriver{&sqlite3.SQLiteDriver{}})
}

func TestConnLeaks(t *testing.T) {
	db, err := Open("sqlite3_connChecked", ":memory:")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.Text("CREATE TABLE t (x integer, y text)").Run(nil); err != nil {
		t.Fatal(err)
	}
	if err := db.Text("INSERT INTO t VALUES (?, ?)").Bind("x", 1).Bind("y", "one").Run(nil); err != nil {
		t.Fatal(err)
	}

	// Success path.
	var got []string
	err = db.Text("SELECT y FROM t").All(nil, func(r *Row) error {
		var y string
		if err := r.Scan(&y); err != nil {
			return err
		}
		got = append(got, y)
		return nil
	})
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, err %v", got, err)
	}

	// Statement failure.
	if err := db.Text("SELECT nope FROM t").Run(nil); err == nil {
		t.Fatal("expected statement error")
	}

	// Handler failure, transactional.
	boom := errors.New("boom")
	err = db.Text("INSERT INTO t VALUES (?, ?) RETURNING x").
		Bind("x", 2).Bind("y", "two").
		Transactional().
		All(nil, func(r *Row) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}

	if err := db.PlainDB().Close(); err != nil {
		t.Fatal(err)
	}

	opened := atomic.LoadInt64(&openedConns)
	closed := atomic.LoadInt64(&closedConns)
	if opened == 0 {
		t.Fatal("no connections were opened through the counting driver")
	}
	if opened != closed {
		t.Fatalf("connection leak: opened %d, closed %d", opened, closed)
	}
}
