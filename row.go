// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlrun

import (
	"database/sql"
	"fmt"
)

// Row gives a row handler access to the fields of the current row, by
// position with [Row.Scan] or by column name with [Row.Get]. A Row is only
// valid for the duration of the handler invocation that received it.
type Row struct {
	rows *sql.Rows
	cols []string
	// values caches the full row once Get has scanned it. Scan and Get are
	// mutually exclusive on the same row because the driver row can only be
	// read once.
	values []any
}

// Columns returns the column names of the current result set.
func (r *Row) Columns() []string {
	return r.cols
}

// Scan reads the row into the given destinations positionally, with
// database/sql scan semantics.
func (r *Row) Scan(dest ...any) error {
	if r.values != nil {
		return fmt.Errorf("cannot scan: row already read by Get")
	}
	return r.rows.Scan(dest...)
}

// Get returns the value of the named column. The first Get reads the whole
// row, so it cannot be mixed with [Row.Scan] on the same row.
func (r *Row) Get(column string) (any, error) {
	if r.values == nil {
		ptrs := make([]any, len(r.cols))
		r.values = make([]any, len(r.cols))
		for i := range r.values {
			ptrs[i] = &r.values[i]
		}
		if err := r.rows.Scan(ptrs...); err != nil {
			return nil, err
		}
	}
	for i, name := range r.cols {
		if name == column {
			return r.values[i], nil
		}
	}
	return nil, fmt.Errorf("cannot get %q: no such column", column)
}

// reset readies the accessor for the next row of the cursor.
func (r *Row) reset() {
	r.values = nil
}
