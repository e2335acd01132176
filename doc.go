/*
Package sqlrun is a thin fluent layer for running parameterized SQL commands
on top of database/sql and mapping their results to application values.

It does not parse SQL, pool connections, translate dialects or map entities.
Every interesting behaviour belongs to database/sql and the driver; sqlrun is
the glue that builds a command, acquires a connection for the duration of one
call, optionally wraps the call in a transaction, and streams rows into
caller-supplied functions.

# Basics

A [DB] wraps an open *sql.DB and manufactures commands for either a literal
text statement or a stored procedure invocation:

	db := sqlrun.NewDB(sqldb)

	err := db.Text("INSERT INTO team (name, size) VALUES (?, ?)").
		Bind("name", "engineering").
		Bind("size", 12).
		Run(ctx)

Parameters bind positionally in the order they were added; the name is kept
for output parameter handles and error messages. A nil value always binds a
database NULL, including typed nil pointers.

# Reading rows

Terminal methods hand each row to a caller function as a [Row], valid only
for that invocation:

	var names []string
	err := db.Text("SELECT name FROM team ORDER BY name").
		All(ctx, func(r *sqlrun.Row) error {
			var name string
			if err := r.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
			return nil
		})

The generic package functions [One], [All] and [Dict] apply a mapping
function instead:

	names, err := sqlrun.All(ctx, db.Text("SELECT name FROM team"),
		func(r *sqlrun.Row) (string, error) {
			var name string
			err := r.Scan(&name)
			return name, err
		})

[One] returns [ErrNoRows] if and only if the statement yields no rows.
[Dict] builds a map and fails on duplicate keys rather than overwriting.
[Command.AllSets] walks every result set the statement produces, passing the
zero-based result set index alongside each row.

# Transactions

[Command.Transactional] wraps the terminal call in a transaction on the
command's private connection. The transaction commits when the body
succeeds; on any failure it is rolled back before the original error is
returned to the caller.

A command is single use: the first terminal call consumes it and any further
terminal call returns [ErrCommandDone].
*/
package sqlrun
