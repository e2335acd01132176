package sqlrun_test

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/canonical/sqlrun"
)

type Employee struct {
	ID   int
	Name string
	Team string
}

func Example() {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}

	db := sqlrun.NewDB(sqldb)
	err = db.Text(`
	CREATE TABLE person (
		id integer,
		name text,
		team text
	)`).Run(nil)
	if err != nil {
		panic(err)
	}

	// Populate the person table.
	for _, e := range []Employee{
		{1, "Alastair", "engineering"},
		{2, "Ed", "engineering"},
		{3, "Pedro", "management"},
		{4, "Ben", "legal"},
	} {
		err := db.Text("INSERT INTO person (id, name, team) VALUES (?, ?, ?)").
			Bind("id", e.ID).
			Bind("name", e.Name).
			Bind("team", e.Team).
			Run(nil)
		if err != nil {
			panic(err)
		}
	}

	// Map every row of a result set.
	engineers, err := sqlrun.All(nil, db.Text("SELECT id, name, team FROM person WHERE team = ? ORDER BY id").Bind("team", "engineering"),
		func(r *sqlrun.Row) (Employee, error) {
			var e Employee
			err := r.Scan(&e.ID, &e.Name, &e.Team)
			return e, err
		})
	if err != nil {
		panic(err)
	}
	for _, e := range engineers {
		fmt.Println(e.Name)
	}

	// Fetch at most one row.
	team, err := sqlrun.One(nil, db.Text("SELECT team FROM person WHERE name = ?").Bind("name", "Ben"),
		func(r *sqlrun.Row) (string, error) {
			var team string
			err := r.Scan(&team)
			return team, err
		})
	if err != nil {
		panic(err)
	}
	fmt.Println(team)

	// Key a result set by one of its columns.
	teams, err := sqlrun.Dict(nil, db.Text("SELECT name, team FROM person WHERE id < ?").Bind("id", 3),
		func(r *sqlrun.Row) (string, error) {
			name, err := r.Get("name")
			return name.(string), err
		},
		func(r *sqlrun.Row) (string, error) {
			team, err := r.Get("team")
			return team.(string), err
		})
	if err != nil {
		panic(err)
	}
	fmt.Println(teams["Alastair"])

	if err := sqldb.Close(); err != nil {
		panic(err)
	}

	// Output:
	// Alastair
	// Ed
	// legal
	// engineering
}
