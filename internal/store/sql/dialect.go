// Package sql provides a SQL-backed store with PostgreSQL and SQLite
// dialects.
package sql

import (
	"strings"

	"github.com/taskdeck/taskdeck/internal/store/sql/queries"
)

// Dialect represents a SQL database dialect.
type Dialect string

const (
	// PostgreSQL dialect, served by the pgx stdlib driver.
	PostgreSQL Dialect = "postgres"
	// SQLite dialect, served by the modernc driver.
	SQLite Dialect = "sqlite"
)

// DialectFromDSN picks the dialect from a DSN. postgres:// and
// postgresql:// URLs select PostgreSQL; anything else is treated as a
// SQLite path.
func DialectFromDSN(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return PostgreSQL
	}
	return SQLite
}

// defaultTablePrefix is the prefix used in the embedded SQL files.
const defaultTablePrefix = "taskdeck_"

// dialectQueries bundles the parsed statements with per-dialect
// behavior the store code needs to branch on.
type dialectQueries struct {
	*queries.Queries

	// driverName is the database/sql driver to open.
	driverName string

	// insertReturnsID is true when inserts use RETURNING id and must be
	// run through QueryRow instead of Exec + LastInsertId.
	insertReturnsID bool
}

// getDialectQueries loads the statements for a dialect and applies a
// custom table prefix.
func getDialectQueries(d Dialect, tablePrefix string) (*dialectQueries, error) {
	var (
		q   *queries.Queries
		err error
		dq  *dialectQueries
	)

	switch d {
	case SQLite:
		q, err = queries.LoadSQLite()
		dq = &dialectQueries{driverName: "sqlite", insertReturnsID: false}
	default:
		q, err = queries.LoadPostgres()
		dq = &dialectQueries{driverName: "pgx", insertReturnsID: true}
	}
	if err != nil {
		return nil, err
	}

	if tablePrefix != "" && tablePrefix != defaultTablePrefix {
		q = applyTablePrefix(q, tablePrefix)
	}
	dq.Queries = q

	return dq, nil
}

// applyTablePrefix replaces the default table prefix in all statements.
func applyTablePrefix(q *queries.Queries, prefix string) *queries.Queries {
	replace := func(s string) string {
		return strings.ReplaceAll(s, defaultTablePrefix, prefix)
	}

	return &queries.Queries{
		Schema: replace(q.Schema),

		InsertUser:        replace(q.InsertUser),
		SelectUserByID:    replace(q.SelectUserByID),
		SelectUserByEmail: replace(q.SelectUserByEmail),

		InsertTask:          replace(q.InsertTask),
		SelectTask:          replace(q.SelectTask),
		SelectTaskForUpdate: replace(q.SelectTaskForUpdate),
		SelectTasksByOwner:  replace(q.SelectTasksByOwner),
		UpdateTask:          replace(q.UpdateTask),
		DeleteTask:          replace(q.DeleteTask),
	}
}
