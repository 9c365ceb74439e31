// Package queries embeds the SQL query files for the SQL store.
package queries

import (
	"embed"
	"strings"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// Queries holds parsed SQL statements by name.
type Queries struct {
	Schema string

	InsertUser        string
	SelectUserByID    string
	SelectUserByEmail string

	InsertTask          string
	SelectTask          string
	SelectTaskForUpdate string
	SelectTasksByOwner  string
	UpdateTask          string
	DeleteTask          string
}

// LoadPostgres loads the PostgreSQL queries from the embedded files.
func LoadPostgres() (*Queries, error) {
	return load(postgresFS, "postgres")
}

// LoadSQLite loads the SQLite queries from the embedded files.
func LoadSQLite() (*Queries, error) {
	return load(sqliteFS, "sqlite")
}

func load(fs embed.FS, dir string) (*Queries, error) {
	q := &Queries{}

	schema, err := fs.ReadFile(dir + "/schema.sql")
	if err != nil {
		return nil, err
	}
	q.Schema = string(schema)

	users, err := fs.ReadFile(dir + "/users.sql")
	if err != nil {
		return nil, err
	}
	parsed := parseNamedQueries(string(users))
	q.InsertUser = parsed["InsertUser"]
	q.SelectUserByID = parsed["SelectUserByID"]
	q.SelectUserByEmail = parsed["SelectUserByEmail"]

	tasks, err := fs.ReadFile(dir + "/tasks.sql")
	if err != nil {
		return nil, err
	}
	parsed = parseNamedQueries(string(tasks))
	q.InsertTask = parsed["InsertTask"]
	q.SelectTask = parsed["SelectTask"]
	q.SelectTaskForUpdate = parsed["SelectTaskForUpdate"]
	q.SelectTasksByOwner = parsed["SelectTasksByOwner"]
	q.UpdateTask = parsed["UpdateTask"]
	q.DeleteTask = parsed["DeleteTask"]

	return q, nil
}

// parseNamedQueries parses SQL content with -- name: comments.
func parseNamedQueries(content string) map[string]string {
	result := make(map[string]string)

	for _, part := range strings.Split(content, "-- name:") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lines := strings.SplitN(part, "\n", 2)
		if len(lines) < 2 {
			continue
		}

		name := strings.TrimSpace(lines[0])
		query := strings.TrimSpace(lines[1])
		if name != "" && query != "" {
			result[name] = query
		}
	}

	return result
}
