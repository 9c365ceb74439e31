package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/taskdeck/taskdeck/internal/store"
)

// Config configures the SQL store.
type Config struct {
	// DSN is the database connection string. postgres:// and
	// postgresql:// URLs select the PostgreSQL dialect; anything else is
	// treated as a SQLite database path.
	DSN string

	// TablePrefix overrides the default "taskdeck_" table prefix.
	TablePrefix string

	// Connection pool settings. Zero values keep database/sql defaults.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store is a database/sql implementation of store.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	q       *dialectQueries
}

var _ store.Store = (*Store)(nil)

// New opens a database connection for the dialect implied by the DSN.
// It does not create the schema; call Migrate for that.
func New(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("sql: DSN is required")
	}

	dialect := DialectFromDSN(cfg.DSN)

	q, err := getDialectQueries(dialect, cfg.TablePrefix)
	if err != nil {
		return nil, fmt.Errorf("sql: load queries: %w", err)
	}

	dsn := cfg.DSN
	if dialect == SQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(q.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql: open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Store{db: db, dialect: dialect, q: q}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(s.q.Schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sql: migrate: %w", err)
		}
	}
	return nil
}

// CreateUser persists a new user and assigns its ID. Duplicate emails
// are detected by the unique constraint, so concurrent registrations
// resolve to exactly one winner.
func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.CreatedAt = user.CreatedAt.Truncate(time.Millisecond)

	args := []any{user.Email, user.FullName, user.PasswordHash, toMillis(user.CreatedAt)}

	if s.q.insertReturnsID {
		err := s.db.QueryRowContext(ctx, s.q.InsertUser, args...).Scan(&user.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrEmailTaken
			}
			return fmt.Errorf("sql: insert user: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, s.q.InsertUser, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailTaken
		}
		return fmt.Errorf("sql: insert user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sql: insert user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, s.q.SelectUserByID, id))
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, s.q.SelectUserByEmail, email))
}

// CreateTask persists a new task and assigns its ID.
func (s *Store) CreateTask(ctx context.Context, task *store.Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	task.CreatedAt = task.CreatedAt.Truncate(time.Millisecond)
	task.UpdatedAt = task.CreatedAt
	if task.DueDate != nil {
		due := task.DueDate.UTC().Truncate(time.Millisecond)
		task.DueDate = &due
	}

	args := []any{
		task.UserID, task.Title, task.Description, task.Priority, task.Status,
		nullableMillis(task.DueDate), toMillis(task.CreatedAt), toMillis(task.UpdatedAt),
	}

	if s.q.insertReturnsID {
		if err := s.db.QueryRowContext(ctx, s.q.InsertTask, args...).Scan(&task.ID); err != nil {
			return fmt.Errorf("sql: insert task: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, s.q.InsertTask, args...)
	if err != nil {
		return fmt.Errorf("sql: insert task: %w", err)
	}
	task.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sql: insert task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID, scoped to the owner.
func (s *Store) GetTask(ctx context.Context, id, ownerID int64) (*store.Task, error) {
	return scanTask(s.db.QueryRowContext(ctx, s.q.SelectTask, id, ownerID))
}

// ListTasks returns the owner's tasks in insertion order.
func (s *Store) ListTasks(ctx context.Context, ownerID int64) ([]*store.Task, error) {
	rows, err := s.db.QueryContext(ctx, s.q.SelectTasksByOwner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sql: list tasks: %w", err)
	}
	defer rows.Close()

	result := make([]*store.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sql: list tasks: %w", err)
	}
	return result, nil
}

// UpdateTask applies a partial update to the owner's task inside a
// transaction, so the read-patch-write is atomic with respect to
// concurrent updates of the same row.
func (s *Store) UpdateTask(ctx context.Context, id, ownerID int64, patch store.TaskPatch) (*store.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sql: update task: %w", err)
	}
	defer tx.Rollback()

	task, err := scanTask(tx.QueryRowContext(ctx, s.q.SelectTaskForUpdate, id, ownerID))
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	patch.Apply(task)
	task.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if task.DueDate != nil {
		due := task.DueDate.UTC().Truncate(time.Millisecond)
		task.DueDate = &due
	}

	_, err = tx.ExecContext(ctx, s.q.UpdateTask,
		task.Title, task.Description, task.Priority, task.Status,
		nullableMillis(task.DueDate), toMillis(task.UpdatedAt),
		id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sql: update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sql: update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes the owner's task.
func (s *Store) DeleteTask(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q.DeleteTask, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("sql: delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sql: delete task: %w", err)
	}
	return n > 0, nil
}

// isUniqueViolation reports whether err is a unique-constraint
// violation in either dialect.
func isUniqueViolation(err error) bool {
	return isPostgresUniqueViolation(err) || isSQLiteUniqueViolation(err)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*store.User, error) {
	var (
		u       store.User
		created int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sql: scan user: %w", err)
	}
	u.CreatedAt = fromMillis(created)
	return &u, nil
}

func scanTask(row scanner) (*store.Task, error) {
	var (
		t                store.Task
		due              sql.NullInt64
		created, updated int64
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority,
		&t.Status, &due, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sql: scan task: %w", err)
	}
	if due.Valid {
		d := fromMillis(due.Int64)
		t.DueDate = &d
	}
	t.CreatedAt = fromMillis(created)
	t.UpdatedAt = fromMillis(updated)
	return &t, nil
}

// Timestamps are stored as unix milliseconds in both dialects so the
// scan path is identical.

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func nullableMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

// sqliteDSN appends the pragmas the store relies on, unless the caller
// already supplied query options.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
