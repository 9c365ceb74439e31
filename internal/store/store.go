// Package store defines the storage contract for users and tasks.
package store

import (
	"context"
	"errors"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrEmailTaken indicates a user with the same email already exists.
	// Implementations must return it both from the pre-insert check and
	// from a unique-constraint violation, so concurrent registrations
	// resolve to exactly one winner.
	ErrEmailTaken = errors.New("email already registered")
)

// Store is the persistence interface for users and tasks.
// All methods must be safe for concurrent use.
//
// Task reads and writes are owner-scoped: every method taking an
// ownerID matches rows on both id and owner, so a missing task and a
// task owned by someone else are indistinguishable to the caller. Both
// cases surface as a nil result with a nil error.
type Store interface {
	// Close releases any resources held by the store.
	Close() error

	// Ping verifies the store connection is alive.
	Ping(ctx context.Context) error

	// Migrate creates or updates the schema.
	Migrate(ctx context.Context) error

	// CreateUser persists a new user and assigns its ID.
	// Returns ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByID retrieves a user by ID. Returns (nil, nil) if absent.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) if absent.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// CreateTask persists a new task and assigns its ID. The task's
	// UserID must already be set to the owner.
	CreateTask(ctx context.Context, task *Task) error

	// GetTask retrieves a task by ID, scoped to the owner.
	// Returns (nil, nil) when no task matches both id and owner.
	GetTask(ctx context.Context, id, ownerID int64) (*Task, error)

	// ListTasks returns all tasks owned by ownerID in insertion order.
	// Returns an empty slice when there are none.
	ListTasks(ctx context.Context, ownerID int64) ([]*Task, error)

	// UpdateTask applies a partial update to the owner's task and
	// returns the updated row. Fields absent from the patch are left
	// untouched. Returns (nil, nil) when no task matches both id and
	// owner.
	UpdateTask(ctx context.Context, id, ownerID int64, patch TaskPatch) (*Task, error)

	// DeleteTask removes the owner's task. Returns false when no task
	// matches both id and owner.
	DeleteTask(ctx context.Context, id, ownerID int64) (bool, error)
}
