// Package memory provides an in-memory store implementation for
// testing and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	users        map[int64]*store.User
	usersByEmail map[string]int64
	tasks        map[int64]*store.Task

	nextUserID int64
	nextTaskID int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[int64]*store.User),
		usersByEmail: make(map[string]int64),
		tasks:        make(map[int64]*store.Task),
	}
}

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(ctx context.Context) error { return nil }

// CreateUser persists a new user and assigns its ID.
func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return store.ErrEmailTaken
	}

	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	cp := *user
	s.users[user.ID] = &cp
	s.usersByEmail[user.Email] = user.ID
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *s.users[id]
	return &cp, nil
}

// CreateTask persists a new task and assigns its ID.
func (s *Store) CreateTask(ctx context.Context, task *store.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	task.ID = s.nextTaskID
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = task.CreatedAt

	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

// GetTask retrieves a task by ID, scoped to the owner.
func (s *Store) GetTask(ctx context.Context, id, ownerID int64) (*store.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, nil
	}
	cp := *task
	return &cp, nil
}

// ListTasks returns the owner's tasks in insertion order.
func (s *Store) ListTasks(ctx context.Context, ownerID int64) ([]*store.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*store.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == ownerID {
			cp := *task
			result = append(result, &cp)
		}
	}
	// IDs are assigned monotonically, so ID order is insertion order.
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateTask applies a partial update to the owner's task.
func (s *Store) UpdateTask(ctx context.Context, id, ownerID int64, patch store.TaskPatch) (*store.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, nil
	}

	patch.Apply(task)
	task.UpdatedAt = time.Now().UTC()

	cp := *task
	return &cp, nil
}

// DeleteTask removes the owner's task.
func (s *Store) DeleteTask(ctx context.Context, id, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

var _ store.Store = (*Store)(nil)
