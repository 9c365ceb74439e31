// Package tasks implements owner-scoped task operations.
//
// Every operation takes the caller's user ID and is scoped to it at
// the storage layer, so a task that does not exist and a task owned by
// someone else produce the same ErrNotFound. Task IDs are global, but
// nothing a caller can do reveals whether a foreign ID is live.
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/taskdeck/taskdeck/internal/store"
)

// ErrNotFound indicates the task does not exist or is not owned by the
// caller. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("task not found")

// NewTask is the input for creating a task.
type NewTask struct {
	Title       string
	Description string
	Priority    int
	Status      string
	DueDate     *time.Time
}

// Service implements task CRUD for authenticated callers.
type Service struct {
	store store.Store
}

// NewService creates a task service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Create records a new task owned by callerID. Ownership is fixed at
// creation and never changes. An empty status defaults to pending.
func (s *Service) Create(ctx context.Context, callerID int64, in NewTask) (*store.Task, error) {
	status := in.Status
	if status == "" {
		status = store.StatusPending
	}

	task := &store.Task{
		UserID:      callerID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      status,
		DueDate:     in.DueDate,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get returns the caller's task by ID.
func (s *Service) Get(ctx context.Context, callerID, id int64) (*store.Task, error) {
	task, err := s.store.GetTask(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	return task, nil
}

// List returns all of the caller's tasks in creation order. A caller
// with no tasks gets an empty list, not an error.
func (s *Service) List(ctx context.Context, callerID int64) ([]*store.Task, error) {
	return s.store.ListTasks(ctx, callerID)
}

// Update applies a partial update to the caller's task and returns the
// updated record. Fields absent from the patch keep their values; an
// empty patch just bumps the update time.
func (s *Service) Update(ctx context.Context, callerID, id int64, patch store.TaskPatch) (*store.Task, error) {
	task, err := s.store.UpdateTask(ctx, id, callerID, patch)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	return task, nil
}

// Delete removes the caller's task.
func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	deleted, err := s.store.DeleteTask(ctx, id, callerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
