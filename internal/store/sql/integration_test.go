//go:build integration

package sql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

// TestPostgres_Integration runs the store scenarios against a real
// PostgreSQL instance. Requires Docker; run with -tags integration.
func TestPostgres_Integration(t *testing.T) {
	s := testutil.SetupPostgres(t)
	ctx := context.Background()

	owner := &store.User{Email: "owner@example.com", PasswordHash: "hash"}
	if err := s.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if owner.ID == 0 {
		t.Fatal("CreateUser() did not assign an ID")
	}

	dup := &store.User{Email: "owner@example.com", PasswordHash: "hash2"}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("CreateUser() duplicate error = %v, want ErrEmailTaken", err)
	}

	other := &store.User{Email: "other@example.com", PasswordHash: "hash"}
	if err := s.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	task := &store.Task{
		UserID:   owner.ID,
		Title:    "ship release",
		Priority: 2,
		Status:   store.StatusPending,
	}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	got, err := s.GetTask(ctx, task.ID, other.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetTask() as non-owner = %+v, want nil", got)
	}

	status := store.StatusInProgress
	updated, err := s.UpdateTask(ctx, task.ID, owner.ID, store.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if updated == nil || updated.Status != store.StatusInProgress {
		t.Errorf("UpdateTask() = %+v, want status %q", updated, store.StatusInProgress)
	}
	if updated != nil && updated.Title != "ship release" {
		t.Errorf("UpdateTask() clobbered title: %q", updated.Title)
	}

	list, err := s.ListTasks(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != task.ID {
		t.Errorf("ListTasks() = %d tasks, want the created one", len(list))
	}

	deleted, err := s.DeleteTask(ctx, task.ID, other.ID)
	if err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if deleted {
		t.Error("DeleteTask() as non-owner = true, want false")
	}

	deleted, err = s.DeleteTask(ctx, task.ID, owner.ID)
	if err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if !deleted {
		t.Error("DeleteTask() as owner = false, want true")
	}
}
