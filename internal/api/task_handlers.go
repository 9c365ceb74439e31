package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tasks"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// updateTaskRequest uses pointers so absent fields are distinguishable
// from zero values; only fields present in the body are applied.
type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *int       `json:"priority"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if req.Title == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Title is required")
		return
	}
	if req.Status != "" && !store.ValidStatus(req.Status) {
		writeDetail(w, http.StatusUnprocessableEntity, "Status must be one of pending, in_progress, done")
		return
	}

	user := userFromContext(r.Context())
	task, err := a.tasks.Create(r.Context(), user.ID, tasks.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	list, err := a.tasks.List(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid task id")
		return
	}

	user := userFromContext(r.Context())
	task, err := a.tasks.Get(r.Context(), user.ID, id)
	if errors.Is(err, tasks.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid task id")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if req.Title != nil && *req.Title == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Title must not be empty")
		return
	}
	if req.Status != nil && !store.ValidStatus(*req.Status) {
		writeDetail(w, http.StatusUnprocessableEntity, "Status must be one of pending, in_progress, done")
		return
	}

	user := userFromContext(r.Context())
	task, err := a.tasks.Update(r.Context(), user.ID, id, store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if errors.Is(err, tasks.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Task not found or not owned by user")
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid task id")
		return
	}

	user := userFromContext(r.Context())
	err := a.tasks.Delete(r.Context(), user.ID, id)
	if errors.Is(err, tasks.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Task not found or not owned by user")
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
