// Package api exposes the HTTP surface: registration, login, and
// owner-scoped task CRUD under /api/v1.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/ratelimit"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tasks"
	"github.com/taskdeck/taskdeck/internal/token"
)

// API holds the services the handlers dispatch to.
type API struct {
	auth     *auth.Service
	resolver *auth.Resolver
	tokens   *token.Service
	tasks    *tasks.Service
	store    store.Store

	// limiter throttles the credential endpoints. Nil disables limiting.
	limiter ratelimit.Limiter
}

// Config holds the API's dependencies.
type Config struct {
	Auth     *auth.Service
	Resolver *auth.Resolver
	Tokens   *token.Service
	Tasks    *tasks.Service
	Store    store.Store
	Limiter  ratelimit.Limiter
}

// New creates the API.
func New(cfg Config) *API {
	return &API{
		auth:     cfg.Auth,
		resolver: cfg.Resolver,
		tokens:   cfg.Tokens,
		tasks:    cfg.Tasks,
		store:    cfg.Store,
		limiter:  cfg.Limiter,
	}
}

// Router builds the full route tree.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints are rate limited by client IP; everything
		// behind a bearer token is not.
		r.Group(func(r chi.Router) {
			if a.limiter != nil {
				r.Use(ratelimit.Middleware(a.limiter, &ratelimit.Config{
					OnLimited: func(w http.ResponseWriter, r *http.Request) {
						writeDetail(w, http.StatusTooManyRequests, "Too many requests")
					},
				}))
			}
			r.Post("/auth/signup", a.handleSignup)
			r.Post("/auth/register", a.handleSignup)
			r.Post("/auth/login", a.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)

			r.Get("/auth/me", a.handleMe)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", a.handleCreateTask)
				r.Get("/", a.handleListTasks)
				r.Get("/{id}", a.handleGetTask)
				r.Put("/{id}", a.handleUpdateTask)
				r.Delete("/{id}", a.handleDeleteTask)
			})
		})
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		writeDetail(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
