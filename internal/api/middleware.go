package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/store"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

// userKey is the context key for the authenticated user.
const userKey contextKey = "taskdeck_user"

// extractBearer returns the token from an Authorization: Bearer header,
// or "" if the header is missing or not bearer-shaped.
func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// requireAuth resolves the bearer token and stores the user in the
// request context. A missing or non-bearer header and an invalid token
// produce different details but the same 401 status.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r)
		if raw == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := a.resolver.Resolve(r.Context(), raw)
		if errors.Is(err, auth.ErrUnauthorized) {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if err != nil {
			writeInternalError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user set by requireAuth.
func userFromContext(ctx context.Context) *store.User {
	user, _ := ctx.Value(userKey).(*store.User)
	return user
}
