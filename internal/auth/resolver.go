package auth

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/token"
)

// Resolver turns a raw bearer token into the live user it names.
type Resolver struct {
	tokens *token.Service
	store  store.Store
}

// NewResolver creates a resolver.
func NewResolver(tokens *token.Service, st store.Store) *Resolver {
	return &Resolver{tokens: tokens, store: st}
}

// Resolve verifies the token and loads its user from the store.
// Every verification failure collapses to ErrUnauthorized; a token
// whose user has since been deleted is just as unauthorized as a
// forged one. Store errors pass through unchanged.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*store.User, error) {
	claims, err := r.tokens.Verify(raw)
	if err != nil {
		return nil, ErrUnauthorized
	}

	id, ok := claims.UserID()
	if !ok {
		return nil, ErrUnauthorized
	}

	user, err := r.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}
