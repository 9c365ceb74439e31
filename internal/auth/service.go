// Package auth implements registration, credential verification, and
// bearer-token resolution on top of the store.
package auth

import (
	"context"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/password"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Service handles account registration and login.
type Service struct {
	store  store.Store
	hasher password.Hasher

	// dummyHash is compared against when the email is unknown, so a
	// failed login takes about as long either way.
	dummyHash string
}

// NewService creates an auth service. It pre-computes a hash used to
// equalize login timing for unknown emails.
func NewService(st store.Store, hasher password.Hasher) (*Service, error) {
	dummy, err := hasher.Hash("taskdeck-timing-dummy")
	if err != nil {
		return nil, fmt.Errorf("auth: compute dummy hash: %w", err)
	}
	return &Service{store: st, hasher: hasher, dummyHash: dummy}, nil
}

// Register creates a new account with a hashed password.
// Returns store.ErrEmailTaken when the email is already registered,
// whether detected by the pre-check or by the unique constraint when
// two registrations race.
func (s *Service) Register(ctx context.Context, email, fullName, plain string) (*store.User, error) {
	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, store.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &store.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an email and password pair.
// Returns ErrInvalidCredentials for both unknown emails and wrong
// passwords; callers must not leak which one failed.
func (s *Service) Authenticate(ctx context.Context, email, plain string) (*store.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a comparison so the unknown-email path is not
		// measurably faster than a wrong password.
		_, _ = s.hasher.Verify(plain, s.dummyHash)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(plain, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("auth: verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
