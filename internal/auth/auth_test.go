package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/password"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/store/memory"
	"github.com/taskdeck/taskdeck/internal/token"
)

// Low bcrypt cost keeps the tests fast; clamped to MinCost internally.
func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st := memory.New()
	svc, err := NewService(st, password.NewBcryptHasher(1))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, st
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "Ada Lovelace", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("Register() did not assign an ID")
	}
	if user.Email != "ada@example.com" || user.FullName != "Ada Lovelace" {
		t.Errorf("Register() = %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret-pass" {
		t.Error("Register() stored the password unhashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "", "s3cret-pass"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "ada@example.com", "", "other-pass")
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("Register() duplicate error = %v, want ErrEmailTaken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ada@example.com", "", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "ada@example.com", "s3cret-pass", nil},
		{"wrong password", "ada@example.com", "wrong", ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", "s3cret-pass", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (user == nil || user.ID != registered.ID) {
				t.Errorf("Authenticate() = %+v, want user %d", user, registered.ID)
			}
		})
	}
}

func newTestResolver(t *testing.T) (*Resolver, *Service, *token.Service, store.Store) {
	t.Helper()
	svc, st := newTestService(t)
	tokens := token.NewService(&token.Config{
		Secret: "test-secret-test-secret-test-secret!",
		TTL:    time.Minute,
	})
	return NewResolver(tokens, st), svc, tokens, st
}

func TestResolve(t *testing.T) {
	resolver, svc, tokens, _ := newTestResolver(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	raw, _, err := tokens.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	resolved, err := resolver.Resolve(ctx, raw)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.ID != user.ID || resolved.Email != user.Email {
		t.Errorf("Resolve() = %+v, want user %d", resolved, user.ID)
	}
}

func TestResolveUnauthorized(t *testing.T) {
	resolver, _, tokens, _ := newTestResolver(t)
	ctx := context.Background()

	// Token for a user that was never created.
	orphan, _, err := tokens.Issue(999)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherTokens := token.NewService(&token.Config{
		Secret: "another-secret-another-secret-secret",
		TTL:    time.Minute,
	})
	forged, _, err := otherTokens.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong signature", forged},
		{"user does not exist", orphan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(ctx, tt.raw)
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("Resolve() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}
