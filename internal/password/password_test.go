package password

import (
	"strings"
	"testing"
)

func hashers() map[string]Hasher {
	return map[string]Hasher{
		"bcrypt":   NewBcryptHasher(DefaultBcryptCost),
		"argon2id": NewArgon2Hasher(nil),
	}
}

func TestHashAndVerify(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("password123")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			tests := []struct {
				name     string
				password string
				want     bool
			}{
				{"correct password", "password123", true},
				{"wrong password", "wrongpassword", false},
				{"empty password", "", false},
				{"similar password", "password124", false},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					valid, err := h.Verify(tt.password, hash)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if valid != tt.want {
						t.Errorf("Verify(%q) = %v, want %v", tt.password, valid, tt.want)
					}
				})
			}
		})
	}
}

func TestHashUnique(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			hash1, _ := h.Hash("password123")
			hash2, _ := h.Hash("password123")
			if hash1 == hash2 {
				t.Error("hashes should be unique due to random salt")
			}
		})
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "not-a-hash", "$argon2id$v=19$m=65536"} {
				if _, err := h.Verify("password", bad); err == nil {
					t.Errorf("expected error for hash %q", bad)
				}
			}
		})
	}
}

func TestBcryptCostClamping(t *testing.T) {
	h := NewBcryptHasher(1)
	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Errorf("unexpected bcrypt hash prefix: %s", hash)
	}
}

func TestArgon2HashFormat(t *testing.T) {
	h := NewArgon2Hasher(nil)
	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash should start with $argon2id$, got: %s", hash)
	}
	if got := len(strings.Split(hash, "$")); got != 6 {
		t.Errorf("expected 6 $-separated parts, got %d", got)
	}
}

func TestArgon2VerifyOldParams(t *testing.T) {
	old := NewArgon2Hasher(&Argon2Params{
		Memory:      32 * 1024,
		Iterations:  2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	hash, err := old.Hash("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A hasher with current params must still verify hashes created
	// with older ones.
	current := NewArgon2Hasher(nil)
	valid, err := current.Verify("password123", hash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected old-parameter hash to verify")
	}
}
