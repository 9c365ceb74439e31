// Package password provides one-way password hashing and verification.
package password

// Hasher is the one-way hash the credential store treats as a black box.
type Hasher interface {
	// Hash creates a hash from a password.
	Hash(password string) (string, error)

	// Verify checks if a password matches a hash.
	Verify(password, hash string) (bool, error)
}
