package token

import "errors"

// Token-related errors.
var (
	// ErrExpired indicates the token has expired.
	ErrExpired = errors.New("token has expired")

	// ErrNotYetValid indicates the token is not yet valid (iat in future).
	ErrNotYetValid = errors.New("token is not yet valid")

	// ErrMalformed indicates the token format is invalid.
	ErrMalformed = errors.New("token is malformed")

	// ErrInvalidSignature indicates the token signature is invalid.
	ErrInvalidSignature = errors.New("token signature is invalid")
)
