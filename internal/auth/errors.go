package auth

import "errors"

var (
	// ErrInvalidCredentials indicates a login with an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthorized indicates a bearer token that did not resolve to a
	// live user: bad signature, expired, malformed subject, or the user
	// no longer exists.
	ErrUnauthorized = errors.New("could not validate credentials")
)
