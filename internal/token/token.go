// Package token issues and verifies signed bearer access tokens.
//
// Tokens are stateless JWTs: verification is purely cryptographic and
// structural and never touches storage. Expiry is the only invalidation
// mechanism.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT claims structure for access tokens. The subject is
// the owning user's numeric ID rendered as a string.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user ID.
// Returns 0 and false if the subject is missing or not numeric.
func (c *Claims) UserID() (int64, bool) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Config holds token service configuration.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string

	// SigningMethod is the JWT signing algorithm (HS256, HS384, HS512).
	SigningMethod string

	// TTL is the access token lifetime.
	TTL time.Duration

	// ClockSkew allows for clock differences between servers.
	ClockSkew time.Duration
}

// Service signs and verifies access tokens.
type Service struct {
	config *Config
	method jwt.SigningMethod
}

// NewService creates a token service. Unknown signing methods fall back
// to HS256.
func NewService(cfg *Config) *Service {
	svc := &Service{config: cfg}

	switch cfg.SigningMethod {
	case "HS384":
		svc.method = jwt.SigningMethodHS384
	case "HS512":
		svc.method = jwt.SigningMethodHS512
	default:
		svc.method = jwt.SigningMethodHS256
	}

	return svc
}

// Issue produces a signed token for the given user, valid for the
// configured TTL. No side effects beyond signing.
func (s *Service) Issue(userID int64) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.TTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Verify parses and validates a token, returning its claims. It fails
// if the signature is invalid, the token is malformed, or it has
// expired. It does not check that the subject still exists; that is the
// resolver's job.
func (s *Service) Verify(raw string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithLeeway(s.config.ClockSkew))

	if err != nil {
		return nil, mapJWTError(err)
	}
	if !parsed.Valid {
		return nil, ErrMalformed
	}

	return claims, nil
}

// mapJWTError maps JWT library errors to our sentinels.
func mapJWTError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
