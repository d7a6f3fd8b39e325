// Package token issues and verifies the signed access tokens that prove a
// recent successful login. Tokens are stateless: nothing is persisted, and
// validity is decided purely by signature and expiry at verification time.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the access token lifetime used when the caller passes zero.
const DefaultTTL = 15 * time.Minute

// scopeAccess marks tokens issued by the login flow. Tokens carrying any
// other scope are rejected.
const scopeAccess = "access_token"

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, malformed structure, expiry, or missing claims. Callers map it
// to a single 401 and never distinguish the cases externally.
var ErrInvalidToken = errors.New("invalid token")

// Service signs and verifies HS256 access tokens with a process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. A non-positive ttl falls back to
// DefaultTTL.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given subject. The subject is the
// user's email; issued-at and expiry are computed from the current clock.
func (s *Service) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
		"scope": scopeAccess,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry, and scope, returning the
// embedded subject. An unverified token is never partially trusted: any
// failure yields ErrInvalidToken and an empty subject.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	if scope, _ := claims["scope"].(string); scope != scopeAccess {
		return "", ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
