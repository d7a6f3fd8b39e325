package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Minute)

	signed, err := svc.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	subject, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("subject: got %q, want %q", subject, "alice@example.com")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	signed, err := svc.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := NewService("test-secret", time.Minute)

	signed, err := svc.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", signed)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Minute)
	verifier := NewService("secret-b", time.Minute)

	signed, err := issuer.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewService("test-secret", time.Minute)

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(bad); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", bad, err)
		}
	}
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	svc := NewService("test-secret", time.Minute)

	// Unsigned token with alg "none" must never pass.
	claims := jwt.MapClaims{
		"sub":   "alice@example.com",
		"exp":   time.Now().Add(time.Minute).Unix(),
		"scope": "access_token",
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerifyRejectsWrongScope(t *testing.T) {
	svc := NewService("test-secret", time.Minute)

	claims := jwt.MapClaims{
		"sub":   "alice@example.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Minute).Unix(),
		"scope": "refresh_token",
	}
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := other.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong scope, got %v", err)
	}
}

func TestDefaultTTLApplied(t *testing.T) {
	svc := NewService("test-secret", 0)
	if svc.ttl != DefaultTTL {
		t.Errorf("ttl: got %v, want %v", svc.ttl, DefaultTTL)
	}
}
