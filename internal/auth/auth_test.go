package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	cfg := Config{Secret: "test-secret", Issuer: "fitchekk.test", TTL: time.Hour}

	token, err := Issue("user-1", cfg)
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}

	claims, err := Parse(token, cfg)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1 got %q", claims.UserID)
	}
	if time.Until(claims.ExpiresAt) <= 0 {
		t.Fatalf("expected future expiry got %v", claims.ExpiresAt)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Issue("user-1", Config{Secret: "one", Issuer: "fitchekk.test"})
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}

	_, err = Parse(token, Config{Secret: "two", Issuer: "fitchekk.test"})
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, err := Issue("user-1", Config{Secret: "one", Issuer: "someone-else"})
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}

	_, err = Parse(token, Config{Secret: "one", Issuer: "fitchekk.test"})
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}

func TestParseRejectsEmptyToken(t *testing.T) {
	_, err := Parse("   ", Config{Secret: "one"})
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken got %v", err)
	}
}
