// README: Token round-trip and rejection tests for the JWT manager.
package auth

import (
	"testing"
	"time"

	"hail/internal/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: ttl})
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)

	token, err := m.Generate("u1", "driver")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	id, err := m.Verify("Bearer " + token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "u1" || id.Role != "driver" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.Generate("u1", "rider")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := newTestManager(time.Hour).Generate("u1", "rider")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewManager(config.AuthConfig{JWTSecret: "other-secret", TokenTTL: time.Hour})
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(time.Hour)
	if _, err := m.Verify("Bearer not.a.token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
