package identity

import (
	"errors"
	"testing"
	"time"
)

func testSessionConfig() SessionConfig {
	return SessionConfig{
		SecretKey:     "test-secret-key",
		TokenDuration: time.Hour,
		Issuer:        "test-issuer",
	}
}

func TestSessionManager_GenerateAndValidate(t *testing.T) {
	manager := NewSessionManager(testSessionConfig())

	token, err := manager.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected user ID %q, got %q", "user-123", claims.UserID)
	}
	if !claims.Anonymous {
		t.Error("expected anonymous claim to be true")
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer %q, got %q", "test-issuer", claims.Issuer)
	}
}

func TestSessionManager_InvalidToken(t *testing.T) {
	manager := NewSessionManager(testSessionConfig())

	t.Run("malformed token", func(t *testing.T) {
		_, err := manager.ValidateToken("not-a-token")
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSessionManager(SessionConfig{
			SecretKey:     "different-secret",
			TokenDuration: time.Hour,
			Issuer:        "test-issuer",
		})
		token, err := other.GenerateToken("user-123")
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}

		_, err = manager.ValidateToken(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestSessionManager_ExpiredToken(t *testing.T) {
	config := testSessionConfig()
	config.TokenDuration = -time.Minute
	manager := NewSessionManager(config)

	token, err := manager.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	_, err = manager.ValidateToken(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}
