package user

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthenticator("test-secret")

	token, err := auth.CreateAccessToken(42)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	userID, err := auth.VerifyToken(token, []string{"me"})
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user id 42, got %d", userID)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewAuthenticator("secret-a").CreateAccessToken(1)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	_, err = NewAuthenticator("secret-b").VerifyToken(token, nil)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_MissingScope(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	token, err := auth.CreateAccessToken(1)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	_, err = auth.VerifyToken(token, []string{"admin"})
	if !errors.Is(err, ErrInsufficientScope) {
		t.Errorf("expected ErrInsufficientScope, got %v", err)
	}
}

func TestVerifyToken_EmptyScopeIgnored(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	token, err := auth.CreateAccessToken(1)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	// Splitting an empty scopes query parameter yields [""].
	if _, err := auth.VerifyToken(token, []string{""}); err != nil {
		t.Errorf("expected empty scope to be ignored, got %v", err)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	if _, err := auth.VerifyToken("not-a-jwt", nil); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if !CheckPassword("secret", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Error("expected wrong password to fail")
	}
}
