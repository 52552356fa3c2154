package tracking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPVerifier_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token-validate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer some-token" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if got := r.URL.Query().Get("scopes"); got != "me,items" {
			t.Errorf("unexpected scopes: %q", got)
		}
		w.Write([]byte(`{"user_id":7}`))
	}))
	defer srv.Close()

	userID, err := NewHTTPVerifier(srv.URL).ResolveUserID(context.Background(), "some-token", []string{"me", "items"})
	if err != nil {
		t.Fatalf("failed to resolve user id: %v", err)
	}
	if userID != 7 {
		t.Errorf("expected user id 7, got %d", userID)
	}
}

func TestHTTPVerifier_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPVerifier(srv.URL).ResolveUserID(context.Background(), "bad-token", []string{"me"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestHTTPVerifier_UnusableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail":"ok but wrong shape"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPVerifier(srv.URL).ResolveUserID(context.Background(), "some-token", []string{"me"})
	if !errors.Is(err, ErrIdentity) {
		t.Errorf("expected ErrIdentity, got %v", err)
	}
}

func TestHTTPVerifier_ServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	// An unreachable identity service must deny, never authorize.
	_, err := NewHTTPVerifier(srv.URL).ResolveUserID(context.Background(), "some-token", []string{"me"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
