package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestProxy(userURL, trackingURL string) *Proxy {
	return NewProxy(userURL, trackingURL, NewMetrics(prometheus.NewRegistry()))
}

func TestResolveTarget(t *testing.T) {
	p := newTestProxy("http://user", "http://tracking")

	tests := []struct {
		path   string
		target string
		ok     bool
	}{
		{"users", "user", true},
		{"users/me", "user", true},
		{"users/admin", "user", true},
		{"token", "user", true},
		{"token-validate", "user", true},
		{"trackings/sleep", "tracking", true},
		{"trackings/me", "tracking", true},
		{"details/symptoms", "tracking", true},
		{"details/triggers", "tracking", true},
		{"userdetails", "", false},
		{"orders/1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		target, _, ok := p.ResolveTarget(tt.path)
		if ok != tt.ok || target != tt.target {
			t.Errorf("ResolveTarget(%q) = (%q, %v), want (%q, %v)", tt.path, target, ok, tt.target, tt.ok)
		}
	}
}

func TestMapStatus(t *testing.T) {
	if got := MapStatus(422); got != 400 {
		t.Errorf("MapStatus(422) = %d, want 400", got)
	}
	for _, code := range []int{200, 201, 204, 400, 401, 404, 500} {
		if got := MapStatus(code); got != code {
			t.Errorf("MapStatus(%d) = %d, want identity", code, got)
		}
	}
}

func TestForward_RoutesToUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Errorf("unexpected upstream path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer some-token" {
			t.Errorf("authorization header not forwarded: %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":7}`))
	}))
	defer upstream.Close()

	router := NewRouter(newTestProxy(upstream.URL, "http://unused"), prometheus.NewRegistry())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"id":7`) {
		t.Errorf("upstream body not passed through: %s", w.Body.String())
	}
}

func TestForward_ForwardsQueryString(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("scopes"); got != "me,items" {
			t.Errorf("query string not forwarded: %q", got)
		}
		w.Write([]byte(`{"user_id":7}`))
	}))
	defer upstream.Close()

	router := NewRouter(newTestProxy(upstream.URL, "http://unused"), prometheus.NewRegistry())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/token-validate?scopes=me,items", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestForward_RemapsValidationStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"validation failed"}`))
	}))
	defer upstream.Close()

	router := NewRouter(newTestProxy("http://unused", upstream.URL), prometheus.NewRegistry())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/trackings/sleep", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 422 to be remapped to 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation failed") {
		t.Errorf("upstream body not preserved: %s", w.Body.String())
	}
}

func TestForward_UnknownPath(t *testing.T) {
	router := NewRouter(newTestProxy("http://unused", "http://unused"), prometheus.NewRegistry())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/orders/1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Service not found") {
		t.Errorf("unexpected detail message: %s", w.Body.String())
	}
}

func TestForward_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	router := NewRouter(newTestProxy(upstream.URL, "http://unused"), prometheus.NewRegistry())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Error in proxy request") {
		t.Errorf("unexpected detail message: %s", w.Body.String())
	}
}
