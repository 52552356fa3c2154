package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUnauthorized covers invalid tokens, missing scopes and an
	// unreachable identity service. A network failure must never authorize.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrIdentity marks an unusable response from the identity service.
	ErrIdentity = errors.New("user id not found in token")
)

// Verifier resolves a bearer token into a trusted user identity.
//
// The tracking service never decodes tokens itself; implementations may
// delegate over the network or, later, verify signatures locally without
// touching any call site.
type Verifier interface {
	ResolveUserID(ctx context.Context, token string, scopes []string) (int64, error)
}

// HTTPVerifier delegates verification to the user service's validation
// endpoint, keeping signing secrets and revocation in one place.
type HTTPVerifier struct {
	UserServiceURL string
	Client         *http.Client
}

// NewHTTPVerifier creates a verifier against the given user service URL.
func NewHTTPVerifier(userServiceURL string) *HTTPVerifier {
	return &HTTPVerifier{
		UserServiceURL: userServiceURL,
		Client:         &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolveUserID forwards the token plus a comma-joined scope list and
// returns the user id the user service vouches for.
func (v *HTTPVerifier) ResolveUserID(ctx context.Context, token string, scopes []string) (int64, error) {
	endpoint := fmt.Sprintf("%s/token-validate?scopes=%s",
		v.UserServiceURL, url.QueryEscape(strings.Join(scopes, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, ErrUnauthorized
	}

	var payload struct {
		UserID *int64 `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.UserID == nil {
		return 0, ErrIdentity
	}
	return *payload.UserID, nil
}
