package user

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 30 * time.Minute

// Scopes granted to every issued token.
var defaultScopes = []string{"me", "items"}

var (
	ErrInvalidToken      = errors.New("could not validate credentials")
	ErrInsufficientScope = errors.New("not enough permissions")
)

// Authenticator issues and verifies HS256 access tokens. The signing secret
// never leaves the user service; other services delegate verification here.
type Authenticator struct {
	Secret []byte
}

// NewAuthenticator creates an authenticator with the given signing secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{Secret: []byte(secret)}
}

// CreateAccessToken issues a token for the user with the default scopes.
func (a *Authenticator) CreateAccessToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"sub":    strconv.FormatInt(userID, 10),
		"scopes": defaultScopes,
		"exp":    jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}

// VerifyToken checks signature and expiry and that the token carries every
// required scope, returning the user id encoded in the subject claim.
func (a *Authenticator) VerifyToken(token string, requiredScopes []string) (int64, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	tokenScopes := scopesFromClaims(claims)
	for _, required := range requiredScopes {
		if required == "" {
			continue
		}
		if !tokenScopes[required] {
			return 0, ErrInsufficientScope
		}
	}

	return userID, nil
}

func scopesFromClaims(claims jwt.MapClaims) map[string]bool {
	scopes := make(map[string]bool)
	raw, ok := claims["scopes"].([]any)
	if !ok {
		return scopes
	}
	for _, s := range raw {
		if str, ok := s.(string); ok {
			scopes[str] = true
		}
	}
	return scopes
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against its bcrypt hash.
func CheckPassword(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
