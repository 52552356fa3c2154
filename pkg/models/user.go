package models

import "regexp"

// Role classifies a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a user row in the user service database.
// The password hash never leaves the service.
type User struct {
	ID             int64  `json:"id" db:"id"`
	Email          string `json:"email" db:"email"`
	Name           string `json:"name" db:"name"`
	HashedPassword string `json:"-" db:"hashed_password"`
	Role           Role   `json:"role" db:"role"`
}

// CreateUserRequest is the request body for registering a user.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Name     string `json:"name" binding:"required,min=2" example:"Alice"`
	Password string `json:"password" binding:"required,min=4" example:"secret"`
}

// UpdateUserRequest is the request body for updating the authenticated user.
type UpdateUserRequest struct {
	Email string `json:"email" binding:"required,email" example:"alice@example.com"`
	Name  string `json:"name" binding:"required,min=2" example:"Alice"`
}

// Token is the response of the OAuth2 password grant endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

var nameCharacters = regexp.MustCompile(`^[a-zA-Z0-9öäüÖÄÜ_]*$`)

// ValidName reports whether a user name contains only allowed characters.
func ValidName(name string) bool {
	return nameCharacters.MatchString(name)
}
