package user

import (
	"database/sql"
	"errors"

	"github.com/teleponi/rls-buddy/pkg/models"

	"github.com/lib/pq"
)

// Tagged domain errors, mapped to status codes once at the HTTP boundary.
var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store provides access to the user table.
type Store struct {
	DB *sql.DB
}

// NewStore creates a user store.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Create inserts a new user. The email must be unique.
func (s *Store) Create(email, name, hashedPassword string, role models.Role) (*models.User, error) {
	var exists bool
	err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user := &models.User{Email: email, Name: name, HashedPassword: hashedPassword, Role: role}
	err = s.DB.QueryRow(
		"INSERT INTO users (email, name, hashed_password, role) VALUES ($1, $2, $3, $4) RETURNING id",
		email, name, hashedPassword, string(role),
	).Scan(&user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail fetches a user by email.
func (s *Store) GetByEmail(email string) (*models.User, error) {
	return s.scanOne("SELECT id, email, name, hashed_password, role FROM users WHERE email = $1", email)
}

// GetByID fetches a user by id.
func (s *Store) GetByID(id int64) (*models.User, error) {
	return s.scanOne("SELECT id, email, name, hashed_password, role FROM users WHERE id = $1", id)
}

func (s *Store) scanOne(query string, arg any) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRow(query, arg).
		Scan(&user.ID, &user.Email, &user.Name, &user.HashedPassword, &user.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces a user's email and name. Moving to an email another user
// already holds yields ErrEmailTaken, same as on create.
func (s *Store) Update(id int64, email, name string) (*models.User, error) {
	res, err := s.DB.Exec("UPDATE users SET email = $1, name = $2 WHERE id = $3", email, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

// Delete removes a user row. Deleting a missing user yields ErrNotFound.
func (s *Store) Delete(id int64) error {
	res, err := s.DB.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
