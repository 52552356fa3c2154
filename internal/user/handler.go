package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/teleponi/rls-buddy/pkg/middleware"
	"github.com/teleponi/rls-buddy/pkg/models"

	"github.com/gin-gonic/gin"
)

// EventPublisher defines the interface for broadcasting events.
type EventPublisher interface {
	Publish(body []byte) error
}

// Handler handles user-related HTTP requests.
type Handler struct {
	Store     *Store
	Auth      *Authenticator
	Publisher EventPublisher
}

// NewHandler creates a new user handler.
func NewHandler(store *Store, auth *Authenticator, pub EventPublisher) *Handler {
	return &Handler{Store: store, Auth: auth, Publisher: pub}
}

// currentUserID authenticates the request and enforces the given scopes.
// On failure it writes the 401 response and returns false.
func (h *Handler) currentUserID(c *gin.Context, scopes ...string) (int64, bool) {
	token, ok := BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return 0, false
	}

	userID, err := h.Auth.VerifyToken(token, scopes)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return 0, false
	}
	return userID, true
}

// CreateUser godoc
// @Summary      Register a new user
// @Description  Creates a new standard user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateUserRequest  true  "Create user request"
// @Success      201      {object}  models.User
// @Failure      400      {object}  map[string]string
// @Router       /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	h.createUser(c, models.RoleUser)
}

// CreateAdminUser godoc
// @Summary      Register a new admin user
// @Description  Creates an admin account, callable only by authenticated users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateUserRequest  true  "Create user request"
// @Success      201      {object}  models.User
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Router       /users/admin [post]
func (h *Handler) CreateAdminUser(c *gin.Context) {
	callerID, ok := h.currentUserID(c, "me")
	if !ok {
		return
	}
	log.Printf("[User] User %d creating an admin account correlation_id=%s",
		callerID, middleware.GetCorrelationID(c))
	h.createUser(c, models.RoleAdmin)
}

func (h *Handler) createUser(c *gin.Context, role models.Role) {
	correlationID := middleware.GetCorrelationID(c)

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !models.ValidName(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name contains invalid characters"})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create user"})
		return
	}

	user, err := h.Store.Create(req.Email, req.Name, hash, role)
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User with this email already exists."})
		return
	}
	if err != nil {
		log.Printf("[User] Error creating user: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create user"})
		return
	}

	log.Printf("[User] User created: id=%d email=%s role=%s correlation_id=%s",
		user.ID, user.Email, user.Role, correlationID)
	c.JSON(http.StatusCreated, user)
}

// GetMe godoc
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := h.currentUserID(c, "me")
	if !ok {
		return
	}

	user, err := h.Store.GetByID(userID)
	if err != nil {
		// A valid token for a vanished user is still unauthorized.
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      Update the authenticated user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.UpdateUserRequest  true  "Update user request"
// @Success      200      {object}  models.User
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /users [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	userID, ok := h.currentUserID(c, "me")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !models.ValidName(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name contains invalid characters"})
		return
	}

	user, err := h.Store.Update(userID, req.Email, req.Name)
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User with this email already exists."})
		return
	}
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMe godoc
// @Summary      Delete the authenticated user
// @Description  Deletes the account and broadcasts a USER_DELETED event
// @Tags         users
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	userID, ok := h.currentUserID(c, "me")
	if !ok {
		return
	}

	if err := h.Store.Delete(userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User could not be deleted."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "User could not be deleted."})
		return
	}

	// The user row is gone; downstream cleanup is eventual. Publish failures
	// are logged only and never roll back the committed deletion.
	body, _ := json.Marshal(models.NewUserDeletedEvent(userID))
	if err := h.Publisher.Publish(body); err != nil {
		log.Printf("[User] Error publishing USER_DELETED event: %v user_id=%d correlation_id=%s",
			err, userID, correlationID)
	}

	log.Printf("[User] User deleted: id=%d correlation_id=%s", userID, correlationID)
	c.Status(http.StatusNoContent)
}

// Login godoc
// @Summary      Get an access token
// @Description  OAuth2 password grant with form fields username and password
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Email address"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  models.Token
// @Failure      401  {object}  map[string]string
// @Router       /token [post]
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.Store.GetByEmail(username)
	if err != nil || !CheckPassword(password, user.HashedPassword) {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
		return
	}

	token, err := h.Auth.CreateAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

// ValidateToken godoc
// @Summary      Validate a token and its scopes
// @Description  Internal endpoint used by the tracking service to resolve a bearer token into a user id
// @Tags         auth
// @Produce      json
// @Param        scopes  query  string  false  "Comma-joined required scopes"
// @Success      200  {object}  map[string]int64
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /token-validate [get]
func (h *Handler) ValidateToken(c *gin.Context) {
	token, ok := BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}

	scopes := strings.Split(c.Query("scopes"), ",")
	userID, err := h.Auth.VerifyToken(token, scopes)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return
	}

	// The token may outlive its user; a deleted account must not validate.
	if _, err := h.Store.GetByID(userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}
