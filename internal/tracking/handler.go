package tracking

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/teleponi/rls-buddy/pkg/middleware"
	"github.com/teleponi/rls-buddy/pkg/models"

	"github.com/gin-gonic/gin"
)

// Handler handles tracking-related HTTP requests.
type Handler struct {
	Store    *Store
	Verifier Verifier
}

// NewHandler creates a new tracking handler.
func NewHandler(store *Store, verifier Verifier) *Handler {
	return &Handler{Store: store, Verifier: verifier}
}

func bearerToken(c *gin.Context) (string, bool) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	return token, ok && token != ""
}

// currentUserID resolves the caller via the identity delegate. On failure it
// writes the error response and returns false. An unusable identity response
// is a server-side fault, not a client one.
func (h *Handler) currentUserID(c *gin.Context) (int64, bool) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return 0, false
	}

	userID, err := h.Verifier.ResolveUserID(c.Request.Context(), token, []string{"me"})
	if errors.Is(err, ErrIdentity) {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "User ID not found in token!"})
		return 0, false
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Tracking not found"})
	case errors.Is(err, ErrNotAllowed):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not allowed to access this tracking"})
	case errors.Is(err, ErrNotValid):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Tracking data not valid"})
	default:
		log.Printf("[Tracking] Store error: %v correlation_id=%s", err, middleware.GetCorrelationID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

func trackingTypeParam(c *gin.Context) (models.TrackingType, bool) {
	t := models.TrackingType(c.Param("type"))
	if !t.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid tracking type"})
		return "", false
	}
	return t, true
}

func trackingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid tracking id"})
		return 0, false
	}
	return id, true
}

// dateRangeQuery reads the optional start_date/end_date pair. The filter only
// applies when both bounds are present.
func dateRangeQuery(c *gin.Context) (start, end *time.Time, ok bool) {
	startRaw, endRaw := c.Query("start_date"), c.Query("end_date")
	if startRaw == "" || endRaw == "" {
		return nil, nil, true
	}

	s, err := models.ParseDate(startRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return nil, nil, false
	}
	e, err := models.ParseDate(endRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return nil, nil, false
	}
	return &s, &e, true
}

// CreateSymptom godoc
// @Summary      Create a symptom
// @Tags         details
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateSymptomRequest  true  "Create symptom request"
// @Success      201      {object}  models.Symptom
// @Failure      400      {object}  map[string]string
// @Router       /details/symptoms [post]
func (h *Handler) CreateSymptom(c *gin.Context) {
	var req models.CreateSymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	symptom, err := h.Store.CreateSymptom(req.Name)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, symptom)
}

// ListSymptoms godoc
// @Summary      List all symptoms
// @Tags         details
// @Produce      json
// @Success      200  {array}  models.Symptom
// @Router       /details/symptoms [get]
func (h *Handler) ListSymptoms(c *gin.Context) {
	symptoms, err := h.Store.ListSymptoms()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, symptoms)
}

// CreateTrigger godoc
// @Summary      Create a trigger
// @Tags         details
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateTriggerRequest  true  "Create trigger request"
// @Success      201      {object}  models.Trigger
// @Failure      400      {object}  map[string]string
// @Router       /details/triggers [post]
func (h *Handler) CreateTrigger(c *gin.Context) {
	var req models.CreateTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	trigger, err := h.Store.CreateTrigger(req.Name, req.Category)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trigger)
}

// ListTriggers godoc
// @Summary      List all triggers
// @Tags         details
// @Produce      json
// @Success      200  {array}  models.Trigger
// @Router       /details/triggers [get]
func (h *Handler) ListTriggers(c *gin.Context) {
	triggers, err := h.Store.ListTriggers()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, triggers)
}

// CreateSleep godoc
// @Summary      Create a sleep tracking
// @Tags         trackings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.CreateSleepRequest  true  "Create sleep request"
// @Success      201      {object}  models.Sleep
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Router       /trackings/sleep [post]
func (h *Handler) CreateSleep(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	sleep, err := h.Store.CreateSleep(userID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("[Tracking] Sleep tracking created: id=%d user_id=%d correlation_id=%s",
		sleep.ID, userID, middleware.GetCorrelationID(c))
	c.JSON(http.StatusCreated, sleep)
}

// CreateDay godoc
// @Summary      Create a day tracking
// @Tags         trackings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.CreateDayRequest  true  "Create day request"
// @Success      201      {object}  models.Day
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Router       /trackings/day [post]
func (h *Handler) CreateDay(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	day, err := h.Store.CreateDay(userID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("[Tracking] Day tracking created: id=%d user_id=%d correlation_id=%s",
		day.ID, userID, middleware.GetCorrelationID(c))
	c.JSON(http.StatusCreated, day)
}

// ListMine godoc
// @Summary      List the caller's trackings of one type
// @Tags         trackings
// @Produce      json
// @Security     BearerAuth
// @Param        type        query  string  true   "Tracking type (sleep or day)"
// @Param        start_date  query  string  false  "Range start (inclusive)"
// @Param        end_date    query  string  false  "Range end (inclusive)"
// @Success      200  {array}   models.Sleep
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /trackings/me [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	trackingType := models.TrackingType(c.Query("type"))
	if !trackingType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid tracking type"})
		return
	}

	start, end, ok := dateRangeQuery(c)
	if !ok {
		return
	}

	var list any
	var count int
	switch trackingType {
	case models.TrackingSleep:
		sleeps, err := h.Store.ListSleepByUser(userID, start, end)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		list, count = sleeps, len(sleeps)
	case models.TrackingDay:
		days, err := h.Store.ListDayByUser(userID, start, end)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		list, count = days, len(days)
	}

	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": fmt.Sprintf("No %s trackings found for this user", trackingType),
		})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetTracking godoc
// @Summary      Get a single tracking
// @Tags         trackings
// @Produce      json
// @Security     BearerAuth
// @Param        type  path  string  true  "Tracking type (sleep or day)"
// @Param        id    path  int     true  "Tracking id"
// @Success      200  {object}  models.Sleep
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /trackings/{type}/{id} [get]
func (h *Handler) GetTracking(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	trackingType, ok := trackingTypeParam(c)
	if !ok {
		return
	}
	id, ok := trackingIDParam(c)
	if !ok {
		return
	}

	switch trackingType {
	case models.TrackingSleep:
		sleep, err := h.Store.GetSleep(id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if sleep.UserID != userID {
			respondStoreError(c, ErrNotAllowed)
			return
		}
		c.JSON(http.StatusOK, sleep)
	case models.TrackingDay:
		day, err := h.Store.GetDay(id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if day.UserID != userID {
			respondStoreError(c, ErrNotAllowed)
			return
		}
		c.JSON(http.StatusOK, day)
	}
}

// UpdateTracking godoc
// @Summary      Update a single tracking
// @Tags         trackings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        type  path  string  true  "Tracking type (sleep or day)"
// @Param        id    path  int     true  "Tracking id"
// @Success      200  {object}  models.Sleep
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /trackings/{type}/{id} [put]
func (h *Handler) UpdateTracking(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	trackingType, ok := trackingTypeParam(c)
	if !ok {
		return
	}
	id, ok := trackingIDParam(c)
	if !ok {
		return
	}

	switch trackingType {
	case models.TrackingSleep:
		var req models.UpdateSleepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		sleep, err := h.Store.UpdateSleep(id, userID, req)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, sleep)
	case models.TrackingDay:
		var req models.UpdateDayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		day, err := h.Store.UpdateDay(id, userID, req)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, day)
	}
}

// DeleteTracking godoc
// @Summary      Delete a single tracking
// @Tags         trackings
// @Security     BearerAuth
// @Param        type  path  string  true  "Tracking type (sleep or day)"
// @Param        id    path  int     true  "Tracking id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /trackings/{type}/{id} [delete]
func (h *Handler) DeleteTracking(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	trackingType, ok := trackingTypeParam(c)
	if !ok {
		return
	}
	id, ok := trackingIDParam(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteTracking(trackingType, id, userID); err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("[Tracking] Tracking deleted: type=%s id=%d user_id=%d correlation_id=%s",
		trackingType, id, userID, middleware.GetCorrelationID(c))
	c.Status(http.StatusNoContent)
}

// DeleteAllMine godoc
// @Summary      Delete all trackings of the caller
// @Description  Removes every sleep and day tracking owned by the authenticated user
// @Tags         trackings
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /trackings/me [delete]
func (h *Handler) DeleteAllMine(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteAllByUser(userID); err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("[Tracking] All trackings deleted: user_id=%d correlation_id=%s",
		userID, middleware.GetCorrelationID(c))
	c.Status(http.StatusNoContent)
}
