package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/teleponi/rls-buddy/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubVerifier implements Verifier for testing.
type stubVerifier struct {
	userID int64
	err    error
}

func (v *stubVerifier) ResolveUserID(context.Context, string, []string) (int64, error) {
	return v.userID, v.err
}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *stubVerifier) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	verifier := &stubVerifier{userID: 9}
	h := NewHandler(NewStore(db), verifier)
	return NewRouter(h), mock, verifier
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSymptom_Success(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectQuery("INSERT INTO symptoms").
		WithArgs("tingling").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	w := doJSON(router, http.MethodPost, "/details/symptoms", `{"name":"tingling"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var symptom models.Symptom
	if err := json.Unmarshal(w.Body.Bytes(), &symptom); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if symptom.ID != 1 || symptom.Name != "tingling" {
		t.Errorf("unexpected symptom in response: %+v", symptom)
	}
}

func TestCreateTrigger_InvalidCategory(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/details/triggers", `{"name":"caffeine","category":"beverage"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestCreateSleep_Success(t *testing.T) {
	router, mock, _ := newTestRouter(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sleeps").
		WithArgs(int64(9), 8, sqlmock.AnyArg(), "good", "slept well").
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(3, now))
	mock.ExpectExec("INSERT INTO sleep_symptom_association").
		WithArgs(int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT id, user_id, duration, date, quality, comment, timestamp FROM sleeps WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "duration", "date", "quality", "comment", "timestamp"}).
			AddRow(3, 9, 8, now, "good", "slept well", now))
	mock.ExpectQuery("SELECT s.id, s.name FROM symptoms").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "tingling"))

	body := `{"duration":8,"date":"2024-09-10","quality":"good","comment":"slept well","symptoms":[1]}`
	w := doJSON(router, http.MethodPost, "/trackings/sleep", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var sleep models.Sleep
	if err := json.Unmarshal(w.Body.Bytes(), &sleep); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if sleep.ID != 3 || sleep.UserID != 9 || len(sleep.Symptoms) != 1 {
		t.Errorf("unexpected sleep in response: %+v", sleep)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestCreateSleep_InvalidPayload(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"zero duration", `{"duration":0,"date":"2024-09-10","quality":"good"}`},
		{"bad quality", `{"duration":8,"date":"2024-09-10","quality":"amazing"}`},
		{"bad date", `{"duration":8,"date":"yesterday","quality":"good"}`},
	}

	for _, tt := range tests {
		w := doJSON(router, http.MethodPost, "/trackings/sleep", tt.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", tt.name, w.Code)
		}
	}
}

func TestCreateSleep_NoToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/trackings/sleep", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestCreateSleep_VerifierRejects(t *testing.T) {
	router, _, verifier := newTestRouter(t)
	verifier.err = ErrUnauthorized

	w := doJSON(router, http.MethodPost, "/trackings/sleep", `{"duration":8,"date":"2024-09-10","quality":"good"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestCreateSleep_IdentityBroken(t *testing.T) {
	router, _, verifier := newTestRouter(t)
	verifier.err = ErrIdentity

	// An unusable identity response is a server fault, not a client one.
	w := doJSON(router, http.MethodPost, "/trackings/sleep", `{"duration":8,"date":"2024-09-10","quality":"good"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "User ID not found in token!") {
		t.Errorf("unexpected detail message: %s", w.Body.String())
	}
}

func TestCreateDay_Success(t *testing.T) {
	router, mock, _ := newTestRouter(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO days").
		WithArgs(int64(9), sqlmock.AnyArg(), "busy day").
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(5, now))
	mock.ExpectExec("INSERT INTO day_trigger_association").
		WithArgs(int64(5), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT id, user_id, date, comment, timestamp FROM days WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "comment", "timestamp"}).
			AddRow(5, 9, now, "busy day", now))
	mock.ExpectQuery("SELECT t.id, t.name, t.category FROM triggers").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category"}).AddRow(2, "caffeine", "food"))
	mock.ExpectQuery("SELECT s.id, s.name FROM symptoms").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery("SELECT s.id, s.name FROM symptoms").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	body := `{"date":"2024-09-10","comment":"busy day","triggers":[2]}`
	w := doJSON(router, http.MethodPost, "/trackings/day", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var day models.Day
	if err := json.Unmarshal(w.Body.Bytes(), &day); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if day.ID != 5 || len(day.Triggers) != 1 || day.Triggers[0].Category != models.TriggerFood {
		t.Errorf("unexpected day in response: %+v", day)
	}
}

func TestListMine_InvalidType(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/trackings/me?type=naps", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid tracking type") {
		t.Errorf("unexpected detail message: %s", w.Body.String())
	}
}

func TestListMine_Empty(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT id, user_id, duration, date, quality, comment, timestamp FROM sleeps WHERE user_id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "duration", "date", "quality", "comment", "timestamp"}))

	w := doJSON(router, http.MethodGet, "/trackings/me?type=sleep", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "No sleep trackings found for this user") {
		t.Errorf("unexpected detail message: %s", w.Body.String())
	}
}

func TestListMine_DateRange(t *testing.T) {
	router, mock, _ := newTestRouter(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, user_id, duration, date, quality, comment, timestamp FROM sleeps WHERE user_id").
		WithArgs(int64(9), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "duration", "date", "quality", "comment", "timestamp"}).
			AddRow(3, 9, 8, now, "good", "", now))
	mock.ExpectQuery("SELECT s.id, s.name FROM symptoms").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	w := doJSON(router, http.MethodGet, "/trackings/me?type=sleep&start_date=2024-09-01&end_date=2024-09-30", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestGetTracking_WrongOwner(t *testing.T) {
	router, mock, _ := newTestRouter(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, user_id, duration, date, quality, comment, timestamp FROM sleeps WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "duration", "date", "quality", "comment", "timestamp"}).
			AddRow(3, 8, 8, now, "good", "", now))
	mock.ExpectQuery("SELECT s.id, s.name FROM symptoms").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	w := doJSON(router, http.MethodGet, "/trackings/sleep/3", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for foreign tracking, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetTracking_UnknownType(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/trackings/naps/3", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestDeleteTracking_NotFound(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id FROM sleeps WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	w := doJSON(router, http.MethodDelete, "/trackings/sleep/42", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteTracking_WrongOwner(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id FROM sleeps WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(8))

	w := doJSON(router, http.MethodDelete, "/trackings/sleep/3", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteAllMine(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sleeps WHERE user_id").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM days WHERE user_id").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := doJSON(router, http.MethodDelete, "/trackings/me", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", w.Code, w.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpdateSleep_Success(t *testing.T) {
	router, mock, _ := newTestRouter(t)
	now := time.Now()

	mock.ExpectQuery("SELECT user_id FROM sleeps WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sleeps SET duration").
		WithArgs(6, "moderate", "updated", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM sleep_symptom_association").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT id, user_id, duration, date, quality, comment, timestamp FROM sleeps WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "duration", "date", "quality", "comment", "timestamp"}).
			AddRow(3, 9, 6, now, "moderate", "updated", now))
	mock.ExpectQuery("SELECT s.id, s.name FROM symptoms").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	body := `{"duration":6,"quality":"moderate","comment":"updated"}`
	w := doJSON(router, http.MethodPut, "/trackings/sleep/3", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}
