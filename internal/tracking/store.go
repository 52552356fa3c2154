package tracking

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/teleponi/rls-buddy/pkg/models"
)

// Tagged domain errors, mapped to status codes once at the HTTP boundary.
var (
	ErrNotFound   = errors.New("tracking not found")
	ErrNotAllowed = errors.New("user is not allowed to access this tracking")
	ErrNotValid   = errors.New("tracking data not valid")
)

// Store provides access to the tracking service's tables. It owns tracking
// rows exclusively; user_id is a weak reference into the user service.
type Store struct {
	DB *sql.DB
}

// NewStore creates a tracking store.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func tableFor(t models.TrackingType) string {
	if t == models.TrackingDay {
		return "days"
	}
	return "sleeps"
}

// CreateSymptom inserts a new symptom.
func (s *Store) CreateSymptom(name string) (*models.Symptom, error) {
	symptom := &models.Symptom{Name: name}
	err := s.DB.QueryRow("INSERT INTO symptoms (name) VALUES ($1) RETURNING id", name).Scan(&symptom.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotValid, err)
	}
	return symptom, nil
}

// ListSymptoms returns all symptoms.
func (s *Store) ListSymptoms() ([]models.Symptom, error) {
	rows, err := s.DB.Query("SELECT id, name FROM symptoms ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symptoms := []models.Symptom{}
	for rows.Next() {
		var sym models.Symptom
		if err := rows.Scan(&sym.ID, &sym.Name); err != nil {
			return nil, err
		}
		symptoms = append(symptoms, sym)
	}
	return symptoms, rows.Err()
}

// CreateTrigger inserts a new trigger.
func (s *Store) CreateTrigger(name string, category models.TriggerCategory) (*models.Trigger, error) {
	trigger := &models.Trigger{Name: name, Category: category}
	err := s.DB.QueryRow(
		"INSERT INTO triggers (name, category) VALUES ($1, $2) RETURNING id",
		name, string(category),
	).Scan(&trigger.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotValid, err)
	}
	return trigger, nil
}

// ListTriggers returns all triggers.
func (s *Store) ListTriggers() ([]models.Trigger, error) {
	rows, err := s.DB.Query("SELECT id, name, category FROM triggers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	triggers := []models.Trigger{}
	for rows.Next() {
		var tr models.Trigger
		if err := rows.Scan(&tr.ID, &tr.Name, &tr.Category); err != nil {
			return nil, err
		}
		triggers = append(triggers, tr)
	}
	return triggers, rows.Err()
}

// CreateSleep inserts a sleep entry with its symptom associations in one
// transaction.
func (s *Store) CreateSleep(userID int64, req models.CreateSleepRequest) (*models.Sleep, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sleep := &models.Sleep{
		UserID:   userID,
		Duration: req.Duration,
		Date:     req.Date.Time,
		Quality:  req.Quality,
		Comment:  req.Comment,
	}
	err = tx.QueryRow(
		`INSERT INTO sleeps (user_id, duration, date, quality, comment)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, timestamp`,
		userID, req.Duration, req.Date.Time, string(req.Quality), req.Comment,
	).Scan(&sleep.ID, &sleep.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotValid, err)
	}

	if err := insertAssociations(tx, "sleep_symptom_association", "sleep_id", "symptom_id", sleep.ID, req.Symptoms); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetSleep(sleep.ID)
}

// GetSleep fetches a sleep entry including its symptoms.
func (s *Store) GetSleep(id int64) (*models.Sleep, error) {
	var sleep models.Sleep
	err := s.DB.QueryRow(
		"SELECT id, user_id, duration, date, quality, comment, timestamp FROM sleeps WHERE id = $1", id,
	).Scan(&sleep.ID, &sleep.UserID, &sleep.Duration, &sleep.Date, &sleep.Quality, &sleep.Comment, &sleep.Timestamp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sleep.Symptoms, err = s.symptomsFor("sleep_symptom_association", "sleep_id", sleep.ID)
	if err != nil {
		return nil, err
	}
	return &sleep, nil
}

// UpdateSleep replaces the mutable fields and symptom set of a sleep entry.
// Only the owner may update it.
func (s *Store) UpdateSleep(id, userID int64, req models.UpdateSleepRequest) (*models.Sleep, error) {
	if err := s.checkOwner(models.TrackingSleep, id, userID); err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"UPDATE sleeps SET duration = $1, quality = $2, comment = $3, updated = NOW() WHERE id = $4",
		req.Duration, string(req.Quality), req.Comment, id,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotValid, err)
	}

	if _, err := tx.Exec("DELETE FROM sleep_symptom_association WHERE sleep_id = $1", id); err != nil {
		return nil, err
	}
	if err := insertAssociations(tx, "sleep_symptom_association", "sleep_id", "symptom_id", id, req.Symptoms); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetSleep(id)
}

// ListSleepByUser returns the user's sleep entries, optionally limited to a
// date range.
func (s *Store) ListSleepByUser(userID int64, start, end *time.Time) ([]models.Sleep, error) {
	query := "SELECT id, user_id, duration, date, quality, comment, timestamp FROM sleeps WHERE user_id = $1"
	args := []any{userID}
	if start != nil && end != nil {
		query += " AND date >= $2 AND date <= $3"
		args = append(args, *start, *end)
	}
	query += " ORDER BY date"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sleeps := []models.Sleep{}
	for rows.Next() {
		var sleep models.Sleep
		if err := rows.Scan(&sleep.ID, &sleep.UserID, &sleep.Duration, &sleep.Date,
			&sleep.Quality, &sleep.Comment, &sleep.Timestamp); err != nil {
			return nil, err
		}
		sleeps = append(sleeps, sleep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sleeps {
		sleeps[i].Symptoms, err = s.symptomsFor("sleep_symptom_association", "sleep_id", sleeps[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return sleeps, nil
}

// CreateDay inserts a day entry with its trigger and symptom associations
// in one transaction.
func (s *Store) CreateDay(userID int64, req models.CreateDayRequest) (*models.Day, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	day := &models.Day{UserID: userID, Date: req.Date.Time, Comment: req.Comment}
	err = tx.QueryRow(
		"INSERT INTO days (user_id, date, comment) VALUES ($1, $2, $3) RETURNING id, timestamp",
		userID, req.Date.Time, req.Comment,
	).Scan(&day.ID, &day.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotValid, err)
	}

	if err := insertDayAssociations(tx, day.ID, req.Triggers, req.LateMorningSymptoms, req.AfternoonSymptoms); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetDay(day.ID)
}

// GetDay fetches a day entry including its triggers and symptom lists.
func (s *Store) GetDay(id int64) (*models.Day, error) {
	var day models.Day
	err := s.DB.QueryRow(
		"SELECT id, user_id, date, comment, timestamp FROM days WHERE id = $1", id,
	).Scan(&day.ID, &day.UserID, &day.Date, &day.Comment, &day.Timestamp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.loadDayAssociations(&day)
}

// UpdateDay replaces the mutable fields and association sets of a day
// entry. Only the owner may update it.
func (s *Store) UpdateDay(id, userID int64, req models.UpdateDayRequest) (*models.Day, error) {
	if err := s.checkOwner(models.TrackingDay, id, userID); err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec("UPDATE days SET comment = $1, updated = NOW() WHERE id = $2", req.Comment, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotValid, err)
	}

	for _, table := range []string{"day_trigger_association", "late_morning_symptom_association", "afternoon_symptom_association"} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE day_id = $1", table), id); err != nil {
			return nil, err
		}
	}
	if err := insertDayAssociations(tx, id, req.Triggers, req.LateMorningSymptoms, req.AfternoonSymptoms); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetDay(id)
}

// ListDayByUser returns the user's day entries, optionally limited to a
// date range.
func (s *Store) ListDayByUser(userID int64, start, end *time.Time) ([]models.Day, error) {
	query := "SELECT id, user_id, date, comment, timestamp FROM days WHERE user_id = $1"
	args := []any{userID}
	if start != nil && end != nil {
		query += " AND date >= $2 AND date <= $3"
		args = append(args, *start, *end)
	}
	query += " ORDER BY date"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []models.Day{}
	for rows.Next() {
		var day models.Day
		if err := rows.Scan(&day.ID, &day.UserID, &day.Date, &day.Comment, &day.Timestamp); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		if _, err := s.loadDayAssociations(&days[i]); err != nil {
			return nil, err
		}
	}
	return days, nil
}

// DeleteTracking removes a single tracking entry. Association rows go away
// with it via ON DELETE CASCADE. Only the owner may delete it.
func (s *Store) DeleteTracking(trackingType models.TrackingType, id, userID int64) error {
	if err := s.checkOwner(trackingType, id, userID); err != nil {
		return err
	}
	_, err := s.DB.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = $1", tableFor(trackingType)), id)
	return err
}

// DeleteAllByUser removes every tracking record owned by the user, both
// variants, in one transaction. Deleting zero rows is a successful no-op,
// so duplicate deletion events converge to the same end state.
func (s *Store) DeleteAllByUser(userID int64) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sleeps WHERE user_id = $1", userID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM days WHERE user_id = $1", userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) checkOwner(trackingType models.TrackingType, id, userID int64) error {
	var owner int64
	err := s.DB.QueryRow(
		fmt.Sprintf("SELECT user_id FROM %s WHERE id = $1", tableFor(trackingType)), id,
	).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrNotAllowed
	}
	return nil
}

func (s *Store) symptomsFor(table, column string, id int64) ([]models.Symptom, error) {
	query := fmt.Sprintf(
		"SELECT s.id, s.name FROM symptoms s JOIN %s a ON a.symptom_id = s.id WHERE a.%s = $1 ORDER BY s.id",
		table, column,
	)
	rows, err := s.DB.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symptoms := []models.Symptom{}
	for rows.Next() {
		var sym models.Symptom
		if err := rows.Scan(&sym.ID, &sym.Name); err != nil {
			return nil, err
		}
		symptoms = append(symptoms, sym)
	}
	return symptoms, rows.Err()
}

func (s *Store) triggersFor(dayID int64) ([]models.Trigger, error) {
	rows, err := s.DB.Query(
		`SELECT t.id, t.name, t.category FROM triggers t
		 JOIN day_trigger_association a ON a.trigger_id = t.id WHERE a.day_id = $1 ORDER BY t.id`,
		dayID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	triggers := []models.Trigger{}
	for rows.Next() {
		var tr models.Trigger
		if err := rows.Scan(&tr.ID, &tr.Name, &tr.Category); err != nil {
			return nil, err
		}
		triggers = append(triggers, tr)
	}
	return triggers, rows.Err()
}

func (s *Store) loadDayAssociations(day *models.Day) (*models.Day, error) {
	var err error
	if day.Triggers, err = s.triggersFor(day.ID); err != nil {
		return nil, err
	}
	if day.LateMorningSymptoms, err = s.symptomsFor("late_morning_symptom_association", "day_id", day.ID); err != nil {
		return nil, err
	}
	if day.AfternoonSymptoms, err = s.symptomsFor("afternoon_symptom_association", "day_id", day.ID); err != nil {
		return nil, err
	}
	return day, nil
}

func insertAssociations(tx *sql.Tx, table, leftCol, rightCol string, leftID int64, rightIDs []int64) error {
	query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)", table, leftCol, rightCol)
	for _, rightID := range rightIDs {
		if _, err := tx.Exec(query, leftID, rightID); err != nil {
			return fmt.Errorf("%w: %v", ErrNotValid, err)
		}
	}
	return nil
}

func insertDayAssociations(tx *sql.Tx, dayID int64, triggers, lateMorning, afternoon []int64) error {
	if err := insertAssociations(tx, "day_trigger_association", "day_id", "trigger_id", dayID, triggers); err != nil {
		return err
	}
	if err := insertAssociations(tx, "late_morning_symptom_association", "day_id", "symptom_id", dayID, lateMorning); err != nil {
		return err
	}
	return insertAssociations(tx, "afternoon_symptom_association", "day_id", "symptom_id", dayID, afternoon)
}
