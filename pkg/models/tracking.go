package models

import (
	"fmt"
	"strings"
	"time"
)

// TrackingType selects one of the tracking record variants.
type TrackingType string

const (
	TrackingSleep TrackingType = "sleep"
	TrackingDay   TrackingType = "day"
)

// Valid reports whether the type names a known tracking variant.
func (t TrackingType) Valid() bool {
	return t == TrackingSleep || t == TrackingDay
}

// SleepQuality rates one night of sleep.
type SleepQuality string

const (
	SleepBad      SleepQuality = "bad"
	SleepModerate SleepQuality = "moderate"
	SleepGood     SleepQuality = "good"
)

// TriggerCategory groups triggers by their origin.
type TriggerCategory string

const (
	TriggerFood        TriggerCategory = "food"
	TriggerEnvironment TriggerCategory = "environment"
	TriggerLifestyle   TriggerCategory = "lifestyle"
	TriggerEmotion     TriggerCategory = "emotion"
	TriggerOther       TriggerCategory = "other"
)

// Date accepts both RFC 3339 timestamps and plain YYYY-MM-DD values on the
// wire, so clients can post dates without a time component.
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(time.RFC3339) + `"`), nil
}

// ParseDate parses a query parameter with the same layouts as Date.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Symptom is a standard symptom that tracking entries can reference.
type Symptom struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Trigger is a categorized trigger that day entries can reference.
type Trigger struct {
	ID       int64           `json:"id" db:"id"`
	Name     string          `json:"name" db:"name"`
	Category TriggerCategory `json:"category" db:"category"`
}

// CreateSymptomRequest is the request body for creating a symptom.
type CreateSymptomRequest struct {
	Name string `json:"name" binding:"required" example:"tingling"`
}

// CreateTriggerRequest is the request body for creating a trigger.
type CreateTriggerRequest struct {
	Name     string          `json:"name" binding:"required" example:"caffeine"`
	Category TriggerCategory `json:"category" binding:"required,oneof=food environment lifestyle emotion other" example:"food"`
}

// Sleep is one night's sleep tracking entry, owned by exactly one user.
type Sleep struct {
	ID        int64        `json:"id" db:"id"`
	UserID    int64        `json:"user_id" db:"user_id"`
	Duration  int          `json:"duration" db:"duration"`
	Date      time.Time    `json:"date" db:"date"`
	Quality   SleepQuality `json:"quality" db:"quality"`
	Comment   string       `json:"comment" db:"comment"`
	Symptoms  []Symptom    `json:"symptoms"`
	Timestamp time.Time    `json:"timestamp" db:"timestamp"`
}

// Day is one day's activity tracking entry, owned by exactly one user.
type Day struct {
	ID                  int64     `json:"id" db:"id"`
	UserID              int64     `json:"user_id" db:"user_id"`
	Date                time.Time `json:"date" db:"date"`
	Comment             string    `json:"comment" db:"comment"`
	Triggers            []Trigger `json:"triggers"`
	LateMorningSymptoms []Symptom `json:"late_morning_symptoms"`
	AfternoonSymptoms   []Symptom `json:"afternoon_symptoms"`
	Timestamp           time.Time `json:"timestamp" db:"timestamp"`
}

// CreateSleepRequest is the request body for creating a sleep entry.
type CreateSleepRequest struct {
	Duration int          `json:"duration" binding:"required,gt=0" example:"8"`
	Date     Date         `json:"date" binding:"required"`
	Quality  SleepQuality `json:"quality" binding:"required,oneof=bad moderate good" example:"good"`
	Comment  string       `json:"comment"`
	Symptoms []int64      `json:"symptoms"`
}

// UpdateSleepRequest is the request body for updating a sleep entry.
type UpdateSleepRequest struct {
	Duration int          `json:"duration" binding:"required,gt=0"`
	Quality  SleepQuality `json:"quality" binding:"required,oneof=bad moderate good"`
	Comment  string       `json:"comment"`
	Symptoms []int64      `json:"symptoms"`
}

// CreateDayRequest is the request body for creating a day entry.
type CreateDayRequest struct {
	Date                Date    `json:"date" binding:"required"`
	Comment             string  `json:"comment"`
	Triggers            []int64 `json:"triggers"`
	LateMorningSymptoms []int64 `json:"late_morning_symptoms"`
	AfternoonSymptoms   []int64 `json:"afternoon_symptoms"`
}

// UpdateDayRequest is the request body for updating a day entry.
type UpdateDayRequest struct {
	Comment             string  `json:"comment"`
	Triggers            []int64 `json:"triggers"`
	LateMorningSymptoms []int64 `json:"late_morning_symptoms"`
	AfternoonSymptoms   []int64 `json:"afternoon_symptoms"`
}
