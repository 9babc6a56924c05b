package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aevel/pland/internal/dates"
)

var (
	ErrInvalidEventDate = errors.New("model: invalid event date")
	ErrInvalidEventTime = errors.New("model: invalid event time")
)

// Event is a calendar entry pinned to a single day. TimeStart/TimeEnd are
// "HH:MM" keys; an event with no start time is all-day regardless of the
// IsAllDay flag the server sends.
type Event struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	TimeStart string `json:"time_start,omitempty"`
	TimeEnd   string `json:"time_end,omitempty"`
	Notes     string `json:"notes,omitempty"`
	IsAllDay  bool   `json:"is_all_day,omitempty"`
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if !dates.IsDayKey(e.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidEventDate, e.Date)
	}
	if e.TimeStart != "" && !dates.IsTimeKey(e.TimeStart) {
		return fmt.Errorf("%w: %q", ErrInvalidEventTime, e.TimeStart)
	}
	if e.TimeEnd != "" && !dates.IsTimeKey(e.TimeEnd) {
		return fmt.Errorf("%w: %q", ErrInvalidEventTime, e.TimeEnd)
	}
	return nil
}

// AllDay reports whether the event occupies the whole day.
func (e Event) AllDay() bool {
	return e.IsAllDay || e.TimeStart == ""
}

// SortTime is the key used to place the event inside its day: all-day
// events pin to "00:00" so they sort before every timed event.
func (e Event) SortTime() string {
	if e.AllDay() {
		return "00:00"
	}
	return e.TimeStart
}

// Preferences is the server-held preferences object. TaskOrder is a hint,
// not authoritative: it may reference deleted tasks and omit live ones.
type Preferences struct {
	TaskOrder []string `json:"task_order"`
}
