package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aevel/pland/internal/dates"
)

var (
	ErrInvalidUrgency = errors.New("model: invalid task urgency")
	ErrInvalidDueDate = errors.New("model: invalid task due date")
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh:
		return true
	default:
		return false
	}
}

// Label is the human form shown in list rows.
func (u Urgency) Label() string {
	switch u {
	case UrgencyHigh:
		return "High"
	case UrgencyLow:
		return "Low"
	default:
		return "Normal"
	}
}

// Task is a server-owned todo item. DueDate, when set, is a day key; done
// tasks keep whatever due date they had.
type Task struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Done       bool      `json:"done"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	DueDate    string    `json:"due_date,omitempty"`
	Urgency    Urgency   `json:"urgency,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: task text is required")
	}
	if t.Urgency != "" && !t.Urgency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidUrgency, t.Urgency)
	}
	if t.DueDate != "" && !dates.IsDayKey(t.DueDate) {
		return fmt.Errorf("%w: %q", ErrInvalidDueDate, t.DueDate)
	}
	return nil
}

// EffectiveUrgency maps the empty urgency the server may omit to normal.
func (t Task) EffectiveUrgency() Urgency {
	if t.Urgency == "" {
		return UrgencyNormal
	}
	return t.Urgency
}

// DueToday reports whether the task is open and due on the given day key.
func (t Task) DueToday(todayKey string) bool {
	return !t.Done && t.DueDate == todayKey
}
