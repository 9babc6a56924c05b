package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	task := Task{
		ID:        "task-1",
		Text:      "Ship the release notes",
		DueDate:   "2024-02-01",
		Urgency:   UrgencyHigh,
		CreatedAt: time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC),
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateMinimal(t *testing.T) {
	// The server omits urgency, due date and assignee on bare tasks.
	task := Task{ID: "task-2", Text: "untriaged"}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected minimal task valid, got: %v", err)
	}
	if task.EffectiveUrgency() != UrgencyNormal {
		t.Fatalf("expected empty urgency to read as normal, got %q", task.EffectiveUrgency())
	}
}

func TestTaskValidateInvalidUrgency(t *testing.T) {
	task := Task{ID: "task-1", Text: "x", Urgency: Urgency("urgent")}
	if err := task.Validate(); !errors.Is(err, ErrInvalidUrgency) {
		t.Fatalf("expected ErrInvalidUrgency, got: %v", err)
	}
}

func TestTaskValidateInvalidDueDate(t *testing.T) {
	task := Task{ID: "task-1", Text: "x", DueDate: "02/01/2024"}
	if err := task.Validate(); !errors.Is(err, ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got: %v", err)
	}
}

func TestTaskDueToday(t *testing.T) {
	task := Task{ID: "task-1", Text: "x", DueDate: "2024-02-01"}
	if !task.DueToday("2024-02-01") {
		t.Fatal("expected open task with matching due date to be due today")
	}
	task.Done = true
	if task.DueToday("2024-02-01") {
		t.Fatal("done tasks are never due today")
	}
	task.Done = false
	if task.DueToday("2024-02-02") {
		t.Fatal("mismatched day key must not be due today")
	}
}

func TestUrgencyLabel(t *testing.T) {
	cases := map[Urgency]string{
		UrgencyLow:    "Low",
		UrgencyNormal: "Normal",
		UrgencyHigh:   "High",
		Urgency(""):   "Normal",
	}
	for u, want := range cases {
		if got := u.Label(); got != want {
			t.Fatalf("urgency %q: expected label %q, got %q", u, want, got)
		}
	}
}
