package commands

import (
	"errors"
	"testing"
)

func requireCommandError(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got: %v", err)
	}
	if cmdErr.Code != code {
		t.Fatalf("expected code %q, got %q (%s)", code, cmdErr.Code, cmdErr.Message)
	}
}

func TestParseAdd(t *testing.T) {
	cmd, err := Parse("/add buy oat milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Type != TypeAdd || cmd.Add == nil || cmd.Add.Text != "buy oat milk" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
}

func TestParseWithoutSlash(t *testing.T) {
	cmd, err := Parse("add water plants")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Add.Text != "water plants" {
		t.Fatalf("unexpected text: %q", cmd.Add.Text)
	}
}

func TestParseEvent(t *testing.T) {
	cmd, err := Parse("/event 2024-02-14 Dinner with the team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Type != TypeEvent || cmd.Event.Date != "2024-02-14" || cmd.Event.Title != "Dinner with the team" {
		t.Fatalf("unexpected command: %#v", cmd.Event)
	}
}

func TestParseEventRejectsBadDate(t *testing.T) {
	_, err := Parse("/event tomorrow Dinner")
	requireCommandError(t, err, ErrCodeInvalidArgument)
}

func TestParseReschedule(t *testing.T) {
	cmd, err := Parse("/reschedule ev-42 2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Reschedule.EventID != "ev-42" || cmd.Reschedule.Date != "2024-03-01" {
		t.Fatalf("unexpected args: %#v", cmd.Reschedule)
	}
}

func TestParseRescheduleArity(t *testing.T) {
	_, err := Parse("/reschedule ev-42")
	requireCommandError(t, err, ErrCodeInvalidArgument)
}

func TestParseGoto(t *testing.T) {
	cmd, err := Parse("/goto 2024-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Goto.Year != 2024 || cmd.Goto.Month != 2 {
		t.Fatalf("unexpected args: %#v", cmd.Goto)
	}
}

func TestParseGotoRejectsBadMonth(t *testing.T) {
	_, err := Parse("/goto feb")
	requireCommandError(t, err, ErrCodeInvalidArgument)
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "/"} {
		_, err := Parse(input)
		requireCommandError(t, err, ErrCodeEmptyInput)
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("/frobnicate now")
	requireCommandError(t, err, ErrCodeUnknownCommand)
}
