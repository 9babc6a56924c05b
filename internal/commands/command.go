package commands

import (
	"fmt"
	"strings"

	"github.com/aevel/pland/internal/dates"
)

type Type string

const (
	TypeAdd        Type = "add"
	TypeEvent      Type = "event"
	TypeReschedule Type = "reschedule"
	TypeGoto       Type = "goto"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

type EventArgs struct {
	Date  string
	Title string
}

type RescheduleArgs struct {
	EventID string
	Date    string
}

type GotoArgs struct {
	Year  int
	Month int
}

type Command struct {
	Type       Type
	Raw        string
	Add        *AddArgs
	Event      *EventArgs
	Reschedule *RescheduleArgs
	Goto       *GotoArgs
}

// Parse turns a palette line into a Command. A leading slash is optional;
// the palette strips it before display but users paste both forms.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeEvent:
		return parseEvent(input, args)
	case TypeReschedule:
		return parseReschedule(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parseEvent(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "event requires a date and a title"}
	}
	date := args[0]
	if !dates.IsDayKey(date) {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("not a date: %s", date)}
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	return Command{Type: TypeEvent, Raw: raw, Event: &EventArgs{Date: date, Title: title}}, nil
}

func parseReschedule(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "reschedule requires an event id and a date"}
	}
	if !dates.IsDayKey(args[1]) {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("not a date: %s", args[1])}
	}
	return Command{Type: TypeReschedule, Raw: raw, Reschedule: &RescheduleArgs{EventID: args[0], Date: args[1]}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires a YYYY-MM month"}
	}
	year, month, _, err := dates.ParseDayKey(args[0] + "-01")
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("not a month: %s", args[0])}
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Year: year, Month: int(month)}}, nil
}
