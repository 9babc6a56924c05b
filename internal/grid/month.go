// Package grid builds the month view: a week-aligned sequence of day cells
// with events bucketed per day and sorted by start time.
package grid

import (
	"sort"
	"time"

	"github.com/aevel/pland/internal/dates"
	"github.com/aevel/pland/internal/model"
)

// DefaultMaxVisible caps how many events a cell enumerates before the rest
// collapse into an overflow count, keeping cell height bounded.
const DefaultMaxVisible = 5

// DayCell is one slot of the rendered month. Cells from the neighboring
// months (leading and trailing padding) carry IsCurrentMonth=false, keep an
// empty DateKey and never hold events.
type DayCell struct {
	DateKey        string
	DayNumber      int
	IsCurrentMonth bool
	IsToday        bool
	Events         []model.Event
	Overflow       int
}

type Options struct {
	// MaxVisible caps Events per cell; <= 0 means DefaultMaxVisible.
	MaxVisible int
	// TodayKey marks the matching in-month cell. Empty disables the mark,
	// which keeps grid construction a pure function for tests.
	TodayKey string
}

// BuildMonth lays out the given month as full weeks starting on Sunday.
// Leading cells are the previous month's trailing days, trailing cells pad
// the last week to 7. len(result) is always a multiple of 7.
func BuildMonth(year int, month time.Month, events []model.Event, opts Options) []DayCell {
	maxVisible := opts.MaxVisible
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	leading := int(first.Weekday())
	prevMonthDays := first.AddDate(0, 0, -1).Day()

	byDay := bucketByDay(events)

	cells := make([]DayCell, 0, leading+daysInMonth+6)
	for i := 0; i < leading; i++ {
		cells = append(cells, DayCell{DayNumber: prevMonthDays - leading + i + 1})
	}

	for day := 1; day <= daysInMonth; day++ {
		key := dates.DayKey(year, month, day)
		dayEvents := byDay[key]
		sort.SliceStable(dayEvents, func(i, j int) bool {
			return dayEvents[i].SortTime() < dayEvents[j].SortTime()
		})
		cell := DayCell{
			DateKey:        key,
			DayNumber:      day,
			IsCurrentMonth: true,
			IsToday:        opts.TodayKey != "" && key == opts.TodayKey,
			Events:         dayEvents,
		}
		if len(dayEvents) > maxVisible {
			cell.Overflow = len(dayEvents) - maxVisible
			cell.Events = dayEvents[:maxVisible]
		}
		cells = append(cells, cell)
	}

	if rest := len(cells) % 7; rest != 0 {
		for i := 0; i < 7-rest; i++ {
			cells = append(cells, DayCell{DayNumber: i + 1})
		}
	}
	return cells
}

// EventsInMonth filters events to the given month and sorts them by day
// key, then start time. Used for the per-month agenda list next to the grid.
func EventsInMonth(year int, month time.Month, events []model.Event) []model.Event {
	prefix := dates.MonthPrefix(year, month)
	out := make([]model.Event, 0)
	for _, ev := range events {
		if len(ev.Date) == len(prefix)+2 && ev.Date[:len(prefix)] == prefix {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].SortTime() < out[j].SortTime()
	})
	return out
}

func bucketByDay(events []model.Event) map[string][]model.Event {
	byDay := make(map[string][]model.Event)
	for _, ev := range events {
		if ev.Date == "" {
			continue
		}
		byDay[ev.Date] = append(byDay[ev.Date], ev)
	}
	return byDay
}
