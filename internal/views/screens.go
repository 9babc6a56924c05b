package views

import (
	"fmt"
	"strings"
)

const cellWidth = 14

type DayCellData struct {
	DayNumber int
	InMonth   bool
	IsToday   bool
	IsCursor  bool
	Events    []string
	Overflow  int
}

type MonthPanelData struct {
	Title     string
	Cells     []DayCellData
	DragTitle string
}

var weekdayHeader = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// RenderMonthPanel draws the week-aligned cell grid. Each week renders as a
// block of equal-height cells joined column by column, so event lines stay
// under their day number.
func RenderMonthPanel(data MonthPanelData) string {
	var b strings.Builder
	b.WriteString(data.Title + "\n")
	if data.DragTitle != "" {
		b.WriteString(fmt.Sprintf("moving: %s (enter to drop, esc to cancel)\n", data.DragTitle))
	}
	b.WriteString("actions: [h/j/k/l]move [p/n]month [t]today [g]grab [enter]drop/edit [a]add [d]delete\n")

	for _, day := range weekdayHeader {
		b.WriteString(pad(day, cellWidth))
	}
	b.WriteString("\n")

	for week := 0; week*7 < len(data.Cells); week++ {
		cells := data.Cells[week*7 : week*7+7]
		height := 1
		for _, c := range cells {
			if h := cellHeight(c); h > height {
				height = h
			}
		}
		for line := 0; line < height; line++ {
			for _, c := range cells {
				b.WriteString(pad(cellLine(c, line), cellWidth))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func cellHeight(c DayCellData) int {
	h := 1 + len(c.Events)
	if c.Overflow > 0 {
		h++
	}
	return h
}

func cellLine(c DayCellData, line int) string {
	if line == 0 {
		num := fmt.Sprintf("%2d", c.DayNumber)
		if !c.InMonth {
			return "  " + num + "."
		}
		marks := ""
		if c.IsToday {
			marks += "*"
		}
		head := num + marks
		if c.IsCursor {
			return cursorStyle.Render(">" + head)
		}
		if c.IsToday {
			return " " + todayStyle.Render(head)
		}
		return " " + head
	}
	idx := line - 1
	if idx < len(c.Events) {
		return "  " + truncate(c.Events[idx], cellWidth-3)
	}
	if c.Overflow > 0 && idx == len(c.Events) {
		return fmt.Sprintf("  +%d more", c.Overflow)
	}
	return ""
}

type EventDetailData struct {
	ID        string
	Date      string
	Title     string
	TimeStart string
	TimeEnd   string
	AllDay    bool
	NotesView string
}

func RenderEventDetail(data *EventDetailData) string {
	if data == nil {
		return "event:\n(no event under cursor)"
	}
	var b strings.Builder
	b.WriteString("event:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	when := data.Date
	if data.AllDay {
		when += " (all day)"
	} else {
		when += " " + data.TimeStart
		if data.TimeEnd != "" {
			when += "-" + data.TimeEnd
		}
	}
	b.WriteString(fmt.Sprintf("when: %s\n", when))
	if data.NotesView != "" {
		b.WriteString("notes:\n" + data.NotesView)
	}
	return strings.TrimRight(b.String(), "\n")
}

type TaskRowData struct {
	ID       string
	Text     string
	Done     bool
	Urgency  string
	DueDate  string
	Assignee string
	Selected bool
	IsCursor bool
	Dragging bool
}

type TasksPanelData struct {
	Today     []TaskRowData
	Upcoming  []TaskRowData
	Completed []TaskRowData
	DragText  string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if data.DragText != "" {
		b.WriteString(fmt.Sprintf("moving: %s (enter on target, esc to cancel)\n", data.DragText))
	}
	b.WriteString("actions: [space]select [x/X]all/none [c]complete [D]delete [u]undo [g]grab [y]copy [a]add\n")
	renderTaskSection(&b, "Today", data.Today)
	renderTaskSection(&b, "Upcoming", data.Upcoming)
	renderTaskSection(&b, "Completed", data.Completed)
	return strings.TrimRight(b.String(), "\n")
}

func renderTaskSection(b *strings.Builder, title string, rows []TaskRowData) {
	b.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(rows) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, row := range rows {
		cursor := " "
		if row.IsCursor {
			cursor = ">"
		}
		box := "[ ]"
		if row.Selected {
			box = "[x]"
		}
		check := " "
		if row.Done {
			check = "✓"
		}
		line := fmt.Sprintf("%s %s %s %s %s", cursor, box, check, urgencyBadge(row.Urgency), row.Text)
		if row.DueDate != "" {
			line += " due:" + row.DueDate
		}
		if row.Assignee != "" {
			line += " @" + row.Assignee
		}
		if row.Dragging {
			line += " <-"
		}
		b.WriteString(line + "\n")
	}
}

func urgencyBadge(urgency string) string {
	switch strings.ToLower(urgency) {
	case "high":
		return "[RED]"
	case "low":
		return "[GREEN]"
	default:
		return "[YELLOW]"
	}
}

type FormFieldData struct {
	Label   string
	View    string
	Focused bool
}

type FormData struct {
	Title  string
	Fields []FormFieldData
	Err    string
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString(data.Title + ":\n")
	b.WriteString("keys: [tab]next field [enter]save [esc]cancel\n")
	for _, f := range data.Fields {
		mark := " "
		if f.Focused {
			mark = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", mark, f.Label, f.View))
	}
	if data.Err != "" {
		b.WriteString(errorStyle.Render("error: "+data.Err) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderConfirm(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return ""
	}
	return "confirm: " + prompt
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func pad(s string, width int) string {
	if visibleLen(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-visibleLen(s))
}

// visibleLen ignores ANSI sequences lipgloss wraps around styled cells.
func visibleLen(s string) int {
	visible := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			visible++
		}
	}
	return visible
}

func truncate(s string, width int) string {
	if width <= 1 || len([]rune(s)) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
