package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/aevel/pland/internal/agenda"
	"github.com/aevel/pland/internal/grid"
	"github.com/aevel/pland/internal/model"
	"github.com/aevel/pland/internal/views"
)

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewCalendar:
		leftPane = m.renderMonthView()
		rightPane = m.renderCalendarSidePane()
	case ViewTasks:
		leftPane = m.renderTasksView()
		rightPane = m.renderTaskSidePane()
	}

	notification := ""
	if m.loading > 0 {
		notification = "loading " + m.loadSpinner.View()
	}
	if n := m.renderLastNotification(); n != "" {
		notification = strings.TrimSpace(notification + "\n" + n)
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("pland | view: %s | %s", m.CurrentView, m.monthTitle()),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s calendar | %s tasks | / command | r reload | %s help | %s quit",
			m.Keys.Calendar, m.Keys.Tasks, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) monthTitle() string {
	return fmt.Sprintf("%s %d", m.Calendar.FocusMonth, m.Calendar.FocusYear)
}

func (m Model) renderMonthView() string {
	cells := make([]views.DayCellData, 0, len(m.Calendar.Cells))
	for i, cell := range m.Calendar.Cells {
		lines := make([]string, 0, len(cell.Events))
		for _, ev := range cell.Events {
			lines = append(lines, eventLine(ev))
		}
		cells = append(cells, views.DayCellData{
			DayNumber: cell.DayNumber,
			InMonth:   cell.IsCurrentMonth,
			IsToday:   cell.IsToday,
			IsCursor:  i == m.Calendar.Cursor,
			Events:    lines,
			Overflow:  cell.Overflow,
		})
	}
	data := views.MonthPanelData{
		Title: m.monthTitle(),
		Cells: cells,
	}
	if m.Calendar.Drag.Phase == DragActive {
		data.DragTitle = m.Calendar.Drag.Title
	}
	return views.RenderMonthPanel(data)
}

func eventLine(ev model.Event) string {
	if ev.AllDay() {
		return ev.Title
	}
	return ev.TimeStart + " " + ev.Title
}

func (m Model) renderCalendarSidePane() string {
	if m.Form.Active {
		return m.renderForm()
	}
	parts := []string{
		views.RenderEventDetail(m.eventDetail()),
		m.renderMonthAgenda(),
		views.RenderConfirm(m.Confirm.Prompt),
		views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()),
		m.renderHelpIfVisible(),
	}
	return joinPanes(parts)
}

func (m Model) eventDetail() *views.EventDetailData {
	ev, ok := m.currentEvent()
	if !ok {
		return nil
	}
	return &views.EventDetailData{
		ID:        ev.ID,
		Date:      ev.Date,
		Title:     ev.Title,
		TimeStart: ev.TimeStart,
		TimeEnd:   ev.TimeEnd,
		AllDay:    ev.AllDay(),
		NotesView: views.RenderMarkdown(ev.Notes),
	}
}

// renderMonthAgenda lists the focused month's events in date order, the
// flat complement to the grid.
func (m Model) renderMonthAgenda() string {
	events := grid.EventsInMonth(m.Calendar.FocusYear, m.Calendar.FocusMonth, m.Events)
	if len(events) == 0 {
		return "month agenda:\n(no events)"
	}
	var b strings.Builder
	b.WriteString("month agenda:\n")
	for _, ev := range events {
		when := "all day"
		if !ev.AllDay() {
			when = ev.TimeStart
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", ev.Date, when, ev.Title))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTasksView() string {
	data := views.TasksPanelData{}
	if m.Tasks.Drag.Phase == DragActive {
		data.DragText = m.Tasks.Drag.Text
	}
	for i, row := range m.Tasks.Rows {
		rowData := views.TaskRowData{
			ID:       row.Task.ID,
			Text:     row.Task.Text,
			Done:     row.Task.Done,
			Urgency:  string(row.Task.EffectiveUrgency()),
			DueDate:  row.Task.DueDate,
			Assignee: row.Task.AssignedTo,
			Selected: m.Tasks.Selected[row.Task.ID],
			IsCursor: i == m.Tasks.Cursor,
			Dragging: m.Tasks.Drag.Phase == DragActive && m.Tasks.Drag.TaskID == row.Task.ID,
		}
		switch row.Bucket {
		case agenda.BucketToday:
			data.Today = append(data.Today, rowData)
		case agenda.BucketUpcoming:
			data.Upcoming = append(data.Upcoming, rowData)
		default:
			data.Completed = append(data.Completed, rowData)
		}
	}
	return views.RenderTasksPanel(data)
}

func (m Model) renderTaskSidePane() string {
	if m.Form.Active {
		return m.renderForm()
	}
	detail := "task:\n(no task under cursor)"
	if row, ok := m.currentTaskRow(); ok {
		var b strings.Builder
		b.WriteString("task:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", row.Task.ID))
		b.WriteString(fmt.Sprintf("text: %s\n", row.Task.Text))
		b.WriteString(fmt.Sprintf("bucket: %s\n", row.Bucket))
		b.WriteString(fmt.Sprintf("urgency: %s\n", row.Task.EffectiveUrgency().Label()))
		if row.Task.DueDate != "" {
			b.WriteString(fmt.Sprintf("due: %s\n", row.Task.DueDate))
		}
		if row.Task.AssignedTo != "" {
			b.WriteString(fmt.Sprintf("assigned: %s\n", row.Task.AssignedTo))
		}
		detail = strings.TrimRight(b.String(), "\n")
	}
	parts := []string{
		detail,
		fmt.Sprintf("selected: %d", len(m.Tasks.Selected)),
		views.RenderConfirm(m.Confirm.Prompt),
		views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()),
		m.renderHelpIfVisible(),
	}
	return joinPanes(parts)
}

func (m Model) renderForm() string {
	fields := make([]views.FormFieldData, 0, len(m.Form.Fields))
	for i, f := range m.Form.Fields {
		fields = append(fields, views.FormFieldData{
			Label:   f.Label,
			View:    f.Input.View(),
			Focused: i == m.Form.Focus,
		})
	}
	return views.RenderForm(views.FormData{
		Title:  m.Form.Title,
		Fields: fields,
		Err:    m.Form.Err,
	})
}

func (m Model) renderLastNotification() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	global := m.helpModel.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys(m.Keys.Calendar), key.WithHelp(m.Keys.Calendar, "calendar")),
		key.NewBinding(key.WithKeys(m.Keys.Tasks), key.WithHelp(m.Keys.Tasks, "tasks")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		key.NewBinding(key.WithKeys(m.Keys.Quit), key.WithHelp(m.Keys.Quit, "quit")),
	})
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    m.viewBindings(),
		HelpView:    global,
	})
}

func (m Model) viewBindings() []string {
	switch m.CurrentView {
	case ViewCalendar:
		return []string{
			"- h/j/k/l: move day cursor",
			"- p/n: previous/next month",
			"- t: jump to today",
			"- tab: next event in day",
			"- g: grab event, enter: drop, esc: cancel",
			"- enter: edit event under cursor",
			"- a: add event, d: delete event",
		}
	case ViewTasks:
		return []string{
			"- j/k: move cursor, enter: toggle done",
			"- space: select, x/X: all/none",
			"- c: complete selected, D: delete selected",
			"- u: undo last delete",
			"- g: grab task, enter: drop before target",
			"- y: copy to clipboard, a: add task",
		}
	default:
		return nil
	}
}

func joinPanes(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
