package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aevel/pland/internal/api"
	"github.com/aevel/pland/internal/dates"
	"github.com/aevel/pland/internal/model"
)

type FormKind string

const (
	FormNone      FormKind = ""
	FormAddTask   FormKind = "add_task"
	FormAddEvent  FormKind = "add_event"
	FormEditEvent FormKind = "edit_event"
)

type formField struct {
	Label string
	Input textinput.Model
}

type FormState struct {
	Active  bool
	Kind    FormKind
	Title   string
	EventID string
	Fields  []formField
	Focus   int
	Err     string
}

func newFormField(label, placeholder, value string) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = 40
	in.SetValue(value)
	return formField{Label: label, Input: in}
}

func (m Model) openAddTaskForm() (tea.Model, tea.Cmd) {
	m.Form = FormState{
		Active: true,
		Kind:   FormAddTask,
		Title:  "New task",
		Fields: []formField{
			newFormField("Text", "what needs doing", ""),
			newFormField("Assignee", "optional", ""),
			newFormField("Due date", "YYYY-MM-DD, optional", ""),
			newFormField("Urgency", "low/normal/high, optional", ""),
		},
	}
	m.focusFormField(0)
	return m, nil
}

func (m Model) openAddEventForm(dateKey string) (tea.Model, tea.Cmd) {
	m.Form = FormState{
		Active: true,
		Kind:   FormAddEvent,
		Title:  "New event",
		Fields: []formField{
			newFormField("Date", "YYYY-MM-DD", dateKey),
			newFormField("Title", "what happens", ""),
			newFormField("Starts", "HH:MM, empty for all-day", ""),
			newFormField("Ends", "HH:MM, optional", ""),
			newFormField("Notes", "markdown, optional", ""),
		},
	}
	m.focusFormField(1)
	return m, nil
}

func (m Model) openEditEventForm(ev model.Event) (tea.Model, tea.Cmd) {
	m.Form = FormState{
		Active:  true,
		Kind:    FormEditEvent,
		Title:   "Edit event",
		EventID: ev.ID,
		Fields: []formField{
			newFormField("Title", "what happens", ev.Title),
			newFormField("Starts", "HH:MM, empty for all-day", ev.TimeStart),
			newFormField("Ends", "HH:MM, optional", ev.TimeEnd),
			newFormField("Notes", "markdown, optional", ev.Notes),
		},
	}
	m.focusFormField(0)
	return m, nil
}

func (m *Model) focusFormField(idx int) {
	for i := range m.Form.Fields {
		if i == idx {
			m.Form.Fields[i].Input.Focus()
		} else {
			m.Form.Fields[i].Input.Blur()
		}
	}
	m.Form.Focus = idx
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Form = FormState{}
		m.setStatus("form closed", false)
		return m, nil
	case "tab", "down":
		m.focusFormField((m.Form.Focus + 1) % len(m.Form.Fields))
		return m, nil
	case "shift+tab", "up":
		m.focusFormField((m.Form.Focus - 1 + len(m.Form.Fields)) % len(m.Form.Fields))
		return m, nil
	case "enter":
		return m.submitForm()
	}
	var cmd tea.Cmd
	m.Form.Fields[m.Form.Focus].Input, cmd = m.Form.Fields[m.Form.Focus].Input.Update(msg)
	return m, cmd
}

func (m Model) formValue(idx int) string {
	return strings.TrimSpace(m.Form.Fields[idx].Input.Value())
}

// submitForm validates in place and only closes the form once the input
// would make a well-formed request; nothing is sent otherwise.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.Form.Kind {
	case FormAddTask:
		return m.submitAddTask()
	case FormAddEvent:
		return m.submitAddEvent()
	case FormEditEvent:
		return m.submitEditEvent()
	}
	return m, nil
}

func (m Model) submitAddTask() (tea.Model, tea.Cmd) {
	text := m.formValue(0)
	if text == "" {
		m.Form.Err = "task text is required"
		return m, nil
	}
	due := m.formValue(2)
	if due != "" && !dates.IsDayKey(due) {
		m.Form.Err = "due date must be YYYY-MM-DD"
		return m, nil
	}
	urgency := model.Urgency(strings.ToLower(m.formValue(3)))
	if urgency != "" && !urgency.IsValid() {
		m.Form.Err = "urgency must be low, normal or high"
		return m, nil
	}
	req := api.CreateTaskRequest{
		Text:       text,
		AssignedTo: m.formValue(1),
		DueDate:    due,
		Urgency:    urgency,
	}
	m.Form = FormState{}
	return m, createTaskCmd(m.Service, req)
}

func (m Model) submitAddEvent() (tea.Model, tea.Cmd) {
	date := m.formValue(0)
	if !dates.IsDayKey(date) {
		m.Form.Err = "date must be YYYY-MM-DD"
		return m, nil
	}
	title := m.formValue(1)
	if title == "" {
		m.Form.Err = "event title is required"
		return m, nil
	}
	start, end := m.formValue(2), m.formValue(3)
	if start != "" && !dates.IsTimeKey(start) {
		m.Form.Err = "start must be HH:MM"
		return m, nil
	}
	if end != "" && !dates.IsTimeKey(end) {
		m.Form.Err = "end must be HH:MM"
		return m, nil
	}
	req := api.CreateEventRequest{
		Date:      date,
		Title:     title,
		TimeStart: start,
		TimeEnd:   end,
		Notes:     m.formValue(4),
		IsAllDay:  start == "",
	}
	m.Form = FormState{}
	return m, createEventCmd(m.Service, req)
}

func (m Model) submitEditEvent() (tea.Model, tea.Cmd) {
	title := m.formValue(0)
	if title == "" {
		m.Form.Err = "event title is required"
		return m, nil
	}
	start, end := m.formValue(1), m.formValue(2)
	if start != "" && !dates.IsTimeKey(start) {
		m.Form.Err = "start must be HH:MM"
		return m, nil
	}
	if end != "" && !dates.IsTimeKey(end) {
		m.Form.Err = "end must be HH:MM"
		return m, nil
	}
	notes := m.formValue(3)
	allDay := start == ""
	patch := api.EventPatch{
		Title:     &title,
		TimeStart: &start,
		TimeEnd:   &end,
		Notes:     &notes,
		IsAllDay:  &allDay,
	}
	id := m.Form.EventID
	m.Form = FormState{}
	return m, updateEventCmd(m.Service, id, patch, "event updated: "+title)
}
