package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aevel/pland/internal/alert"
	"github.com/aevel/pland/internal/model"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadEventsCmd(m.Service),
		loadTasksCmd(m.Service),
		loadPreferencesCmd(m.Service),
		m.loadSpinner.Tick,
	}
	if m.Alerts != nil {
		cmds = append(cmds, waitForAlertCmd(m.Alerts.C()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) reloadAllCmd() tea.Cmd {
	m.loading += 3
	return tea.Batch(
		loadEventsCmd(m.Service),
		loadTasksCmd(m.Service),
		loadPreferencesCmd(m.Service),
		m.loadSpinner.Tick,
	)
}

func (m *Model) loadDone() {
	if m.loading > 0 {
		m.loading--
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typed)

	case spinner.TickMsg:
		if m.loading > 0 {
			var cmd tea.Cmd
			m.loadSpinner, cmd = m.loadSpinner.Update(typed)
			return m, cmd
		}
		return m, nil

	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			m.persistUIState()
		}
		return m, nil

	case SetStatusMsg:
		m.setStatus(typed.Text, typed.IsError)
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		m.loadDone()
		m.LastError = typed.Err
		if typed.Err != nil {
			m.setStatus(typed.Err.Error(), true)
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil

	case EventsLoadedMsg:
		m.loadDone()
		m.Events = typed.Events
		m.rebuildGrid()
		m.resetAlerts()
		return m, nil

	case TasksLoadedMsg:
		m.loadDone()
		m.AllTasks = typed.Tasks
		m.regroupTasks()
		return m, nil

	case PreferencesLoadedMsg:
		m.loadDone()
		m.TaskOrder = typed.Preferences.TaskOrder
		m.regroupTasks()
		return m, nil

	case EventSavedMsg:
		m.setStatus(typed.Note, false)
		m.notify("Event", typed.Note, "info")
		m.loading++
		return m, tea.Batch(loadEventsCmd(m.Service), m.loadSpinner.Tick)

	case EventDeletedMsg:
		m.setStatus("event deleted", false)
		m.loading++
		return m, tea.Batch(loadEventsCmd(m.Service), m.loadSpinner.Tick)

	case TaskSavedMsg:
		m.setStatus(typed.Note, false)
		m.notify("Task", typed.Note, "info")
		m.loading++
		return m, tea.Batch(loadTasksCmd(m.Service), m.loadSpinner.Tick)

	case TaskDeletedMsg:
		m.setStatus("task deleted", false)
		m.loading++
		return m, tea.Batch(loadTasksCmd(m.Service), m.loadSpinner.Tick)

	case OrderSavedMsg:
		m.setStatus("task order saved", false)
		m.loading += 2
		return m, tea.Batch(loadTasksCmd(m.Service), loadPreferencesCmd(m.Service), m.loadSpinner.Tick)

	case BatchCompletedMsg:
		m.Tasks.Selected = make(map[string]bool)
		m.setStatus(fmt.Sprintf("%d task(s) completed", typed.Count), false)
		m.notify("Batch", m.Status.Text, "info")
		m.loading++
		return m, tea.Batch(loadTasksCmd(m.Service), m.loadSpinner.Tick)

	case BatchDeletedMsg:
		m.lastDeleted = typed.Deleted
		m.Tasks.Selected = make(map[string]bool)
		m.setStatus(fmt.Sprintf("%d task(s) deleted, press u to undo", len(typed.Deleted)), false)
		m.notify("Batch", m.Status.Text, "info")
		m.loading++
		return m, tea.Batch(loadTasksCmd(m.Service), m.loadSpinner.Tick)

	case UndoDoneMsg:
		m.lastDeleted = nil
		m.setStatus(fmt.Sprintf("undo recreated %d task(s)", typed.Recreated), false)
		m.loading++
		return m, tea.Batch(loadTasksCmd(m.Service), m.loadSpinner.Tick)

	case AlertDueMsg:
		text := fmt.Sprintf("starting now: %s", typed.Alert.Title)
		m.setStatus(text, false)
		m.notify("Event alert", text, "info")
		if m.Alerts != nil {
			return m, waitForAlertCmd(m.Alerts.C())
		}
		return m, nil
	}

	return m, nil
}

// resetAlerts swaps the alert queue for today's timed events after every
// event load. The engine treats each reset as authoritative.
func (m *Model) resetAlerts() {
	if m.Alerts == nil {
		return
	}
	m.Alerts.Reset(alert.BuildAlerts(m.Events, m.TodayKey, m.alertLead, nil))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Form.Active {
		return m.handleFormKey(msg)
	}
	if m.Confirm.Action != ConfirmNone {
		return m.handleConfirmKey(msg)
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}

	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.setStatus("command palette active", false)
		return m, nil
	case m.Keys.Calendar:
		m.CurrentView = ViewCalendar
		m.persistUIState()
		return m, nil
	case m.Keys.Tasks:
		m.CurrentView = ViewTasks
		m.persistUIState()
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "r":
		m.setStatus("reloading", false)
		return m, m.reloadAllCmd()
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		m.persistUIState()
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewCalendar:
		return m.handleCalendarKey(msg)
	case ViewTasks:
		return m.handleTasksKey(msg)
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := m.Confirm.Action
		ids := m.Confirm.IDs
		m.Confirm = ConfirmState{}
		return m.runConfirmed(action, ids)
	case "n", "N", "esc":
		m.Confirm = ConfirmState{}
		m.setStatus("cancelled", false)
		return m, nil
	}
	return m, nil
}

func (m Model) runConfirmed(action ConfirmAction, ids []string) (tea.Model, tea.Cmd) {
	switch action {
	case ConfirmBatchDelete:
		snapshot := m.tasksByID(ids)
		return m, batchDeleteCmd(m.Service, snapshot)
	case ConfirmTaskDelete:
		if len(ids) == 1 {
			return m, deleteTaskCmd(m.Service, ids[0])
		}
	case ConfirmEventDelete:
		if len(ids) == 1 {
			return m, deleteEventCmd(m.Service, ids[0])
		}
	}
	return m, nil
}

// tasksByID snapshots the live tasks matching ids, preserving id order, so
// a later undo can recreate them even after the reload drops them.
func (m Model) tasksByID(ids []string) []model.Task {
	byID := make(map[string]model.Task, len(m.AllTasks))
	for _, t := range m.AllTasks {
		byID[t.ID] = t
	}
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
