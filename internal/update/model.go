// Package update owns the Bubble Tea model: view state, key handling, and
// the async command plumbing between the UI and the planner server.
package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/aevel/pland/internal/agenda"
	"github.com/aevel/pland/internal/alert"
	"github.com/aevel/pland/internal/dates"
	"github.com/aevel/pland/internal/grid"
	"github.com/aevel/pland/internal/model"
)

type View string

const (
	ViewCalendar View = "Calendar"
	ViewTasks    View = "Tasks"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Calendar string
	Tasks    string
	Help     string
	Quit     string
}

// DragPhase tracks the grab-and-drop state machine shared by both views.
// There is no half-dropped state: a drop or a cancel always lands back in
// idle before the next key is handled.
type DragPhase string

const (
	DragIdle   DragPhase = "idle"
	DragActive DragPhase = "dragging"
)

type CalendarDrag struct {
	Phase    DragPhase
	EventID  string
	Title    string
	FromDate string
}

type CalendarState struct {
	FocusYear   int
	FocusMonth  time.Month
	Cells       []grid.DayCell
	Cursor      int
	EventCursor int
	Drag        CalendarDrag
}

type TaskDrag struct {
	Phase  DragPhase
	TaskID string
	Text   string
}

// taskRow is one line of the flattened task list: the three buckets
// concatenated in display order so a single cursor walks all of them.
type taskRow struct {
	Task   model.Task
	Bucket agenda.Bucket
}

type TasksState struct {
	Buckets  agenda.Buckets
	Rows     []taskRow
	Cursor   int
	Selected map[string]bool
	Drag     TaskDrag
}

type ConfirmAction string

const (
	ConfirmNone        ConfirmAction = ""
	ConfirmBatchDelete ConfirmAction = "batch_delete"
	ConfirmTaskDelete  ConfirmAction = "task_delete"
	ConfirmEventDelete ConfirmAction = "event_delete"
)

type ConfirmState struct {
	Action ConfirmAction
	IDs    []string
	Prompt string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView View
	Calendar    CalendarState
	Tasks       TasksState
	Events      []model.Event
	AllTasks    []model.Task
	TaskOrder   []string
	TodayKey    string

	Service PlannerService
	Alerts  *alert.Engine

	Palette     CommandPaletteState
	Form        FormState
	Confirm     ConfirmState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	// lastDeleted holds the most recent bulk-delete snapshot for undo.
	// Undo recreates at most undoLimit of them, by text only.
	lastDeleted []model.Task

	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier

	commandInput textinput.Model
	loadSpinner  spinner.Model
	helpModel    help.Model
	loading      int
	width        int
	height       int

	maxVisibleEvents int
	alertLead        time.Duration
	stateFilePath    string
	clip             clipboardWriter
}

// undoLimit bounds how many deleted tasks one undo recreates.
const undoLimit = 5

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type EventsLoadedMsg struct {
	Events []model.Event
}

type TasksLoadedMsg struct {
	Tasks []model.Task
}

type PreferencesLoadedMsg struct {
	Preferences model.Preferences
}

type EventSavedMsg struct {
	Event model.Event
	Note  string
}

type EventDeletedMsg struct {
	ID string
}

type TaskSavedMsg struct {
	Task model.Task
	Note string
}

type TaskDeletedMsg struct {
	ID string
}

type OrderSavedMsg struct{}

type BatchCompletedMsg struct {
	Count int
}

type BatchDeletedMsg struct {
	Deleted []model.Task
}

type UndoDoneMsg struct {
	Recreated int
}

type AlertDueMsg struct {
	Alert alert.Alert
}

func NewModel(service PlannerService) Model {
	now := time.Now()
	m := Model{
		CurrentView: ViewCalendar,
		Calendar: CalendarState{
			FocusYear:  now.Year(),
			FocusMonth: now.Month(),
		},
		Tasks: TasksState{
			Selected: make(map[string]bool),
			Drag:     TaskDrag{Phase: DragIdle},
		},
		TodayKey: dates.ToDayKey(now),
		Service:  service,
		Keys: GlobalKeyMap{
			Calendar: "1",
			Tasks:    "2",
			Help:     "?",
			Quit:     "q",
		},
		notifier:         NoopDesktopNotifier{},
		maxVisibleEvents: grid.DefaultMaxVisible,
		alertLead:        time.Minute,
		clip:             systemClipboard{},
	}
	m.Calendar.Drag.Phase = DragIdle
	m.initComponents()
	m.rebuildGrid()
	// Init issues the three initial loads; count them here because Init
	// runs on a copy of the model.
	m.loading = 3
	return m
}

func NewModelWithConfig(service PlannerService, engine *alert.Engine, notifier DesktopNotifier, cfg RuntimeConfig) Model {
	m := NewModel(service)
	m.Alerts = engine
	m.DesktopEnabled = cfg.DesktopNotifications
	m.stateFilePath = strings.TrimSpace(cfg.UIStatePath)
	if notifier != nil {
		m.notifier = notifier
	}
	if cfg.MaxVisibleEvents > 0 {
		m.maxVisibleEvents = cfg.MaxVisibleEvents
	}
	if cfg.AlertLeadMinutes > 0 {
		m.alertLead = time.Duration(cfg.AlertLeadMinutes) * time.Minute
	}
	if m.stateFilePath != "" {
		if state, err := loadUIState(m.stateFilePath); err == nil {
			m.applyUIState(state)
		}
	}
	m.rebuildGrid()
	return m
}

func (m *Model) initComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.loadSpinner = spinner.New()
	m.loadSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

// rebuildGrid recomputes the month cells for the focused month from the
// loaded events and clamps the cursors. Called after every event load and
// month navigation; failure paths skip it so the last grid stays up.
func (m *Model) rebuildGrid() {
	m.Calendar.Cells = grid.BuildMonth(m.Calendar.FocusYear, m.Calendar.FocusMonth, m.Events, grid.Options{
		MaxVisible: m.maxVisibleEvents,
		TodayKey:   m.TodayKey,
	})
	if m.Calendar.Cursor < 0 || m.Calendar.Cursor >= len(m.Calendar.Cells) {
		m.Calendar.Cursor = m.firstInMonthCell()
	}
	if !m.Calendar.Cells[m.Calendar.Cursor].IsCurrentMonth {
		m.Calendar.Cursor = m.firstInMonthCell()
	}
	m.clampEventCursor()
}

func (m Model) firstInMonthCell() int {
	for i, cell := range m.Calendar.Cells {
		if cell.IsToday {
			return i
		}
	}
	for i, cell := range m.Calendar.Cells {
		if cell.IsCurrentMonth {
			return i
		}
	}
	return 0
}

func (m *Model) clampEventCursor() {
	cell := m.currentCell()
	if m.Calendar.EventCursor >= len(cell.Events) {
		m.Calendar.EventCursor = len(cell.Events) - 1
	}
	if m.Calendar.EventCursor < 0 {
		m.Calendar.EventCursor = 0
	}
}

func (m Model) currentCell() grid.DayCell {
	if m.Calendar.Cursor < 0 || m.Calendar.Cursor >= len(m.Calendar.Cells) {
		return grid.DayCell{}
	}
	return m.Calendar.Cells[m.Calendar.Cursor]
}

func (m Model) currentEvent() (model.Event, bool) {
	cell := m.currentCell()
	if len(cell.Events) == 0 {
		return model.Event{}, false
	}
	idx := m.Calendar.EventCursor
	if idx < 0 || idx >= len(cell.Events) {
		idx = 0
	}
	return cell.Events[idx], true
}

// regroupTasks rebuilds the buckets and the flat row list from the loaded
// tasks and the persisted order.
func (m *Model) regroupTasks() {
	m.Tasks.Buckets = agenda.Group(m.AllTasks, m.TaskOrder, m.TodayKey)
	rows := make([]taskRow, 0, len(m.AllTasks))
	for _, t := range m.Tasks.Buckets.Today {
		rows = append(rows, taskRow{Task: t, Bucket: agenda.BucketToday})
	}
	for _, t := range m.Tasks.Buckets.Upcoming {
		rows = append(rows, taskRow{Task: t, Bucket: agenda.BucketUpcoming})
	}
	for _, t := range m.Tasks.Buckets.Completed {
		rows = append(rows, taskRow{Task: t, Bucket: agenda.BucketCompleted})
	}
	m.Tasks.Rows = rows
	if m.Tasks.Cursor >= len(rows) {
		m.Tasks.Cursor = len(rows) - 1
	}
	if m.Tasks.Cursor < 0 {
		m.Tasks.Cursor = 0
	}
	// Drop selections for tasks the reload no longer knows about.
	live := make(map[string]bool, len(m.AllTasks))
	for _, t := range m.AllTasks {
		live[t.ID] = true
	}
	for id := range m.Tasks.Selected {
		if !live[id] {
			delete(m.Tasks.Selected, id)
		}
	}
}

func (m Model) currentTaskRow() (taskRow, bool) {
	if len(m.Tasks.Rows) == 0 {
		return taskRow{}, false
	}
	idx := m.Tasks.Cursor
	if idx < 0 || idx >= len(m.Tasks.Rows) {
		idx = 0
	}
	return m.Tasks.Rows[idx], true
}

func (m Model) selectedIDs() []string {
	ids := make([]string, 0, len(m.Tasks.Selected))
	for _, row := range m.Tasks.Rows {
		if m.Tasks.Selected[row.Task.ID] {
			ids = append(ids, row.Task.ID)
		}
	}
	return ids
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{Title: title, Body: body, Level: level, At: time.Now()}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func isKnownView(v View) bool {
	switch v {
	case ViewCalendar, ViewTasks:
		return true
	default:
		return false
	}
}
