package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aevel/pland/internal/alert"
	"github.com/aevel/pland/internal/api"
	"github.com/aevel/pland/internal/model"
)

func newTestAlertEngine() *alert.Engine {
	return alert.NewEngine(1)
}

func alertFixture(title string) alert.Alert {
	return alert.Alert{EventID: "ev-1", Title: title, StartAt: time.Now()}
}

// fakeService records every call so tests can assert on the requests the
// UI produces without a server.
type fakeService struct {
	events []model.Event
	tasks  []model.Task
	prefs  model.Preferences
	err    error

	nextID         int
	createdTasks   []api.CreateTaskRequest
	createdEvents  []api.CreateEventRequest
	patchedEventID string
	eventPatch     api.EventPatch
	patchedTaskID  string
	taskPatch      api.TaskPatch
	deletedEvents  []string
	deletedTasks   []string
	completedIDs   []string
	completedDone  bool
	batchDeleted   []string
	savedOrder     []string
}

func (f *fakeService) ListEvents(context.Context) ([]model.Event, error) {
	return f.events, f.err
}

func (f *fakeService) CreateEvent(_ context.Context, in api.CreateEventRequest) (model.Event, error) {
	if f.err != nil {
		return model.Event{}, f.err
	}
	f.createdEvents = append(f.createdEvents, in)
	f.nextID++
	return model.Event{ID: fmt.Sprintf("ev-%d", f.nextID), Date: in.Date, Title: in.Title}, nil
}

func (f *fakeService) UpdateEvent(_ context.Context, id string, patch api.EventPatch) (model.Event, error) {
	if f.err != nil {
		return model.Event{}, f.err
	}
	f.patchedEventID = id
	f.eventPatch = patch
	return model.Event{ID: id}, nil
}

func (f *fakeService) DeleteEvent(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedEvents = append(f.deletedEvents, id)
	return nil
}

func (f *fakeService) ListTasks(context.Context) ([]model.Task, error) {
	return f.tasks, f.err
}

func (f *fakeService) CreateTask(_ context.Context, in api.CreateTaskRequest) (model.Task, error) {
	if f.err != nil {
		return model.Task{}, f.err
	}
	f.createdTasks = append(f.createdTasks, in)
	f.nextID++
	return model.Task{ID: fmt.Sprintf("t-%d", f.nextID), Text: in.Text}, nil
}

func (f *fakeService) UpdateTask(_ context.Context, id string, patch api.TaskPatch) (model.Task, error) {
	if f.err != nil {
		return model.Task{}, f.err
	}
	f.patchedTaskID = id
	f.taskPatch = patch
	return model.Task{ID: id}, nil
}

func (f *fakeService) DeleteTask(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedTasks = append(f.deletedTasks, id)
	return nil
}

func (f *fakeService) BatchComplete(_ context.Context, ids []string, done bool) error {
	if f.err != nil {
		return f.err
	}
	f.completedIDs = ids
	f.completedDone = done
	return nil
}

func (f *fakeService) BatchDelete(_ context.Context, ids []string) error {
	if f.err != nil {
		return f.err
	}
	f.batchDeleted = ids
	return nil
}

func (f *fakeService) GetPreferences(context.Context) (model.Preferences, error) {
	return f.prefs, f.err
}

func (f *fakeService) UpdateTaskOrder(_ context.Context, order []string) error {
	if f.err != nil {
		return f.err
	}
	f.savedOrder = order
	return nil
}

func newTestModel(svc PlannerService) Model {
	m := NewModel(svc)
	m.TodayKey = "2024-02-01"
	m.Calendar.FocusYear = 2024
	m.Calendar.FocusMonth = time.February
	m.Calendar.Cursor = -1
	m.rebuildGrid()
	return m
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, not Model", updated)
	}
	return next, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadAll(t *testing.T, m Model, events []model.Event, tasks []model.Task, order []string) Model {
	t.Helper()
	m, _ = apply(t, m, EventsLoadedMsg{Events: events})
	m, _ = apply(t, m, TasksLoadedMsg{Tasks: tasks})
	m, _ = apply(t, m, PreferencesLoadedMsg{Preferences: model.Preferences{TaskOrder: order}})
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(&fakeService{})
	if m.CurrentView != ViewCalendar {
		t.Fatalf("expected default view %q, got %q", ViewCalendar, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Calendar.Drag.Phase != DragIdle || m.Tasks.Drag.Phase != DragIdle {
		t.Fatal("both drags must start idle")
	}
}

func TestKeySwitchesView(t *testing.T) {
	m := newTestModel(&fakeService{})
	m, _ = apply(t, m, keyRunes("2"))
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %q", m.CurrentView)
	}
	m, _ = apply(t, m, keyRunes("1"))
	if m.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", m.CurrentView)
	}
}

func TestSwitchViewMsgIgnoresUnknown(t *testing.T) {
	m := newTestModel(&fakeService{})
	m, _ = apply(t, m, SwitchViewMsg{View: ViewTasks})
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %q", m.CurrentView)
	}
	m, _ = apply(t, m, SwitchViewMsg{View: View("Nope")})
	if m.CurrentView != ViewTasks {
		t.Fatalf("unknown view must not switch, got %q", m.CurrentView)
	}
}

func TestStatusAndErrorMessages(t *testing.T) {
	m := newTestModel(&fakeService{})
	m, _ = apply(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	boom := errors.New("boom")
	m, _ = apply(t, m, AppErrorMsg{Err: boom})
	if m.LastError == nil || m.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", m.LastError)
	}
	if !m.Status.IsError {
		t.Fatalf("expected error status: %+v", m.Status)
	}

	m, _ = apply(t, m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status, got: %+v", m.Status)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(&fakeService{})
	m, cmd := apply(t, m, keyRunes("q"))
	if !m.Quitting {
		t.Fatal("expected quitting flag")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestEventsLoadedRebuildsGrid(t *testing.T) {
	m := newTestModel(&fakeService{})
	events := []model.Event{{ID: "e1", Date: "2024-02-14", Title: "Dinner", TimeStart: "19:00"}}
	m, _ = apply(t, m, EventsLoadedMsg{Events: events})

	// Feb 2024 starts on Thursday: 4 leading cells, day 14 sits at index 17.
	cell := m.Calendar.Cells[17]
	if cell.DateKey != "2024-02-14" {
		t.Fatalf("unexpected cell at index 17: %+v", cell)
	}
	if len(cell.Events) != 1 || cell.Events[0].ID != "e1" {
		t.Fatalf("expected loaded event in cell, got %+v", cell.Events)
	}
}

func TestErrorLoadKeepsLastGrid(t *testing.T) {
	m := newTestModel(&fakeService{})
	events := []model.Event{{ID: "e1", Date: "2024-02-14", Title: "Dinner"}}
	m, _ = apply(t, m, EventsLoadedMsg{Events: events})
	m, _ = apply(t, m, AppErrorMsg{Err: errors.New("connection refused")})
	if len(m.Calendar.Cells[17].Events) != 1 {
		t.Fatal("failed load must not clear the previous grid")
	}
	if !m.Status.IsError {
		t.Fatal("expected error status after failed load")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(&fakeService{})
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	if !strings.Contains(out, "view: Calendar") {
		t.Fatalf("expected view name in output: %q", out)
	}
	if !strings.Contains(out, "February 2024") {
		t.Fatalf("expected month title in output: %q", out)
	}
	if !strings.Contains(out, "status: all good") {
		t.Fatalf("expected status in output: %q", out)
	}
}

func TestTasksViewRendersBucketsAndSelection(t *testing.T) {
	m := newTestModel(&fakeService{})
	m = loadAll(t, m, nil, []model.Task{
		{ID: "1", Text: "due today", DueDate: "2024-02-01"},
		{ID: "2", Text: "later on"},
		{ID: "3", Text: "finished", Done: true},
	}, nil)
	m.CurrentView = ViewTasks
	m.Tasks.Selected["2"] = true

	out := m.View()
	for _, want := range []string{"Today:", "Upcoming:", "Completed:", "due today", "[x]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in tasks view: %q", want, out)
		}
	}
}

func TestAlertDueMsgNotifiesAndRearms(t *testing.T) {
	m := newTestModel(&fakeService{})
	m.Alerts = newTestAlertEngine()
	m, cmd := apply(t, m, AlertDueMsg{Alert: alertFixture("Standup")})
	if !strings.Contains(m.Status.Text, "Standup") {
		t.Fatalf("expected alert status, got %q", m.Status.Text)
	}
	if cmd == nil {
		t.Fatal("expected re-armed wait command")
	}
	if len(m.Notifications) == 0 {
		t.Fatal("expected a notification entry")
	}
}
