package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aevel/pland/internal/alert"
	"github.com/aevel/pland/internal/api"
	"github.com/aevel/pland/internal/model"
)

// Every server call runs inside a tea.Cmd and resolves to exactly one
// message; the update loop is the only writer of model state.

func loadEventsCmd(s PlannerService) tea.Cmd {
	return func() tea.Msg {
		events, err := s.ListEvents(context.Background())
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return EventsLoadedMsg{Events: events}
	}
}

func loadTasksCmd(s PlannerService) tea.Cmd {
	return func() tea.Msg {
		tasks, err := s.ListTasks(context.Background())
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

func loadPreferencesCmd(s PlannerService) tea.Cmd {
	return func() tea.Msg {
		prefs, err := s.GetPreferences(context.Background())
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return PreferencesLoadedMsg{Preferences: prefs}
	}
}

func createEventCmd(s PlannerService, in api.CreateEventRequest) tea.Cmd {
	return func() tea.Msg {
		ev, err := s.CreateEvent(context.Background(), in)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return EventSavedMsg{Event: ev, Note: fmt.Sprintf("event created: %s", ev.Title)}
	}
}

func updateEventCmd(s PlannerService, id string, patch api.EventPatch, note string) tea.Cmd {
	return func() tea.Msg {
		ev, err := s.UpdateEvent(context.Background(), id, patch)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return EventSavedMsg{Event: ev, Note: note}
	}
}

func deleteEventCmd(s PlannerService, id string) tea.Cmd {
	return func() tea.Msg {
		if err := s.DeleteEvent(context.Background(), id); err != nil {
			return AppErrorMsg{Err: err}
		}
		return EventDeletedMsg{ID: id}
	}
}

func createTaskCmd(s PlannerService, in api.CreateTaskRequest) tea.Cmd {
	return func() tea.Msg {
		task, err := s.CreateTask(context.Background(), in)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return TaskSavedMsg{Task: task, Note: fmt.Sprintf("task added: %s", task.Text)}
	}
}

func toggleTaskCmd(s PlannerService, id string, done bool) tea.Cmd {
	return func() tea.Msg {
		task, err := s.UpdateTask(context.Background(), id, api.TaskPatch{Done: &done})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		note := "task reopened"
		if done {
			note = "task completed"
		}
		return TaskSavedMsg{Task: task, Note: note}
	}
}

func deleteTaskCmd(s PlannerService, id string) tea.Cmd {
	return func() tea.Msg {
		if err := s.DeleteTask(context.Background(), id); err != nil {
			return AppErrorMsg{Err: err}
		}
		return TaskDeletedMsg{ID: id}
	}
}

func batchCompleteCmd(s PlannerService, ids []string) tea.Cmd {
	return func() tea.Msg {
		if err := s.BatchComplete(context.Background(), ids, true); err != nil {
			return AppErrorMsg{Err: err}
		}
		return BatchCompletedMsg{Count: len(ids)}
	}
}

func batchDeleteCmd(s PlannerService, snapshot []model.Task) tea.Cmd {
	ids := make([]string, 0, len(snapshot))
	for _, t := range snapshot {
		ids = append(ids, t.ID)
	}
	return func() tea.Msg {
		if err := s.BatchDelete(context.Background(), ids); err != nil {
			return AppErrorMsg{Err: err}
		}
		return BatchDeletedMsg{Deleted: snapshot}
	}
}

// undoDeleteCmd recreates deleted tasks from their text, oldest first, up
// to undoLimit. IDs are new; done state, assignee and dates are not
// restored.
func undoDeleteCmd(s PlannerService, deleted []model.Task) tea.Cmd {
	return func() tea.Msg {
		limit := len(deleted)
		if limit > undoLimit {
			limit = undoLimit
		}
		recreated := 0
		for _, t := range deleted[:limit] {
			if _, err := s.CreateTask(context.Background(), api.CreateTaskRequest{Text: t.Text}); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("undo stopped after %d task(s): %w", recreated, err)}
			}
			recreated++
		}
		return UndoDoneMsg{Recreated: recreated}
	}
}

func saveOrderCmd(s PlannerService, order []string) tea.Cmd {
	return func() tea.Msg {
		if err := s.UpdateTaskOrder(context.Background(), order); err != nil {
			return AppErrorMsg{Err: err}
		}
		return OrderSavedMsg{}
	}
}

func waitForAlertCmd(ch <-chan alert.Alert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlertDueMsg{Alert: a}
	}
}
