package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected client error: %v", err)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("   "); !errors.Is(err, ErrEmptyBaseURL) {
		t.Fatalf("expected ErrEmptyBaseURL, got: %v", err)
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks" {
			t.Fatalf("unexpected path: %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"tasks":[]}`))
	}))
	defer srv.Close()
	client, err := NewClient(srv.URL + "/")
	if err != nil {
		t.Fatalf("unexpected client error: %v", err)
	}
	if _, err := client.ListTasks(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListTasksDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/tasks" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"tasks":[{"id":"t-1","text":"one","done":false},{"id":"t-2","text":"two","done":true}]}`))
	})
	tasks, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t-1" || !tasks[1].Done {
		t.Fatalf("unexpected tasks: %#v", tasks)
	}
}

func TestListEventsDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"events":[{"id":"e-1","date":"2024-02-01","title":"Review","time_start":"11:00"}]}`))
	})
	events, err := client.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].TimeStart != "11:00" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestUpdateTaskSendsOnlyPatchedFields(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/tasks/t-9" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"t-9","text":"x","done":true}`))
	})

	done := true
	task, err := client.UpdateTask(context.Background(), "t-9", TaskPatch{Done: &done})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !task.Done {
		t.Fatalf("expected done task back, got %#v", task)
	}
	if len(body) != 1 {
		t.Fatalf("patch must carry only set fields, got: %#v", body)
	}
	if v, ok := body["done"].(bool); !ok || !v {
		t.Fatalf("expected done=true in body, got: %#v", body)
	}
}

func TestUpdateEventReschedulePatch(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{"id":"e-3","date":"2024-02-14","title":"Standup"}`))
	})

	date := "2024-02-14"
	ev, err := client.UpdateEvent(context.Background(), "e-3", EventPatch{Date: &date})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Date != "2024-02-14" {
		t.Fatalf("unexpected event date: %q", ev.Date)
	}
	if len(body) != 1 || body["date"] != "2024-02-14" {
		t.Fatalf("expected date-only patch, got: %#v", body)
	}
}

func TestNonSuccessStatusSurfacesServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"text required"}`))
	})
	_, err := client.CreateTask(context.Background(), CreateTaskRequest{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got: %v", err)
	}
	if statusErr.Code != http.StatusBadRequest || statusErr.Message != "text required" {
		t.Fatalf("unexpected status error: %#v", statusErr)
	}
}

func TestNonSuccessStatusWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	err := client.DeleteEvent(context.Background(), "e-1")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got: %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected code: %d", statusErr.Code)
	}
	if statusErr.Error() != "api: server returned 500" {
		t.Fatalf("unexpected error text: %q", statusErr.Error())
	}
}

func TestBatchCompleteBody(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/batch-complete" {
			t.Fatalf("unexpected path: %q", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if err := client.BatchComplete(context.Background(), []string{"a", "b"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, ok := body["ids"].([]any)
	if !ok || len(ids) != 2 {
		t.Fatalf("expected two ids, got: %#v", body)
	}
	if v, ok := body["done"].(bool); !ok || !v {
		t.Fatalf("expected done=true, got: %#v", body)
	}
}

func TestUpdateTaskOrderSendsEmptyListNotNull(t *testing.T) {
	var raw []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if err := client.UpdateTaskOrder(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		TaskOrder []string `json:"task_order"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.TaskOrder == nil {
		t.Fatalf("task_order must be [], not null: %s", raw)
	}
}

func TestGetPreferences(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"task_order":["t-3","t-1"]}`))
	})
	prefs, err := client.GetPreferences(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prefs.TaskOrder) != 2 || prefs.TaskOrder[0] != "t-3" {
		t.Fatalf("unexpected preferences: %#v", prefs)
	}
}

func TestContextCancellationPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tasks":[]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.ListTasks(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}
