// Package api is the JSON client for the planner server. It is the only
// place the program talks to the network; everything above it consumes
// plain model values and errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aevel/pland/internal/model"
)

var ErrEmptyBaseURL = errors.New("api: base URL is required")

// StatusError is a non-2xx response. The server accompanies these with an
// {error} body; Message carries it when present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: server returned %d", e.Code)
	}
	return fmt.Sprintf("api: server returned %d: %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, ErrEmptyBaseURL
	}
	return &Client{
		baseURL: trimmed,
		http:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type eventsEnvelope struct {
	Events []model.Event `json:"events"`
}

type tasksEnvelope struct {
	Tasks []model.Task `json:"tasks"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// CreateEventRequest is the POST /api/events body. Date and Title are
// required; the server rejects the rest.
type CreateEventRequest struct {
	Date      string `json:"date"`
	Title     string `json:"title"`
	TimeStart string `json:"time_start,omitempty"`
	TimeEnd   string `json:"time_end,omitempty"`
	Notes     string `json:"notes,omitempty"`
	IsAllDay  bool   `json:"is_all_day,omitempty"`
}

// EventPatch is a partial update: nil fields are left untouched by the
// server, empty strings clear the field.
type EventPatch struct {
	Date      *string `json:"date,omitempty"`
	Title     *string `json:"title,omitempty"`
	TimeStart *string `json:"time_start,omitempty"`
	TimeEnd   *string `json:"time_end,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	IsAllDay  *bool   `json:"is_all_day,omitempty"`
}

type CreateTaskRequest struct {
	Text       string        `json:"text"`
	AssignedTo string        `json:"assigned_to,omitempty"`
	DueDate    string        `json:"due_date,omitempty"`
	Urgency    model.Urgency `json:"urgency,omitempty"`
}

type TaskPatch struct {
	Text       *string        `json:"text,omitempty"`
	Done       *bool          `json:"done,omitempty"`
	AssignedTo *string        `json:"assigned_to,omitempty"`
	DueDate    *string        `json:"due_date,omitempty"`
	Urgency    *model.Urgency `json:"urgency,omitempty"`
}

type batchCompleteRequest struct {
	IDs  []string `json:"ids"`
	Done bool     `json:"done"`
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

type preferencesPatch struct {
	TaskOrder []string `json:"task_order"`
}

func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var env eventsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &env); err != nil {
		return nil, err
	}
	return env.Events, nil
}

func (c *Client) CreateEvent(ctx context.Context, in CreateEventRequest) (model.Event, error) {
	var ev model.Event
	if err := c.do(ctx, http.MethodPost, "/api/events", in, &ev); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, patch EventPatch) (model.Event, error) {
	var ev model.Event
	if err := c.do(ctx, http.MethodPatch, "/api/events/"+id, patch, &ev); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+id, nil, nil)
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var env tasksEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &env); err != nil {
		return nil, err
	}
	return env.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, in CreateTaskRequest) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id, patch, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

func (c *Client) BatchComplete(ctx context.Context, ids []string, done bool) error {
	return c.do(ctx, http.MethodPost, "/api/tasks/batch-complete", batchCompleteRequest{IDs: ids, Done: done}, nil)
}

func (c *Client) BatchDelete(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodPost, "/api/tasks/batch-delete", batchDeleteRequest{IDs: ids}, nil)
}

func (c *Client) GetPreferences(ctx context.Context) (model.Preferences, error) {
	var prefs model.Preferences
	if err := c.do(ctx, http.MethodGet, "/api/preferences", nil, &prefs); err != nil {
		return model.Preferences{}, err
	}
	return prefs, nil
}

func (c *Client) UpdateTaskOrder(ctx context.Context, order []string) error {
	if order == nil {
		order = []string{}
	}
	return c.do(ctx, http.MethodPatch, "/api/preferences", preferencesPatch{TaskOrder: order}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		_ = json.Unmarshal(raw, &envelope)
		return &StatusError{Code: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
