package update

import (
	"context"

	"github.com/aevel/pland/internal/api"
	"github.com/aevel/pland/internal/model"
)

// PlannerService is the slice of the server API the UI consumes. api.Client
// is the production implementation; tests substitute an in-memory fake.
type PlannerService interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, in api.CreateEventRequest) (model.Event, error)
	UpdateEvent(ctx context.Context, id string, patch api.EventPatch) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, in api.CreateTaskRequest) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch api.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	BatchComplete(ctx context.Context, ids []string, done bool) error
	BatchDelete(ctx context.Context, ids []string) error

	GetPreferences(ctx context.Context) (model.Preferences, error)
	UpdateTaskOrder(ctx context.Context, order []string) error
}

var _ PlannerService = (*api.Client)(nil)
