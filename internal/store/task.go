package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskplanner/planner-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Every method is scoped to a single owner; a task that exists under a
// different owner is reported as missing.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the owner's task with the given ID.
	// Returns ErrTaskNotFound if no such task exists.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error)

	// ListByOwner returns all tasks of the owner ordered by datetime ascending.
	// Unscheduled tasks come last; ties are broken by newest CreatedAt first.
	// Returns an empty slice if the owner has no tasks.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)

	// Update overwrites an existing task, keyed by its owner and ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the owner's task with the given ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// Pinger is implemented by stores backed by a remote server.
type Pinger interface {
	Ping(ctx context.Context) error
}
