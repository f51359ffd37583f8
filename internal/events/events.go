package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChangeKind names the mutation that produced a TaskChangeEvent.
type ChangeKind string

// Supported change kinds.
const (
	TaskCreated ChangeKind = "created"
	TaskUpdated ChangeKind = "updated"
	TaskDeleted ChangeKind = "deleted"
)

// TaskChangeEvent records a successful mutation of an owner's task set.
// Consumers re-read the owner's tasks rather than relying on a payload.
type TaskChangeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Kind    ChangeKind `json:"kind"`
	OwnerID string     `json:"userId"`
	TaskID  uuid.UUID  `json:"taskId"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"createdAt"`
}

// NewTaskChangeEvent creates an event for a change of taskID owned by ownerID.
func NewTaskChangeEvent(kind ChangeKind, ownerID string, taskID uuid.UUID) *TaskChangeEvent {
	return &TaskChangeEvent{
		ID:        uuid.New(),
		Kind:      kind,
		OwnerID:   ownerID,
		TaskID:    taskID,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskChangeEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskChangeEvent) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *TaskChangeEvent) error { return nil }
