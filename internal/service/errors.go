package service

import (
	"errors"
	"fmt"

	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/store"
)

// Error kinds returned by TaskService. Every error the service returns
// matches exactly one of them with errors.Is.
//
// The API layer maps ErrValidation to 400, ErrNotFound to 404 and
// ErrStoreUnavailable to 500.
var (
	// ErrValidation indicates the request carried invalid task data.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates no task with the given ID exists for the owner.
	ErrNotFound = errors.New("task not found")

	// ErrStoreUnavailable indicates the task store failed or could not be reached.
	ErrStoreUnavailable = errors.New("task store unavailable")

	// ErrRealtimeDisabled is returned by Subscribe when no broker is configured.
	ErrRealtimeDisabled = errors.New("realtime subscriptions are disabled")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create", "update")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Kind is one of ErrValidation, ErrNotFound or ErrStoreUnavailable
	Kind error
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewTaskServiceError classifies err and wraps it with context.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	var svcErr *TaskServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Kind:      kindOf(err),
		Err:       err,
	}
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return ErrValidation
	case store.IsNotFoundError(err):
		return ErrNotFound
	default:
		return ErrStoreUnavailable
	}
}
