package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/events"
	"github.com/taskplanner/planner-api/internal/platform/logger"
	"github.com/taskplanner/planner-api/internal/store"
)

// Subscriber registers full-set change listeners for an owner.
type Subscriber interface {
	Subscribe(ctx context.Context, ownerID string, onChange func([]*domain.Task)) (func(), error)
}

// TaskService provides task-related operations. Every call is scoped to the
// owner passed in; tasks of other owners are invisible.
type TaskService interface {
	// Create validates input, applies defaults and stores a new task.
	Create(ctx context.Context, ownerID string, input domain.TaskInput) (*domain.Task, error)

	// ListByOwner returns the owner's tasks, datetime ascending.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)

	// Get returns one task.
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error)

	// Update merges the non-nil fields of patch into an existing task.
	// A missing task yields ErrNotFound; nothing is created.
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Toggle completes an open task or reopens a completed one.
	Toggle(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error)

	// Delete removes a task. Deleting it again yields ErrNotFound.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error

	// Subscribe delivers the owner's full task set now and after every
	// change until the returned function is called.
	Subscribe(ctx context.Context, ownerID string, onChange func([]*domain.Task)) (func(), error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks      store.TaskStore
	emitter    events.EventEmitter
	subscriber Subscriber
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService.
// emitter and subscriber are optional; without a subscriber Subscribe
// returns ErrRealtimeDisabled.
func NewTaskService(
	tasks store.TaskStore,
	emitter events.EventEmitter,
	subscriber Subscriber,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
			Kind:      ErrStoreUnavailable,
		}
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:      tasks,
		emitter:    emitter,
		subscriber: subscriber,
		logger:     logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(ctx context.Context, ownerID string, input domain.TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, input)
	if err != nil {
		log.Debug("rejected task input", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create", "invalid task", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to store task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, NewTaskServiceError("create", "failed to store task", err)
	}

	s.emit(ctx, events.TaskCreated, task.OwnerID, task.ID)

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID))
	return task, nil
}

// ListByOwner implements TaskService.
func (s *taskServiceImpl) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID))
		return nil, NewTaskServiceError("list", "failed to load tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Get implements TaskService.
func (s *taskServiceImpl) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, NewTaskServiceError("get", "failed to load task", err)
	}
	return task, nil
}

// Update implements TaskService.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	ownerID string,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, NewTaskServiceError("update", "invalid task",
			domain.NewValidationError("body", "must set at least one field", domain.ErrInvalidTask))
	}
	return s.mutate(ctx, "update", ownerID, id, func(task *domain.Task) error {
		return task.Apply(patch)
	})
}

// Toggle implements TaskService.
func (s *taskServiceImpl) Toggle(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error) {
	return s.mutate(ctx, "toggle", ownerID, id, func(task *domain.Task) error {
		task.Toggle()
		return nil
	})
}

// mutate loads a task, applies change and writes the result back.
func (s *taskServiceImpl) mutate(
	ctx context.Context,
	operation string,
	ownerID string,
	id uuid.UUID,
	change func(*domain.Task) error,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, NewTaskServiceError(operation, "failed to load task", err)
	}

	if err := change(task); err != nil {
		return nil, NewTaskServiceError(operation, "invalid task", err)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		log.Error("failed to write task",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError(operation, "failed to store task", err)
	}

	s.emit(ctx, events.TaskUpdated, ownerID, id)
	return task, nil
}

// Delete implements TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, ownerID, id); err != nil {
		return NewTaskServiceError("delete", "failed to delete task", err)
	}

	s.emit(ctx, events.TaskDeleted, ownerID, id)
	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", id.String()),
		slog.String("owner_id", ownerID))
	return nil
}

// Subscribe implements TaskService.
func (s *taskServiceImpl) Subscribe(
	ctx context.Context,
	ownerID string,
	onChange func([]*domain.Task),
) (func(), error) {
	if s.subscriber == nil {
		return nil, ErrRealtimeDisabled
	}
	unsubscribe, err := s.subscriber.Subscribe(ctx, ownerID, onChange)
	if err != nil {
		return nil, NewTaskServiceError("subscribe", "failed to subscribe", err)
	}
	return unsubscribe, nil
}

// emit publishes a change. The write already succeeded, so a failing
// listener is logged and not reported to the caller. Listeners run without
// the caller's cancellation: a client dropping after its write commits must
// not cost other subscribers the new snapshot.
func (s *taskServiceImpl) emit(ctx context.Context, kind events.ChangeKind, ownerID string, taskID uuid.UUID) {
	event := events.NewTaskChangeEvent(kind, ownerID, taskID)
	if err := s.emitter.EmitEvent(context.WithoutCancel(ctx), event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to publish task change",
			slog.String("error", err.Error()),
			slog.String("kind", string(kind)),
			slog.String("task_id", taskID.String()))
	}
}
