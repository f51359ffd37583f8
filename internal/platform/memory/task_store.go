// Package memory provides an in-process implementation of store.TaskStore,
// used when no database is configured and as a fast fake in tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/platform/logger"
	"github.com/taskplanner/planner-api/internal/store"
)

// TaskStore keeps tasks in a map guarded by a RWMutex. Stored values are
// copies, so callers never share memory with the store.
type TaskStore struct {
	tasks  map[uuid.UUID]*domain.Task
	mu     sync.RWMutex
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty store.
func NewTaskStore(log *slog.Logger) *TaskStore {
	if log == nil {
		log = slog.Default()
	}
	return &TaskStore{
		tasks:  make(map[uuid.UUID]*domain.Task),
		logger: log.With(slog.String("component", "memory_task_store")),
	}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("invalid task for creation", slog.Any("error", err))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("%w: task %s", store.ErrDuplicate, task.ID)
	}
	s.tasks[task.ID] = task.Clone()

	log.Debug("task created", slog.String("task_id", task.ID.String()), slog.String("owner_id", task.OwnerID))
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(_ context.Context, ownerID string, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// ListByOwner implements store.TaskStore.
func (s *TaskStore) ListByOwner(_ context.Context, ownerID string) ([]*domain.Task, error) {
	s.mu.RLock()
	result := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			result = append(result, task.Clone())
		}
	}
	s.mu.RUnlock()

	store.SortByDatetime(result)
	return result, nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}

	next := task.Clone()
	next.CreatedAt = existing.CreatedAt
	s.tasks[task.ID] = next

	logger.FromContextOrDefault(ctx, s.logger).Debug("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[id]
	if !ok || existing.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)

	logger.FromContextOrDefault(ctx, s.logger).Debug("task deleted", slog.String("task_id", id.String()))
	return nil
}

// Len returns the number of stored tasks across all owners.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
