package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskplanner/planner-api/internal/api/middleware"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/testutils"
)

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	CreateFn      func(ctx context.Context, ownerID string, input domain.TaskInput) (*domain.Task, error)
	ListByOwnerFn func(ctx context.Context, ownerID string) ([]*domain.Task, error)
	GetFn         func(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error)
	UpdateFn      func(ctx context.Context, ownerID string, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	ToggleFn      func(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error)
	DeleteFn      func(ctx context.Context, ownerID string, id uuid.UUID) error
	SubscribeFn   func(ctx context.Context, ownerID string, onChange func([]*domain.Task)) (func(), error)
}

// Create implements service.TaskService
func (m *MockTaskService) Create(ctx context.Context, ownerID string, input domain.TaskInput) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ownerID, input)
	}
	return nil, nil
}

// ListByOwner implements service.TaskService
func (m *MockTaskService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}
	return []*domain.Task{}, nil
}

// Get implements service.TaskService
func (m *MockTaskService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, ownerID, id)
	}
	return nil, nil
}

// Update implements service.TaskService
func (m *MockTaskService) Update(
	ctx context.Context,
	ownerID string,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ownerID, id, patch)
	}
	return nil, nil
}

// Toggle implements service.TaskService
func (m *MockTaskService) Toggle(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error) {
	if m.ToggleFn != nil {
		return m.ToggleFn(ctx, ownerID, id)
	}
	return nil, nil
}

// Delete implements service.TaskService
func (m *MockTaskService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}
	return nil
}

// Subscribe implements service.TaskService
func (m *MockTaskService) Subscribe(
	ctx context.Context,
	ownerID string,
	onChange func([]*domain.Task),
) (func(), error) {
	if m.SubscribeFn != nil {
		return m.SubscribeFn(ctx, ownerID, onChange)
	}
	return func() {}, nil
}

var (
	fixedTaskID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	fixedTime   = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
)

func fixedTask(ownerID string) *domain.Task {
	when := fixedTime.Add(24 * time.Hour)
	return &domain.Task{
		ID:        fixedTaskID,
		OwnerID:   ownerID,
		Title:     "Buy groceries",
		Category:  "Errands",
		Datetime:  &when,
		Priority:  domain.PriorityMedium,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

// newTestRouter mounts the handlers behind unauthenticated owner resolution.
func newTestRouter(t *testing.T, svc *MockTaskService) (http.Handler, *ViewHandler) {
	t.Helper()

	log, _ := testutils.NewTestLogger(t)
	tasks := NewTaskHandler(svc, time.UTC, log)
	views := NewViewHandler(svc, time.UTC, log)
	views.now = func() time.Time { return fixedTime }
	subs := NewSubscribeHandler(svc, []string{"*"}, log)

	r := chi.NewRouter()
	r.Use(middleware.NewOwnerMiddleware(nil).Resolve)
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", tasks.CreateTask)
		r.Get("/", tasks.ListTasks)
		r.Get("/subscribe", subs.Subscribe)
		r.Get("/{id}", tasks.GetTask)
		r.Put("/{id}", tasks.UpdateTask)
		r.Patch("/{id}/toggle", tasks.ToggleTask)
		r.Delete("/{id}", tasks.DeleteTask)
	})
	r.Route("/views", func(r chi.Router) {
		r.Get("/today", views.Today)
		r.Get("/upcoming", views.Upcoming)
		r.Get("/search", views.Search)
		r.Get("/dashboard", views.Dashboard)
	})
	return r, views
}
