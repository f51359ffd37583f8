package views

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskplanner/planner-api/internal/domain"
)

// taskOpt customizes a fixture task.
type taskOpt func(*domain.Task)

func withCategory(c string) taskOpt { return func(t *domain.Task) { t.Category = c } }

func withPriority(p domain.Priority) taskOpt { return func(t *domain.Task) { t.Priority = p } }

func withDescription(d string) taskOpt { return func(t *domain.Task) { t.Description = d } }

func completed() taskOpt { return func(t *domain.Task) { t.Completed = true } }

func at(when time.Time) taskOpt {
	return func(t *domain.Task) {
		w := when
		t.Datetime = &w
	}
}

func newTask(title string, opts ...taskOpt) *domain.Task {
	t := &domain.Task{
		ID:       uuid.New(),
		OwnerID:  "owner-1",
		Title:    title,
		Priority: domain.PriorityMedium,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}
