package views

import (
	"sort"

	"github.com/taskplanner/planner-api/internal/domain"
)

// Filter narrows the today view. Empty fields match everything.
type Filter struct {
	Category string
	Priority domain.Priority
}

// Matches reports whether task satisfies every set field of the filter.
// Category is compared against the displayed category, so "Inbox" matches
// tasks stored without one.
func (f Filter) Matches(task *domain.Task) bool {
	if f.Category != "" && task.DisplayCategory() != f.Category {
		return false
	}
	if f.Priority != "" && task.DisplayPriority() != f.Priority {
		return false
	}
	return true
}

// Today returns the tasks matching filter, open tasks before completed ones
// and then by priority rank. The sort is stable so equal tasks keep their
// incoming order.
func Today(tasks []*domain.Task, filter Filter) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].DisplayPriority().Rank() < out[j].DisplayPriority().Rank()
	})

	return out
}
