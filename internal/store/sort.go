package store

import (
	"sort"

	"github.com/taskplanner/planner-api/internal/domain"
)

// SortByDatetime orders tasks the way ListByOwner must return them: datetime
// ascending, unscheduled last, ties broken by newest CreatedAt first.
// Backends whose query language cannot express the ordering use it after
// loading.
func SortByDatetime(tasks []*domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.Datetime == nil && b.Datetime == nil:
			return a.CreatedAt.After(b.CreatedAt)
		case a.Datetime == nil:
			return false
		case b.Datetime == nil:
			return true
		case !a.Datetime.Equal(*b.Datetime):
			return a.Datetime.Before(*b.Datetime)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}
