package views

import (
	"strings"

	"github.com/taskplanner/planner-api/internal/domain"
)

// Search returns tasks whose title, description or category contains query,
// ignoring case. A blank query matches nothing.
func Search(tasks []*domain.Task, query string) []*domain.Task {
	out := []*domain.Task{}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}

	for _, t := range tasks {
		if containsFold(t.Title, q) || containsFold(t.Description, q) || containsFold(t.Category, q) {
			out = append(out, t)
		}
	}
	return out
}

// containsFold expects needle to be lower-cased already.
func containsFold(haystack, needle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), needle)
}
