package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/store"
)

func TestSortByDatetime(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := base.Add(d)
		return &v
	}

	tasks := []*domain.Task{
		{Title: "unscheduled old", CreatedAt: base},
		{Title: "late", Datetime: at(48 * time.Hour), CreatedAt: base},
		{Title: "unscheduled new", CreatedAt: base.Add(time.Hour)},
		{Title: "early old", Datetime: at(time.Hour), CreatedAt: base},
		{Title: "early new", Datetime: at(time.Hour), CreatedAt: base.Add(time.Minute)},
	}

	store.SortByDatetime(tasks)

	got := make([]string, 0, len(tasks))
	for _, task := range tasks {
		got = append(got, task.Title)
	}
	assert.Equal(t, []string{
		"early new",
		"early old",
		"late",
		"unscheduled new",
		"unscheduled old",
	}, got)
}
