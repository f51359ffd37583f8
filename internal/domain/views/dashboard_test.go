package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskplanner/planner-api/internal/domain"
)

func TestDashboard_Empty(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	stats := Dashboard(nil, now, time.UTC)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Completed)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.CompletionRate)
	assert.NotNil(t, stats.Categories)
	assert.Empty(t, stats.Categories)
	assert.Equal(t, []NamedCount{
		{Name: "High", Value: 0},
		{Name: "Medium", Value: 0},
		{Name: "Low", Value: 0},
	}, stats.Priorities)
	assert.NotNil(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.CategoryBreakdown)
	require.Len(t, stats.TasksByDay, ActivityDays)
	for _, day := range stats.TasksByDay {
		assert.Zero(t, day.Total)
		assert.Zero(t, day.Completed)
	}
}

func TestDashboard_Counts(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	tasks := []*domain.Task{
		newTask("a", withCategory("Work"), withPriority(domain.PriorityHigh), completed()),
		newTask("b", withCategory("Work"), withPriority(domain.PriorityHigh)),
		newTask("c", withPriority(domain.PriorityLow)),
	}

	stats := Dashboard(tasks, now, time.UTC)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 33, stats.CompletionRate)
	assert.Equal(t, []NamedCount{
		{Name: "Work", Value: 2},
		{Name: "Inbox", Value: 1},
	}, stats.Categories)
	assert.Equal(t, []NamedCount{
		{Name: "High", Value: 2},
		{Name: "Medium", Value: 0},
		{Name: "Low", Value: 1},
	}, stats.Priorities)
	assert.Equal(t, []CategoryStatus{
		{Name: "Work", Completed: 1, Pending: 1},
		{Name: "Inbox", Completed: 0, Pending: 1},
	}, stats.CategoryBreakdown)
}

func TestDashboard_CategoryTiesKeepFirstAppearance(t *testing.T) {
	t.Parallel()

	tasks := []*domain.Task{
		newTask("1", withCategory("Beta")),
		newTask("2", withCategory("Alpha")),
		newTask("3", withCategory("Gamma")),
		newTask("4", withCategory("Gamma")),
	}

	stats := Dashboard(tasks, time.Now(), time.UTC)
	assert.Equal(t, []NamedCount{
		{Name: "Gamma", Value: 2},
		{Name: "Beta", Value: 1},
		{Name: "Alpha", Value: 1},
	}, stats.Categories)
}

func TestDashboard_BreakdownTopFive(t *testing.T) {
	t.Parallel()

	var tasks []*domain.Task
	for i, cat := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		for n := 0; n <= i; n++ {
			tasks = append(tasks, newTask(cat, withCategory(cat)))
		}
	}

	stats := Dashboard(tasks, time.Now(), time.UTC)
	require.Len(t, stats.CategoryBreakdown, BreakdownLimit)

	names := make([]string, 0, BreakdownLimit)
	for _, c := range stats.CategoryBreakdown {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"G", "F", "E", "D", "C"}, names)
	assert.Len(t, stats.Categories, 7)
}

func TestDashboard_ActivitySeries(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, loc) // a Tuesday

	tasks := []*domain.Task{
		newTask("today done", at(time.Date(2025, time.June, 10, 8, 0, 0, 0, loc)), completed()),
		newTask("today open", at(time.Date(2025, time.June, 10, 22, 0, 0, 0, loc))),
		newTask("six days ago", at(time.Date(2025, time.June, 4, 9, 0, 0, 0, loc))),
		newTask("seven days ago", at(time.Date(2025, time.June, 3, 9, 0, 0, 0, loc))),
		newTask("tomorrow", at(time.Date(2025, time.June, 11, 9, 0, 0, 0, loc))),
		newTask("unscheduled"),
	}

	stats := Dashboard(tasks, now, loc)
	require.Len(t, stats.TasksByDay, ActivityDays)

	first := stats.TasksByDay[0]
	last := stats.TasksByDay[ActivityDays-1]

	assert.Equal(t, "2025-06-04", first.Date)
	assert.Equal(t, "Wed", first.Name)
	assert.Equal(t, 1, first.Total)
	assert.Equal(t, 0, first.Completed)

	assert.Equal(t, "2025-06-10", last.Date)
	assert.Equal(t, "Tue", last.Name)
	assert.Equal(t, 2, last.Total)
	assert.Equal(t, 1, last.Completed)

	var sum int
	for _, d := range stats.TasksByDay {
		sum += d.Total
	}
	assert.Equal(t, 3, sum)
}

func TestCompletionRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CompletionRate(0, 0))
	assert.Equal(t, 33, CompletionRate(1, 3))
	assert.Equal(t, 67, CompletionRate(2, 3))
	assert.Equal(t, 50, CompletionRate(1, 2))
	assert.Equal(t, 100, CompletionRate(4, 4))
}
