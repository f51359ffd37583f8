package views

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/taskplanner/planner-api/internal/domain"
	"pgregory.net/rapid"
)

var (
	propCategories = []string{"", "Work", "Home", "Errands", "Health"}
	propTitles     = []string{"Buy groceries", "Buy milk", "Call mom", "Write report", "Gym"}
	propBase       = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
)

func drawTasks(rt *rapid.T) []*domain.Task {
	n := rapid.IntRange(0, 30).Draw(rt, "n")
	tasks := make([]*domain.Task, 0, n)
	for i := 0; i < n; i++ {
		opts := []taskOpt{
			withCategory(rapid.SampledFrom(propCategories).Draw(rt, fmt.Sprintf("cat_%d", i))),
			withPriority(rapid.SampledFrom(domain.Priorities).Draw(rt, fmt.Sprintf("prio_%d", i))),
		}
		if rapid.Bool().Draw(rt, fmt.Sprintf("done_%d", i)) {
			opts = append(opts, completed())
		}
		if rapid.Bool().Draw(rt, fmt.Sprintf("scheduled_%d", i)) {
			hours := rapid.IntRange(-24*10, 24*10).Draw(rt, fmt.Sprintf("hours_%d", i))
			opts = append(opts, at(propBase.Add(time.Duration(hours)*time.Hour)))
		}
		title := rapid.SampledFrom(propTitles).Draw(rt, fmt.Sprintf("title_%d", i))
		tasks = append(tasks, newTask(title, opts...))
	}
	return tasks
}

// For any task set, dashboard totals are consistent with each other.
func TestProperty_DashboardTotalsConsistent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := drawTasks(rt)
		stats := Dashboard(tasks, propBase, time.UTC)

		if stats.Completed+stats.Pending != stats.Total {
			rt.Fatalf("completed %d + pending %d != total %d", stats.Completed, stats.Pending, stats.Total)
		}

		var catSum int
		for i, c := range stats.Categories {
			catSum += c.Value
			if i > 0 && stats.Categories[i-1].Value < c.Value {
				rt.Fatalf("categories not sorted descending: %v", stats.Categories)
			}
		}
		if catSum != stats.Total {
			rt.Fatalf("category sum %d != total %d", catSum, stats.Total)
		}

		var prioSum int
		for _, p := range stats.Priorities {
			prioSum += p.Value
		}
		if len(stats.Priorities) != 3 || prioSum != stats.Total {
			rt.Fatalf("priorities %v do not cover total %d", stats.Priorities, stats.Total)
		}

		if stats.CompletionRate < 0 || stats.CompletionRate > 100 {
			rt.Fatalf("completion rate out of range: %d", stats.CompletionRate)
		}
		if len(stats.CategoryBreakdown) > BreakdownLimit {
			rt.Fatalf("breakdown has %d entries", len(stats.CategoryBreakdown))
		}
	})
}

// For any task set, the today view is a reordering of the matching tasks with
// open tasks first and priority ranks non-decreasing within each group.
func TestProperty_TodayOrdering(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := drawTasks(rt)
		filter := Filter{Category: rapid.SampledFrom(propCategories).Draw(rt, "filter_cat")}

		got := Today(tasks, filter)

		want := 0
		for _, task := range tasks {
			if filter.Matches(task) {
				want++
			}
		}
		if len(got) != want {
			rt.Fatalf("got %d tasks, want %d", len(got), want)
		}

		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]
			if prev.Completed && !cur.Completed {
				rt.Fatalf("completed task before open task at %d", i)
			}
			if prev.Completed == cur.Completed && prev.Priority.Rank() > cur.Priority.Rank() {
				rt.Fatalf("priority rank decreases at %d", i)
			}
		}
	})
}

// For any task set, every upcoming task is scheduled after today's start and
// buckets are strictly ascending.
func TestProperty_UpcomingBuckets(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := drawTasks(rt)
		buckets := Upcoming(tasks, propBase, time.UTC)
		cutoff := StartOfDay(propBase, time.UTC)

		for i, b := range buckets {
			if i > 0 && buckets[i-1].Date >= b.Date {
				rt.Fatalf("bucket keys not ascending: %s then %s", buckets[i-1].Date, b.Date)
			}
			for _, task := range b.Tasks {
				if task.Datetime == nil || !task.Datetime.After(cutoff) {
					rt.Fatalf("task %q should not be upcoming", task.Title)
				}
				if DateKey(*task.Datetime, time.UTC) != b.Date {
					rt.Fatalf("task %q in wrong bucket %s", task.Title, b.Date)
				}
			}
		}
	})
}

// For any non-blank query, search results are exactly the tasks containing it.
func TestProperty_SearchMatchesSubstring(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := drawTasks(rt)
		query := rapid.SampledFrom([]string{"buy", "GROC", "work", "m", "zz"}).Draw(rt, "query")

		got := Search(tasks, query)
		want := 0
		for _, task := range tasks {
			q := strings.ToLower(query)
			if strings.Contains(strings.ToLower(task.Title), q) ||
				strings.Contains(strings.ToLower(task.Description), q) ||
				strings.Contains(strings.ToLower(task.Category), q) {
				want++
			}
		}
		if len(got) != want {
			rt.Fatalf("query %q: got %d results, want %d", query, len(got), want)
		}
	})
}
