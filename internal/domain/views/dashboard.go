package views

import (
	"math"
	"sort"
	"time"

	"github.com/taskplanner/planner-api/internal/domain"
)

const (
	// BreakdownLimit caps the categories in the completed/pending breakdown.
	BreakdownLimit = 5

	// ActivityDays is the length of the trailing activity series.
	ActivityDays = 7
)

// NamedCount is a label with a task count.
type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CategoryStatus splits a category's tasks into completed and pending.
type CategoryStatus struct {
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

// Total is the number of tasks in the category.
func (c CategoryStatus) Total() int {
	return c.Completed + c.Pending
}

// DayActivity counts the tasks scheduled on one calendar day.
type DayActivity struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// Stats is the dashboard summary of a task set.
type Stats struct {
	Total             int              `json:"total"`
	Completed         int              `json:"completed"`
	Pending           int              `json:"pending"`
	CompletionRate    int              `json:"completionRate"`
	Categories        []NamedCount     `json:"categories"`
	Priorities        []NamedCount     `json:"priorities"`
	CategoryBreakdown []CategoryStatus `json:"categoryBreakdown"`
	TasksByDay        []DayActivity    `json:"tasksByDay"`
}

// CompletionRate returns completed/total as a rounded percentage, or 0 when
// total is 0.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Dashboard aggregates tasks. Calendar days for the activity series are
// computed in loc, ending with now's day.
func Dashboard(tasks []*domain.Task, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}

	stats := Stats{
		Total:      len(tasks),
		Categories: []NamedCount{},
	}

	// Categories keep first-appearance order so the stable sort below breaks
	// ties the same way every time.
	categoryIndex := map[string]int{}
	var statuses []CategoryStatus

	priorityCount := map[domain.Priority]int{}

	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		}

		name := t.DisplayCategory()
		idx, ok := categoryIndex[name]
		if !ok {
			idx = len(statuses)
			categoryIndex[name] = idx
			statuses = append(statuses, CategoryStatus{Name: name})
		}
		if t.Completed {
			statuses[idx].Completed++
		} else {
			statuses[idx].Pending++
		}

		priorityCount[t.DisplayPriority()]++
	}

	stats.Pending = stats.Total - stats.Completed
	stats.CompletionRate = CompletionRate(stats.Completed, stats.Total)

	for _, s := range statuses {
		stats.Categories = append(stats.Categories, NamedCount{Name: s.Name, Value: s.Total()})
	}
	sort.SliceStable(stats.Categories, func(i, j int) bool {
		return stats.Categories[i].Value > stats.Categories[j].Value
	})

	stats.Priorities = make([]NamedCount, 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		stats.Priorities = append(stats.Priorities, NamedCount{Name: string(p), Value: priorityCount[p]})
	}

	breakdown := make([]CategoryStatus, len(statuses))
	copy(breakdown, statuses)
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Total() > breakdown[j].Total()
	})
	if len(breakdown) > BreakdownLimit {
		breakdown = breakdown[:BreakdownLimit]
	}
	stats.CategoryBreakdown = breakdown

	stats.TasksByDay = activity(tasks, now, loc)

	return stats
}

// activity builds the trailing ActivityDays series, oldest day first.
func activity(tasks []*domain.Task, now time.Time, loc *time.Location) []DayActivity {
	today := StartOfDay(now, loc)

	days := make([]DayActivity, ActivityDays)
	index := make(map[string]int, ActivityDays)
	for i := 0; i < ActivityDays; i++ {
		day := today.AddDate(0, 0, i-(ActivityDays-1))
		key := day.Format(DateLayout)
		days[i] = DayActivity{Date: key, Name: day.Format("Mon")}
		index[key] = i
	}

	for _, t := range tasks {
		if t.Datetime == nil {
			continue
		}
		i, ok := index[DateKey(*t.Datetime, loc)]
		if !ok {
			continue
		}
		days[i].Total++
		if t.Completed {
			days[i].Completed++
		}
	}

	return days
}
