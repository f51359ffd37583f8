package views

import (
	"sort"
	"time"

	"github.com/taskplanner/planner-api/internal/domain"
)

// DateLayout is the bucket key format.
const DateLayout = "2006-01-02"

// Bucket groups upcoming tasks that fall on the same calendar date.
type Bucket struct {
	Date  string         `json:"date"`
	Tasks []*domain.Task `json:"tasks"`
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DateKey formats the calendar date of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// Upcoming selects scheduled tasks later than the start of now's day in loc,
// orders them by datetime and groups them by calendar date. Buckets come
// back in ascending date order.
func Upcoming(tasks []*domain.Task, now time.Time, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.Local
	}
	cutoff := StartOfDay(now, loc)

	future := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Datetime == nil || !t.Datetime.After(cutoff) {
			continue
		}
		future = append(future, t)
	}

	sort.SliceStable(future, func(i, j int) bool {
		return future[i].Datetime.Before(*future[j].Datetime)
	})

	buckets := []Bucket{}
	for _, t := range future {
		key := DateKey(*t.Datetime, loc)
		if n := len(buckets); n > 0 && buckets[n-1].Date == key {
			buckets[n-1].Tasks = append(buckets[n-1].Tasks, t)
			continue
		}
		buckets = append(buckets, Bucket{Date: key, Tasks: []*domain.Task{t}})
	}

	return buckets
}
