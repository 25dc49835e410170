// Package backlog computes category filters, overdue sets and dashboard
// counts over merged entity collections. All functions are pure; callers
// read the clock once and pass it as now.
package backlog

import (
	"fmt"
	"strings"
	"time"

	"lifesync/internal/model"
)

// Window is how old an actionable item must be before it counts as backlog.
const Window = 7 * 24 * time.Hour

// Filter selects a subset of a collection: all, overdue, or one category.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterOverdue Filter = "overdue"
)

// CategoryFilter returns the filter selecting c.
func CategoryFilter(c model.Category) Filter {
	return Filter(c)
}

// ParseFilter parses a user-supplied filter name. Empty means all.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterOverdue:
		return FilterOverdue, nil
	}
	if c, ok := model.LookupCategory(s); ok {
		return CategoryFilter(c), nil
	}
	return "", fmt.Errorf("unknown category: %s", s)
}

// olderThanWindow reports whether t is strictly more than Window before now.
func olderThanWindow(t, now time.Time) bool {
	return now.Sub(t) > Window
}

// MessageBacklogged: older than a week and not replied to.
func MessageBacklogged(m model.Message, now time.Time) bool {
	return !m.Replied && olderThanWindow(m.Timestamp, now)
}

// TaskBacklogged: not completed and due more than a week ago.
// Tasks without a deadline are never backlog.
func TaskBacklogged(t model.Task, now time.Time) bool {
	return !t.Completed && t.Due != nil && olderThanWindow(*t.Due, now)
}

// EventBacklogged: started more than a week ago. Events have no resolved
// state, so age alone qualifies.
func EventBacklogged(e model.Event, now time.Time) bool {
	return olderThanWindow(e.Start, now)
}

// FilterMessages applies f to msgs. FilterAll returns msgs itself.
func FilterMessages(msgs []model.Message, f Filter, now time.Time) []model.Message {
	return apply(msgs, f, now,
		func(m model.Message) model.Category { return m.Category },
		MessageBacklogged)
}

// FilterTasks applies f to tasks. FilterAll returns tasks itself.
func FilterTasks(tasks []model.Task, f Filter, now time.Time) []model.Task {
	return apply(tasks, f, now,
		func(t model.Task) model.Category { return t.Category },
		TaskBacklogged)
}

// FilterEvents applies f to events. FilterAll returns events itself.
func FilterEvents(events []model.Event, f Filter, now time.Time) []model.Event {
	return apply(events, f, now,
		func(e model.Event) model.Category { return e.Category },
		EventBacklogged)
}

func apply[T any](items []T, f Filter, now time.Time, category func(T) model.Category, backlogged func(T, time.Time) bool) []T {
	if f == FilterAll || f == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var keep bool
		if f == FilterOverdue {
			keep = backlogged(item, now)
		} else {
			keep = Filter(category(item)) == f
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// Counts are the dashboard figures derived from one snapshot.
type Counts struct {
	TasksDue        int // not completed, due on now's day or later
	Unreplied       int
	UpcomingEvents  int // start after now
	BacklogMessages int
	BacklogTasks    int
	BacklogEvents   int
}

// TotalBacklog is the sum of the three backlog counts.
func (c Counts) TotalBacklog() int {
	return c.BacklogMessages + c.BacklogTasks + c.BacklogEvents
}

// DashboardCounts computes Counts against a single now for every item.
func DashboardCounts(msgs []model.Message, tasks []model.Task, events []model.Event, now time.Time) Counts {
	var c Counts
	today := calendarDay(now)
	for _, m := range msgs {
		if !m.Replied {
			c.Unreplied++
		}
		if MessageBacklogged(m, now) {
			c.BacklogMessages++
		}
	}
	for _, t := range tasks {
		if !t.Completed && t.Due != nil && !calendarDay(*t.Due).Before(today) {
			c.TasksDue++
		}
		if TaskBacklogged(t, now) {
			c.BacklogTasks++
		}
	}
	for _, e := range events {
		if e.Start.After(now) {
			c.UpcomingEvents++
		}
		if EventBacklogged(e, now) {
			c.BacklogEvents++
		}
	}
	return c
}

// calendarDay truncates t to midnight of its own calendar date. Date-only
// deadlines parse to midnight UTC, so comparing days keeps a task due
// today counted for the whole day.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CategoryCounts tallies items per category for one kind.
type CategoryCounts map[model.Category]int

// CountMessageCategories tallies msgs per category.
func CountMessageCategories(msgs []model.Message) CategoryCounts {
	c := make(CategoryCounts, 3)
	for _, m := range msgs {
		c[m.Category]++
	}
	return c
}

// CountTaskCategories tallies tasks per category.
func CountTaskCategories(tasks []model.Task) CategoryCounts {
	c := make(CategoryCounts, 3)
	for _, t := range tasks {
		c[t.Category]++
	}
	return c
}

// CountEventCategories tallies events per category.
func CountEventCategories(events []model.Event) CategoryCounts {
	c := make(CategoryCounts, 3)
	for _, e := range events {
		c[e.Category]++
	}
	return c
}
