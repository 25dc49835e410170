package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lifesync/internal/backlog"
	"lifesync/internal/model"
	"lifesync/internal/orchestrator"
	"lifesync/internal/service"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 10, hour, minute, 0, 0, time.UTC)
}

func TestFormatMessage(t *testing.T) {
	var buf bytes.Buffer
	FormatMessage(&buf, 1, model.Message{
		Sender:    "alice",
		Content:   "hi\nthere",
		Timestamp: at(9, 30),
		Category:  model.Work,
		Replied:   true,
	})
	FormatMessage(&buf, 12, model.Message{Sender: "bob", Timestamp: at(10, 0), Category: model.Social})

	want := "   1  work      2024-05-10 09:30  alice: hi there (replied)\n" +
		"  12  social    2024-05-10 10:00  bob: (untitled)\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatTask(t *testing.T) {
	due := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	FormatTask(&buf, 2, model.Task{Title: "  ", Category: model.Personal, Due: &due})
	FormatTask(&buf, 3, model.Task{Title: "Ship it", Category: model.Work, Completed: true})

	want := "   2  [ ] personal  (untitled) (due 2024-05-12)\n" +
		"   3  [x] work      Ship it\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatEvent(t *testing.T) {
	var buf bytes.Buffer
	FormatEvent(&buf, 3, model.Event{Title: "Party", Start: at(14, 0), End: at(15, 0), Category: model.Social, Location: "Home"})
	FormatEvent(&buf, 4, model.Event{
		Title:    "Offsite",
		Start:    at(9, 0),
		End:      time.Date(2024, 5, 11, 17, 0, 0, 0, time.UTC),
		Category: model.Work,
	})

	want := "   3  2024-05-10 14:00 - 15:00  social    Party @ Home\n" +
		"   4  2024-05-10 09:00 - 2024-05-11 17:00  work      Offsite\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatSectionHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatSectionHeader(&buf, "")
	assert.Equal(t, "------------\n(untitled)\n------------\n", buf.String())
}

func TestFormatDashboard(t *testing.T) {
	counts := backlog.Counts{TasksDue: 2, Unreplied: 3, UpcomingEvents: 1, BacklogMessages: 1, BacklogTasks: 2}
	byKind := map[model.Kind]backlog.CategoryCounts{
		model.KindMessages: {model.Work: 4, model.Personal: 2, model.Social: 2},
	}

	var buf bytes.Buffer
	FormatDashboard(&buf, counts, byKind)

	want := "Tasks due:        2\n" +
		"Unreplied:        3\n" +
		"Upcoming events:  1\n" +
		"Backlog:          3 (messages 1, tasks 2, events 0)\n" +
		"\n" +
		"                work  personal    social\n" +
		"messages           4         2         2\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatDashboardWithoutBreakdown(t *testing.T) {
	var buf bytes.Buffer
	FormatDashboard(&buf, backlog.Counts{}, nil)
	assert.NotContains(t, buf.String(), "work")
	assert.Contains(t, buf.String(), "Backlog:          0 (messages 0, tasks 0, events 0)\n")
}

func TestFormatSource(t *testing.T) {
	var buf bytes.Buffer
	FormatSource(&buf, service.SourceInfo{Name: "work-gh", Type: "github", Kinds: []model.Kind{model.KindTasks}})
	FormatSource(&buf, service.SourceInfo{
		Name:     "mail",
		Type:     "outlook",
		Kinds:    []model.Kind{model.KindMessages, model.KindEvents},
		Disabled: true,
	})

	want := "work-gh          github          tasks\n" +
		"mail             outlook         messages,events (disabled)\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatSummary(t *testing.T) {
	res := &orchestrator.Result{
		Messages: make([]model.Message, 2),
		Calls:    3,
		Failures: []orchestrator.Failure{{Source: "gh", Kind: model.KindTasks}},
		Cached:   []orchestrator.CallRef{{Source: "a", Kind: model.KindMessages}},
	}

	var buf bytes.Buffer
	FormatSummary(&buf, res)
	assert.Equal(t, "synced 2 messages, 0 tasks, 0 events (2/3 calls ok, 1 cached)\n", buf.String())
}

func TestFormatFailures(t *testing.T) {
	var buf bytes.Buffer
	FormatFailures(&buf, &orchestrator.Result{Calls: 2})
	assert.Empty(t, buf.String())

	res := &orchestrator.Result{
		Calls: 3,
		Failures: []orchestrator.Failure{
			{Source: "gh", Kind: model.KindTasks, Err: errors.New("boom"), Attempts: 2},
			{Source: "mail", Kind: model.KindMessages, Err: errors.New("bad\ntoken"), Attempts: 1},
		},
	}
	FormatFailures(&buf, res)

	want := "warning: 2 of 3 sync calls failed\n" +
		"  gh/tasks: boom (after 2 attempts)\n" +
		"  mail/messages: bad token\n"
	assert.Equal(t, want, buf.String())
}
