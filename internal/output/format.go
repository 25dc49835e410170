// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"lifesync/internal/backlog"
	"lifesync/internal/model"
	"lifesync/internal/orchestrator"
	"lifesync/internal/service"
)

const (
	// SectionSeparator is the separator line around section headers.
	SectionSeparator = "------------"

	// TimeLayout is used for every timestamp printed.
	TimeLayout = "2006-01-02 15:04"

	// DateLayout is used for task due dates.
	DateLayout = "2006-01-02"
)

// FormatSectionHeader formats a section header.
func FormatSectionHeader(w io.Writer, title string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, normalizeTitle(title))
	fmt.Fprintln(w, SectionSeparator)
}

// FormatMessage formats a message line.
// Format: "{N:>4}  {CATEGORY:<8}  {TIME}  {SENDER}: {CONTENT}[ (replied)]"
func FormatMessage(w io.Writer, num int, m model.Message) {
	line := fmt.Sprintf("%4d  %-8s  %s  %s: %s", num, m.Category, m.Timestamp.Format(TimeLayout),
		oneLine(m.Sender), normalizeTitle(m.Content))
	if m.Replied {
		line += " (replied)"
	}
	fmt.Fprintln(w, line)
}

// FormatTask formats a task line.
// Format: "{N:>4}  [x| ] {CATEGORY:<8}  {TITLE}[ (due DATE)]"
func FormatTask(w io.Writer, num int, t model.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("%4d  [%s] %-8s  %s", num, mark, t.Category, normalizeTitle(t.Title))
	if t.Due != nil {
		line += " (due " + t.Due.Format(DateLayout) + ")"
	}
	fmt.Fprintln(w, line)
}

// FormatEvent formats an event line. The end time drops its date when the
// event ends on the day it starts.
// Format: "{N:>4}  {START} - {END}  {CATEGORY:<8}  {TITLE}[ @ LOCATION]"
func FormatEvent(w io.Writer, num int, e model.Event) {
	end := e.End.Format(TimeLayout)
	if sameDay(e.Start, e.End) {
		end = e.End.Format("15:04")
	}
	line := fmt.Sprintf("%4d  %s - %s  %-8s  %s", num, e.Start.Format(TimeLayout), end, e.Category, normalizeTitle(e.Title))
	if loc := oneLine(e.Location); strings.TrimSpace(loc) != "" {
		line += " @ " + loc
	}
	fmt.Fprintln(w, line)
}

// FormatDashboard prints the dashboard figures followed by a per-category
// breakdown of each collection.
func FormatDashboard(w io.Writer, c backlog.Counts, byKind map[model.Kind]backlog.CategoryCounts) {
	fmt.Fprintf(w, "%-17s %d\n", "Tasks due:", c.TasksDue)
	fmt.Fprintf(w, "%-17s %d\n", "Unreplied:", c.Unreplied)
	fmt.Fprintf(w, "%-17s %d\n", "Upcoming events:", c.UpcomingEvents)
	fmt.Fprintf(w, "%-17s %d (messages %d, tasks %d, events %d)\n", "Backlog:",
		c.TotalBacklog(), c.BacklogMessages, c.BacklogTasks, c.BacklogEvents)

	if len(byKind) == 0 {
		return
	}
	fmt.Fprintln(w)
	header := fmt.Sprintf("%-10s", "")
	for _, cat := range model.Categories() {
		header += fmt.Sprintf("%10s", cat)
	}
	fmt.Fprintln(w, strings.TrimRight(header, " "))
	for _, kind := range model.Kinds() {
		counts, ok := byKind[kind]
		if !ok {
			continue
		}
		row := fmt.Sprintf("%-10s", kind)
		for _, cat := range model.Categories() {
			row += fmt.Sprintf("%10d", counts[cat])
		}
		fmt.Fprintln(w, row)
	}
}

// FormatSource formats a configured source for the providers command.
// Format: "{NAME:<16} {TYPE:<15} {KINDS}[ (disabled)]"
func FormatSource(w io.Writer, s service.SourceInfo) {
	kinds := make([]string, len(s.Kinds))
	for i, k := range s.Kinds {
		kinds[i] = string(k)
	}
	line := fmt.Sprintf("%-16s %-15s %s", s.Name, s.Type, strings.Join(kinds, ","))
	if s.Disabled {
		line += " (disabled)"
	}
	fmt.Fprintln(w, strings.TrimRight(line, " "))
}

// FormatSummary prints the one-line sync summary.
func FormatSummary(w io.Writer, res *orchestrator.Result) {
	fmt.Fprintf(w, "synced %d messages, %d tasks, %d events (%d/%d calls ok",
		len(res.Messages), len(res.Tasks), len(res.Events), res.Calls-len(res.Failures), res.Calls)
	if n := len(res.Cached); n > 0 {
		fmt.Fprintf(w, ", %d cached", n)
	}
	fmt.Fprintln(w, ")")
}

// FormatFailures prints the partial-failure warning block. Nothing is
// written when res has no failures.
func FormatFailures(w io.Writer, res *orchestrator.Result) {
	if len(res.Failures) == 0 {
		return
	}
	fmt.Fprintf(w, "warning: %d of %d sync calls failed\n", len(res.Failures), res.Calls)
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  %s/%s: %s", f.Source, f.Kind, oneLine(errorText(f.Err)))
		if f.Attempts > 1 {
			fmt.Fprintf(w, " (after %d attempts)", f.Attempts)
		}
		fmt.Fprintln(w)
	}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// oneLine replaces line breaks with spaces.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = oneLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
