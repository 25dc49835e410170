// Package static serves a fixed set of sample entities through the same
// adapter contract as the networked providers. Fixture times are relative
// to the adapter's clock so the dashboard always has something current,
// upcoming and overdue to show.
package static

import (
	"context"
	"time"

	"lifesync/internal/model"
	"lifesync/internal/provider"
)

// Tag is the provider type tag.
const Tag = "static"

// Adapter implements every capability from in-memory fixtures.
type Adapter struct {
	now func() time.Time
}

// New creates a static adapter. now may be nil.
func New(now func() time.Time) *Adapter {
	if now == nil {
		now = time.Now
	}
	return &Adapter{now: now}
}

// Factory builds the adapter from registry settings.
func Factory(provider.Settings) (provider.Adapter, error) {
	return New(nil), nil
}

func (a *Adapter) Tag() string              { return Tag }
func (a *Adapter) CredentialOptional() bool { return true }

const day = 24 * time.Hour

func (a *Adapter) FetchMessages(ctx context.Context, cred provider.Credential) ([]model.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := a.now()
	yesterday := today.Add(-day)
	twoDaysAgo := today.Add(-2 * day)
	weekAgo := today.Add(-7 * day)

	return []model.Message{
		{ID: "1", Sender: "John Doe", Content: "Hey, can we discuss the project timeline?", Timestamp: today, Platform: "slack", Category: model.Work},
		{ID: "2", Sender: "Jane Smith", Content: "Don't forget about our lunch plans!", Timestamp: yesterday, Platform: "gmail", Category: model.Personal, Replied: true},
		{ID: "3", Sender: "Team Lead", Content: "Please submit your weekly reports by Friday.", Timestamp: today, Platform: "outlook", Category: model.Work},
		{ID: "4", Sender: "Mom", Content: "Call me when you have a moment.", Timestamp: twoDaysAgo, Platform: "whatsapp", Category: model.Personal},
		{ID: "5", Sender: "Sarah", Content: "Are we still on for the party this weekend?", Timestamp: yesterday, Platform: "instagram", Category: model.Social},
		{ID: "6", Sender: "Alex", Content: "Don't forget to RSVP for the conference next month.", Timestamp: weekAgo, Platform: "email", Category: model.Work},
		{ID: "7", Sender: "David", Content: "Check out this new restaurant downtown!", Timestamp: weekAgo, Platform: "slack", Category: model.Social},
		{ID: "8", Sender: "HR Department", Content: "Your vacation request has been approved.", Timestamp: weekAgo, Platform: "outlook", Category: model.Work},
	}, nil
}

func (a *Adapter) FetchTasks(ctx context.Context, cred provider.Credential) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := a.now()
	at := func(t time.Time) *time.Time { return &t }

	return []model.Task{
		{ID: "1", Title: "Prepare presentation for client meeting", Description: "Create slides and gather necessary data", Due: at(today.Add(day)), Source: "asana", Category: model.Work},
		{ID: "2", Title: "Buy groceries", Description: "Milk, eggs, bread, and vegetables", Due: at(today), Source: "apple-reminders", Category: model.Personal},
		{ID: "3", Title: "Review pull request #42", Description: "Check the code changes and provide feedback", Due: at(today.Add(3 * time.Hour)), Source: "github", Category: model.Work},
		{ID: "4", Title: "Plan weekend trip", Description: "Research destinations and book accommodations", Due: at(today.Add(7 * day)), Source: "todoist", Category: model.Personal},
		{ID: "5", Title: "Organize team building event", Description: "Choose activities and send out invitations", Due: at(today.Add(7 * day)), Source: "trello", Category: model.Work},
		{ID: "6", Title: "Call friends for reunion planning", Description: "Discuss date and venue options", Due: at(today.Add(day)), Source: "apple-reminders", Category: model.Social},
		{ID: "7", Title: "Submit expense report", Description: "Compile receipts and fill out the expense form", Due: at(today.Add(-8 * day)), Source: "asana", Category: model.Work},
		{ID: "8", Title: "Schedule car maintenance", Description: "Book an appointment for oil change and tire rotation", Due: at(today.Add(-8 * day)), Source: "todoist", Category: model.Personal},
		{ID: "9", Title: "RSVP to party invitation", Description: "Respond to the email invitation for next month's party", Due: at(today.Add(-8 * day)), Source: "apple-reminders", Category: model.Social},
	}, nil
}

func (a *Adapter) FetchEvents(ctx context.Context, cred provider.Credential) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := a.now()
	tomorrow := today.Add(day)
	overdue := today.Add(-8 * day)
	hours := func(t time.Time, h int) time.Time { return t.Add(time.Duration(h) * time.Hour) }

	return []model.Event{
		{
			ID: "1", Title: "Team Meeting", Start: hours(today, 2), End: hours(today, 3),
			Location: "Conference Room A", Description: "Weekly team sync-up to discuss ongoing projects and blockers",
			Source: "google", Category: model.Work,
			Links: []model.Link{
				{Title: "Meeting Agenda", URL: "https://example.com/agenda"},
				{Title: "Project Dashboard", URL: "https://example.com/dashboard"},
			},
		},
		{
			ID: "2", Title: "Lunch with Sarah", Start: hours(today, 4), End: hours(today, 5),
			Location: "Cafe Downtown", Description: "Catch up over lunch and discuss potential collaboration",
			Source: "outlook", Category: model.Personal,
			Links: []model.Link{{Title: "Restaurant Menu", URL: "https://example.com/cafe-menu"}},
		},
		{
			ID: "3", Title: "Project Deadline", Start: tomorrow, End: hours(tomorrow, 1),
			Description: "Submit final project deliverables", Source: "google", Category: model.Work,
			Links: []model.Link{{Title: "Project Repository", URL: "https://example.com/project-repo"}},
		},
		{
			ID: "4", Title: "Family Dinner", Start: hours(today, 8), End: hours(today, 10),
			Location: "Home", Description: "Monthly family dinner", Source: "apple", Category: model.Personal,
		},
		{
			ID: "5", Title: "Movie Night with Friends", Start: tomorrow, End: hours(tomorrow, 3),
			Location: "Local Cinema", Description: "Watching the latest blockbuster", Source: "google", Category: model.Social,
			Links: []model.Link{{Title: "Movie Tickets", URL: "https://example.com/movie-tickets"}},
		},
		{
			ID: "6", Title: "Missed Dentist Appointment", Start: overdue, End: hours(overdue, 1),
			Location: "Dental Clinic", Description: "Regular check-up", Source: "outlook", Category: model.Personal,
		},
		{
			ID: "7", Title: "Overdue Client Meeting", Start: overdue, End: hours(overdue, 2),
			Location: "Client Office", Description: "Discuss project progress and next steps", Source: "google", Category: model.Work,
		},
		{
			ID: "8", Title: "Missed Yoga Class", Start: overdue, End: hours(overdue, 1),
			Location: "Yoga Studio", Description: "Weekly yoga session", Source: "apple", Category: model.Personal,
		},
	}, nil
}
