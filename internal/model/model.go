// Package model defines the canonical entities every provider is mapped onto.
package model

import (
	"strings"
	"time"
)

// Category is the closed set of buckets an entity can belong to.
type Category string

const (
	Work     Category = "work"
	Personal Category = "personal"
	Social   Category = "social"
)

// DefaultCategory is used whenever a provider gives no usable signal.
const DefaultCategory = Personal

// Categories returns the categories in display order.
func Categories() []Category {
	return []Category{Work, Personal, Social}
}

// ParseCategory maps a provider-supplied label onto a Category.
// Matching is case-insensitive and trimmed; anything else is Personal.
func ParseCategory(s string) Category {
	c, ok := LookupCategory(s)
	if !ok {
		return DefaultCategory
	}
	return c
}

// LookupCategory is like ParseCategory but reports whether s named a category.
func LookupCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Work:
		return Work, true
	case Personal:
		return Personal, true
	case Social:
		return Social, true
	}
	return "", false
}

// FirstCategory returns the first label in labels that names a category,
// or DefaultCategory if none does.
func FirstCategory(labels []string) Category {
	for _, l := range labels {
		if c, ok := LookupCategory(l); ok {
			return c
		}
	}
	return DefaultCategory
}

// Kind identifies one of the three entity collections.
type Kind string

const (
	KindMessages Kind = "messages"
	KindTasks    Kind = "tasks"
	KindEvents   Kind = "events"
)

// Kinds returns all kinds in merge order.
func Kinds() []Kind {
	return []Kind{KindMessages, KindTasks, KindEvents}
}

// Message is a chat or mail message.
type Message struct {
	ID        string
	Sender    string
	Content   string
	Timestamp time.Time
	Platform  string // source tag, display only
	Category  Category
	Replied   bool
}

// Task is an actionable item from a task tracker or issue system.
type Task struct {
	ID          string
	Title       string
	Description string
	Due         *time.Time // nil means no deadline
	Completed   bool
	Source      string
	Category    Category
}

// Link is a titled URL attached to an event.
type Link struct {
	Title string
	URL   string
}

// Event is a calendar entry. Start is expected, not required, to be <= End.
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	Location    string
	Description string
	Source      string
	Category    Category
	Links       []Link
}

// NamespaceID returns the merged-collection id for a provider-native id.
func NamespaceID(providerTag, nativeID string) string {
	return providerTag + ":" + nativeID
}

// NamespaceMessages returns a copy of msgs with every ID namespaced.
func NamespaceMessages(tag string, msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		m.ID = NamespaceID(tag, m.ID)
		out[i] = m
	}
	return out
}

// NamespaceTasks returns a copy of tasks with every ID namespaced.
func NamespaceTasks(tag string, tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.ID = NamespaceID(tag, t.ID)
		out[i] = t
	}
	return out
}

// NamespaceEvents returns a copy of events with every ID namespaced.
// Links are copied so the result shares no backing array with the input.
func NamespaceEvents(tag string, events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		e.ID = NamespaceID(tag, e.ID)
		if e.Links != nil {
			e.Links = append([]Link(nil), e.Links...)
		}
		out[i] = e
	}
	return out
}
