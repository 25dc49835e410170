// Package googlecalendar adapts Google Calendar to the event capability.
package googlecalendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"lifesync/internal/backend/gapi"
	"lifesync/internal/model"
	"lifesync/internal/provider"
)

const (
	// Tag is the provider type tag.
	Tag = "googlecalendar"

	// DefaultCalendarID is used unless the credential sets the calendarId param.
	DefaultCalendarID = "primary"

	// Lookback is how far back events are fetched, so the overdue filter
	// has something to work with.
	Lookback = 30 * 24 * time.Hour

	categoryProperty = "category"
	dateLayout       = "2006-01-02"
)

// Client lists single events from one calendar, expanded and ordered by start.
type Client struct {
	settings provider.Settings
	now      func() time.Time
}

// New creates a Google Calendar adapter. now may be nil.
func New(settings provider.Settings, now func() time.Time) *Client {
	if now == nil {
		now = time.Now
	}
	return &Client{settings: settings, now: now}
}

// Factory builds the adapter from registry settings.
func Factory(settings provider.Settings) (provider.Adapter, error) {
	return New(settings, nil), nil
}

func (c *Client) Tag() string { return Tag }

func (c *Client) FetchEvents(ctx context.Context, cred provider.Credential) ([]model.Event, error) {
	svc, err := calendar.NewService(ctx, gapi.ClientOptions(ctx, c.settings, cred)...)
	if err != nil {
		return nil, provider.ProviderError(Tag, 0, fmt.Sprintf("creating calendar service: %v", err))
	}

	calendarID := cred.Param("calendarId")
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	result := []model.Event{}
	err = svc.Events.List(calendarID).
		TimeMin(c.now().Add(-Lookback).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(gapi.PageSize).
		Pages(ctx, func(resp *calendar.Events) error {
			for _, item := range resp.Items {
				if item.Status == "cancelled" {
					continue
				}
				ev, err := convertEvent(item)
				if err != nil {
					return err
				}
				result = append(result, ev)
			}
			return nil
		})
	if err != nil {
		return nil, gapi.WrapError(Tag, err)
	}
	return result, nil
}

func convertEvent(item *calendar.Event) (model.Event, error) {
	start, err := eventTime(item.Start)
	if err != nil {
		return model.Event{}, provider.ProviderError(Tag, 0, fmt.Sprintf("event %s: %v", item.Id, err))
	}
	end, err := eventTime(item.End)
	if err != nil {
		return model.Event{}, provider.ProviderError(Tag, 0, fmt.Sprintf("event %s: %v", item.Id, err))
	}

	return model.Event{
		ID:          item.Id,
		Title:       item.Summary,
		Start:       start,
		End:         end,
		Location:    item.Location,
		Description: item.Description,
		Source:      Tag,
		Category:    eventCategory(item.ExtendedProperties),
		Links:       eventLinks(item),
	}, nil
}

// eventTime reads a timed or all-day boundary.
func eventTime(t *calendar.EventDateTime) (time.Time, error) {
	switch {
	case t == nil:
		return time.Time{}, nil
	case t.DateTime != "":
		return time.Parse(time.RFC3339, t.DateTime)
	case t.Date != "":
		return time.Parse(dateLayout, t.Date)
	}
	return time.Time{}, nil
}

func eventCategory(props *calendar.EventExtendedProperties) model.Category {
	if props == nil {
		return model.DefaultCategory
	}
	if c, ok := model.LookupCategory(props.Private[categoryProperty]); ok {
		return c
	}
	return model.ParseCategory(props.Shared[categoryProperty])
}

func eventLinks(item *calendar.Event) []model.Link {
	var links []model.Link
	if item.HangoutLink != "" {
		links = append(links, model.Link{Title: "Video call", URL: item.HangoutLink})
	}
	for _, a := range item.Attachments {
		if a == nil || a.FileUrl == "" {
			continue
		}
		title := a.Title
		if title == "" {
			title = "Attachment"
		}
		links = append(links, model.Link{Title: title, URL: a.FileUrl})
	}
	if item.HtmlLink != "" {
		links = append(links, model.Link{Title: "Open in Calendar", URL: item.HtmlLink})
	}
	return links
}
