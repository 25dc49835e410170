// Package msgraph adapts Microsoft Graph to the Outlook (mail and calendar)
// and Teams (chat) providers. Both share one Graph client and token.
package msgraph

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"lifesync/internal/backend/restapi"
	"lifesync/internal/model"
	"lifesync/internal/provider"
)

const (
	// OutlookTag and TeamsTag are the provider type tags.
	OutlookTag = "outlook"
	TeamsTag   = "teams"

	// DefaultBaseURL is the Graph v1.0 root.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// PageSize is the $top used for every collection.
	PageSize = 50
)

// Graph returns times in UTC when asked to.
const utcPreference = `outlook.timezone="UTC"`

func newAPI(tag string, settings provider.Settings) *restapi.Client {
	base := settings.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return restapi.New(restapi.Options{
		Provider:   tag,
		BaseURL:    base,
		HTTPClient: settings.HTTPClient,
	})
}

func headers(token string) map[string]string {
	h := restapi.Bearer(token)
	h["Prefer"] = utcPreference
	return h
}

type emailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

func (r recipient) display() string {
	if r.EmailAddress.Name != "" {
		return r.EmailAddress.Name
	}
	return r.EmailAddress.Address
}

type graphMessage struct {
	ID               string    `json:"id"`
	Subject          string    `json:"subject"`
	BodyPreview      string    `json:"bodyPreview"`
	ReceivedDateTime string    `json:"receivedDateTime"`
	From             recipient `json:"from"`
	Categories       []string  `json:"categories"`
}

type dateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	BodyPreview string       `json:"bodyPreview"`
	Start       dateTimeZone `json:"start"`
	End         dateTimeZone `json:"end"`
	Location    struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
	Categories    []string `json:"categories"`
	IsCancelled   bool     `json:"isCancelled"`
	WebLink       string   `json:"webLink"`
	OnlineMeeting *struct {
		JoinURL string `json:"joinUrl"`
	} `json:"onlineMeeting"`
}

type collection[T any] struct {
	Value []T `json:"value"`
}

// Outlook reads mail and calendar events. Categories assigned in Outlook
// map onto entity categories.
type Outlook struct {
	api *restapi.Client
}

// NewOutlook creates an Outlook adapter.
func NewOutlook(settings provider.Settings) *Outlook {
	return &Outlook{api: newAPI(OutlookTag, settings)}
}

// OutlookFactory builds the Outlook adapter from registry settings.
func OutlookFactory(settings provider.Settings) (provider.Adapter, error) {
	return NewOutlook(settings), nil
}

func (o *Outlook) Tag() string { return OutlookTag }

func (o *Outlook) FetchMessages(ctx context.Context, cred provider.Credential) ([]model.Message, error) {
	var resp collection[graphMessage]
	err := o.api.GetJSON(ctx, restapi.Request{
		Path: "me/messages",
		Query: url.Values{
			"$top":     {strconv.Itoa(PageSize)},
			"$select":  {"id,subject,bodyPreview,from,receivedDateTime,categories"},
			"$orderby": {"receivedDateTime desc"},
		},
		Headers: headers(cred.Token),
	}, &resp)
	if err != nil {
		return nil, err
	}

	result := make([]model.Message, 0, len(resp.Value))
	for _, m := range resp.Value {
		received, err := restapi.ParseTime(m.ReceivedDateTime)
		if err != nil {
			return nil, provider.ProviderError(OutlookTag, 0, fmt.Sprintf("message %s: %v", m.ID, err))
		}
		content := m.BodyPreview
		if strings.TrimSpace(content) == "" {
			content = m.Subject
		}
		result = append(result, model.Message{
			ID:        m.ID,
			Sender:    m.From.display(),
			Content:   content,
			Timestamp: received,
			Platform:  OutlookTag,
			Category:  model.FirstCategory(m.Categories),
		})
	}
	return result, nil
}

func (o *Outlook) FetchEvents(ctx context.Context, cred provider.Credential) ([]model.Event, error) {
	var resp collection[graphEvent]
	err := o.api.GetJSON(ctx, restapi.Request{
		Path: "me/events",
		Query: url.Values{
			"$top":     {strconv.Itoa(PageSize)},
			"$orderby": {"start/dateTime"},
		},
		Headers: headers(cred.Token),
	}, &resp)
	if err != nil {
		return nil, err
	}

	result := make([]model.Event, 0, len(resp.Value))
	for _, e := range resp.Value {
		if e.IsCancelled {
			continue
		}
		start, err := restapi.ParseTime(e.Start.DateTime)
		if err != nil {
			return nil, provider.ProviderError(OutlookTag, 0, fmt.Sprintf("event %s: %v", e.ID, err))
		}
		end, err := restapi.ParseTime(e.End.DateTime)
		if err != nil {
			return nil, provider.ProviderError(OutlookTag, 0, fmt.Sprintf("event %s: %v", e.ID, err))
		}

		var links []model.Link
		if e.OnlineMeeting != nil && e.OnlineMeeting.JoinURL != "" {
			links = append(links, model.Link{Title: "Join meeting", URL: e.OnlineMeeting.JoinURL})
		}
		if e.WebLink != "" {
			links = append(links, model.Link{Title: "Open in Outlook", URL: e.WebLink})
		}

		result = append(result, model.Event{
			ID:          e.ID,
			Title:       e.Subject,
			Start:       start,
			End:         end,
			Location:    e.Location.DisplayName,
			Description: e.BodyPreview,
			Source:      OutlookTag,
			Category:    model.FirstCategory(e.Categories),
			Links:       links,
		})
	}
	return result, nil
}

type chatMessage struct {
	ID              string `json:"id"`
	MessageType     string `json:"messageType"`
	CreatedDateTime string `json:"createdDateTime"`
	From            *struct {
		User *struct {
			DisplayName string `json:"displayName"`
		} `json:"user"`
		Application *struct {
			DisplayName string `json:"displayName"`
		} `json:"application"`
	} `json:"from"`
	Body struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
}

func (m chatMessage) sender() string {
	switch {
	case m.From == nil:
		return ""
	case m.From.User != nil:
		return m.From.User.DisplayName
	case m.From.Application != nil:
		return m.From.Application.DisplayName
	}
	return ""
}

// Teams reads the user's chat messages across all chats.
type Teams struct {
	api *restapi.Client
}

// NewTeams creates a Teams adapter.
func NewTeams(settings provider.Settings) *Teams {
	return &Teams{api: newAPI(TeamsTag, settings)}
}

// TeamsFactory builds the Teams adapter from registry settings.
func TeamsFactory(settings provider.Settings) (provider.Adapter, error) {
	return NewTeams(settings), nil
}

func (t *Teams) Tag() string { return TeamsTag }

func (t *Teams) FetchMessages(ctx context.Context, cred provider.Credential) ([]model.Message, error) {
	var resp collection[chatMessage]
	err := t.api.GetJSON(ctx, restapi.Request{
		Path:    "me/chats/getAllMessages",
		Query:   url.Values{"$top": {strconv.Itoa(PageSize)}},
		Headers: headers(cred.Token),
	}, &resp)
	if err != nil {
		return nil, err
	}

	result := make([]model.Message, 0, len(resp.Value))
	for _, m := range resp.Value {
		if m.MessageType != "" && m.MessageType != "message" {
			continue
		}
		created, err := restapi.ParseTime(m.CreatedDateTime)
		if err != nil {
			return nil, provider.ProviderError(TeamsTag, 0, fmt.Sprintf("chat message %s: %v", m.ID, err))
		}
		content := m.Body.Content
		if strings.EqualFold(m.Body.ContentType, "html") {
			content = plainText(content)
		}
		result = append(result, model.Message{
			ID:        m.ID,
			Sender:    m.sender(),
			Content:   content,
			Timestamp: created,
			Platform:  TeamsTag,
			Category:  model.DefaultCategory,
		})
	}
	return result, nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// plainText flattens a chat message's HTML body for display.
func plainText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
