// Package gmail adapts the Gmail API to the message capability.
package gmail

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"lifesync/internal/backend/gapi"
	"lifesync/internal/model"
	"lifesync/internal/provider"
)

const (
	// Tag is the provider type tag.
	Tag = "gmail"

	// DefaultMaxResults caps how many inbox messages one sync reads.
	DefaultMaxResults = 25

	userID     = "me"
	labelInbox = "INBOX"
	labelSent  = "SENT"
)

// Client reads recent inbox messages. A message counts as replied when its
// thread holds a later message the user sent.
type Client struct {
	settings provider.Settings
}

// New creates a Gmail adapter.
func New(settings provider.Settings) *Client {
	return &Client{settings: settings}
}

// Factory builds the adapter from registry settings.
func Factory(settings provider.Settings) (provider.Adapter, error) {
	return New(settings), nil
}

func (c *Client) Tag() string { return Tag }

// FetchMessages honours the optional params query (a Gmail search
// expression) and maxResults.
func (c *Client) FetchMessages(ctx context.Context, cred provider.Credential) ([]model.Message, error) {
	svc, err := gmail.NewService(ctx, gapi.ClientOptions(ctx, c.settings, cred)...)
	if err != nil {
		return nil, provider.ProviderError(Tag, 0, fmt.Sprintf("creating gmail service: %v", err))
	}

	maxResults := int64(DefaultMaxResults)
	if raw := cred.Param("maxResults"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, provider.ConfigError("gmail: invalid maxResults param %q", raw)
		}
		maxResults = n
	}

	list := svc.Users.Messages.List(userID).LabelIds(labelInbox).MaxResults(maxResults)
	if q := cred.Param("query"); q != "" {
		list = list.Q(q)
	}
	resp, err := list.Context(ctx).Do()
	if err != nil {
		return nil, gapi.WrapError(Tag, err)
	}

	replied := make(map[string][]int64) // thread id -> send times
	result := make([]model.Message, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		msg, err := svc.Users.Messages.Get(userID, ref.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject").
			Context(ctx).
			Do()
		if err != nil {
			return nil, gapi.WrapError(Tag, err)
		}

		sent, ok := replied[msg.ThreadId]
		if !ok {
			sent, err = sentTimes(ctx, svc, msg.ThreadId)
			if err != nil {
				return nil, err
			}
			replied[msg.ThreadId] = sent
		}
		result = append(result, convertMessage(msg, sent))
	}
	return result, nil
}

// sentTimes returns the internal dates of messages in thread the user sent.
func sentTimes(ctx context.Context, svc *gmail.Service, threadID string) ([]int64, error) {
	if threadID == "" {
		return nil, nil
	}
	thread, err := svc.Users.Threads.Get(userID, threadID).Format("minimal").Context(ctx).Do()
	if err != nil {
		return nil, gapi.WrapError(Tag, err)
	}
	var sent []int64
	for _, m := range thread.Messages {
		if slices.Contains(m.LabelIds, labelSent) {
			sent = append(sent, m.InternalDate)
		}
	}
	return sent, nil
}

func convertMessage(msg *gmail.Message, sent []int64) model.Message {
	var from, subject string
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "from":
				from = h.Value
			case "subject":
				subject = h.Value
			}
		}
	}

	content := html.UnescapeString(strings.TrimSpace(msg.Snippet))
	if content == "" {
		content = subject
	}

	m := model.Message{
		ID:        msg.Id,
		Sender:    from,
		Content:   content,
		Timestamp: time.UnixMilli(msg.InternalDate).UTC(),
		Platform:  Tag,
		Category:  labelCategory(msg.LabelIds),
	}
	for _, at := range sent {
		if at > msg.InternalDate {
			m.Replied = true
			break
		}
	}
	return m
}

// labelCategory maps Gmail's inbox tabs onto categories.
func labelCategory(labels []string) model.Category {
	switch {
	case slices.Contains(labels, "CATEGORY_SOCIAL"):
		return model.Social
	case slices.Contains(labels, "CATEGORY_PERSONAL"):
		return model.Personal
	}
	return model.DefaultCategory
}
