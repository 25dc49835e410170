// Package slack adapts the Slack Web API to the message capability.
package slack

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"lifesync/internal/backend/restapi"
	"lifesync/internal/model"
	"lifesync/internal/provider"
)

const (
	// Tag is the provider type tag.
	Tag = "slack"

	// DefaultBaseURL is the public Web API root.
	DefaultBaseURL = "https://slack.com/api"

	// DefaultLimit caps how many messages one sync reads.
	DefaultLimit = 100
)

// Client reads one channel's history. The credential needs the channel
// param; the optional user param is the caller's Slack user id, used to
// detect replies.
type Client struct {
	api *restapi.Client
}

// New creates a Slack adapter.
func New(settings provider.Settings) *Client {
	base := settings.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{api: restapi.New(restapi.Options{
		Provider:   Tag,
		BaseURL:    base,
		HTTPClient: settings.HTTPClient,
	})}
}

// Factory builds the adapter from registry settings.
func Factory(settings provider.Settings) (provider.Adapter, error) {
	return New(settings), nil
}

func (c *Client) Tag() string { return Tag }

type historyResponse struct {
	OK       bool           `json:"ok"`
	Error    string         `json:"error"`
	Messages []slackMessage `json:"messages"`
}

type slackMessage struct {
	Type       string   `json:"type"`
	Subtype    string   `json:"subtype"`
	User       string   `json:"user"`
	Username   string   `json:"username"`
	BotID      string   `json:"bot_id"`
	Text       string   `json:"text"`
	TS         string   `json:"ts"`
	ReplyUsers []string `json:"reply_users"`
}

func (c *Client) FetchMessages(ctx context.Context, cred provider.Credential) ([]model.Message, error) {
	channel := cred.Param("channel")
	if channel == "" {
		return nil, provider.ConfigError("slack: channel param is required")
	}

	var resp historyResponse
	err := c.api.GetJSON(ctx, restapi.Request{
		Path: "conversations.history",
		Query: url.Values{
			"channel": {channel},
			"limit":   {strconv.Itoa(DefaultLimit)},
		},
		Headers: restapi.Bearer(cred.Token),
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, apiError(resp.Error)
	}

	self := cred.Param("user")
	result := make([]model.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		if m.Type != "" && m.Type != "message" {
			continue
		}
		ts, err := parseTS(m.TS)
		if err != nil {
			return nil, provider.ProviderError(Tag, 0, "invalid message ts "+strconv.Quote(m.TS))
		}
		result = append(result, model.Message{
			ID:        m.TS,
			Sender:    sender(m),
			Content:   m.Text,
			Timestamp: ts,
			Platform:  Tag,
			Category:  model.DefaultCategory,
			Replied:   self != "" && slices.Contains(m.ReplyUsers, self),
		})
	}
	return result, nil
}

// apiError classifies the error code of an ok:false response. Slack
// reports most failures with HTTP 200.
func apiError(code string) error {
	switch code {
	case "not_authed", "invalid_auth", "account_inactive", "token_revoked", "token_expired", "missing_scope", "no_permission":
		return provider.AuthError(Tag, 0, code)
	case "ratelimited", "internal_error", "fatal_error", "service_unavailable", "request_timeout":
		return provider.TransientError(Tag, &slackError{code: code})
	}
	if code == "" {
		code = "unknown error"
	}
	return provider.ProviderError(Tag, 0, code)
}

type slackError struct{ code string }

func (e *slackError) Error() string { return e.code }

func sender(m slackMessage) string {
	switch {
	case m.User != "":
		return m.User
	case m.Username != "":
		return m.Username
	}
	return m.BotID
}

// parseTS converts a Slack "seconds.micros" timestamp.
func parseTS(ts string) (time.Time, error) {
	secs, frac, _ := strings.Cut(ts, ".")
	s, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	var micros int64
	if frac != "" {
		if len(frac) > 6 {
			frac = frac[:6]
		}
		micros, err = strconv.ParseInt(frac+strings.Repeat("0", 6-len(frac)), 10, 64)
		if err != nil {
			return time.Time{}, err
		}
	}
	return time.Unix(s, micros*int64(time.Microsecond)).UTC(), nil
}
