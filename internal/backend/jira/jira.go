// Package jira adapts Jira Cloud issue search to the task capability.
package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"lifesync/internal/backend/restapi"
	"lifesync/internal/model"
	"lifesync/internal/provider"
)

const (
	// Tag is the provider type tag.
	Tag = "jira"

	// DefaultJQL selects the caller's unresolved issues plus recently resolved ones.
	DefaultJQL = "assignee = currentUser() AND (resolution = Unresolved OR resolved >= -7d) ORDER BY duedate ASC"

	// MaxResults caps one search page.
	MaxResults = 50

	statusCategoryDone = "done"
)

// Client searches issues on one Jira site. The credential's Domain is the
// site name (acme for acme.atlassian.net) and its Token is "email:apitoken".
type Client struct {
	settings provider.Settings
}

// New creates a Jira adapter.
func New(settings provider.Settings) *Client {
	return &Client{settings: settings}
}

// Factory builds the adapter from registry settings.
func Factory(settings provider.Settings) (provider.Adapter, error) {
	return New(settings), nil
}

func (c *Client) Tag() string { return Tag }

func (c *Client) api(cred provider.Credential) (*restapi.Client, error) {
	base := c.settings.BaseURL
	if base == "" {
		domain := strings.TrimSpace(cred.Domain)
		if domain == "" {
			return nil, provider.ConfigError("jira: domain is required")
		}
		base = "https://" + domain + ".atlassian.net"
	}
	return restapi.New(restapi.Options{
		Provider:   Tag,
		BaseURL:    base,
		HTTPClient: c.settings.HTTPClient,
	}), nil
}

type searchResponse struct {
	Issues []issue `json:"issues"`
}

type issue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string          `json:"summary"`
		Description json.RawMessage `json:"description"`
		DueDate     string          `json:"duedate"`
		Labels      []string        `json:"labels"`
		Status      struct {
			StatusCategory struct {
				Key string `json:"key"`
			} `json:"statusCategory"`
		} `json:"status"`
	} `json:"fields"`
}

// FetchTasks runs the jql param, or DefaultJQL.
func (c *Client) FetchTasks(ctx context.Context, cred provider.Credential) ([]model.Task, error) {
	api, err := c.api(cred)
	if err != nil {
		return nil, err
	}

	jql := cred.Param("jql")
	if jql == "" {
		jql = DefaultJQL
	}

	var resp searchResponse
	err = api.GetJSON(ctx, restapi.Request{
		Path: "rest/api/3/search",
		Query: url.Values{
			"jql":        {jql},
			"fields":     {"summary,description,duedate,labels,status"},
			"maxResults": {strconv.Itoa(MaxResults)},
		},
		Headers: map[string]string{
			"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(cred.Token))),
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	result := make([]model.Task, 0, len(resp.Issues))
	for _, is := range resp.Issues {
		task := model.Task{
			ID:          is.Key,
			Title:       is.Fields.Summary,
			Description: description(is.Fields.Description),
			Completed:   is.Fields.Status.StatusCategory.Key == statusCategoryDone,
			Source:      Tag,
			Category:    model.FirstCategory(is.Fields.Labels),
		}
		if is.Fields.DueDate != "" {
			due, err := restapi.ParseTime(is.Fields.DueDate)
			if err != nil {
				return nil, provider.ProviderError(Tag, 0, fmt.Sprintf("issue %s: %v", is.Key, err))
			}
			task.Due = &due
		}
		result = append(result, task)
	}
	return result, nil
}

// description accepts a plain string (API v2) or an Atlassian Document
// Format tree (API v3) and returns its text.
func description(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	if s, ok := doc.(string); ok {
		return s
	}
	var b strings.Builder
	adfText(&b, doc)
	return strings.TrimSpace(b.String())
}

func adfText(b *strings.Builder, node any) {
	n, ok := node.(map[string]any)
	if !ok {
		return
	}
	switch n["type"] {
	case "text":
		if s, ok := n["text"].(string); ok {
			b.WriteString(s)
		}
		return
	case "hardBreak":
		b.WriteString("\n")
		return
	}
	children, _ := n["content"].([]any)
	for _, child := range children {
		adfText(b, child)
	}
	switch n["type"] {
	case "paragraph", "heading", "listItem", "codeBlock", "blockquote":
		b.WriteString("\n")
	}
}
