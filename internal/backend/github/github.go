// Package github adapts GitHub issues assigned to the caller to the task
// capability.
package github

import (
	"context"
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
	Tag = "github"

	// DefaultBaseURL is the public REST API root.
	DefaultBaseURL = "https://api.github.com"

	// PerPage caps one page of issues.
	PerPage = 50

	// MaxPages bounds how many Link-header pages one fetch follows.
	MaxPages = 10

	apiVersion = "2022-11-28"
)

// Client lists issues across the caller's repositories.
type Client struct {
	api *restapi.Client
}

// New creates a GitHub adapter.
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

type ghIssue struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Milestone *struct {
		DueOn string `json:"due_on"`
	} `json:"milestone"`
	Repository *struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

func (i ghIssue) nativeID() string {
	if i.Repository != nil && i.Repository.FullName != "" {
		return fmt.Sprintf("%s#%d", i.Repository.FullName, i.Number)
	}
	return strconv.FormatInt(i.ID, 10)
}

// FetchTasks honours the optional params filter (assigned, created,
// mentioned, subscribed, all) and state (open, closed, all).
func (c *Client) FetchTasks(ctx context.Context, cred provider.Credential) ([]model.Task, error) {
	filter := cred.Param("filter")
	if filter == "" {
		filter = "assigned"
	}
	state := cred.Param("state")
	if state == "" {
		state = "all"
	}

	headers := map[string]string{
		"Authorization":        "token " + strings.TrimSpace(cred.Token),
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": apiVersion,
	}
	var issues []ghIssue
	page := "1"
	for range MaxPages {
		var batch []ghIssue
		header, err := c.api.GetJSONWithHeaders(ctx, restapi.Request{
			Path: "issues",
			Query: url.Values{
				"filter":   {filter},
				"state":    {state},
				"per_page": {strconv.Itoa(PerPage)},
				"page":     {page},
			},
			Headers: headers,
		}, &batch)
		if err != nil {
			return nil, err
		}
		issues = append(issues, batch...)

		page = nextPage(header.Get("Link"))
		if page == "" {
			break
		}
	}

	result := make([]model.Task, 0, len(issues))
	for _, is := range issues {
		labels := make([]string, 0, len(is.Labels))
		for _, l := range is.Labels {
			labels = append(labels, l.Name)
		}
		task := model.Task{
			ID:          is.nativeID(),
			Title:       is.Title,
			Description: is.Body,
			Completed:   is.State == "closed",
			Source:      Tag,
			Category:    model.FirstCategory(labels),
		}
		if is.Milestone != nil && is.Milestone.DueOn != "" {
			due, err := restapi.ParseTime(is.Milestone.DueOn)
			if err != nil {
				return nil, provider.ProviderError(Tag, 0, fmt.Sprintf("issue %s: %v", task.ID, err))
			}
			task.Due = &due
		}
		result = append(result, task)
	}
	return result, nil
}

// nextPage returns the page number of the rel="next" entry of a Link
// header, or "" when there is none.
func nextPage(link string) string {
	for _, part := range strings.Split(link, ",") {
		target, params, ok := strings.Cut(strings.TrimSpace(part), ";")
		if !ok || !strings.Contains(params, `rel="next"`) {
			continue
		}
		u, err := url.Parse(strings.Trim(strings.TrimSpace(target), "<>"))
		if err != nil {
			return ""
		}
		return u.Query().Get("page")
	}
	return ""
}
