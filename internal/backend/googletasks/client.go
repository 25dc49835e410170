// Package googletasks adapts the Google Tasks API to the task capability.
package googletasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	tasks "google.golang.org/api/tasks/v1"

	"lifesync/internal/backend/gapi"
	"lifesync/internal/model"
	"lifesync/internal/provider"
)

const (
	// Tag is the provider type tag.
	Tag = "googletasks"

	statusCompleted = "completed"
)

// Client fetches every task from every list of the authenticated user.
// The list title supplies the category, so a list named "Work" yields
// work tasks.
type Client struct {
	settings provider.Settings
}

// New creates a Google Tasks adapter.
func New(settings provider.Settings) *Client {
	return &Client{settings: settings}
}

// Factory builds the adapter from registry settings.
func Factory(settings provider.Settings) (provider.Adapter, error) {
	return New(settings), nil
}

func (c *Client) Tag() string { return Tag }

func (c *Client) service(ctx context.Context, cred provider.Credential) (*tasks.Service, error) {
	svc, err := tasks.NewService(ctx, gapi.ClientOptions(ctx, c.settings, cred)...)
	if err != nil {
		return nil, provider.ProviderError(Tag, 0, fmt.Sprintf("creating tasks service: %v", err))
	}
	return svc, nil
}

// FetchTasks returns tasks in list order, then API order within each list.
func (c *Client) FetchTasks(ctx context.Context, cred provider.Credential) ([]model.Task, error) {
	svc, err := c.service(ctx, cred)
	if err != nil {
		return nil, err
	}

	var lists []*tasks.TaskList
	err = svc.Tasklists.List().MaxResults(gapi.PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		lists = append(lists, resp.Items...)
		return nil
	})
	if err != nil {
		return nil, gapi.WrapError(Tag, err)
	}

	result := []model.Task{}
	for _, list := range lists {
		category := model.ParseCategory(list.Title)
		err := svc.Tasks.List(list.Id).
			MaxResults(gapi.PageSize).
			ShowCompleted(true).
			ShowHidden(true).
			ShowDeleted(false).
			Pages(ctx, func(resp *tasks.Tasks) error {
				for _, t := range resp.Items {
					task, err := convertTask(t, category)
					if err != nil {
						return err
					}
					result = append(result, task)
				}
				return nil
			})
		if err != nil {
			return nil, gapi.WrapError(Tag, err)
		}
	}
	return result, nil
}

func convertTask(t *tasks.Task, category model.Category) (model.Task, error) {
	task := model.Task{
		ID:          t.Id,
		Title:       strings.TrimSpace(t.Title),
		Description: t.Notes,
		Completed:   t.Status == statusCompleted,
		Source:      Tag,
		Category:    category,
	}
	if t.Due != "" {
		due, err := time.Parse(time.RFC3339, t.Due)
		if err != nil {
			return model.Task{}, provider.ProviderError(Tag, 0, fmt.Sprintf("task %s: invalid due date %q", t.Id, t.Due))
		}
		task.Due = &due
	}
	return task, nil
}
