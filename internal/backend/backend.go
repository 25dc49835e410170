// Package backend wires every built-in provider adapter into a registry.
package backend

import (
	"lifesync/internal/backend/github"
	"lifesync/internal/backend/gmail"
	"lifesync/internal/backend/googlecalendar"
	"lifesync/internal/backend/googletasks"
	"lifesync/internal/backend/jira"
	"lifesync/internal/backend/msgraph"
	"lifesync/internal/backend/slack"
	"lifesync/internal/backend/static"
	"lifesync/internal/provider"
)

// NewRegistry returns a registry holding all built-in adapters.
func NewRegistry() *provider.Registry {
	r := provider.NewRegistry()
	r.MustRegister(static.Tag, static.Factory)
	r.MustRegister(googletasks.Tag, googletasks.Factory)
	r.MustRegister(googlecalendar.Tag, googlecalendar.Factory)
	r.MustRegister(gmail.Tag, gmail.Factory)
	r.MustRegister(slack.Tag, slack.Factory)
	r.MustRegister(msgraph.OutlookTag, msgraph.OutlookFactory)
	r.MustRegister(msgraph.TeamsTag, msgraph.TeamsFactory)
	r.MustRegister(jira.Tag, jira.Factory)
	r.MustRegister(github.Tag, github.Factory)
	return r
}
