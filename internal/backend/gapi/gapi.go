// Package gapi holds the pieces shared by the Google API adapters: building
// client options from a pre-acquired access token and mapping API errors
// onto the provider taxonomy.
package gapi

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"lifesync/internal/provider"
)

// PageSize is the page size requested from list endpoints.
const PageSize = 100

// ClientOptions returns the options for a per-call Google service.
// The token is used as-is; refreshing it is the caller's concern.
// A non-nil settings.HTTPClient becomes the transport beneath the token
// source, and settings.BaseURL replaces the API endpoint.
func ClientOptions(ctx context.Context, settings provider.Settings, cred provider.Credential) []option.ClientOption {
	if settings.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, settings.HTTPClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: strings.TrimSpace(cred.Token),
		TokenType:   "Bearer",
	})

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if base := strings.TrimSpace(settings.BaseURL); base != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(base, "/")+"/"))
	}
	return opts
}

// WrapError classifies a Google API error for providerTag.
func WrapError(providerTag string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := strings.TrimSpace(gerr.Message)
		if msg == "" {
			msg = strings.TrimSpace(gerr.Body)
		}
		if msg == "" {
			msg = "request failed"
		}
		return provider.StatusError(providerTag, gerr.Code, msg)
	}

	return provider.Wrap(providerTag, err)
}
