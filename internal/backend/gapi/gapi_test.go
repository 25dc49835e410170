package gapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"lifesync/internal/provider"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized, Message: "Invalid Credentials"}, provider.ErrAuth},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden, Message: "insufficient scope"}, provider.ErrAuth},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, provider.ErrTransient},
		{"backend error", &googleapi.Error{Code: http.StatusInternalServerError, Body: "oops"}, provider.ErrTransient},
		{"not found", &googleapi.Error{Code: http.StatusNotFound, Message: "Not Found"}, provider.ErrProvider},
		{"wrapped", fmt.Errorf("listing: %w", &googleapi.Error{Code: http.StatusUnauthorized}), provider.ErrAuth},
		{"deadline", context.DeadlineExceeded, provider.ErrTransient},
		{"other", errors.New("malformed"), provider.ErrProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError("gmail", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "gmail")
		})
	}

	assert.NoError(t, WrapError("gmail", nil))
}

func TestClientOptionsEndpointOverride(t *testing.T) {
	opts := ClientOptions(context.Background(), provider.Settings{}, provider.Credential{Token: "t"})
	assert.Len(t, opts, 1)

	opts = ClientOptions(context.Background(), provider.Settings{BaseURL: "http://127.0.0.1:9/"}, provider.Credential{Token: "t"})
	assert.Len(t, opts, 2)
}
