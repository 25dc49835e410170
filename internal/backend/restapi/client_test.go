package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifesync/internal/provider"
)

func TestGetJSONSendsHeadersAndDecodes(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"1"},{"id":"2"}]}`))
	}))
	defer server.Close()

	client := New(Options{Provider: "test", BaseURL: server.URL + "/", HTTPClient: server.Client()})
	var out struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	err := client.GetJSON(context.Background(), Request{
		Path:    "/v1/items",
		Query:   map[string][]string{"limit": {"20"}},
		Headers: Bearer("tok_1"),
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok_1", gotAuth)
	assert.Equal(t, "/v1/items", gotPath)
	assert.Equal(t, "20", gotQuery)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "2", out.Items[1].ID)
}

func TestGetJSONClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
		msg    string
	}{
		{http.StatusUnauthorized, `{"message":"Bad credentials"}`, provider.ErrAuth, "Bad credentials"},
		{http.StatusForbidden, ``, provider.ErrAuth, "403 Forbidden"},
		{http.StatusServiceUnavailable, `{"error":{"code":"x","message":"down"}}`, provider.ErrTransient, "down"},
		{http.StatusBadRequest, `{"errorMessages":["JQL invalid"]}`, provider.ErrProvider, "JQL invalid"},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(tt.body))
		}))

		client := New(Options{Provider: "test", BaseURL: server.URL, HTTPClient: server.Client()})
		err := client.GetJSON(context.Background(), Request{Path: "/x"}, nil)
		server.Close()

		require.Error(t, err, "status %d", tt.status)
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		assert.Contains(t, err.Error(), tt.msg)
	}
}

func TestGetJSONBadShapeIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := New(Options{Provider: "test", BaseURL: server.URL, HTTPClient: server.Client()})
	var out map[string]any
	err := client.GetJSON(context.Background(), Request{Path: "/x"}, &out)
	assert.ErrorIs(t, err, provider.ErrProvider)
}

func TestGetJSONNetworkFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(Options{Provider: "test", BaseURL: url})
	err := client.GetJSON(context.Background(), Request{Path: "/x"}, nil)
	assert.ErrorIs(t, err, provider.ErrTransient)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00.0000000", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00.000+0000", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.in, got)
	}

	zero, err := ParseTime("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}
