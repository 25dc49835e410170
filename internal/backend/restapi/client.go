// Package restapi is a small JSON-over-HTTP client shared by the REST
// provider adapters. It maps transport failures and HTTP statuses onto the
// provider error taxonomy and leaves retrying to the orchestrator.
package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lifesync/internal/provider"
)

// DefaultTimeout applies when no *http.Client is supplied. The orchestrator's
// per-call deadline is normally shorter.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 4 << 10

// Options configures a Client.
type Options struct {
	// Provider is the tag used in error messages.
	Provider   string
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client issues authenticated GET requests and decodes JSON bodies.
type Client struct {
	provider   string
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// New creates a Client. BaseURL must be non-empty.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = "lifesync"
	}
	return &Client{
		provider:   opts.Provider,
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Request describes one GET call.
type Request struct {
	Path    string
	Query   url.Values
	Headers map[string]string
}

// GetJSON performs req and decodes a 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, req Request, out any) error {
	_, err := c.get(ctx, req, out)
	return err
}

// GetJSONWithHeaders is GetJSON that also returns the response headers.
func (c *Client) GetJSONWithHeaders(ctx context.Context, req Request, out any) (http.Header, error) {
	return c.get(ctx, req, out)
}

func (c *Client) get(ctx context.Context, req Request, out any) (http.Header, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, provider.ProviderError(c.provider, 0, fmt.Sprintf("building request: %v", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, provider.TransientError(c.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.Header, provider.StatusError(c.provider, resp.StatusCode, errorMessage(body, resp.Status))
	}

	if out == nil {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return resp.Header, provider.TransientError(c.provider, ctx.Err())
		}
		return resp.Header, provider.ProviderError(c.provider, resp.StatusCode, fmt.Sprintf("unexpected response shape: %v", err))
	}
	return resp.Header, nil
}

// errorMessage extracts a human-readable message from a JSON error body,
// falling back to the raw body or the status line.
func errorMessage(body []byte, status string) string {
	var parsed map[string]any
	if json.Unmarshal(body, &parsed) == nil {
		for _, key := range []string{"message", "error_description", "error"} {
			switch v := parsed[key].(type) {
			case string:
				if strings.TrimSpace(v) != "" {
					return v
				}
			case map[string]any:
				if msg, ok := v["message"].(string); ok && msg != "" {
					return msg
				}
			}
		}
		if msgs, ok := parsed["errorMessages"].([]any); ok && len(msgs) > 0 {
			if msg, ok := msgs[0].(string); ok {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}

// Bearer returns an Authorization header map for token.
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + strings.TrimSpace(token)}
}

// ParseTime parses the RFC 3339 variants providers emit. Empty input
// returns the zero time and no error.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05.000-0700", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
