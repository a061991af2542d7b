// Package client reads conversation records from the voice-agent backend.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daviddao/voiceagent_viewer/internal/conversation"
)

// DefaultBaseURL is where the backend listens in a local setup.
const DefaultBaseURL = "http://localhost:5001"

// Client is a thin accessor for the two conversation endpoints. Each call is
// a single attempt: no retries, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The default is http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for baseURL. If baseURL is empty, DefaultBaseURL is used.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListConversations fetches all summaries in server order.
func (c *Client) ListConversations(ctx context.Context) ([]conversation.Summary, error) {
	var out []conversation.Summary
	if err := c.get(ctx, "/api/conversations", &out); err != nil {
		return nil, newFetchError(OpList, "", err)
	}
	if out == nil {
		out = []conversation.Summary{}
	}
	return out, nil
}

// GetConversation fetches the full record for id.
func (c *Client) GetConversation(ctx context.Context, id string) (*conversation.Detail, error) {
	var out *conversation.Detail
	if err := c.get(ctx, "/api/conversations/"+url.PathEscape(id), &out); err != nil {
		return nil, newFetchError(OpDetail, id, err)
	}
	if out == nil || out.ID == "" {
		return nil, newFetchError(OpDetail, id, ErrEmptyRecord)
	}
	return out, nil
}

// statusError is a non-2xx response.
type statusError struct {
	code   int
	status string
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return "server error: " + e.status
	}
	return fmt.Sprintf("server error: %s - %s", e.status, e.body)
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	reqID := uuid.NewString()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("fetch failed", "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("fetch done",
		"path", path,
		"request_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{
			code:   resp.StatusCode,
			status: resp.Status,
			body:   strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
