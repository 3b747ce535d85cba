// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxSnippetSize = 4096

// Client is a thin wrapper over net/http for JSON services called by sources.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "testcase-ranker",
	}
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// PostJSON encodes payload and posts it to url. A non-empty bearer token is
// sent in the Authorization header. The caller closes the response body.
func (c *Client) PostJSON(ctx context.Context, url, bearer string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.DoWithContext(ctx, req)
}

// Snippet reads at most a few KB of an error response body.
func Snippet(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxSnippetSize))
	return strings.TrimSpace(string(data))
}
