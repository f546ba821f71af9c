package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUserAgent = "water-features-api/1.0"

// maxErrorBody bounds how much of a failed response we keep for the error.
const maxErrorBody = 4 << 10

// Client executes SPARQL queries against a remote endpoint over HTTP.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a Client for the given endpoint URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:  endpoint,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// RemoteError is returned when the endpoint answers with a non-success status.
// It carries the remote error body so callers can log it.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("sparql endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Execute POSTs the query text and decodes the bindings envelope.
func (c *Client) Execute(ctx context.Context, query string) (ResultSet, error) {
	form := url.Values{}
	form.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return ResultSet{}, fmt.Errorf("build sparql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ResultSet{}, fmt.Errorf("execute sparql query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return ResultSet{}, &RemoteError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var rs ResultSet
	if err := json.NewDecoder(resp.Body).Decode(&rs); err != nil {
		return ResultSet{}, fmt.Errorf("decode sparql response: %w", err)
	}
	return rs, nil
}
