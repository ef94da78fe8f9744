package ghapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultAPIURL = "https://api.github.com"
	apiVersion    = "2022-11-28"
	perPage       = 100

	requestTimeout = 30 * time.Second
)

// Client provides access to the GitHub REST API for a single repository.
type Client struct {
	token   string
	apiURL  string
	repo    string // "owner/name"
	httpCli *http.Client
}

// NewClient creates a client for repo ("owner/name"). The token comes from
// GITHUB_TOKEN; GITHUB_API_URL overrides the endpoint for GitHub Enterprise.
func NewClient(repo string) (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &Client{
		token:   token,
		apiURL:  strings.TrimRight(apiURL, "/"),
		repo:    repo,
		httpCli: &http.Client{Timeout: requestTimeout},
	}, nil
}

// AuthError reports a 401 or 403 response from the API.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("github authentication failed (status %d): %s", e.Status, e.Body)
}

// IsAuthError reports whether err is (or wraps) an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// APIError reports any other non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github API error (status %d): %s", e.Status, e.Body)
}

// do issues one API request. payload, when non-nil, is sent as JSON; out,
// when non-nil, receives the decoded response body. A 204 leaves out
// untouched.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Body: string(respBody)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	case resp.StatusCode == http.StatusNoContent || out == nil:
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// Pager walks a paginated list endpoint one page at a time. An empty page
// marks exhaustion: Next returns a nil slice and never touches the network
// again until Reset. path must not already carry query parameters.
type Pager struct {
	client *Client
	path   string
	page   int
	done   bool
}

func (c *Client) newPager(path string) *Pager {
	return &Pager{client: c, path: path, page: 1}
}

// Next fetches the next page. A nil slice with a nil error means the
// sequence is exhausted.
func (p *Pager) Next(ctx context.Context) ([]json.RawMessage, error) {
	if p.done {
		return nil, nil
	}

	path := fmt.Sprintf("%s?per_page=%d&page=%d", p.path, perPage, p.page)
	var batch []json.RawMessage
	if err := p.client.do(ctx, http.MethodGet, path, nil, &batch); err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		p.done = true
		return nil, nil
	}

	p.page++
	return batch, nil
}

// Reset rewinds the pager to the first page.
func (p *Pager) Reset() {
	p.page = 1
	p.done = false
}

// collect drains a pager, decoding every item into a slice of T.
func collect[T any](ctx context.Context, p *Pager) ([]T, error) {
	var all []T
	for {
		batch, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return all, nil
		}
		for _, raw := range batch {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("parsing page item: %w", err)
			}
			all = append(all, item)
		}
	}
}
