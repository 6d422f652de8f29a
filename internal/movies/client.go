// Package movies is the HTTP client for the remote movie search endpoint.
package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"moviesearch/internal/domain"
)

// DefaultEndpoint is the public test endpoint the search box was built against
const DefaultEndpoint = "https://api.buildable.dev/trigger/v2/test-0d6d4ffa-777e-44c9-bb69-b9b8dd5da59f"

// maxErrorBody bounds how much of a failed response is kept for the error
const maxErrorBody = 512

// Searcher looks movies up by keyword
type Searcher interface {
	Search(ctx context.Context, keyword string) (*domain.Page, error)
}

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("movie search failed: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("movie search failed: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Client talks to the movie search endpoint
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewClient creates a client for the given endpoint
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}

	c := &Client{
		endpoint:   u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search fetches the first page of movies matching keyword
func (c *Client) Search(ctx context.Context, keyword string) (*domain.Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := c.searchURL(keyword)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("movie search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var page domain.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if page.Rows == nil {
		page.Rows = []domain.Movie{}
	}

	log.Printf("Movie search for %q returned %d rows in %s", keyword, len(page.Rows), time.Since(start).Round(time.Millisecond))
	return &page, nil
}

// searchURL keeps any query parameters already on the endpoint
func (c *Client) searchURL(keyword string) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("search", keyword)
	u.RawQuery = q.Encode()
	return u.String()
}
