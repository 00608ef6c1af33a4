// Package openalex is a rate-limited client for the OpenAlex REST API,
// covering the two calls the pipeline needs: author search constrained
// to an institution, and exhaustive listing of an author's works.
package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the OpenAlex API base URL.
	BaseURL = "https://api.openalex.org"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 10 requests per second, the OpenAlex polite-pool cap.
	RateLimit = 10.0

	// DefaultRetries is the number of attempts made per request before
	// the failure is surfaced.
	DefaultRetries = 3

	// retryBackoff is the base delay between attempts; attempt n waits
	// n * retryBackoff.
	retryBackoff = 2 * time.Second

	// WorksPageSize is the page size used for exhaustive works listing.
	WorksPageSize = 200

	// AuthorSearchLimit caps author-search result pages; the resolver
	// only ever takes the first match.
	AuthorSearchLimit = 10
)

// Client is a rate-limited HTTP client for the OpenAlex API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	retries    int
	backoff    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMailto sets the contact address sent with every request. OpenAlex
// routes requests carrying one to its polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithRetries sets the number of attempts per request.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// WithBackoff sets the base retry delay (for testing).
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient creates a new OpenAlex API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		retries:    DefaultRetries,
		backoff:    retryBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// userAgent identifies the client to OpenAlex; the mailto is appended
// when configured, per OpenAlex API etiquette.
func (c *Client) userAgent() string {
	if c.mailto != "" {
		return fmt.Sprintf("profiler/1.0 (mailto:%s)", c.mailto)
	}
	return "profiler/1.0"
}

// get performs one rate-limited GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			URL:        reqURL,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}

// getWithRetry wraps get with the retry policy: up to c.retries attempts
// for retryable failures, linear backoff between them. Context
// cancellation aborts immediately.
func (c *Client) getWithRetry(ctx context.Context, path string, params url.Values, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		lastErr = c.get(ctx, path, params, out)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt < c.retries {
			select {
			case <-time.After(time.Duration(attempt) * c.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.retries, lastErr)
}
