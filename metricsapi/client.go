// ABOUTME: HTTP client for the call metrics dashboard API, attaching the caller's x-api-key to every request.
// ABOUTME: Performs no retries or caching; non-2xx responses become *HTTPError with status and body text.
package metricsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/calldeck/logger"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultAPIKey is sent when the operator leaves the key blank.
	DefaultAPIKey = "demo-key"

	// APIKeyHeader carries the caller-supplied key.
	APIKeyHeader = "x-api-key"

	// RequestIDHeader correlates client log lines with server logs.
	RequestIDHeader = "X-Request-ID"
)

// Dashboard endpoint paths.
const (
	PathOverview  = "/v1/metrics/dashboard/overview"
	PathOutcomes  = "/v1/metrics/dashboard/outcomes"
	PathSentiment = "/v1/metrics/dashboard/sentiment"
	PathCalls     = "/v1/metrics/dashboard/calls"
)

// CallsPath returns the recent-calls path for the given limit.
func CallsPath(limit int) string {
	return PathCalls + "?limit=" + strconv.Itoa(limit)
}

// CallPath returns the detail path for a call, percent-encoding the id.
func CallPath(callID string) string {
	return PathCalls + "/" + url.PathEscape(callID)
}

// HTTPError is returned for any non-success HTTP response.
type HTTPError struct {
	StatusCode int
	Status     string // status text without the code, e.g. "Not Found"
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Client issues authenticated GET requests against the dashboard API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
	requestID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger attaches a logger for per-request log lines.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a Client. The default http.Client has no timeout; the
// transport's own defaults apply.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		log:        logger.Nop(),
		requestID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path and returns the raw response body. A blank apiKey is
// replaced with DefaultAPIKey.
func (c *Client) Get(ctx context.Context, path, apiKey string) ([]byte, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = DefaultAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	reqID := c.requestID()
	req.Header.Set(APIKeyHeader, key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	entry := c.log.WithRequestID(reqID).WithField("path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithField("error", err.Error()).Warn("request failed")
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	entry = entry.WithField("status", resp.StatusCode).WithField("duration_ms", time.Since(start).Milliseconds())
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		entry.Warn("request rejected")
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       string(body),
		}
	}
	entry.Debug("request ok")
	return body, nil
}

// statusText extracts the reason phrase from resp.Status, falling back to
// the standard text for the code.
func statusText(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if text := strings.TrimPrefix(resp.Status, prefix); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// Overview fetches the KPI snapshot.
func (c *Client) Overview(ctx context.Context, apiKey string) (OverviewMetrics, error) {
	body, err := c.Get(ctx, PathOverview, apiKey)
	if err != nil {
		return OverviewMetrics{}, err
	}
	return ParseOverview(body)
}

// Outcomes fetches the outcome distribution.
func (c *Client) Outcomes(ctx context.Context, apiKey string) (Distribution, error) {
	body, err := c.Get(ctx, PathOutcomes, apiKey)
	if err != nil {
		return nil, err
	}
	return ParseDistribution("outcomes", body)
}

// Sentiment fetches the sentiment distribution.
func (c *Client) Sentiment(ctx context.Context, apiKey string) (Distribution, error) {
	body, err := c.Get(ctx, PathSentiment, apiKey)
	if err != nil {
		return nil, err
	}
	return ParseDistribution("sentiment", body)
}

// Calls fetches the most recent limit calls.
func (c *Client) Calls(ctx context.Context, apiKey string, limit int) ([]CallSummary, error) {
	body, err := c.Get(ctx, CallsPath(limit), apiKey)
	if err != nil {
		return nil, err
	}
	return ParseCalls(body)
}

// Call fetches one call's detail record.
func (c *Client) Call(ctx context.Context, apiKey, callID string) (CallDetail, error) {
	body, err := c.Get(ctx, CallPath(callID), apiKey)
	if err != nil {
		return CallDetail{}, err
	}
	return ParseCallDetail(callID, body)
}
