package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jpalmerr/moistureboard/internal/telemetry"
)

const maxResponseBodySize = 4 << 20 // 4MB

// connection pooling limits; a single endpoint needs only a handful
const (
	defaultMaxIdleConns        = 10
	defaultMaxIdleConnsPerHost = 4
	defaultMaxConnsPerHost     = 4
	defaultIdleConnTimeout     = 60 * time.Second
)

// ErrCancelled is returned (wrapped) by [Client.FetchPage] when the request's
// context was cancelled. It is a control signal, not a failure.
var ErrCancelled = errors.New("request cancelled")

// HTTPError reports a response whose status code is outside the 2xx range.
type HTTPError struct {
	StatusCode int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("telemetry request failed: %d %s", e.StatusCode, e.StatusText)
}

// ShapeError reports a successful response whose body is not a valid page.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "invalid telemetry response: " + e.Reason
}

// Client fetches pages of readings from a single telemetry endpoint.
//
// The endpoint URL is fixed at construction. Timeouts are applied per request
// via context; a zero timeout means requests are bounded only by the caller's
// context. Response bodies are limited to 4MB.
type Client struct {
	httpClient *http.Client
	endpoint   string
	headers    map[string]string
	timeout    time.Duration
}

// NewClient creates a [Client] for the given endpoint URL.
//
// headers are sent with every request in addition to the fixed Accept and
// cache-control headers. The map is copied.
func NewClient(endpoint string, headers map[string]string, timeout time.Duration) *Client {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}

	return &Client{
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		endpoint: endpoint,
		headers:  h,
		timeout:  timeout,
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchPage performs one GET request for the given query and decodes the page.
//
// Errors:
//   - wraps [ErrCancelled] when ctx is cancelled, even if the response already arrived
//   - [*HTTPError] for non-2xx responses
//   - [*ShapeError] for bodies that are not {"data": [...], "meta": {...}}
//   - any other error for network failures and timeouts
func (c *Client) FetchPage(ctx context.Context, q telemetry.Query) (telemetry.Page, error) {
	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target, err := c.buildURL(q)
	if err != nil {
		return telemetry.Page{}, fmt.Errorf("failed to build request url: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return telemetry.Page{}, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if cancelled(ctx) {
			return telemetry.Page{}, fmt.Errorf("fetch page %d: %w", q.Page, ErrCancelled)
		}
		return telemetry.Page{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		if cancelled(ctx) {
			return telemetry.Page{}, fmt.Errorf("fetch page %d: %w", q.Page, ErrCancelled)
		}
		return telemetry.Page{}, &HTTPError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		if cancelled(ctx) {
			return telemetry.Page{}, fmt.Errorf("fetch page %d: %w", q.Page, ErrCancelled)
		}
		return telemetry.Page{}, fmt.Errorf("failed to read response body: %w", err)
	}

	page, err := decodePage(body)

	// the result must not be committed once the caller has moved on
	if cancelled(ctx) {
		return telemetry.Page{}, fmt.Errorf("fetch page %d: %w", q.Page, ErrCancelled)
	}
	if err != nil {
		return telemetry.Page{}, err
	}
	return page, nil
}

// Close closes all idle connections in the client's connection pool.
// Safe to call multiple times; the client remains usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// buildURL appends page and limit to the endpoint, keeping existing parameters.
func (c *Client) buildURL(q telemetry.Query) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}
	values := u.Query()
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// decodePage validates the envelope before decoding its parts.
func decodePage(body []byte) (telemetry.Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return telemetry.Page{}, &ShapeError{Reason: "empty body"}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return telemetry.Page{}, &ShapeError{Reason: "body is not a JSON object"}
	}
	if envelope == nil {
		return telemetry.Page{}, &ShapeError{Reason: "body is null"}
	}

	data, ok := envelope["data"]
	if !ok || !startsWith(data, '[') {
		return telemetry.Page{}, &ShapeError{Reason: "data is not an array"}
	}
	meta, ok := envelope["meta"]
	if !ok || !startsWith(meta, '{') {
		return telemetry.Page{}, &ShapeError{Reason: "meta is not an object"}
	}

	var page telemetry.Page
	if err := json.Unmarshal(data, &page.Data); err != nil {
		return telemetry.Page{}, &ShapeError{Reason: "data: " + err.Error()}
	}
	if page.Data == nil {
		page.Data = []telemetry.Reading{}
	}
	// mistyped meta fields are left at zero rather than rejecting the page
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal(meta, &page.Meta); err != nil && !errors.As(err, &typeErr) {
		return telemetry.Page{}, &ShapeError{Reason: "meta: " + err.Error()}
	}
	return page, nil
}

func startsWith(raw json.RawMessage, b byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == b
}

func cancelled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}

// statusText strips the numeric prefix from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
