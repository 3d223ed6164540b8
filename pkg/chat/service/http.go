package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
)

const defaultTimeout = 30 * time.Second

// HTTPStatusError captures non-2xx upstream responses with status-aware
// context. The body is truncated; it is diagnostic material only and never
// drives user-visible behavior.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// restClient carries the HTTP mechanics shared by the service clients.
type restClient struct {
	baseURL    string
	path       string
	method     string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a service client.
type Option func(*restClient)

// WithBaseURL overrides the service base address.
func WithBaseURL(baseURL string) Option {
	return func(c *restClient) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithPath overrides the request path.
func WithPath(path string) Option {
	return func(c *restClient) {
		c.path = path
	}
}

// WithMethod overrides the request method.
func WithMethod(method string) Option {
	return func(c *restClient) {
		c.method = strings.ToUpper(strings.TrimSpace(method))
	}
}

// WithTimeout overrides the request timeout. Ignored when a custom HTTP
// client is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *restClient) {
		c.timeout = timeout
	}
}

// WithHTTPClient supplies the HTTP client to use, typically for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *restClient) {
		c.httpClient = httpClient
	}
}

func (c *restClient) apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
	if c.method == "" {
		c.method = http.MethodPost
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
}

func (c *restClient) endpoint() string {
	return strings.TrimRight(c.baseURL, "/") + c.path
}

// doJSON sends one JSON request and decodes the success body into a generic
// object. Non-2xx statuses become SERVICE_UNAVAILABLE errors wrapping an
// HTTPStatusError; a success body that is not valid JSON is
// RESPONSE_PARSE_FAILED. Missing fields are the caller's concern.
func (c *restClient) doJSON(ctx context.Context, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRequestBuild, "failed to marshal request", err)
	}

	url := c.endpoint()
	req, err := http.NewRequestWithContext(ctx, c.method, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRequestBuild, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRequestFailed, "failed to send request", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, apperrors.New(apperrors.ErrCodeServiceUnavail,
			fmt.Sprintf("service returned status %d", res.StatusCode),
			&HTTPStatusError{StatusCode: res.StatusCode, URL: url, Body: string(buf)})
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRequestFailed, "failed to read response body", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf, &decoded); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeResponseParse, "failed to decode response", err)
	}
	return decoded, nil
}

// getJSON performs a GET against path relative to the client's base URL,
// for probe endpoints.
func (c *restClient) getJSON(ctx context.Context, path string) (map[string]any, error) {
	url := strings.TrimRight(c.baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRequestBuild, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRequestFailed, "failed to send request", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, apperrors.New(apperrors.ErrCodeServiceUnavail,
			fmt.Sprintf("service returned status %d", res.StatusCode),
			&HTTPStatusError{StatusCode: res.StatusCode, URL: url, Body: string(buf)})
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRequestFailed, "failed to read response body", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf, &decoded); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeResponseParse, "failed to decode response", err)
	}
	return decoded, nil
}
