package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/subhasish93/Timetable/internal/logger"
	"github.com/subhasish93/Timetable/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 4 << 20

// Config holds common client configuration
type Config struct {
	ServerURL string
	Timeout   time.Duration
	CacheDir  string
	Cache     bool
	Debug     bool
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://127.0.0.1:8000",
		Timeout:   30 * time.Second,
		Debug:     false,
	}
}

// Client performs JSON requests against the timetable backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from the config. The
// request id and logging transports are still applied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the backend at config.ServerURL.
func New(config Config, opts ...Option) (*Client, error) {
	u, err := url.Parse(config.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL must be http or https: %q", config.ServerURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}

	var transport http.RoundTripper = http.DefaultTransport
	if config.Cache || config.CacheDir != "" {
		transport = NewCachingTransport(config.CacheDir, transport)
	}
	c.httpClient.Transport = otelhttp.NewTransport(transport)

	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = newRequestIDTransport(logger.NewRequestLogger(base))
	c.httpClient = &hc

	return c, nil
}

// BaseURL returns the backend URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body as JSON to path and decodes a 2xx response into out. Either
// body or out may be nil. Non-2xx responses and 2xx bodies that cannot be
// decoded are returned as *RequestFailedError, transport failures as
// *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	started := time.Now()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, method, path, 0, started)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.record(ctx, method, path, resp.StatusCode, started)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestFailedError(method, path, resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &RequestFailedError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Invalid response (%d): %v", resp.StatusCode, err),
		}
	}

	return nil
}

func (c *Client) record(ctx context.Context, method, path string, status int, started time.Time) {
	m := telemetry.GetMetrics()
	m.RequestDuration.Record(ctx, float64(time.Since(started).Milliseconds()),
		metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
			attribute.Int("http.status_code", status),
		))
}
