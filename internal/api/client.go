// Package api implements the gateway to the career-guidance REST backend.
// Session credentials travel as cookies held in an in-memory jar; the client never handles
// tokens itself.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/jonathan/career-guide/internal/schemas"
)

// DefaultBaseURL is the backend address including the /api base path.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "career-guide/1.0"

// Options configures the gateway client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration // 0 disables the client-side timeout
	UserAgent string
	Logger    *zap.Logger
	// Validator, when set, checks list payloads against the embedded JSON Schemas.
	Validator *schemas.Validator
	// HTTPClient overrides the transport; a cookie jar is installed if it has none.
	HTTPClient *http.Client
}

// DefaultOptions returns sensible defaults for the gateway.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client issues JSON requests against the backend with cookie-based session credentials.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
	validator *schemas.Validator
}

// New creates a gateway client.
func New(opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	rawBase := opts.BaseURL
	if rawBase == "" {
		rawBase = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(rawBase, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", rawBase)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: userAgent,
		logger:    logger.Named("api"),
		validator: opts.Validator,
	}, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// call describes one request. schema names the JSON Schema a 2xx body must satisfy.
type call struct {
	method string
	path   string
	body   any
	out    any
	schema string
}

// Do sends a request with an optional JSON body and decodes a 2xx JSON response into out.
// Any failure is returned as *RequestFailedError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, call{method: method, path: path, body: body, out: out})
}

func (c *Client) do(ctx context.Context, rc call) error {
	start := time.Now()
	fail := func(status int, message string, cause error) error {
		c.logger.Debug("request failed",
			zap.String("method", rc.method),
			zap.String("path", rc.path),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(cause))
		return &RequestFailedError{Method: rc.method, Path: rc.path, Status: status, Message: message, Cause: cause}
	}

	var reader io.Reader
	if rc.body != nil {
		payload, err := json.Marshal(rc.body)
		if err != nil {
			return fail(0, "failed to encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, rc.method, c.baseURL.String()+rc.path, reader)
	if err != nil {
		return fail(0, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, "HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errorMessage(resp.StatusCode, data), nil)
	}

	if rc.schema != "" && c.validator.Has(rc.schema) {
		if err := c.validator.Validate(rc.schema, data); err != nil {
			return fail(resp.StatusCode, "unexpected response shape", err)
		}
	}

	if rc.out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, rc.out); err != nil {
			return fail(resp.StatusCode, "invalid JSON response", err)
		}
	}

	c.logger.Debug("request completed",
		zap.String("method", rc.method),
		zap.String("path", rc.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
