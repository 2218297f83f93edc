package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
	"github.com/dinosandi/Mobile-Driver/internal/session"
)

// Notifier receives the single user-facing notification emitted when a 401
// invalidates the session. It decides nothing: no re-login, no navigation.
type Notifier interface {
	SessionExpired()
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func()

// SessionExpired calls the wrapped function.
func (f NotifierFunc) SessionExpired() { f() }

type counter interface {
	Inc()
}

const bodyLimit = 1 << 20

// Client is the single HTTP client behind every backend call. It joins the
// base URL with endpoint paths, encodes JSON bodies, attaches the bearer
// token from the session handle, and maps every failure mode onto the apperr
// taxonomy. A 401 from any endpoint clears the session process-wide.
type Client struct {
	baseURL  string
	http     *http.Client
	sess     *session.Handle
	notify   Notifier
	logger   logx.Logger
	expired  counter
	failures counter
}

// New creates a Client. notify may be nil when no user-facing surface exists
// (tests, scripts).
func New(baseURL string, hc *http.Client, sess *session.Handle, notify Notifier, logger logx.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Client{
		baseURL: baseURL,
		http:    hc,
		sess:    sess,
		notify:  notify,
		logger:  logger,
	}
}

// WithCounters attaches the session-expired and failure counters.
func (c *Client) WithCounters(expired, failures counter) *Client {
	c.expired = expired
	c.failures = failures
	return c
}

// Get issues a GET and decodes a 2xx body into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes a 2xx body into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body. The body is marshaled as-is, so a plain
// string becomes a raw JSON string body.
func (c *Client) Put(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request body: %v", apperr.Validation, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", apperr.Validation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.inc(c.failures)
		c.logger.Warn("backend request failed",
			logx.String("method", method),
			logx.String("path", path),
			logx.Err(err),
		)
		return fmt.Errorf("%w: no response from server: %v", apperr.Network, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		c.inc(c.failures)
		return fmt.Errorf("%w: read response: %v", apperr.Network, err)
	}

	c.logger.Debug("backend request",
		logx.String("method", method),
		logx.String("path", path),
		logx.Int("status", resp.StatusCode),
		logx.Duration("took", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleAuthExpired()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.inc(c.failures)
		return fmt.Errorf("%w: %s (status %d)", apperr.Server, errorMessage(data), resp.StatusCode)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", apperr.Server, err)
		}
	}
	return nil
}

// handleAuthExpired clears the session, notifies the user once and reports
// AuthExpired. It runs for any endpoint that answered 401.
func (c *Client) handleAuthExpired() error {
	if err := c.sess.Invalidate(); err != nil {
		c.logger.Error("clearing persisted session failed", logx.Err(err))
	}
	c.inc(c.expired)
	c.logger.Warn("session invalidated by 401")
	if c.notify != nil {
		c.notify.SessionExpired()
	}
	return fmt.Errorf("%w: please log in again", apperr.AuthExpired)
}

func (c *Client) inc(ctr counter) {
	if ctr != nil {
		ctr.Inc()
	}
}

// errorBody is the error envelope observed on non-2xx responses. The field
// map comes from ASP.NET model validation; message cases vary by endpoint
// (json field matching is case-insensitive, so Message is covered too).
type errorBody struct {
	Errors  map[string][]string `json:"errors"`
	Message string              `json:"message"`
}

// errorMessage extracts a human-readable cause from an error response body:
// first field-level error, then the top-level message, then a generic
// fallback.
func errorMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		keys := make([]string, 0, len(eb.Errors))
		for k := range eb.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, msg := range eb.Errors[k] {
				if msg != "" {
					return msg
				}
			}
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return "unexpected server error"
}
