// Package api is the HTTP client for the remote record store and user
// service. It attaches bearer credentials from an injected provider and
// performs at most one transparent refresh-and-retry when a request comes
// back 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codewithmeedev/personal-finance-manager/internal/auth"
	applog "github.com/codewithmeedev/personal-finance-manager/internal/log"
)

const defaultTimeout = 15 * time.Second

// Clock returns the current time. Injected so expiry checks are testable.
type Clock func() time.Time

// Client talks to the record store. Safe for concurrent use; concurrent
// requests that each hit an expired token refresh independently.
type Client struct {
	baseURL string
	http    *http.Client
	creds   auth.CredentialProvider
	logger  *applog.Logger
	now     Clock
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger replaces the default logger.
func WithLogger(l *applog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock replaces the time source used for token expiry checks.
func WithClock(now Clock) Option {
	return func(c *Client) { c.now = now }
}

// NewClient builds a client for the store at baseURL. Credentials are read
// from creds on every request; a nil creds means unauthenticated calls only.
func NewClient(baseURL string, creds auth.CredentialProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		creds:   creds,
		logger:  applog.New(applog.Config{Component: applog.ComponentAPI}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one JSON request and decodes the response into out (when out is
// non-nil). Authenticated calls go through doAuthed for the refresh flow.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body, "")
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// doAuthed sends one bearer-authenticated request. On a 401 it performs
// exactly one refresh-and-retry; if the refresh itself is rejected it
// clears the stored credentials and surfaces the original failure.
func (c *Client) doAuthed(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token := c.accessToken(ctx)

	resp, err := c.send(ctx, method, path, query, body, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusUnauthorized || c.creds == nil {
		return decodeResponse(resp, out)
	}

	// Original request failed with 401: one refresh, one retry.
	origErr := responseError(resp)
	resp.Body.Close()
	pair, err := c.refreshCredentials(ctx)
	if err != nil {
		if clearErr := c.creds.Clear(); clearErr != nil {
			c.logger.WarnContext(ctx, "failed to clear credentials", applog.FieldError, clearErr)
		}
		c.logger.WarnContext(ctx, "token refresh rejected",
			applog.FieldOperation, applog.OpRefresh, applog.FieldError, err)
		return origErr
	}

	resp, err = c.send(ctx, method, path, query, body, pair.AccessToken)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// accessToken returns the stored access token, refreshing it up front when
// its exp claim has already passed. A failed proactive refresh is not fatal
// here: the request goes out with the stale token and the 401 path decides.
func (c *Client) accessToken(ctx context.Context) string {
	if c.creds == nil {
		return ""
	}
	pair, err := c.creds.Get()
	if err != nil {
		return ""
	}
	if !auth.Expired(pair.AccessToken, c.now()) {
		return pair.AccessToken
	}
	fresh, err := c.refreshCredentials(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "proactive refresh failed, sending stale token",
			applog.FieldOperation, applog.OpRefresh, applog.FieldError, err)
		return pair.AccessToken
	}
	return fresh.AccessToken
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, token string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "request failed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, method,
			applog.FieldPath, path,
			applog.FieldError, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.logger.DebugContext(ctx, "request completed",
		applog.FieldRequestID, requestID,
		applog.FieldMethod, method,
		applog.FieldPath, path,
		applog.FieldStatusCode, resp.StatusCode,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return resp, nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// responseError extracts the store's error message. The store wraps error
// details as {"detail": "..."}.
func responseError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
		if jsonErr := json.Unmarshal(data, &payload); jsonErr == nil {
			apiErr.Message = payload.Detail
		}
	}
	return apiErr
}

// IsAuthFailure reports whether err is an authentication failure, either
// surfaced directly or after an exhausted refresh attempt.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
