// Package client is a Go SDK for the MedConnect HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

// TokenProvider supplies the bearer token for authenticated calls. An empty
// token sends no Authorization header.
type TokenProvider interface {
	Token() string
}

// TokenStore is a TokenProvider the client can update after login and
// clear when the server rejects the token.
type TokenStore interface {
	TokenProvider
	SetToken(token string)
	ClearToken()
}

// Session is an in-memory TokenStore safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) ClearToken() { s.SetToken("") }

// RetryPolicy bounds how idempotent requests are retried after network
// errors or 5xx responses. Delay doubles after each attempt.
type RetryPolicy struct {
	MaxRetries     int
	InitialBackoff time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialBackoff: time.Second}
}

func (p RetryPolicy) backoff(retry int) time.Duration {
	return p.InitialBackoff << retry
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("medconnect: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("medconnect: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokens        TokenProvider
	retry         RetryPolicy
	onAuthExpired func()
	sleep         func(ctx context.Context, d time.Duration) error
	now           func() time.Time
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenProvider(p TokenProvider) Option {
	return func(c *Client) { c.tokens = p }
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithAuthExpired registers a callback run after any 401 response, once the
// session has been cleared.
func WithAuthExpired(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:5001/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     &Session{},
		retry:      DefaultRetryPolicy(),
		sleep:      sleepContext,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens returns the provider the client reads bearer tokens from.
func (c *Client) Tokens() TokenProvider { return c.tokens }

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// do sends one API call and decodes the envelope's data into out. POST is
// never retried since it is not idempotent.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	retries := c.retry.MaxRetries
	if method == http.MethodPost {
		retries = 0
	}

	for attempt := 0; ; attempt++ {
		status, raw, err := c.send(ctx, method, path, payload)
		retryable := err != nil || status >= http.StatusInternalServerError
		if retryable && attempt < retries && ctx.Err() == nil {
			if serr := c.sleep(ctx, c.retry.backoff(attempt)); serr != nil {
				return serr
			}
			continue
		}
		if err != nil {
			return err
		}
		return c.decode(status, raw, out)
	}
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) decode(status int, raw []byte, out any) error {
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && status < http.StatusBadRequest {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if status >= http.StatusBadRequest {
		if status == http.StatusUnauthorized {
			c.expireSession()
		}
		return &APIError{StatusCode: status, Message: env.Message, Fields: env.Errors}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) expireSession() {
	if store, isStore := c.tokens.(TokenStore); isStore {
		store.ClearToken()
	}
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

func (c *Client) remember(token string) {
	if store, isStore := c.tokens.(TokenStore); isStore && token != "" {
		store.SetToken(token)
	}
}
