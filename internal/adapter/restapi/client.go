// Package restapi is the client of the remote storefront REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	tokenHeader    = "x-access-token"
	DefaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

var (
	ErrUnauthorized     = domain.ErrUnauthorized
	ErrUnexpectedStatus = fmt.Errorf("%w: unexpected status", domain.ErrUpstream)
	ErrRequestFailed    = fmt.Errorf("%w: request failed", domain.ErrUpstream)
	ErrInvalidBaseURL   = errors.New("invalid base url")
)

// A StatusError is returned for a non-2xx response other than 401.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.Code)
	}
	return fmt.Sprintf("%s: %d: %s", ErrUnexpectedStatus, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// A SessionBinding supplies the token for outgoing requests and is told when
// the remote side rejects it.
type SessionBinding interface {
	Token(context.Context) string
	Expire(context.Context)
}

type ClientOpt func(*Client) error

func TimeoutOpt(d time.Duration) ClientOpt {
	return func(c *Client) error {
		if d < 0 {
			return errors.New("negative timeout")
		}
		if d > 0 {
			c.httpClient.Timeout = d
		}
		return nil
	}
}

func HTTPClientOpt(hc *http.Client) ClientOpt {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		c.httpClient = hc
		return nil
	}
}

// A Client calls the remote API. Every 401 response expires the bound
// session before the call returns [ErrUnauthorized]. Calls are never retried.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client

	mu      sync.RWMutex
	session SessionBinding
}

func New(baseURL string, opts ...ClientOpt) (*Client, error) {
	const op = "restapi.New"

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return c, nil
}

// BindSession attaches the session whose token authenticates requests.
func (c *Client) BindSession(s SessionBinding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) boundSession() SessionBinding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func call[T any](
	ctx context.Context,
	c *Client,
	method, path string,
	query url.Values,
	in any,
) (envelope[T], error) {
	op := "Client." + method + " " + path
	log := slog.With("op", op)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return envelope[T]{}, fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return envelope[T]{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	session := c.boundSession()
	if session != nil {
		if token := session.Token(ctx); token != "" {
			req.Header.Set(tokenHeader, token)
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return envelope[T]{}, fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Error("failed to close response body", "err", err)
		}
	}()

	if res.StatusCode == http.StatusUnauthorized {
		log.Warn("token rejected")
		if session != nil {
			session.Expire(ctx)
		}
		return envelope[T]{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return envelope[T]{}, fmt.Errorf("%s: %w", op, statusError(res))
	}

	var env envelope[T]
	if res.StatusCode == http.StatusNoContent {
		return env, nil
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return env, nil
		}
		return envelope[T]{}, fmt.Errorf(
			"%s: %w: invalid JSON: %w", op, domain.ErrUpstream, err,
		)
	}
	if !env.ok() {
		return envelope[T]{}, fmt.Errorf("%s: %w: %s", op, ErrRequestFailed, env.Message)
	}
	return env, nil
}

func statusError(res *http.Response) error {
	e := &StatusError{Code: res.StatusCode}

	b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	var v struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &v) == nil {
		e.Message = v.Message
		if e.Message == "" {
			e.Message = v.Error
		}
	}
	return e
}
