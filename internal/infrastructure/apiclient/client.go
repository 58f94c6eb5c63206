// Package apiclient is the portal Resource Client: a single request helper
// that attaches the bearer credential, serializes bodies and normalizes every
// failure into *domain.FetchError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/core/ports"
	"github.com/obraportal/portal-client/internal/infrastructure/metrics"
)

const (
	headerRequestID = "X-Request-ID"
	maxMessageLen   = 300
)

// Response is a successful (2xx) raw reply.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client implements ports.ResourceClient over net/http.
type Client struct {
	baseURL        string
	http           *http.Client
	store          ports.CredentialStore
	log            zerolog.Logger
	onAuthRejected func()
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAuthRejectedHook registers fn to run after an authenticated call was
// rejected with 401/403 and the credential was cleared.
func WithAuthRejectedHook(fn func()) Option {
	return func(c *Client) { c.onAuthRejected = fn }
}

// New returns a Client for the API rooted at baseURL. No timeout is set on the
// default transport; callers bound calls through ctx.
func New(baseURL string, store ports.CredentialStore, log zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("apiclient: base url required")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		store:   store,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Call performs the request and returns the JSON body. An empty 2xx body is
// returned as JSON null.
func (c *Client) Call(ctx context.Context, method, path string, body any, enc ports.Encoding) (json.RawMessage, error) {
	resp, err := c.Fetch(ctx, method, path, body, enc)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(trimmed) {
		return nil, c.fail(method, path, &domain.FetchError{
			Kind:    domain.DecodeFailure,
			Status:  resp.Status,
			Message: "the server sent a response that could not be read",
		})
	}
	return json.RawMessage(trimmed), nil
}

// Fetch performs the request and returns the raw 2xx reply, for endpoints that
// answer with binary content.
func (c *Client) Fetch(ctx context.Context, method, path string, body any, enc ports.Encoding) (*Response, error) {
	reader, contentType, err := encodeBody(body, enc)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())

	authed := c.attachCredential(ctx, req)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ClientRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, c.fail(method, path, &domain.FetchError{
			Kind:    domain.TransportFailure,
			Message: "could not reach the server",
			Err:     err,
		})
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(method, path, &domain.FetchError{
			Kind:    domain.TransportFailure,
			Status:  resp.StatusCode,
			Message: "connection dropped while reading the response",
			Err:     err,
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := domain.ServerRejected
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			kind = domain.AuthRejected
			if authed {
				c.dropCredential(ctx)
			}
		}
		return nil, c.fail(method, path, &domain.FetchError{
			Kind:    kind,
			Status:  resp.StatusCode,
			Message: extractMessage(payload, resp.StatusCode),
		})
	}

	metrics.ClientRequestsTotal.WithLabelValues(method, "ok").Inc()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: payload}, nil
}

// attachCredential sets the bearer header when a credential is stored.
// Requests proceed unauthenticated otherwise, and always for anonymous calls.
func (c *Client) attachCredential(ctx context.Context, req *http.Request) bool {
	if c.store == nil || ports.IsAnonymous(ctx) {
		return false
	}
	tok, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoCredential) {
			c.log.Warn().Err(err).Msg("credential store unreadable, sending unauthenticated request")
		}
		return false
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return true
}

func (c *Client) dropCredential(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error().Err(err).Msg("failed to clear rejected credential")
		return
	}
	metrics.CredentialsClearedTotal.Inc()
	c.log.Info().Msg("credential rejected by the server, signed out")
	if c.onAuthRejected != nil {
		c.onAuthRejected()
	}
}

func (c *Client) fail(method, path string, fe *domain.FetchError) error {
	metrics.ClientRequestsTotal.WithLabelValues(method, string(fe.Kind)).Inc()
	ev := c.log.Warn()
	if fe.Kind == domain.TransportFailure {
		ev = c.log.Error().Err(fe.Err)
	}
	ev.Str("method", method).
		Str("path", path).
		Int("status", fe.Status).
		Str("kind", string(fe.Kind)).
		Msg("api call failed")
	return fe
}

// extractMessage picks the user-facing text of an error reply: a JSON
// message/error field, a JSON string, the raw text, or the status line.
func extractMessage(body []byte, status int) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 {
		var obj map[string]any
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			for _, key := range []string{"message", "error"} {
				if s, ok := obj[key].(string); ok && s != "" {
					return s
				}
			}
		}
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil && s != "" {
			return s
		}
		text := string(trimmed)
		if len(text) > maxMessageLen {
			text = text[:maxMessageLen]
		}
		return text
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
