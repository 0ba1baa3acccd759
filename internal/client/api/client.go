// Package api is the HTTP client for the résumé analysis backend.
//
// Every request goes through one path (request) which attaches the bearer
// token from the session store, chooses the content type, tags the request
// with an X-Request-ID and turns any failure into *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumematch/internal/common"
	"github.com/dmitrijs2005/resumematch/internal/logging"
	"github.com/dmitrijs2005/resumematch/internal/netx"
	"github.com/google/uuid"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 60 * time.Second

const maxBodySize = 4 << 20

// TokenStore is the part of the session store the client needs.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Multipart is a pre-encoded multipart body. Passing it to Do sends its
// ContentType (with boundary) instead of application/json.
type Multipart struct {
	Body        io.Reader
	ContentType string
}

type HTTPClient struct {
	base   string
	tokens TokenStore
	http   *http.Client
	policy UnauthorizedPolicy
	// onUnauthorized ends the session under PolicyClearSession. It defaults
	// to clearing the token store.
	onUnauthorized func(ctx context.Context) error
	log            logging.Logger
}

type Option func(*HTTPClient)

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithUnauthorizedPolicy(p UnauthorizedPolicy) Option {
	return func(c *HTTPClient) { c.policy = p }
}

// WithUnauthorizedHook makes PolicyClearSession end the session through fn
// (typically the auth context's Logout) so the signed-in state and the
// store stay in step.
func WithUnauthorizedHook(fn func(ctx context.Context) error) Option {
	return func(c *HTTPClient) { c.onUnauthorized = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithHTTPClient replaces the underlying transport client. Its Timeout is
// kept as-is.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// New builds a client for the backend at origin (e.g. "https://api.example.com").
// All API paths are resolved against origin + "/api".
func New(origin string, tokens TokenStore, opts ...Option) *HTTPClient {
	origin = strings.TrimRight(origin, "/")
	c := &HTTPClient{
		base:   origin + "/api",
		tokens: tokens,
		http:   &http.Client{Timeout: DefaultTimeout},
		policy: PolicySurface,
		log:    logging.Discard(),
	}
	c.onUnauthorized = tokens.Clear
	for _, o := range opts {
		o(c)
	}
	return c
}

// Do sends body to path and decodes a successful response into out (which
// may be nil). body may be nil, a *Multipart, or any JSON-marshalable value.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any, out any) error {
	return c.request(ctx, method, path, body, out)
}

func (c *HTTPClient) request(ctx context.Context, method, path string, body any, out any) error {
	requestID := uuid.NewString()
	log := c.log.With("method", method, "path", path, "request_id", requestID)

	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case *Multipart:
		reader, contentType = b.Body, b.ContentType
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader, contentType = bytes.NewReader(payload), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return &Error{Kind: KindNetwork, Message: DefaultErrorMessage, RequestID: requestID, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: DefaultErrorMessage, RequestID: requestID, Cause: err}
	}

	if !netx.IsSuccess(resp.StatusCode) {
		apiErr := normalize(resp.StatusCode, data)
		apiErr.RequestID = requestID
		log.Warn(ctx, "request rejected", "status", resp.StatusCode, "kind", apiErr.Kind.String())

		if apiErr.Kind == KindAuth && c.policy == PolicyClearSession {
			if err := c.onUnauthorized(ctx); err != nil {
				log.Error(ctx, "clearing session after 401 failed", "error", err)
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func normalize(status int, body []byte) *Error {
	e := &Error{Kind: kindForStatus(status), Status: status, Message: DefaultErrorMessage}

	var payload struct {
		Message string `json:"message"`
		Used    *int   `json:"used"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Data = body
		if payload.Message != "" {
			e.Message = payload.Message
		}
		e.Used = payload.Used
	}
	return e
}
