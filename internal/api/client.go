// Package api implements the typed HTTP client for the messaging backend.
package api

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

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chatlead/agent-console/pkg/logger"
	"github.com/chatlead/agent-console/pkg/metrics"
)

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Client talks to the messaging backend. All methods are safe for concurrent
// use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *logger.Logger
	tracer  trace.Tracer
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	// Timeout applies to user-initiated requests. Zero means no timeout;
	// background polling relies on the next cycle superseding a hung one.
	Timeout time.Duration
	Logger  *logger.Logger
}

// New creates a backend client.
func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    &http.Client{Timeout: opts.Timeout},
		logger:  log,
		tracer:  otel.Tracer("agent-console/api"),
	}

	c.warnExpiredToken()
	return c
}

// BaseURL returns the configured backend host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// warnExpiredToken decodes the configured bearer token without verifying it
// and logs when its exp claim is already in the past.
func (c *Client) warnExpiredToken() {
	if c.token == "" {
		return
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(c.token, claims)
	if err != nil {
		// Opaque tokens are fine; only JWTs carry an expiry we can read.
		return
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		c.logger.Warn("configured API token is expired", zap.Time("expired_at", exp.Time))
	}
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, op, out)
}

// newRequest builds a request with auth and correlation headers set.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

// do executes the request, records metrics and a span, and decodes the
// response.
func (c *Client) do(req *http.Request, op string, out any) error {
	ctx, span := c.tracer.Start(req.Context(), op, trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.Path),
	))
	defer span.End()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(op, "error", time.Since(start).Seconds())
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	metrics.RecordAPIRequest(op, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readErrorDetail(resp.Body)}
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// readErrorDetail extracts the backend's error detail, falling back to the
// raw body.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(raw))
}
