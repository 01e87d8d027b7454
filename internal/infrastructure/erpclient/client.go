// Package erpclient talks to the upstream ERP REST API: table CRUD, login and
// the insight report service.
package erpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/config"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"github.com/erp/requisition/internal/infrastructure/telemetry"
)

// maxResponseSize caps upstream bodies; catalog snapshots can be large
const maxResponseSize = 32 * 1024 * 1024

// Upstream call results reported to the UpstreamObserver
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// UpstreamObserver counts upstream calls by endpoint and result
type UpstreamObserver interface {
	ObserveUpstream(endpoint, result string)
}

// authMode selects the Authorization header for a call
type authMode int

const (
	authNone authMode = iota
	authBasic
)

// Client is the upstream ERP API client. It is safe for concurrent use.
type Client struct {
	cfg        config.UpstreamConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   UpstreamObserver
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver reports every call to o
func WithObserver(o UpstreamObserver) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a Client. A zero RateLimit disables client-side throttling.
func New(cfg config.UpstreamConfig, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.Named("erpclient"),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the {success, message, data} wrapper of CRUD and report replies
type envelope struct {
	Success flexBool        `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// rejectedError is a well-formed reply with success false
type rejectedError struct {
	message string
}

func (e *rejectedError) Error() string {
	return e.message
}

// post sends body as JSON to baseURL+endpoint and returns the raw reply
func (c *Client) post(ctx context.Context, baseURL, endpoint string, body any, auth authMode) ([]byte, error) {
	url := joinURL(baseURL, endpoint)
	ctx, span := telemetry.StartSpan(ctx, "erp."+endpoint,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrUpstreamURL, url),
	)
	defer span.End()

	raw, err := c.do(ctx, url, body, auth)
	if err != nil {
		telemetry.RecordError(span, err)
		c.observe(endpoint, ResultError)
		logger.FromContextOr(ctx, c.logger).Warn("Upstream call failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, url string, body any, auth authMode) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &shared.UpstreamError{Cause: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("erpclient: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("erpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth == authBasic {
		req.SetBasicAuth(c.cfg.BasicUser, c.cfg.BasicPassword)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &shared.UpstreamError{Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &shared.UpstreamError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &shared.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    replyMessage(raw),
			Cause:      fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}
	return raw, nil
}

// call posts a request and unwraps the envelope. A reply with success false
// is returned as *rejectedError.
func (c *Client) call(ctx context.Context, baseURL, endpoint string, body any) (json.RawMessage, error) {
	raw, err := c.post(ctx, baseURL, endpoint, body, authNone)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.observe(endpoint, ResultError)
		return nil, &shared.UpstreamError{Cause: fmt.Errorf("decode %s reply: %w", endpoint, err)}
	}
	if !env.Success {
		c.observe(endpoint, ResultRejected)
		return nil, &rejectedError{message: env.Message}
	}
	c.observe(endpoint, ResultOK)
	return env.Data, nil
}

// fetch is call for reads, where a rejection is an upstream failure
func (c *Client) fetch(ctx context.Context, baseURL, endpoint string, body any) (json.RawMessage, error) {
	data, err := c.call(ctx, baseURL, endpoint, body)
	var rejected *rejectedError
	if errors.As(err, &rejected) {
		return nil, &shared.UpstreamError{Message: rejected.message}
	}
	return data, err
}

func (c *Client) observe(endpoint, result string) {
	if c.observer != nil {
		c.observer.ObserveUpstream(endpoint, result)
	}
}

// replyMessage extracts "message" from an error body, if it has one
func replyMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}

func joinURL(base, endpoint string) string {
	if base == "" {
		return endpoint
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// clientFilter is the list filter scoping a table to one client
func clientFilter(clientID string) string {
	return fmt.Sprintf("client_id = '%s'", strings.ReplaceAll(clientID, "'", "''"))
}
