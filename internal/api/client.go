package api

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
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nodela/nodela-go/internal/apierrors"
)

// DefaultTimeout bounds a single transport attempt.
const DefaultTimeout = 30 * time.Second

// Request describes one logical API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Shape is the expected-shape tag of the response, used in errors,
	// logs and metrics.
	Shape string
	// Result receives the decoded data member. Nil skips data decoding.
	Result any
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int
	Backoff    Backoff
	Limiter    *rate.Limiter
	Logger     *slog.Logger
	Metrics    *Metrics
	UserAgent  string
}

// Client executes requests against the Nodela API. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    Backoff
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *Metrics
	userAgent  string
	now        func() time.Time
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &apierrors.Error{
			Kind:    apierrors.KindAuthentication,
			Origin:  apierrors.OriginConfig,
			Message: "API key is required",
		}
	}
	if cfg.BaseURL == "" {
		return nil, apierrors.Validation(apierrors.OriginConfig, "base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, apierrors.Validation(apierrors.OriginConfig, "invalid base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout < 0 {
		return nil, apierrors.Validation(apierrors.OriginConfig, "timeout must be positive, got %v", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return nil, apierrors.Validation(apierrors.OriginConfig, "max retries must not be negative, got %d", cfg.MaxRetries)
	}

	c := &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		limiter:    cfg.Limiter,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		userAgent:  cfg.UserAgent,
		now:        time.Now,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.userAgent == "" {
		c.userAgent = "nodela-go"
	}
	return c, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// MaxRetries returns the retry budget per logical call.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// Timeout returns the per-attempt timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Do executes req, retrying retryable failures with backoff. It performs at
// most MaxRetries+1 transport attempts, strictly one after another. The
// returned error, if any, is an *apierrors.Error.
func (c *Client) Do(ctx context.Context, req Request) error {
	start := time.Now()
	err := c.do(ctx, req)
	c.metrics.RecordCall(req.Method, req.Shape, time.Since(start))
	if err != nil {
		c.metrics.RecordError(apierrors.KindOf(err).String(), req.Method, req.Shape)
	}
	return err
}

func (c *Client) do(ctx context.Context, req Request) error {
	target := c.resolve(req)

	var body []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			e := apierrors.Validation(apierrors.OriginRequest, "cannot encode request body: %v", err)
			e.Err = err
			return e
		}
		body = data
	}

	var idempotencyKey string
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		idempotencyKey = uuid.NewString()
	}

	maxAttempts := c.maxRetries + 1
	for attempt := 1; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return c.cancelled(req, attempt-1, err)
			}
		}

		out := c.attempt(ctx, req, target, body, idempotencyKey, attempt)
		if out.Success() {
			if err := Decode(out.Body, req.Shape, req.Result); err != nil {
				var e *apierrors.Error
				if errors.As(err, &e) {
					e.Attempts = attempt
					e.StatusCode = out.StatusCode
				}
				return err
			}
			return nil
		}

		// Caller cancellation ends the call regardless of the budget.
		if ctx.Err() != nil {
			return c.cancelled(req, attempt, ctx.Err())
		}

		apiErr, retryable := Classify(out)
		apiErr.Shape = req.Shape
		if !retryable || attempt >= maxAttempts {
			c.logger.Debug("nodela request failed",
				"method", req.Method,
				"path", req.Path,
				"attempt", attempt,
				"kind", apiErr.Kind.String(),
				"retryable", retryable,
			)
			return apiErr
		}

		delay := c.backoff.Delay(attempt)
		if out.StatusCode == http.StatusTooManyRequests || out.StatusCode == http.StatusServiceUnavailable {
			if ra := c.backoff.Cap(retryAfter(out.Header, c.now())); ra > delay {
				delay = ra
			}
		}

		c.logger.Warn("retrying nodela request",
			"method", req.Method,
			"path", req.Path,
			"attempt", attempt,
			"kind", apiErr.Kind.String(),
			"status", out.StatusCode,
			"delay", delay,
		)
		c.metrics.RecordRetry(req.Method, req.Shape)

		if err := Sleep(ctx, delay); err != nil {
			return c.cancelled(req, attempt, err)
		}
	}
}

// attempt performs one transport invocation bounded by the client timeout.
// The body is read before returning so the timeout covers it too.
func (c *Client) attempt(ctx context.Context, req Request, target string, body []byte, idempotencyKey string, n int) Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return Outcome{Attempt: n, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordAttempt(req.Method, req.Shape, 0)
		c.logger.Debug("nodela transport failure", "method", req.Method, "url", target, "attempt", n, "error", err)
		return Outcome{Attempt: n, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordAttempt(req.Method, req.Shape, 0)
		return Outcome{Attempt: n, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.metrics.RecordAttempt(req.Method, req.Shape, resp.StatusCode)
	c.logger.Debug("nodela response",
		"method", req.Method,
		"url", target,
		"attempt", n,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return Outcome{
		Attempt:    n,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
}

func (c *Client) cancelled(req Request, attempts int, err error) error {
	c.logger.Debug("nodela request cancelled", "method", req.Method, "path", req.Path, "attempts", attempts)
	return &apierrors.Error{
		Kind:     apierrors.KindNetwork,
		Origin:   apierrors.OriginTransport,
		Message:  "request cancelled",
		Shape:    req.Shape,
		Attempts: attempts,
		Err:      err,
	}
}

// resolve joins the base URL, the already-escaped path and the query.
func (c *Client) resolve(req Request) string {
	target := strings.TrimRight(c.baseURL.String(), "/") + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	return target
}
