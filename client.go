package nodela

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/nodela/nodela-go/internal/api"
	"github.com/nodela/nodela-go/internal/apierrors"
	"github.com/nodela/nodela-go/internal/config"
)

// Client is the Nodela API client. It is immutable after New returns and is
// safe for concurrent use.
type Client struct {
	apiClient *api.Client
	cfg       config.Config

	// Invoices creates and verifies invoices.
	Invoices *InvoiceService
	// Transactions lists transactions.
	Transactions *TransactionService
}

// buildAPIClient creates the request executor from the resolved config.
func buildAPIClient(resolved config.Config, cfg *clientConfig) (*api.Client, error) {
	if cfg.retryJitter < 0 || cfg.retryJitter > 1 {
		return nil, apierrors.Validation(apierrors.OriginConfig, "retry jitter must be within [0, 1], got %v", cfg.retryJitter)
	}
	if cfg.retryBackoff < 0 || cfg.retryMaxBackoff < 0 {
		return nil, apierrors.Validation(apierrors.OriginConfig, "retry backoff must not be negative")
	}

	backoff := api.DefaultBackoff()
	if cfg.retryBackoff > 0 {
		backoff.Base = cfg.retryBackoff
	}
	if cfg.retryMaxBackoff > 0 {
		backoff.Max = cfg.retryMaxBackoff
	}
	backoff.Jitter = cfg.retryJitter

	var limiter *rate.Limiter
	if resolved.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(resolved.RateLimit), resolved.Burst)
	}

	var metrics *api.Metrics
	if cfg.metrics {
		m, err := api.NewMetrics(cfg.registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		metrics = m
	}

	return api.NewClient(api.Config{
		BaseURL:    resolved.BaseURL,
		APIKey:     resolved.APIKey,
		HTTPClient: cfg.httpClient,
		Timeout:    resolved.Timeout,
		MaxRetries: resolved.MaxRetries,
		Backoff:    backoff,
		Limiter:    limiter,
		Logger:     cfg.logger,
		Metrics:    metrics,
		UserAgent:  userAgent,
	})
}

// New creates a new Nodela client. When apiKey is empty the NODELA_API_KEY
// environment variable is used; if neither is set New returns an
// authentication error without touching the network.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	resolved, err := config.Resolve(config.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		MaxRetries: cfg.retries,
		RateLimit:  cfg.rateLimit,
		Burst:      cfg.burst,
	}, cfg.lookupEnv)
	if err != nil {
		return nil, err
	}

	apiClient, err := buildAPIClient(resolved, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiClient:    apiClient,
		cfg:          resolved,
		Invoices:     &InvoiceService{client: apiClient},
		Transactions: &TransactionService{client: apiClient},
	}, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Timeout returns the per-attempt timeout.
func (c *Client) Timeout() time.Duration {
	return c.cfg.Timeout
}

// MaxRetries returns how many times a retryable failure is retried.
func (c *Client) MaxRetries() int {
	return c.cfg.MaxRetries
}
