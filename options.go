package nodela

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nodela/nodela-go/internal/config"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int

	retryBackoff    time.Duration
	retryMaxBackoff time.Duration
	retryJitter     float64

	rateLimit float64
	burst     int

	logger   *slog.Logger
	registry prometheus.Registerer
	metrics  bool

	lookupEnv config.LookupFunc
}

func defaultClientConfig() *clientConfig {
	d := config.Defaults()
	return &clientConfig{
		baseURL: d.BaseURL,
		timeout: d.Timeout,
		retries: d.MaxRetries,
	}
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL.
// Default: https://api.nodela.co
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. The per-attempt timeout still
// applies on top of any timeout the client carries.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout of a single attempt. It must be positive.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets how many times a retryable failure is retried. Zero
// disables retries.
// Default: 3
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryBackoff sets the delay before the first retry and the cap on any
// single delay. The delay doubles after each failed attempt.
// Default: 1 second, capped at 30 seconds
func WithRetryBackoff(base, max time.Duration) Option {
	return func(c *clientConfig) {
		c.retryBackoff = base
		c.retryMaxBackoff = max
	}
}

// WithRetryJitter spreads each retry delay by up to the given fraction in
// either direction. The result never exceeds the backoff cap.
// Default: 0
func WithRetryJitter(fraction float64) Option {
	return func(c *clientConfig) {
		c.retryJitter = fraction
	}
}

// WithRateLimit limits attempts to perSecond with the given burst. Retries
// count against the limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *clientConfig) {
		c.rateLimit = perSecond
		c.burst = burst
	}
}

// WithLogger sets the structured logger. Attempts are logged at debug level
// and retries at warn level.
// Default: discard
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics registers request metrics on reg. A nil reg uses the
// prometheus default registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.metrics = true
		c.registry = reg
	}
}

// WithLookupEnv replaces os.LookupEnv for resolving NODELA_API_KEY when no
// API key is passed to New.
func WithLookupEnv(fn func(key string) (string, bool)) Option {
	return func(c *clientConfig) {
		c.lookupEnv = fn
	}
}

// waitConfig holds configuration for waiting on a payment.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
	maxInterval  time.Duration
	predicate    func(*InvoiceVerification) bool
}

// WaitOption configures InvoiceService.WaitForPayment.
type WaitOption func(*waitConfig)

// WithWaitTimeout bounds the whole wait.
// Default: 15 minutes
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the first delay between checks and the cap it grows
// to while the invoice status does not change.
// Default: 2 seconds, capped at 30 seconds
func WithPollInterval(interval, max time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
		c.maxInterval = max
	}
}

// WithUntil replaces the stop condition. The default stops once the invoice
// is paid.
func WithUntil(fn func(*InvoiceVerification) bool) WaitOption {
	return func(c *waitConfig) {
		c.predicate = fn
	}
}
