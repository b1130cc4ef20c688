package api

import (
	"context"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Default retry settings.
const (
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = time.Second
	DefaultMaxRetryDelay = 30 * time.Second
)

// Backoff computes the wait before retrying a failed attempt.
type Backoff struct {
	// Base is the delay after the first failed attempt.
	Base time.Duration
	// Max caps every delay, including jittered ones.
	Max time.Duration
	// Jitter is the randomization factor (0.0 to 1.0). Zero keeps Delay a
	// pure, non-decreasing function of the attempt number.
	Jitter float64
}

// DefaultBackoff returns the canonical exponential policy: 1s, 2s, 4s, ...
// capped at 30s, without jitter.
func DefaultBackoff() Backoff {
	return Backoff{
		Base: DefaultRetryDelay,
		Max:  DefaultMaxRetryDelay,
	}
}

func (b Backoff) bounds() (base, maxDelay time.Duration) {
	base = b.Base
	if base <= 0 {
		base = DefaultRetryDelay
	}
	maxDelay = b.Max
	if maxDelay <= 0 {
		maxDelay = DefaultMaxRetryDelay
	}
	if maxDelay < base {
		maxDelay = base
	}
	return base, maxDelay
}

// Delay returns the wait after the given failed attempt (1-based):
// Base * 2^(attempt-1), capped at Max. Attempts below 1 count as 1.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base, maxDelay := b.bounds()

	delay := float64(base) * math.Pow(2, float64(attempt-1))
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}

	if b.Jitter > 0 {
		jitterAmount := delay * math.Min(b.Jitter, 1)
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
		delay = math.Min(math.Max(delay, 1), float64(maxDelay))
	}

	return time.Duration(delay)
}

// Cap clamps d to the policy maximum.
func (b Backoff) Cap(d time.Duration) time.Duration {
	_, maxDelay := b.bounds()
	return min(d, maxDelay)
}

// Sleep blocks for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryAfter parses a Retry-After header given as delta seconds or an HTTP
// date. It returns 0 when the header is absent or unusable.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
