// Package poll repeats a check with adaptive backoff until it reports done.
package poll

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxInterval = 30 * time.Second
	BackoffMultiplier  = 1.5
	JitterFactor       = 0.3
)

// CheckFunc reports the observed state and whether polling is finished.
// The state is compared between calls: while it stays the same the
// interval grows, and any change resets it.
type CheckFunc func(ctx context.Context) (state string, done bool, err error)

// Poller holds the polling schedule. The zero value uses the defaults.
type Poller struct {
	Interval    time.Duration
	MaxInterval time.Duration

	// rand returns a value in [0, 1). Nil means math/rand/v2.
	rand func() float64
}

func (p Poller) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return DefaultInterval
}

func (p Poller) maxInterval() time.Duration {
	if p.MaxInterval > 0 {
		return max(p.MaxInterval, p.interval())
	}
	return max(DefaultMaxInterval, p.interval())
}

// next returns the interval after one more unchanged poll.
func (p Poller) next(current time.Duration) time.Duration {
	return min(time.Duration(float64(current)*BackoffMultiplier), p.maxInterval())
}

// wait adds up to JitterFactor of interval on top of it.
func (p Poller) wait(interval time.Duration) time.Duration {
	r := p.rand
	if r == nil {
		r = rand.Float64
	}
	return interval + time.Duration(r()*JitterFactor*float64(interval))
}

// Until calls check immediately and then on the schedule until it returns
// done or an error, or ctx ends. A ctx error is returned unwrapped.
func (p Poller) Until(ctx context.Context, check CheckFunc) error {
	interval := p.interval()
	var last string

	for n := 0; ; n++ {
		state, done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		switch {
		case n == 0:
		case state != last:
			interval = p.interval()
		default:
			interval = p.next(interval)
		}
		last = state

		timer := time.NewTimer(p.wait(interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
