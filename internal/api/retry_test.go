package api

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestDefaultBackoff(t *testing.T) {
	b := DefaultBackoff()

	if b.Base != time.Second {
		t.Errorf("Base = %v, want 1s", b.Base)
	}
	if b.Max != 30*time.Second {
		t.Errorf("Max = %v, want 30s", b.Max)
	}
	if b.Jitter != 0 {
		t.Errorf("Jitter = %v, want 0", b.Jitter)
	}
}

func TestBackoff_Delay(t *testing.T) {
	b := DefaultBackoff()

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, time.Second},        // treated as attempt 1
		{1, time.Second},        // 1 * 2^0 = 1s
		{2, 2 * time.Second},    // 1 * 2^1 = 2s
		{3, 4 * time.Second},    // 1 * 2^2 = 4s
		{4, 8 * time.Second},    // 1 * 2^3 = 8s
		{5, 16 * time.Second},   // 1 * 2^4 = 16s
		{6, 30 * time.Second},   // 1 * 2^5 = 32s, capped at 30s
		{7, 30 * time.Second},   // Still capped at 30s
		{200, 30 * time.Second}, // No overflow
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			delay := b.Delay(tt.attempt)
			if delay != tt.expected {
				t.Errorf("Delay(%d) = %v, want %v", tt.attempt, delay, tt.expected)
			}
		})
	}
}

func TestBackoff_Delay_StrictlyIncreasing(t *testing.T) {
	b := DefaultBackoff()

	prev := time.Duration(0)
	for n := 1; n <= 5; n++ {
		d := b.Delay(n)
		if d <= prev {
			t.Errorf("Delay(%d) = %v, not greater than Delay(%d) = %v", n, d, n-1, prev)
		}
		prev = d
	}
}

func TestBackoff_Delay_NonDecreasingAndBounded(t *testing.T) {
	b := Backoff{Base: 250 * time.Millisecond, Max: 5 * time.Second}

	prev := time.Duration(0)
	for n := 1; n <= 50; n++ {
		d := b.Delay(n)
		if d <= 0 {
			t.Fatalf("Delay(%d) = %v, want > 0", n, d)
		}
		if d < prev {
			t.Errorf("Delay(%d) = %v decreased from %v", n, d, prev)
		}
		if d > b.Max {
			t.Errorf("Delay(%d) = %v exceeds Max %v", n, d, b.Max)
		}
		prev = d
	}
}

func TestBackoff_Delay_ZeroValueUsesDefaults(t *testing.T) {
	var b Backoff
	if got := b.Delay(1); got != DefaultRetryDelay {
		t.Errorf("Delay(1) = %v, want %v", got, DefaultRetryDelay)
	}
	if got := b.Delay(10); got != DefaultMaxRetryDelay {
		t.Errorf("Delay(10) = %v, want %v", got, DefaultMaxRetryDelay)
	}
}

func TestBackoff_Delay_WithJitter(t *testing.T) {
	b := Backoff{
		Base:   time.Second,
		Max:    30 * time.Second,
		Jitter: 0.5, // 50% jitter
	}

	// With 50% jitter on 1s base delay, the range should be 0.5s to 1.5s
	minDelay := 500 * time.Millisecond
	maxDelay := 1500 * time.Millisecond

	for i := 0; i < 100; i++ {
		delay := b.Delay(1)
		if delay < minDelay || delay > maxDelay {
			t.Errorf("Delay(1) = %v, expected between %v and %v", delay, minDelay, maxDelay)
		}
	}
}

func TestBackoff_Delay_JitterNeverExceedsMax(t *testing.T) {
	b := Backoff{
		Base:   10 * time.Second,
		Max:    30 * time.Second,
		Jitter: 0.2,
	}

	for i := 0; i < 100; i++ {
		delay := b.Delay(4)
		if delay < 24*time.Second || delay > 30*time.Second {
			t.Errorf("Delay(4) = %v, expected within [24s, 30s]", delay)
		}
	}
}

func TestBackoff_Cap(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 10 * time.Second}

	if got := b.Cap(time.Minute); got != 10*time.Second {
		t.Errorf("Cap(1m) = %v, want 10s", got)
	}
	if got := b.Cap(3 * time.Second); got != 3*time.Second {
		t.Errorf("Cap(3s) = %v, want 3s", got)
	}
}

func TestSleep(t *testing.T) {
	start := time.Now()

	if err := Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}

	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("Sleep() returned too early: %v", elapsed)
	}
}

func TestSleep_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Sleep(ctx, 10*time.Second)
	elapsed := time.Since(start)

	if err != context.Canceled {
		t.Errorf("Sleep() error = %v, want context.Canceled", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Sleep() took too long after cancellation: %v", elapsed)
	}
}

func TestSleep_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := Sleep(ctx, 10*time.Second); err != context.DeadlineExceeded {
		t.Errorf("Sleep() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"absent", "", 0},
		{"seconds", "7", 7 * time.Second},
		{"zero seconds", "0", 0},
		{"negative seconds", "-3", 0},
		{"http date", now.Add(12 * time.Second).Format(http.TimeFormat), 12 * time.Second},
		{"past http date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Retry-After", tt.value)
			}
			if got := retryAfter(h, now); got != tt.expected {
				t.Errorf("retryAfter(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func BenchmarkBackoff_Delay(b *testing.B) {
	backoff := DefaultBackoff()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = backoff.Delay(i%5 + 1)
	}
}
