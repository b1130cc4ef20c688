package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request pipeline activity. A nil *Metrics is valid and
// records nothing. It is safe for concurrent use.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics creates the collectors on reg. Collectors already registered by
// another client on the same registerer are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{}
	var err error
	if m.requestsTotal, err = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodela_requests_total",
			Help: "Total number of transport attempts made to the Nodela API",
		},
		[]string{"method", "shape", "status"},
	)); err != nil {
		return nil, err
	}
	if m.requestDuration, err = register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodela_request_duration_seconds",
			Help:    "Duration of logical Nodela API calls in seconds, including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "shape"},
	)); err != nil {
		return nil, err
	}
	if m.retriesTotal, err = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodela_retries_total",
			Help: "Total number of retries scheduled after a retryable failure",
		},
		[]string{"method", "shape"},
	)); err != nil {
		return nil, err
	}
	if m.errorsTotal, err = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodela_errors_total",
			Help: "Total number of logical calls that ended in an error",
		},
		[]string{"kind", "method", "shape"},
	)); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// RecordAttempt counts one transport attempt. Status 0 means no response.
func (m *Metrics) RecordAttempt(method, shape string, statusCode int) {
	if m == nil {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.requestsTotal.WithLabelValues(method, shape, status).Inc()
}

// RecordCall observes the duration of a logical call.
func (m *Metrics) RecordCall(method, shape string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, shape).Observe(d.Seconds())
}

// RecordRetry counts a scheduled retry.
func (m *Metrics) RecordRetry(method, shape string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(method, shape).Inc()
}

// RecordError counts a logical call that failed with the given kind.
func (m *Metrics) RecordError(kind, method, shape string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(kind, method, shape).Inc()
}
