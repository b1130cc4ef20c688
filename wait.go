package nodela

import (
	"context"
	"errors"
	"time"

	"github.com/nodela/nodela-go/internal/apierrors"
	"github.com/nodela/nodela-go/internal/poll"
)

const defaultWaitTimeout = 15 * time.Minute

func isPaid(v *InvoiceVerification) bool {
	return v.Paid
}

// WaitForPayment verifies the invoice until it is paid and returns the last
// verification. Checks start immediately and back off while the status stays
// the same.
//
// A failed verification ends the wait with that error. When the wait times
// out, the last verification is returned together with a network error
// wrapping ctx's error.
//
// Example:
//
//	v, err := client.Invoices.WaitForPayment(ctx, invoice.InvoiceID,
//	    nodela.WithWaitTimeout(10*time.Minute))
//	if errors.Is(err, context.DeadlineExceeded) {
//	    fmt.Println("still", v.Status)
//	}
func (s *InvoiceService) WaitForPayment(ctx context.Context, invoiceID string, opts ...WaitOption) (*InvoiceVerification, error) {
	cfg := &waitConfig{
		timeout:   defaultWaitTimeout,
		predicate: isPaid,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	poller := poll.Poller{Interval: cfg.pollInterval, MaxInterval: cfg.maxInterval}

	var (
		last   *InvoiceVerification
		checks int
	)
	err := poller.Until(ctx, func(ctx context.Context) (string, bool, error) {
		checks++
		v, err := s.Verify(ctx, invoiceID)
		if err != nil {
			return "", false, err
		}
		last = v
		return v.Status, cfg.predicate(v), nil
	})

	var apiErr *apierrors.Error
	if err != nil && !errors.As(err, &apiErr) {
		err = &apierrors.Error{
			Kind:     apierrors.KindNetwork,
			Origin:   apierrors.OriginTransport,
			Message:  "stopped waiting for payment",
			Attempts: checks,
			Err:      err,
		}
	}
	return last, err
}
