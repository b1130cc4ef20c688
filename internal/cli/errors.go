package cli

import "errors"

// CLI-specific sentinel errors.
// These are usage errors that don't belong to the client package.

var (
	// ErrInvalidAmount indicates the --amount flag is not a decimal number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidParallel indicates --parallel is below one.
	ErrInvalidParallel = errors.New("parallel must be at least 1")
)
