package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	nodela "github.com/nodela/nodela-go"
	"github.com/nodela/nodela-go/internal/cli"
)

// Injected at build time via ldflags.
var commit = "unknown"

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitAuth       = 3
	ExitValidation = 4
	ExitNotFound   = 5
	ExitRateLimit  = 6
	ExitServer     = 7
	ExitNetwork    = 8
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := cli.RootCmd(cli.DefaultEnv(), fmt.Sprintf("%s (commit: %s)", nodela.Version, commit))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	var apiErr *nodela.Error
	if errors.As(err, &apiErr) {
		return kindExitCode(apiErr.Kind)
	}

	if isCobraUsageError(err) || errors.Is(err, cli.ErrInvalidAmount) || errors.Is(err, cli.ErrInvalidParallel) {
		return ExitUsage
	}

	return ExitGeneral
}

func kindExitCode(kind nodela.Kind) int {
	switch kind {
	case nodela.KindAuthentication:
		return ExitAuth
	case nodela.KindValidation:
		return ExitValidation
	case nodela.KindNotFound:
		return ExitNotFound
	case nodela.KindRateLimit:
		return ExitRateLimit
	case nodela.KindServer:
		return ExitServer
	case nodela.KindNetwork:
		return ExitNetwork
	default:
		return ExitGeneral
	}
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"if any flags in the group",
	"accepts ",
	"requires at least",
	"requires at most",
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
