package cli

import (
	"io"
	"os"

	nodela "github.com/nodela/nodela-go"
)

// Env holds injectable dependencies for CLI commands.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)

	// NewClient builds the API client once flags are resolved.
	NewClient ClientFactory
	// ClientOptions are appended after the options derived from flags.
	ClientOptions []nodela.Option
}

// ClientFactory creates API clients. nodela.New satisfies it.
type ClientFactory func(apiKey string, opts ...nodela.Option) (*nodela.Client, error)

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithLookupEnv sets the environment variable lookup.
func WithLookupEnv(fn func(string) (string, bool)) EnvOption {
	return func(e *Env) {
		e.LookupEnv = fn
	}
}

// WithClientFactory sets the client factory.
func WithClientFactory(f ClientFactory) EnvOption {
	return func(e *Env) {
		e.NewClient = f
	}
}

// WithClientOptions appends options passed to every client the CLI builds.
func WithClientOptions(opts ...nodela.Option) EnvOption {
	return func(e *Env) {
		e.ClientOptions = append(e.ClientOptions, opts...)
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		NewClient: nodela.New,
	}
}

// NewEnv creates an Env with the given options applied over defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}
