// Package apierrors provides shared error types for the Nodela client.
package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks. Every *Error matches the sentinel
// of its Kind.
var (
	// ErrAuthentication is returned when the API key is missing, invalid or expired.
	ErrAuthentication = errors.New("authentication failed")

	// ErrValidation is returned when a request or response fails validation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServer is returned when the API reports a 5xx failure.
	ErrServer = errors.New("server error")

	// ErrNetwork is returned when the request never produced an HTTP response.
	ErrNetwork = errors.New("network error")

	// ErrUnknown is returned for HTTP failures outside the known taxonomy.
	ErrUnknown = errors.New("unknown API error")
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthentication
	KindValidation
	KindNotFound
	KindRateLimit
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limit"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// sentinel returns the errors.Is target for the kind.
func (k Kind) sentinel() error {
	switch k {
	case KindAuthentication:
		return ErrAuthentication
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindRateLimit:
		return ErrRateLimited
	case KindServer:
		return ErrServer
	case KindNetwork:
		return ErrNetwork
	default:
		return ErrUnknown
	}
}

// Origin records where in the pipeline an error was produced.
type Origin string

const (
	// OriginHTTP marks errors derived from a non-2xx HTTP status.
	OriginHTTP Origin = "http"
	// OriginDecode marks errors raised while validating a 2xx response body.
	OriginDecode Origin = "decode"
	// OriginTransport marks errors where no HTTP response was received.
	OriginTransport Origin = "transport"
	// OriginConfig marks errors raised while resolving client configuration.
	OriginConfig Origin = "config"
	// OriginRequest marks errors raised while validating call arguments.
	OriginRequest Origin = "request"
)

// Error is the single error type produced by the request pipeline.
type Error struct {
	Kind       Kind
	Origin     Origin
	StatusCode int    // 0 when no HTTP response was received
	Code       string // envelope error.code, if any
	Message    string
	Shape      string // expected-shape tag of the call, if any
	Raw        []byte // raw response body, if any
	Attempts   int    // transport attempts made for the logical call
	Err        error
}

func (e *Error) Error() string {
	switch e.Origin {
	case OriginHTTP:
		msg := fmt.Sprintf("API error %d", e.StatusCode)
		if e.Message != "" {
			msg += ": " + e.Message
		}
		if e.Code != "" {
			msg += fmt.Sprintf(" (code: %s)", e.Code)
		}
		return msg
	case OriginDecode:
		if e.Shape != "" {
			return fmt.Sprintf("invalid %s response: %s", e.Shape, e.Message)
		}
		return fmt.Sprintf("invalid response: %s", e.Message)
	case OriginTransport:
		if e.Err != nil {
			return fmt.Sprintf("network error: %v", e.Err)
		}
		return fmt.Sprintf("network error: %s", e.Message)
	case OriginConfig:
		return fmt.Sprintf("configuration error: %s", e.Message)
	case OriginRequest:
		return fmt.Sprintf("invalid request: %s", e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Retryable reports whether the kind permits another attempt.
func (e *Error) Retryable() bool {
	return e.Kind == KindRateLimit || e.Kind == KindServer || e.Kind == KindNetwork
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Validation returns a validation error for the given origin.
func Validation(origin Origin, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Origin:  origin,
		Message: fmt.Sprintf(format, args...),
	}
}
