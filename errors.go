package nodela

import "github.com/nodela/nodela-go/internal/apierrors"

// Sentinel errors for errors.Is() checks. Every *Error returned by the client
// matches exactly one of them, selected by its Kind.
var (
	// ErrAuthentication is returned when the API key is missing, invalid or expired.
	ErrAuthentication = apierrors.ErrAuthentication

	// ErrValidation is returned when a request is rejected locally or by the
	// API, or when a response does not match its expected shape.
	ErrValidation = apierrors.ErrValidation

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = apierrors.ErrNotFound

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrServer is returned when the API keeps failing with a 5xx status.
	ErrServer = apierrors.ErrServer

	// ErrNetwork is returned when no HTTP response was received, including
	// timeouts and caller cancellation.
	ErrNetwork = apierrors.ErrNetwork

	// ErrUnknown is returned for HTTP failures outside the known taxonomy.
	ErrUnknown = apierrors.ErrUnknown
)

// Error is the error type returned by every client operation. Use errors.As
// to inspect the status code, API error code, raw payload and attempt count.
type Error = apierrors.Error

// Kind classifies an Error.
type Kind = apierrors.Kind

// Error kinds.
const (
	KindUnknown        = apierrors.KindUnknown
	KindAuthentication = apierrors.KindAuthentication
	KindValidation     = apierrors.KindValidation
	KindNotFound       = apierrors.KindNotFound
	KindRateLimit      = apierrors.KindRateLimit
	KindServer         = apierrors.KindServer
	KindNetwork        = apierrors.KindNetwork
)

// Origin tells where an Error was raised.
type Origin = apierrors.Origin

// Error origins.
const (
	// OriginHTTP marks a non-2xx response from the API.
	OriginHTTP = apierrors.OriginHTTP
	// OriginDecode marks a 2xx response whose body did not match its shape.
	OriginDecode = apierrors.OriginDecode
	// OriginTransport marks a failure before any response was received.
	OriginTransport = apierrors.OriginTransport
	// OriginConfig marks invalid client configuration.
	OriginConfig = apierrors.OriginConfig
	// OriginRequest marks request parameters rejected before sending.
	OriginRequest = apierrors.OriginRequest
)

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	return apierrors.KindOf(err)
}
