// Package api provides the request execution pipeline for the Nodela API.
// It handles authentication, request/response serialization, failure
// classification and automatic retry with exponential backoff for
// transient failures.
//
// # Client Creation
//
// [NewClient] takes a [Config]. The API key is sent as a bearer token in the
// Authorization header on every attempt.
//
// # Retry Behavior
//
// [Client.Do] performs at most MaxRetries+1 attempts per logical call. Each
// attempt is bounded by the configured timeout. Failures are classified by
// [Classify]:
//
//   - 401: authentication, not retried
//   - 400, 422: validation, not retried
//   - 404: not found, not retried
//   - 429: rate limit, retried
//   - 500, 502, 503, 504: server, retried
//   - transport failures and attempt timeouts: network, retried
//   - any other status: unknown, not retried
//
// The retry delay doubles with each attempt (1s, 2s, 4s, ...) up to 30s; see
// [Backoff]. A Retry-After header on a 429 or 503 response can lengthen the
// wait up to the same cap.
//
// # Response Decoding
//
// Every 2xx body is validated by [Decode] against the success envelope and
// the expected shape of the call. Decode failures are never retried.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
