package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/nodela/nodela-go/internal/apierrors"
)

// Outcome is the result of one transport attempt.
type Outcome struct {
	Attempt    int
	StatusCode int
	Header     http.Header
	Body       []byte
	Err        error // non-nil when no HTTP response was received
}

// Success reports whether the attempt produced a 2xx response.
func (o Outcome) Success() bool {
	return o.Err == nil && o.StatusCode >= 200 && o.StatusCode < 300
}

// classifyStatus maps a non-2xx status code to an error kind.
func classifyStatus(statusCode int) (apierrors.Kind, bool) {
	switch statusCode {
	case http.StatusUnauthorized:
		return apierrors.KindAuthentication, false
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apierrors.KindValidation, false
	case http.StatusNotFound:
		return apierrors.KindNotFound, false
	case http.StatusTooManyRequests:
		return apierrors.KindRateLimit, true
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return apierrors.KindServer, true
	default:
		return apierrors.KindUnknown, false
	}
}

// Classify maps a failed attempt to a typed error and reports whether the
// failure may be retried. o must not be a successful outcome.
func Classify(o Outcome) (*apierrors.Error, bool) {
	if o.Err != nil {
		return &apierrors.Error{
			Kind:     apierrors.KindNetwork,
			Origin:   apierrors.OriginTransport,
			Message:  transportMessage(o.Err),
			Attempts: o.Attempt,
			Err:      o.Err,
		}, true
	}

	kind, retryable := classifyStatus(o.StatusCode)
	code, msg := errorMessage(o.Body, o.StatusCode)
	return &apierrors.Error{
		Kind:       kind,
		Origin:     apierrors.OriginHTTP,
		StatusCode: o.StatusCode,
		Code:       code,
		Message:    msg,
		Raw:        o.Body,
		Attempts:   o.Attempt,
	}, retryable
}

func transportMessage(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "request timed out"
	}
	return "connection error"
}

// errorMessage extracts the human-readable failure from a response body.
// Preference: envelope error.message, top-level message, body text, status text.
func errorMessage(body []byte, statusCode int) (code, msg string) {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		code, msg = parseErrorDetail(payload.Error)
		if msg == "" {
			msg = payload.Message
		}
		if msg == "" {
			msg = http.StatusText(statusCode)
		}
		return code, msg
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return "", text
	}
	return "", http.StatusText(statusCode)
}

// parseErrorDetail reads an envelope error member given either as
// {code, message} or as a bare string.
func parseErrorDetail(raw json.RawMessage) (code, msg string) {
	if len(raw) == 0 {
		return "", ""
	}
	var detail ErrorDetail
	if err := json.Unmarshal(raw, &detail); err == nil {
		return detail.Code, detail.Message
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return "", text
	}
	return "", ""
}
