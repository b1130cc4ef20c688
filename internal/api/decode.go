package api

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/nodela/nodela-go/internal/apierrors"
	"github.com/nodela/nodela-go/internal/wire"
)

// Envelope is the outer wrapper of every API response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorDetail    `json:"error"`
}

// ErrorDetail is the error member of a failure envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Decode validates a 2xx response body and decodes its data member into
// result, which must be a pointer to the Go type of the given shape. A nil
// result only checks the envelope. Every failure is a validation error with
// decode origin carrying the raw payload.
func Decode(raw []byte, shape string, result any) error {
	fail := func(msg string, err error) *apierrors.Error {
		return &apierrors.Error{
			Kind:    apierrors.KindValidation,
			Origin:  apierrors.OriginDecode,
			Shape:   shape,
			Message: msg,
			Raw:     raw,
			Err:     err,
		}
	}

	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fail("body is not a JSON envelope", err)
	}
	if env.Success == nil {
		return fail(`missing "success" flag`, nil)
	}
	if !*env.Success {
		code, detail := parseErrorDetail(env.Error)
		msg := "server reported failure"
		if detail != "" {
			msg += ": " + detail
		}
		e := fail(msg, nil)
		e.Code = code
		return e
	}

	if result == nil {
		return nil
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return fail(`missing "data" member`, nil)
	}

	if err := json.Unmarshal(env.Data, result); err != nil {
		var fe *wire.FieldError
		if errors.As(err, &fe) {
			return fail(fe.Error(), err)
		}
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return fail((&wire.FieldError{Path: te.Field, Reason: "expected " + te.Type.String() + ", got " + te.Value}).Error(), err)
		}
		return fail(err.Error(), err)
	}
	return nil
}
