package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/nodela/nodela-go/internal/apierrors"
)

func TestClassify_StatusCodes(t *testing.T) {
	tests := []struct {
		statusCode int
		kind       apierrors.Kind
		retryable  bool
	}{
		{400, apierrors.KindValidation, false},
		{401, apierrors.KindAuthentication, false},
		{403, apierrors.KindUnknown, false},
		{404, apierrors.KindNotFound, false},
		{409, apierrors.KindUnknown, false},
		{418, apierrors.KindUnknown, false},
		{422, apierrors.KindValidation, false},
		{429, apierrors.KindRateLimit, true},
		{500, apierrors.KindServer, true},
		{501, apierrors.KindUnknown, false},
		{502, apierrors.KindServer, true},
		{503, apierrors.KindServer, true},
		{504, apierrors.KindServer, true},
		{505, apierrors.KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.statusCode), func(t *testing.T) {
			err, retryable := Classify(Outcome{Attempt: 1, StatusCode: tt.statusCode})
			if err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", err.Kind, tt.kind)
			}
			if retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", retryable, tt.retryable)
			}
			if err.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.statusCode)
			}
			if err.Origin != apierrors.OriginHTTP {
				t.Errorf("Origin = %v, want %v", err.Origin, apierrors.OriginHTTP)
			}
		})
	}
}

func TestClassify_RetryableSets(t *testing.T) {
	for _, code := range []int{500, 502, 503, 504, 429} {
		if _, retryable := Classify(Outcome{StatusCode: code}); !retryable {
			t.Errorf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{400, 401, 404, 422} {
		if _, retryable := Classify(Outcome{StatusCode: code}); retryable {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}

func TestClassify_TransportFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"timeout", fmt.Errorf("Get \"https://api.nodela.co\": %w", context.DeadlineExceeded), "request timed out"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), "connection error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err, retryable := Classify(Outcome{Attempt: 2, Err: tt.err})
			if !retryable {
				t.Error("transport failures should be retryable")
			}
			if err.Kind != apierrors.KindNetwork {
				t.Errorf("Kind = %v, want %v", err.Kind, apierrors.KindNetwork)
			}
			if err.Origin != apierrors.OriginTransport {
				t.Errorf("Origin = %v, want %v", err.Origin, apierrors.OriginTransport)
			}
			if err.Message != tt.message {
				t.Errorf("Message = %q, want %q", err.Message, tt.message)
			}
			if err.Attempts != 2 {
				t.Errorf("Attempts = %d, want 2", err.Attempts)
			}
			if !errors.Is(err, tt.err) {
				t.Error("classified error should wrap the transport error")
			}
		})
	}
}

func TestClassify_Message(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{
			name:    "failure envelope",
			status:  422,
			body:    `{"success":false,"data":null,"error":{"code":"validation_error","message":"Invalid input parameters"}}`,
			code:    "validation_error",
			message: "Invalid input parameters",
		},
		{
			name:    "top-level message",
			status:  401,
			body:    `{"message":"Unauthorized"}`,
			message: "Unauthorized",
		},
		{
			name:    "string error member",
			status:  404,
			body:    `{"error":"invoice not found"}`,
			message: "invoice not found",
		},
		{
			name:    "plain text body",
			status:  502,
			body:    "  upstream unavailable \n",
			message: "upstream unavailable",
		},
		{
			name:    "empty body",
			status:  503,
			body:    "",
			message: "Service Unavailable",
		},
		{
			name:    "json without message",
			status:  500,
			body:    `{"success":false}`,
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err, _ := Classify(Outcome{StatusCode: tt.status, Body: []byte(tt.body)})
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
			if err.Message != tt.message {
				t.Errorf("Message = %q, want %q", err.Message, tt.message)
			}
			if string(err.Raw) != tt.body {
				t.Errorf("Raw = %q, want %q", err.Raw, tt.body)
			}
		})
	}
}

func TestOutcome_Success(t *testing.T) {
	tests := []struct {
		out  Outcome
		want bool
	}{
		{Outcome{StatusCode: 200}, true},
		{Outcome{StatusCode: 201}, true},
		{Outcome{StatusCode: 204}, true},
		{Outcome{StatusCode: 304}, false},
		{Outcome{StatusCode: 404}, false},
		{Outcome{Err: errors.New("boom")}, false},
	}
	for _, tt := range tests {
		if got := tt.out.Success(); got != tt.want {
			t.Errorf("Success() for %+v = %v, want %v", tt.out, got, tt.want)
		}
	}
}
