// Package apperr is the single point where heterogeneous failures become one
// shape. Every layer above the HTTP gateway handles *AppError only; raw
// transport errors never escape it.
package apperr

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
)

// Fixed user-safe fallback messages.
const (
	MsgRequestFailed = "Request failed."
	MsgTimeout       = "Request timed out. Please try again."
	MsgNetwork       = "Network error. Please check your connection and try again."
	MsgGeneric       = "Something went wrong."
)

// AppError is the normalized error record surfaced to callers and the UI.
//
// Message is always present and safe to show to a user. Status and Code are
// zero when the failure never produced a response. Raw retains the original
// error for diagnostics only; it must not be rendered.
type AppError struct {
	Message string
	Status  int
	Code    string
	Details any
	Raw     error
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Raw }

// ResponseError is the transport-level failure produced by the HTTP gateway
// when the server responded with a non-2xx status. It exists so Normalize can
// tell "response received" apart from "request never completed".
type ResponseError struct {
	Status int
	Body   []byte
	Method string
	Path   string
}

func (e *ResponseError) Error() string {
	var b strings.Builder
	b.WriteString("request failed")
	if e.Method != "" || e.Path != "" {
		b.WriteString(": " + e.Method + " " + e.Path)
	}
	return b.String()
}

// envelope is the backend error body convention:
// usually {error: string}, sometimes {message: string}, plus optional
// code/details.
type envelope struct {
	Error   any `json:"error"`
	Message any `json:"message"`
	Code    any `json:"code"`
	Details any `json:"details"`
}

func pickString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Normalize converts any error into a stable *AppError.
//
// It never panics and never returns nil; Message is never empty. Already
// normalized errors pass through unchanged. No side effects: no logging,
// no storage mutation, no navigation.
func Normalize(err error) *AppError {
	if err == nil {
		return &AppError{Message: MsgGeneric}
	}

	var app *AppError
	if errors.As(err, &app) {
		return app
	}

	// Response received: extract the envelope if the body is a JSON object.
	var re *ResponseError
	if errors.As(err, &re) {
		// Fallback chain: envelope error → envelope message → transport
		// message → fixed "Request failed.".
		out := &AppError{Message: MsgRequestFailed, Status: re.Status, Raw: err}
		if msg, ok := pickString(re.Error()); ok {
			out.Message = msg
		}

		var body any
		if len(re.Body) > 0 && json.Unmarshal(re.Body, &body) == nil {
			out.Details = body
			if obj, ok := body.(map[string]any); ok {
				env := envelope{
					Error:   obj["error"],
					Message: obj["message"],
					Code:    obj["code"],
					Details: obj["details"],
				}
				if msg, ok := pickString(env.Error); ok {
					out.Message = strings.TrimSpace(msg)
				} else if msg, ok := pickString(env.Message); ok {
					out.Message = strings.TrimSpace(msg)
				}
				if code, ok := env.Code.(string); ok {
					out.Code = code
				}
				if env.Details != nil {
					out.Details = env.Details
				}
			}
		}
		return out
	}

	// Request never completed: classify timeout vs generic network failure.
	// Status, code and details are all absent in this branch.
	if isTransportFailure(err) {
		if isTimeout(err) {
			return &AppError{Message: MsgTimeout, Raw: err}
		}
		return &AppError{Message: MsgNetwork, Raw: err}
	}

	// Plain error value.
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return &AppError{Message: msg, Raw: err}
	}
	return &AppError{Message: MsgGeneric, Raw: err}
}

// FromMessage normalizes a bare string, applying the generic fallback when the
// string is blank.
func FromMessage(s string) *AppError {
	if msg := strings.TrimSpace(s); msg != "" {
		return &AppError{Message: msg}
	}
	return &AppError{Message: MsgGeneric}
}

func isTransportFailure(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
