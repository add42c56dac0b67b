// Package httperr defines the typed API error rendered by the central error
// handler. Handlers and middleware return *Error when they know the exact
// status, code, and message the envelope should carry.
package httperr

import "net/http"

// Error is an API error with a fixed wire rendering. Code and Details are
// optional and omitted from the envelope when empty.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string { return e.Message }

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WithDetails attaches structured details to the envelope.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// Unauthorized is the envelope sent for missing, malformed, or rejected
// bearer tokens.
func Unauthorized() *Error {
	return New(http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}
