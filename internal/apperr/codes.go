package apperr

import "net/http"

// Backend error codes carried in the error envelope.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeInvalidIP          = "INVALID_IP"
	CodeInvalidJSON        = "INVALID_JSON"
)

// validationCodes is the closed set of codes treated as input validation
// failures, surfaced inline near the offending field.
var validationCodes = map[string]struct{}{
	CodeValidationError: {},
	CodeInvalidEmail:    {},
	CodeInvalidPassword: {},
	CodeInvalidIP:       {},
	CodeInvalidJSON:     {},
}

// IsUnauthorized reports whether err indicates an invalid or expired session.
// The auth state machine clears the session when this holds.
func IsUnauthorized(err error) bool {
	e := Normalize(err)
	return e.Status == http.StatusUnauthorized || e.Code == CodeUnauthorized
}

// IsValidationError identifies common input validation failures, useful for
// rendering messages next to the offending prompt instead of globally.
func IsValidationError(err error) bool {
	e := Normalize(err)
	if e.Status == http.StatusBadRequest {
		return true
	}
	_, ok := validationCodes[e.Code]
	return ok
}

// UserMessage extracts the UI-safe message for any error.
func UserMessage(err error) string {
	return Normalize(err).Message
}
