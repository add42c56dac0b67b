package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mbelkin/geoauth/internal/logging"
	"github.com/mbelkin/geoauth/internal/server/api/httperr"
	"github.com/mbelkin/geoauth/internal/server/users"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders *httperr.Error exactly as the handler built it.
//   - Maps known domain errors to deterministic status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//
// Every error leaves through the same JSON envelope.
func NewHTTPErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log logging.Logger, c echo.Context) (int, errorResponse) {
	var apiErr *httperr.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, errorResponse{Error: apiErr.Message, Code: apiErr.Code, Details: apiErr.Details}
	}

	// Echo's own errors (404 from the router, method not allowed, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid email or password", Code: "INVALID_CREDENTIALS"}
	case errors.Is(err, users.ErrEmailTaken):
		return http.StatusConflict, errorResponse{Error: "email already registered", Code: "EMAIL_TAKEN"}
	case errors.Is(err, users.ErrNotFound):
		// A valid token for a deleted account is no longer a session.
		return http.StatusUnauthorized, errorResponse{Error: "authentication required", Code: "UNAUTHORIZED"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error(c.Request().Context(), "unhandled error",
		"error", err.Error(),
		"method", c.Request().Method,
		"path", c.Path(),
	)

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
