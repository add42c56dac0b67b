// Package middleware holds the route middleware: bearer authentication and
// per-request metrics.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mbelkin/geoauth/internal/server/api/httperr"
)

// userIDKey is the echo context key the auth middleware stores the
// authenticated user id under.
const userIDKey = "user_id"

// Authenticator resolves a raw bearer token to a user id. users.Service
// satisfies it.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// Auth validates the Authorization header and injects the user id into the
// request context. Missing, malformed, and rejected tokens all produce the
// same 401 envelope so the client cannot distinguish them.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return httperr.Unauthorized()
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return httperr.Unauthorized()
			}

			userID, err := auth.Authenticate(strings.TrimSpace(parts[1]))
			if err != nil {
				return httperr.Unauthorized()
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id injected by Auth, or "" when the
// middleware did not run.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
