package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelkin/geoauth/internal/server/api/httperr"
)

type stubAuthenticator struct {
	userID string
	err    error
}

func (s *stubAuthenticator) Authenticate(token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.userID, nil
}

func runAuth(t *testing.T, auth Authenticator, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return nil }
	return c, Auth(auth)(next)(c)
}

func TestAuth_ValidToken(t *testing.T) {
	c, err := runAuth(t, &stubAuthenticator{userID: "user-1"}, "Bearer tok-123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", UserID(c))
}

func TestAuth_CaseInsensitiveScheme(t *testing.T) {
	c, err := runAuth(t, &stubAuthenticator{userID: "user-1"}, "bearer tok-123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", UserID(c))
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		auth   Authenticator
		header string
	}{
		{"missing header", &stubAuthenticator{userID: "u"}, ""},
		{"not bearer", &stubAuthenticator{userID: "u"}, "Basic dXNlcjpwYXNz"},
		{"no token part", &stubAuthenticator{userID: "u"}, "Bearer"},
		{"rejected token", &stubAuthenticator{err: errors.New("bad token")}, "Bearer expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := runAuth(t, tt.auth, tt.header)

			var apiErr *httperr.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
			assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
			assert.Empty(t, UserID(c))
		})
	}
}
