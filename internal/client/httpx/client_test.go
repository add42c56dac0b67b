package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelkin/geoauth/internal/apperr"
	"github.com/mbelkin/geoauth/internal/client/token"
)

func newClient(t *testing.T, handler http.Handler) (*Client, *token.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := token.NewStore(filepath.Join(t.TempDir(), "tok"))
	return New(srv.URL+"/", tokens, 0), tokens
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotAccept, gotRequestID string
	c, tokens := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))

	tokens.Set("tok-123")
	require.NoError(t, c.Get(context.Background(), "/api/me", nil))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, c.Get(context.Background(), "/api/geo/self", nil))
	assert.Empty(t, gotAuth)
	assert.False(t, sawHeader)
}

func TestClient_DecodesSuccessBody(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-9"}`))
	}))

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, c.Post(context.Background(), "/api/login", map[string]string{"email": "a@b.com"}, &out))
	assert.Equal(t, "tok-9", out.Token)
}

func TestClient_NormalizesEnvelopeErrors(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token","code":"UNAUTHORIZED"}`))
	}))

	err := c.Get(context.Background(), "/api/me", nil)
	require.Error(t, err)

	var app *apperr.AppError
	require.ErrorAs(t, err, &app)
	assert.Equal(t, "invalid token", app.Message)
	assert.Equal(t, http.StatusUnauthorized, app.Status)
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestClient_NormalizesTimeout(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	c.http.Timeout = 20 * time.Millisecond

	err := c.Get(context.Background(), "/api/me", nil)
	require.Error(t, err)

	var app *apperr.AppError
	require.ErrorAs(t, err, &app)
	assert.Equal(t, apperr.MsgTimeout, app.Message)
	assert.Zero(t, app.Status)
}

func TestClient_NormalizesConnectionFailure(t *testing.T) {
	// Closed server: connection refused, no response.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, token.NewStore(filepath.Join(t.TempDir(), "tok")), 0)
	err := c.Get(context.Background(), "/api/me", nil)

	var app *apperr.AppError
	require.ErrorAs(t, err, &app)
	assert.Equal(t, apperr.MsgNetwork, app.Message)
}

func TestNew_StripsTrailingSlash(t *testing.T) {
	c := New("http://example.test///", nil, 0)
	assert.Equal(t, "http://example.test", c.baseURL)
}
