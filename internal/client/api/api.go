// Package api contains the typed wrappers for every backend endpoint the
// client consumes. Only this package knows the paths and payload shapes; it
// performs no local mutation and no caching.
package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/mbelkin/geoauth/internal/models"
)

// Doer is the transport surface the wrappers need. *httpx.Client satisfies it;
// tests provide a stub.
type Doer interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, body, out any) error
}

type Client struct {
	http Doer
}

func New(http Doer) *Client {
	return &Client{http: http}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the opaque bearer token minted on successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	User models.AuthUser `json:"user"`
}

// GeoResponse wraps a snapshot that may legitimately be null.
type GeoResponse struct {
	Geo *models.GeoSnapshot `json:"geo"`
}

type historyListResponse struct {
	Items []models.HistoryRecord `json:"items"`
}

type historyDeleteRequest struct {
	IDs []string `json:"ids"`
}

// HistoryDeleteResponse reports how many rows the server actually removed.
type HistoryDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// Login authenticates with POST /api/login and returns the minted token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.http.Post(ctx, "/api/login", credentialsRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account with POST /api/register and returns the minted
// token, so a fresh registration behaves like a login.
func (c *Client) Register(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.http.Post(ctx, "/api/register", credentialsRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the currently authenticated user via GET /api/me.
func (c *Client) Me(ctx context.Context) (*models.AuthUser, error) {
	var out meResponse
	if err := c.http.Get(ctx, "/api/me", &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// SelfGeo resolves the caller's own IP via GET /api/geo/self.
func (c *Client) SelfGeo(ctx context.Context) (*models.GeoSnapshot, error) {
	var out GeoResponse
	if err := c.http.Get(ctx, "/api/geo/self", &out); err != nil {
		return nil, err
	}
	return out.Geo, nil
}

// GeoByIP resolves a specific IP via GET /api/geo/:ip. The IP segment is
// trimmed and URL-escaped; format validation is left to the server.
func (c *Client) GeoByIP(ctx context.Context, ip string) (*models.GeoSnapshot, error) {
	var out GeoResponse
	path := "/api/geo/" + url.PathEscape(strings.TrimSpace(ip))
	if err := c.http.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Geo, nil
}

// SearchIP resolves an IP via POST /api/history/search, which also records a
// history row server-side (best-effort).
func (c *Client) SearchIP(ctx context.Context, ip string) (*models.GeoSnapshot, error) {
	var out GeoResponse
	body := map[string]string{"ip": strings.TrimSpace(ip)}
	if err := c.http.Post(ctx, "/api/history/search", body, &out); err != nil {
		return nil, err
	}
	return out.Geo, nil
}

// ListHistory fetches the caller's search history, newest first. A limit <= 0
// leaves the choice to the server.
func (c *Client) ListHistory(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	path := "/api/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out historyListResponse
	if err := c.http.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// DeleteHistory bulk-deletes history rows by id. Blank ids are filtered out
// before the request is sent.
func (c *Client) DeleteHistory(ctx context.Context, ids []string) (int, error) {
	safe := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			safe = append(safe, strings.TrimSpace(id))
		}
	}

	var out HistoryDeleteResponse
	if err := c.http.Delete(ctx, "/api/history", historyDeleteRequest{IDs: safe}, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}
