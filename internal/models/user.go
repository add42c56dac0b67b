// Package models holds the wire-level domain types shared by the client and
// the server: the authenticated user, geo snapshots, and history records.
// Keep this package pure: types only, no behavior beyond formatting helpers.
package models

// AuthUser is the currently recognized identity, as returned by GET /api/me.
// It is re-derived from the token on every session bootstrap and never
// persisted on the client.
type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
}
