// Package history persists per-user IP lookup history. Each row carries the
// geo snapshot taken at search time, denormalized as JSONB: the record is a
// point-in-time result, re-resolution would change it.
package history

import (
	"time"

	"github.com/mbelkin/geoauth/internal/models"
)

const (
	// DefaultLimit applies when the caller gives no (or a nonsensical) limit.
	DefaultLimit = 100
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 100
)

// Record is the persisted row. UserID scopes every operation.
type Record struct {
	ID        string
	UserID    string
	IP        string
	Geo       *models.GeoSnapshot
	CreatedAt time.Time
}

// ToWire converts the row to its API shape.
func (r *Record) ToWire() models.HistoryRecord {
	return models.HistoryRecord{
		ID:        r.ID,
		IP:        r.IP,
		Geo:       r.Geo,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ClampLimit normalizes a requested page size into [1, MaxLimit], applying
// DefaultLimit for zero or negative values.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
