// Package geo resolves IP addresses to GeoSnapshots via the ipinfo upstream,
// behind an optional Redis read-through cache.
package geo

import (
	"context"
	"net"

	"github.com/mbelkin/geoauth/internal/models"
)

// Resolver turns an IP into a snapshot. A nil snapshot with a nil error is a
// valid outcome: private ranges and upstream bogons have no geolocation.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (*models.GeoSnapshot, error)
}

// isUnroutable reports whether ip can never have public geolocation data.
// Such addresses short-circuit to a null snapshot without an upstream call.
func isUnroutable(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast()
}
