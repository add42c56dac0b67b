package models

import (
	"strings"
	"time"
)

// GeoSourceIPInfo is the only upstream resolver currently in use.
const GeoSourceIPInfo = "ipinfo"

// GeoSnapshot is an immutable point-in-time geolocation result for one IP.
// All location fields are nullable: a snapshot where every pointer is nil is a
// valid outcome (private ranges, resolver failures, plan-limited upstreams).
type GeoSnapshot struct {
	IP            string   `json:"ip"`
	Network       *string  `json:"network"`
	City          *string  `json:"city"`
	Region        *string  `json:"region"`
	RegionCode    *string  `json:"regionCode"`
	Country       *string  `json:"country"`
	CountryCode   *string  `json:"countryCode"`
	Continent     *string  `json:"continent"`
	ContinentCode *string  `json:"continentCode"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Timezone      *string  `json:"timezone"`
	PostalCode    *string  `json:"postalCode"`
	Source        string   `json:"source"`
	ResolvedAt    string   `json:"resolvedAt"`
}

// NewGeoSnapshot returns an empty snapshot for ip stamped with the current time.
func NewGeoSnapshot(ip string) *GeoSnapshot {
	return &GeoSnapshot{
		IP:         ip,
		Source:     GeoSourceIPInfo,
		ResolvedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Location joins city, region and country into a readable one-liner,
// falling back to "Unknown location" when every part is missing.
func (g *GeoSnapshot) Location() string {
	var parts []string
	for _, p := range []*string{g.City, g.Region, g.Country} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return "Unknown location"
	}
	return strings.Join(parts, ", ")
}
