package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mbelkin/geoauth/internal/models"
	"github.com/mbelkin/geoauth/internal/server/metrics"
)

const upstreamTimeout = 15 * time.Second

// ipinfoResponse mirrors the subset of the ipinfo.io payload we map. Fields
// beyond the free plan simply stay empty and become nulls in the snapshot.
type ipinfoResponse struct {
	IP            string `json:"ip"`
	Bogon         bool   `json:"bogon"`
	City          string `json:"city"`
	Region        string `json:"region"`
	RegionCode    string `json:"region_code"`
	Country       string `json:"country"`
	CountryName   string `json:"country_name"`
	Continent     string `json:"continent"`
	ContinentCode string `json:"continent_code"`
	Loc           string `json:"loc"`
	Postal        string `json:"postal"`
	Timezone      string `json:"timezone"`
	Network       string `json:"network"`
}

// IPInfoResolver resolves IPs against the ipinfo.io HTTP API.
type IPInfoResolver struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewIPInfoResolver(baseURL, token string) *IPInfoResolver {
	return &IPInfoResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: upstreamTimeout},
	}
}

func (r *IPInfoResolver) Resolve(ctx context.Context, ip string) (*models.GeoSnapshot, error) {
	ip = strings.TrimSpace(ip)
	if isUnroutable(ip) {
		metrics.GeoResolutionsTotal.WithLabelValues("null").Inc()
		return nil, nil
	}

	endpoint := r.baseURL + "/" + url.PathEscape(ip)
	if r.token != "" {
		endpoint += "?token=" + url.QueryEscape(r.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.GeoResolutionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		metrics.GeoResolutionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ipinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Upstream has nothing for this IP; a null snapshot, not an error.
		metrics.GeoResolutionsTotal.WithLabelValues("null").Inc()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		metrics.GeoResolutionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ipinfo status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GeoResolutionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read ipinfo response: %w", err)
	}

	var raw ipinfoResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.GeoResolutionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode ipinfo response: %w", err)
	}

	if raw.Bogon {
		metrics.GeoResolutionsTotal.WithLabelValues("null").Inc()
		return nil, nil
	}

	metrics.GeoResolutionsTotal.WithLabelValues("ok").Inc()
	return raw.toSnapshot(ip), nil
}

func (raw *ipinfoResponse) toSnapshot(ip string) *models.GeoSnapshot {
	snap := models.NewGeoSnapshot(ip)
	snap.Network = optional(raw.Network)
	snap.City = optional(raw.City)
	snap.Region = optional(raw.Region)
	snap.RegionCode = optional(raw.RegionCode)
	snap.Country = optional(raw.CountryName)
	snap.CountryCode = optional(raw.Country)
	snap.Continent = optional(raw.Continent)
	snap.ContinentCode = optional(raw.ContinentCode)
	snap.Timezone = optional(raw.Timezone)
	snap.PostalCode = optional(raw.Postal)

	// loc is "lat,lon"
	if parts := strings.SplitN(raw.Loc, ",", 2); len(parts) == 2 {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if latErr == nil && lonErr == nil {
			snap.Latitude = &lat
			snap.Longitude = &lon
		}
	}

	return snap
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
