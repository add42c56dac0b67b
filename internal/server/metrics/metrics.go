// Package metrics defines and registers all custom Prometheus metrics for the
// GeoAuth server. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "geoauth"

// HTTPRequestsTotal counts handled HTTP requests.
// Labels:
//   - method: request method
//   - path: the registered route pattern, not the raw URL
//   - status: numeric response status
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of handled HTTP requests.",
	},
	[]string{"method", "path", "status"},
)

// HTTPRequestDuration observes per-route request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

// GeoResolutionsTotal counts upstream geo resolutions.
// Label:
//   - outcome: "ok", "null" (valid empty result), or "error"
var GeoResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geo_resolutions_total",
		Help:      "Total number of geo resolutions against the upstream, by outcome.",
	},
	[]string{"outcome"},
)

// GeoCacheTotal counts geo cache decisions.
// Label:
//   - result: "hit" or "miss"
var GeoCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geo_cache_total",
		Help:      "Total number of geo cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
