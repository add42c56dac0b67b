// Package config handles configuration for the client component: defaults,
// optional JSON overlay, and command-line flags, in that order of precedence.
package config

import (
	"time"

	"github.com/mbelkin/geoauth/internal/timex"
)

// Config holds runtime settings for the GeoAuth CLI.
//
// Fields:
//   - BaseURL: root of the backend API (scheme://host[:port], no trailing slash).
//   - TokenFile: path of the persisted bearer token; "" selects the default
//     location under the user config dir.
//   - Timeout: per-request deadline for every backend call.
type Config struct {
	BaseURL   string
	TokenFile string
	Timeout   timex.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8080"
	c.TokenFile = ""
	c.Timeout = timex.Duration{Duration: 15 * time.Second}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if a config file was given) and command-line flags. Later sources
// take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
