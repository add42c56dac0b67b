package config

import (
	"encoding/json"
	"os"

	"github.com/mbelkin/geoauth/internal/flagx"
	"github.com/mbelkin/geoauth/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling.
type jsonConfig struct {
	BaseURL   string         `json:"base_url"`
	TokenFile string         `json:"token_file"`
	Timeout   timex.Duration `json:"timeout"`
}

// parseJSON overlays Config with values from the JSON file given via the
// -c/-config flags. When no file is given the function is a no-op. Read or
// unmarshal errors panic; configuration is resolved before anything else
// starts, so failing loudly beats running half-configured.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.TokenFile != "" {
		cfg.TokenFile = jc.TokenFile
	}
	if jc.Timeout.Duration > 0 {
		cfg.Timeout = jc.Timeout
	}
}
