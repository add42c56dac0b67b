package config

import (
	"flag"
	"os"

	"github.com/mbelkin/geoauth/internal/flagx"
)

// parseFlags overlays Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend API
//	-t string   path of the token file
//
// os.Args is filtered to the flags handled here so this package does not
// interfere with flags owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "path of the token file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
