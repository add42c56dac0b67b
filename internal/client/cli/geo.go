package cli

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mbelkin/geoauth/internal/apperr"
	"github.com/mbelkin/geoauth/internal/models"
)

func (a *App) MyIP(ctx context.Context) {
	geo, err := a.api.SelfGeo(ctx)
	if err != nil {
		log.Printf("Lookup failed: %s", apperr.UserMessage(err))
		return
	}
	a.printGeo(geo)
}

// Search resolves an IP through the history-recording endpoint, so the lookup
// shows up in `history`.
func (a *App) Search(ctx context.Context, args []string) {
	if len(args) != 1 {
		printlnFn("Usage: search <ip>")
		return
	}

	geo, err := a.api.SearchIP(ctx, args[0])
	if err != nil {
		if apperr.IsValidationError(err) {
			log.Printf("Invalid input: %s", apperr.UserMessage(err))
		} else {
			log.Printf("Lookup failed: %s", apperr.UserMessage(err))
		}
		return
	}
	a.printGeo(geo)
}

func (a *App) printGeo(geo *models.GeoSnapshot) {
	if geo == nil {
		printlnFn("No geolocation data available for this IP.")
		return
	}

	fmt.Fprintf(a.out, "IP:        %s\n", geo.IP)
	fmt.Fprintf(a.out, "Location:  %s\n", geo.Location())
	fmt.Fprintf(a.out, "Coords:    %s\n", formatCoords(geo.Latitude, geo.Longitude))
	if geo.Timezone != nil {
		fmt.Fprintf(a.out, "Timezone:  %s\n", *geo.Timezone)
	}
	fmt.Fprintf(a.out, "Source:    %s (%s)\n", geo.Source, geo.ResolvedAt)
}

func formatCoords(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return "n/a"
	}
	return strings.TrimSpace(fmt.Sprintf("%.4f, %.4f", *lat, *lon))
}
