package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/mbelkin/geoauth/internal/apperr"
)

func (a *App) History(ctx context.Context, args []string) {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			printlnFn("Usage: history [limit]")
			return
		}
		limit = n
	}

	items, err := a.api.ListHistory(ctx, limit)
	if err != nil {
		log.Printf("History fetch failed: %s", apperr.UserMessage(err))
		return
	}

	if len(items) == 0 {
		printlnFn("History is empty.")
		return
	}

	for _, rec := range items {
		location := "Unknown location"
		if rec.Geo != nil {
			location = rec.Geo.Location()
		}
		fmt.Fprintf(a.out, "%s  %-15s  %s  (%s)\n", rec.CreatedAt, rec.IP, location, rec.ID)
	}
}

func (a *App) Delete(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: delete <id...>")
		return
	}

	deleted, err := a.api.DeleteHistory(ctx, args)
	if err != nil {
		log.Printf("Delete failed: %s", apperr.UserMessage(err))
		return
	}
	log.Printf("Deleted %d record(s)", deleted)
}
