package main

import (
	"context"
	"log"

	"github.com/mbelkin/geoauth/internal/server"
	"github.com/mbelkin/geoauth/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
