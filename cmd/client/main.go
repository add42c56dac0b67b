package main

import (
	"context"
	"fmt"

	"github.com/mbelkin/geoauth/internal/client/cli"
	"github.com/mbelkin/geoauth/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	fmt.Println("GeoAuth CLI (type 'help' for commands)")

	app := cli.NewApp(cfg)
	app.Run(ctx)
}
