package main

import (
	"context"

	"github.com/pashield/pashield/internal/client/cli"
	"github.com/pashield/pashield/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app := cli.NewApp(cfg)
	app.Run(ctx)
}
