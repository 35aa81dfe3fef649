package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/pavelgris/erpadmin/internal/buildinfo"
	"github.com/pavelgris/erpadmin/internal/client/cli"
	"github.com/pavelgris/erpadmin/internal/client/config"
	"github.com/pavelgris/erpadmin/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, slog.LevelInfo)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
