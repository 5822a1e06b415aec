package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/residentportal/internal/buildinfo"
	"github.com/dmitrijs2005/residentportal/internal/logging"
	"github.com/dmitrijs2005/residentportal/internal/server"
	"github.com/dmitrijs2005/residentportal/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start server", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
	}
}
