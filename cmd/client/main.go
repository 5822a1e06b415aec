package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/residentportal/internal/buildinfo"
	"github.com/dmitrijs2005/residentportal/internal/client/cli"
	"github.com/dmitrijs2005/residentportal/internal/client/config"
	"github.com/dmitrijs2005/residentportal/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error(ctx, "failed to start client", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)
}
