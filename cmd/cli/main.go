package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/storyshare/client/internal/client/cli"
	"github.com/storyshare/client/internal/client/config"
	"github.com/storyshare/client/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start", "err", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
