package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"inventory-lab/internal/app"
	"inventory-lab/internal/config"
	"inventory-lab/internal/logging"
)

func main() {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv, err := app.NewLab1(ctx, cfg.Lab1)
	if err != nil {
		slog.Error("failed to start lab1", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		slog.Error("lab1 stopped with error", "error", err)
		os.Exit(1)
	}
}
