package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"social_server/app"
	"social_server/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize server: %v", err)
	}
	defer container.Close()

	if err := container.Serve(ctx); err != nil {
		container.Logger.Error("server stopped", zap.Error(err))
	}
}
