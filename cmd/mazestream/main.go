// Package main is the entry point for the mazeband websocket stream server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/mazeband/internal/bootstrap"
	"github.com/samdwyer/mazeband/internal/config"
	"github.com/samdwyer/mazeband/internal/stream"
	"github.com/samdwyer/mazeband/internal/telemetry"
)

func main() {
	log := logrus.New()
	bootstrap.LoadDotEnv(log)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := bootstrap.ConfigureLogger(log, cfg.LogLevel); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	bootstrap.SetupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := bootstrap.StartTelemetry(ctx, "mazestream", log)
	defer shutdown()

	srv := stream.NewServer(cfg, telemetry.Tracer("stream"), log)
	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}
