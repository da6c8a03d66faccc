// Package main is the entry point for the mazeband terminal viewer.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/mazeband/internal/bootstrap"
	"github.com/samdwyer/mazeband/internal/config"
	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/session"
	"github.com/samdwyer/mazeband/internal/theme"
	"github.com/samdwyer/mazeband/internal/ui"
	"github.com/samdwyer/mazeband/internal/viewer"
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

	closeLog, err := bootstrap.LogToFile(log, cfg.LogFile)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	defer closeLog()

	bootstrap.SetupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := bootstrap.StartTelemetry(ctx, "mazeband", log)
	defer shutdown()

	themes, err := theme.LoadRegistry()
	if err != nil {
		log.Fatalf("Failed to load themes: %v", err)
	}
	rng := maze.NewSource(cfg.Seed)
	th, err := themes.Resolve(cfg.Theme, rng)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	sess, err := session.New(ctx, session.Options{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Threshold: cfg.Threshold,
		Source:    rng,
		Logger:    log,
	})
	if err != nil {
		log.Fatalf("Failed to create maze session: %v", err)
	}
	defer sess.Close()

	screen, err := ui.NewScreen()
	if err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	defer screen.Close()

	v := viewer.New(screen, ui.NewRenderer(screen, th.Palette()), sess, cfg.Tick, cfg.Hold, log)
	if err := v.Run(ctx); err != nil {
		log.Errorf("Viewer error: %v", err)
	}
}
