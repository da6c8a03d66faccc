// Package bootstrap prepares process-wide setup shared by the mazeband
// commands: .env loading, logging, and OTEL exporter variables.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/mazeband/internal/telemetry"
)

const (
	envAPIKey  = "HONEYCOMB_MAZEBAND_API_KEY"
	envDataset = "HONEYCOMB_MAZEBAND_DATASET"

	defaultEndpoint = "https://api.honeycomb.io"
	defaultDataset  = "mazeband"

	shutdownTimeout = 5 * time.Second
)

// LoadDotEnv loads a .env file for local development. A missing file is not
// an error; variables may be set directly.
func LoadDotEnv(log logrus.FieldLogger) {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug(".env file not loaded")
	}
}

// ConfigureLogger applies a textual log level such as "debug" to log.
func ConfigureLogger(log *logrus.Logger, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// LogToFile sends log output to the file at path and returns a function that
// closes it. With an empty path the terminal stays clean instead: the level
// is raised to Error, overriding any configured level, and output is left
// where it was.
func LogToFile(log *logrus.Logger, path string) (func() error, error) {
	if path == "" {
		log.SetLevel(logrus.ErrorLevel)
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return f.Close, nil
}

// SetupOTelEnv derives the standard OTEL exporter variables from the
// Honeycomb ones. An endpoint already set in the environment is kept.
func SetupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", defaultEndpoint)
	}

	// The .env file may hold an unexpanded variable reference, so the
	// headers are built here from the key itself.
	apiKey := os.Getenv(envAPIKey)
	dataset := os.Getenv(envDataset)
	if dataset == "" {
		dataset = defaultDataset
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

// StartTelemetry sets up tracing for serviceName. When setup fails the
// program keeps running without traces and the returned shutdown is a
// no-op.
//
// ctx only bounds setup. The returned shutdown flushes on its own context,
// since ctx is usually cancelled by a signal by the time it runs.
func StartTelemetry(ctx context.Context, serviceName string, log logrus.FieldLogger) func() {
	shutdown, err := telemetry.Setup(ctx, serviceName)
	if err != nil {
		log.WithError(err).Warn("telemetry setup failed, running without traces")
		return func() {}
	}
	return flushOnExit(shutdown, shutdownTimeout, log)
}

// flushOnExit wraps a tracer provider shutdown so pending spans are exported
// within timeout.
func flushOnExit(shutdown func(context.Context) error, timeout time.Duration, log logrus.FieldLogger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.WithError(err).Error("shutting down telemetry")
		}
	}
}
