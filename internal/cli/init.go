// Package cli provides common CLI initialization utilities shared by
// cmd/dirav: env loading, logging, config validation, and wiring of the
// optional snapshot cache and event publisher.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"dirav/internal/config"
	"dirav/internal/events"
	"dirav/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSnapshotRepository opens the offline snapshot cache, or returns
// nil when the cache is disabled. Exits the process on failure: a
// configured cache that cannot be opened is a setup problem the user
// has to fix.
func InitSnapshotRepository(logger *slog.Logger, cfg *config.Config) *storage.SnapshotRepository {
	if !cfg.OfflineCache {
		return nil
	}
	repo, err := storage.NewSnapshotRepository(cfg.SnapshotDBPath)
	if err != nil {
		logger.Error("Failed to initialize snapshot repository", "error", err, "path", cfg.SnapshotDBPath)
		os.Exit(1)
	}
	return repo
}

// InitEventPublisher connects the AMQP publisher when a broker is
// configured. Failure is not fatal: the app runs without mutation
// events.
func InitEventPublisher(logger *slog.Logger, cfg *config.Config) *events.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	logger.Info("Initialized AMQP event publisher",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}
