package bootstrap

import (
	"log/slog"

	"github.com/wowlab/guildsim/internal/config"
	"github.com/wowlab/guildsim/internal/logger"
)

// SetupLogger installs the process-wide structured logger from the
// application configuration and logs the startup banner.
func SetupLogger(cfg *config.Config) {
	logger.InitLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	slog.Info(LogMsgStartingService,
		"environment", cfg.Environment,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"queue_workers", cfg.QueueWorkers,
		"queue_size", cfg.QueueSize)
}
