package bootstrap

import (
	"context"
	"log/slog"

	"github.com/wowlab/guildsim/internal/database"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/notify"
	"github.com/wowlab/guildsim/internal/server"
	"github.com/wowlab/guildsim/internal/simulation"
	"github.com/wowlab/guildsim/internal/stream"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server      *server.Server
	Simulations *simulation.Service
	Hub         *stream.Hub
	Notifier    *notify.Notifier
	DeadLetter  *event.DeadLetterWriter
	DBPool      database.Pool
}

// GracefulShutdown performs graceful shutdown of all application components.
// Order matters:
// 1. HTTP server (stop accepting new requests)
// 2. Simulation workers (let in-flight runs finish)
// 3. Stream hub (drop notification clients)
// 4. Notifier and dead-letter writer (flush external channels)
// 5. Database pool
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Simulations != nil {
		components.Simulations.Stop()
	}

	if components.Hub != nil {
		components.Hub.Stop()
	}

	if components.Notifier != nil {
		if err := components.Notifier.Close(); err != nil {
			slog.Error(LogMsgNotifierShutdownFailed, "error", err)
		}
	}

	if components.DeadLetter != nil {
		if err := components.DeadLetter.Close(); err != nil {
			slog.Error(LogMsgDeadLetterShutdownFailed, "error", err)
		}
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
