package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/metrics"
	"github.com/wowlab/guildsim/internal/notify"
	"github.com/wowlab/guildsim/internal/stream"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Hub      *stream.Hub
	Notifier *notify.Notifier
}

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (event-based counters)
// - Stream bridge (fans domain events out to notification WebSockets)
// - Discord notifier (completion and failure messages, when configured)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Hub != nil {
		stream.BridgeBus(deps.EventBus, deps.Hub)
		slog.Info(LogMsgStreamBridgeRegistered)
	}

	if deps.Notifier != nil && deps.Notifier.Enabled() {
		deps.Notifier.Register(deps.EventBus)
		slog.Info(LogMsgDiscordNotifierRegistered)
	}

	return nil
}
