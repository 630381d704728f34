package metrics

import (
	"context"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/logger"
)

// EventMetricsCollector subscribes to domain events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all event types the collector cares about
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.SimulationSubmitted,
		event.SimulationCompleted,
		event.SimulationFailed,
		event.ProfileParsed,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.handleEvent)
	}

	return nil
}

func (e *EventMetricsCollector) handleEvent(ctx context.Context, ev event.Event) error {
	EventsPublished.WithLabelValues(string(ev.Type)).Inc()

	switch ev.Type {
	case event.SimulationSubmitted:
		SimulationsSubmitted.Inc()

	case event.SimulationCompleted, event.SimulationFailed:
		payload, err := event.DecodePayload[event.SimulationJobPayloadV1](ev.Payload)
		if err != nil {
			EventHandlerErrors.WithLabelValues(string(ev.Type)).Inc()
			return err
		}
		status := payload.Status
		if status == "" {
			status = string(domain.JobStatusFailed)
		}
		SimulationsFinished.WithLabelValues(status).Inc()
		if payload.DurationMS > 0 {
			SimulationDuration.Observe(float64(payload.DurationMS) / 1000)
		}

	case event.ProfileParsed:
		payload, err := event.DecodePayload[event.ProfileParsedPayloadV1](ev.Payload)
		if err != nil {
			EventHandlerErrors.WithLabelValues(string(ev.Type)).Inc()
			return err
		}
		ProfilesParsed.WithLabelValues(payload.Class, payload.Spec).Inc()
	}

	logger.FromContext(ctx).Debug("metrics recorded for event", "event_type", ev.Type)
	return nil
}
