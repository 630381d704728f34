// Package event provides an in-process publish/subscribe bus. Simulation
// lifecycle events flow through it so metrics, notifications and streaming
// stay decoupled from the job service.
package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Common event types
const (
	SimulationSubmitted Type = "simulation.submitted"
	SimulationStarted   Type = "simulation.started"
	SimulationCompleted Type = "simulation.completed"
	SimulationFailed    Type = "simulation.failed"
	ProfileParsed       Type = "profile.parsed"
	GuildSynced         Type = "guild.synced"
	RosterUpdated       Type = "roster.updated"
)

// Typed event payloads for type safety

// SimulationJobPayloadV1 is the typed payload for simulation lifecycle events
type SimulationJobPayloadV1 struct {
	JobID         string `json:"job_id"`
	Status        string `json:"status"`
	QueuePosition int    `json:"queue_position,omitempty"`
	DurationMS    int64  `json:"duration_ms,omitempty"`
	Error         string `json:"error,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// ProfileParsedPayloadV1 is the typed payload for profile parse events
type ProfileParsedPayloadV1 struct {
	CharacterName string `json:"character_name"`
	Class         string `json:"class"`
	Spec          string `json:"spec"`
	SlotCount     int    `json:"slot_count"`
	RingCount     int    `json:"ring_count"`
	Timestamp     int64  `json:"timestamp"`
}

// GuildSyncedPayloadV1 is the typed payload for guild roster sync events
type GuildSyncedPayloadV1 struct {
	GuildSlug   string `json:"guild_slug"`
	MemberCount int    `json:"member_count"`
	Timestamp   int64  `json:"timestamp"`
}

// RosterUpdatedPayloadV1 is the typed payload for roster change events
type RosterUpdatedPayloadV1 struct {
	RosterID  string `json:"roster_id"`
	GuildSlug string `json:"guild_slug"`
	Size      int    `json:"size"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewSimulationEvent creates a simulation lifecycle event
func NewSimulationEvent(eventType Type, jobID, status string, queuePosition int, durationMS int64, errMsg string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: SimulationJobPayloadV1{
			JobID:         jobID,
			Status:        status,
			QueuePosition: queuePosition,
			DurationMS:    durationMS,
			Error:         errMsg,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewProfileParsedEvent creates a profile parse event
func NewProfileParsedEvent(name, class, spec string, slotCount, ringCount int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProfileParsed,
		Payload: ProfileParsedPayloadV1{
			CharacterName: name,
			Class:         class,
			Spec:          spec,
			SlotCount:     slotCount,
			RingCount:     ringCount,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewGuildSyncedEvent creates a guild sync event
func NewGuildSyncedEvent(slug string, memberCount int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GuildSynced,
		Payload: GuildSyncedPayloadV1{
			GuildSlug:   slug,
			MemberCount: memberCount,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewRosterUpdatedEvent creates a roster change event
func NewRosterUpdatedEvent(rosterID, guildSlug string, size int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RosterUpdated,
		Payload: RosterUpdatedPayloadV1{
			RosterID:  rosterID,
			GuildSlug: guildSlug,
			Size:      size,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously;
// a failing handler does not stop the others.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
