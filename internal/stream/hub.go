// Package stream pushes live simulation updates to clients. A per-job
// WebSocket carries run progress, and a hub fans queue-wide notifications
// out to every connected dashboard.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wowlab/guildsim/internal/event"
)

// Notification is an event sent to hub subscribers.
type Notification struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client represents a connected hub subscriber
type Client struct {
	ID           string
	EventChannel chan Notification
	EventFilter  map[string]bool // nil means all events, otherwise only specified types
}

// Hub manages subscriber connections and notification broadcasting
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Notification
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	wg         sync.WaitGroup
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Notification, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	close(h.shutdown)
	h.wg.Wait()

	h.mu.Lock()
	for _, client := range h.clients {
		close(client.EventChannel)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
			}
			h.mu.Unlock()

		case notification := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if client.EventFilter != nil && !client.EventFilter[notification.Type] {
					continue
				}

				// Non-blocking send; a stalled client loses events
				// rather than stalling the hub.
				select {
				case client.EventChannel <- notification:
				default:
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a new client, optionally filtered to specific event types.
func (h *Hub) Register(eventTypes []string) *Client {
	client := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Notification, ClientEventBuffer),
	}

	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool)
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
	}

	h.register <- client
	return client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast sends a notification to all interested clients
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	notification := Notification{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- notification:
	default:
		// Buffer full, drop
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BridgeBus forwards simulation lifecycle events from the bus to hub
// subscribers, so dashboards see queue activity without polling.
func BridgeBus(bus event.Bus, hub *Hub) {
	forward := func(ctx context.Context, ev event.Event) error {
		hub.Broadcast(string(ev.Type), ev.Payload)
		return nil
	}
	bus.Subscribe(event.SimulationSubmitted, forward)
	bus.Subscribe(event.SimulationStarted, forward)
	bus.Subscribe(event.SimulationCompleted, forward)
	bus.Subscribe(event.SimulationFailed, forward)
}
