package stream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/metrics"
	"github.com/wowlab/guildsim/internal/simulation"
)

// SubmitMessage is the first frame a client sends on the simulation
// socket. The profile text is base64-encoded to survive JSON framing.
type SubmitMessage struct {
	SimcInput string `json:"simc_input"`
}

// JobService is the part of the simulation service the handler needs.
type JobService interface {
	Submit(ctx context.Context, input string) (*domain.SimulationJob, error)
	Subscribe(id string) (<-chan simulation.Event, func(), error)
	Cancel(id string) error
}

// Handler upgrades simulation requests to WebSockets and relays progress.
type Handler struct {
	jobs     JobService
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a streaming handler.
func NewHandler(jobs JobService, hub *Hub) *Handler {
	return &Handler{
		jobs: jobs,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browsers send the frontend origin; same-host deployments and
			// the reverse proxy are both fine with the default check.
		},
	}
}

// Simulate handles one streaming simulation: read the submit frame, queue
// the job, relay every progress event, then close. Client disconnects
// cancel the job.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	conn.SetReadLimit(maxMessageSize)

	input, err := readSubmitMessage(conn)
	if err != nil {
		writeEvent(conn, simulation.Event{Type: simulation.EventError, Content: err.Error()})
		return
	}

	job, err := h.jobs.Submit(r.Context(), input)
	if err != nil {
		writeEvent(conn, simulation.Event{Type: simulation.EventError, Content: userMessage(err)})
		return
	}

	// Initial snapshot before any worker touches the job.
	writeEvent(conn, simulation.Event{Type: simulation.EventStatus, JobID: job.ID, Content: string(job.Status)})
	writeEvent(conn, simulation.Event{Type: simulation.EventQueuePosition, JobID: job.ID, Position: job.QueuePosition})
	writeEvent(conn, simulation.Event{Type: simulation.EventEstimatedWait, JobID: job.ID, Wait: job.EstimatedWait})

	ch, unsubscribe, err := h.jobs.Subscribe(job.ID)
	if err != nil {
		writeEvent(conn, simulation.Event{Type: simulation.EventError, JobID: job.ID, Content: userMessage(err)})
		return
	}
	defer unsubscribe()

	// Reader goroutine: its only purpose after the submit frame is to
	// notice the peer going away.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		}
	}()

	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			if writeErr := writeEvent(conn, ev); writeErr != nil {
				_ = h.jobs.Cancel(job.ID)
				return
			}

		case <-disconnected:
			log.Info("streaming client disconnected, canceling job", "job_id", job.ID)
			_ = h.jobs.Cancel(job.ID)
			return

		case <-pinger.C:
			if pingErr := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); pingErr != nil {
				_ = h.jobs.Cancel(job.ID)
				return
			}
		}
	}
}

// Notifications streams hub broadcasts (queue activity) to a client.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	client := h.hub.Register(r.URL.Query()["type"])
	defer h.hub.Unregister(client.ID)

	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	for {
		select {
		case notification, ok := <-client.EventChannel:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if writeErr := conn.WriteJSON(notification); writeErr != nil {
				return
			}
		case <-disconnected:
			return
		case <-pinger.C:
			if pingErr := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); pingErr != nil {
				return
			}
		}
	}
}

func readSubmitMessage(conn *websocket.Conn) (string, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return "", errors.New("missing submit message")
	}

	var msg SubmitMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", errors.New("malformed submit message")
	}
	if msg.SimcInput == "" {
		return "", errors.New("simc_input is required")
	}

	decoded, err := base64.StdEncoding.DecodeString(msg.SimcInput)
	if err != nil {
		return "", errors.New("simc_input is not valid base64")
	}
	return string(decoded), nil
}

func writeEvent(conn *websocket.Conn, ev simulation.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrQueueFull):
		return "simulation queue is full, try again shortly"
	case errors.Is(err, domain.ErrInvalidInput):
		return "simulation input is empty or invalid"
	case errors.Is(err, domain.ErrJobNotFound):
		return "job not found"
	default:
		return "simulation failed to start"
	}
}
