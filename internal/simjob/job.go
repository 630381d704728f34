package simjob

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/simulation"
)

// updateBuffer sizes the job's update channel. Matches the server-side
// subscriber buffer so a briefly slow consumer loses nothing.
const updateBuffer = 64

// Job observes one remote simulation. Updates carries progress events in
// order and closes after the terminal one; events arriving after the
// terminal are dropped.
type Job struct {
	client  *Client
	updates chan simulation.Event
	ctx     context.Context
	cancel  context.CancelFunc

	mu   sync.Mutex
	id   string
	done bool

	closeOnce sync.Once
}

func newJob(c *Client) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	return &Job{
		client:  c,
		updates: make(chan simulation.Event, updateBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns the server-assigned job ID. Empty until the first event
// names it on the streaming path.
func (j *Job) ID() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.id
}

// Updates returns the progress channel. It closes after the terminal
// event.
func (j *Job) Updates() <-chan simulation.Event {
	return j.updates
}

// Cancel aborts observation and asks the server to abort the job. Safe to
// call more than once and after the job finished.
func (j *Job) Cancel() {
	j.cancel()
}

func (j *Job) setID(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.id == "" {
		j.id = id
	}
}

// emit delivers one event unless the job already saw its terminal event.
// The terminal event closes the channel. A buffered send is tried first so
// cancellation never races a deliverable event away.
func (j *Job) emit(ev simulation.Event) {
	j.mu.Lock()
	if j.done {
		j.mu.Unlock()
		return
	}
	if ev.JobID != "" && j.id == "" {
		j.id = ev.JobID
	}
	if ev.Terminal() {
		j.done = true
	}
	j.mu.Unlock()

	select {
	case j.updates <- ev:
	default:
		select {
		case j.updates <- ev:
		case <-j.ctx.Done():
		}
	}

	if ev.Terminal() {
		j.closeOnce.Do(func() { close(j.updates) })
	}
}

// streamLoop relays socket events until the terminal one. A dropped
// socket with a known job ID falls back to polling; cancellation closes
// the socket, which the server treats as an abort.
func (j *Job) streamLoop(conn *websocket.Conn) {
	loopDone := make(chan struct{})
	defer close(loopDone)
	go func() {
		select {
		case <-j.ctx.Done():
			_ = conn.Close()
		case <-loopDone:
		}
	}()
	defer conn.Close()

	for {
		var ev simulation.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if j.ctx.Err() != nil {
				j.emit(simulation.Event{Type: simulation.EventError, JobID: j.ID(), Content: "canceled"})
				j.emitTerminal()
				return
			}
			if id := j.ID(); id != "" {
				// Keep observing over HTTP; the job itself is still running.
				j.pollLoop(&jobStatus{JobID: id, Status: string(domain.JobStatusRunning)})
				return
			}
			j.emit(simulation.Event{Type: simulation.EventError, Content: "stream disconnected before the job was queued"})
			j.emitTerminal()
			return
		}

		j.emit(ev)
		if ev.Terminal() {
			return
		}
	}
}

// pollLoop observes the job over the status endpoint, emitting only
// changes. prev seeds the change detection with the last known snapshot.
func (j *Job) pollLoop(prev *jobStatus) {
	ticker := time.NewTicker(j.client.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-j.ctx.Done():
			j.client.cancelRemote(prev.JobID)
			j.emit(simulation.Event{Type: simulation.EventError, JobID: prev.JobID, Content: "canceled"})
			j.emitTerminal()
			return

		case <-ticker.C:
			status, err := j.client.status(j.ctx, prev.JobID)
			if err != nil {
				if j.ctx.Err() != nil {
					continue
				}
				if errors.Is(err, domain.ErrJobNotFound) {
					j.emit(simulation.Event{Type: simulation.EventError, JobID: prev.JobID, Content: "job not found"})
					j.emitTerminal()
					return
				}
				// Transient upstream trouble; the next tick retries.
				continue
			}

			if status.Status != prev.Status {
				j.emit(simulation.Event{Type: simulation.EventStatus, JobID: status.JobID, Content: status.Status})
			}
			if status.QueuePosition != prev.QueuePosition {
				j.emit(simulation.Event{Type: simulation.EventQueuePosition, JobID: status.JobID, Position: status.QueuePosition})
				j.emit(simulation.Event{Type: simulation.EventEstimatedWait, JobID: status.JobID, Wait: status.EstimatedWait})
			}
			prev = status

			switch domain.JobStatus(status.Status) {
			case domain.JobStatusCompleted:
				html, resultErr := j.client.result(j.ctx, status.JobID)
				if resultErr != nil {
					j.emit(simulation.Event{Type: simulation.EventError, JobID: status.JobID, Content: resultErr.Error()})
				} else {
					j.emit(simulation.Event{Type: simulation.EventResult, JobID: status.JobID, Content: html})
				}
				j.emitTerminal()
				return

			case domain.JobStatusFailed:
				if status.Error != "" {
					j.emit(simulation.Event{Type: simulation.EventError, JobID: status.JobID, Content: status.Error})
				}
				j.emitTerminal()
				return
			}
		}
	}
}

func (j *Job) emitTerminal() {
	j.emit(simulation.Event{Type: simulation.EventComplete, JobID: j.ID()})
}
