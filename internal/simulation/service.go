// Package simulation queues and executes SimulationCraft runs. Jobs move
// QUEUED -> RUNNING -> COMPLETED/FAILED; progress events fan out to
// streaming subscribers while results stay retrievable until retention
// expires.
package simulation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/metrics"
	"github.com/wowlab/guildsim/internal/worker"
)

// subscriberBuffer sizes each subscriber channel. Slow consumers drop
// intermediate progress events rather than stalling the run.
const subscriberBuffer = 64

// Config tunes the job service.
type Config struct {
	Workers   int
	QueueSize int
	// Timeout bounds a single simc run.
	Timeout time.Duration
	// Retention keeps finished jobs queryable before the janitor drops them.
	Retention time.Duration
}

// QueueStatus is a point-in-time view of the queue.
type QueueStatus struct {
	Queued  int `json:"queued"`
	Running int `json:"running"`
	Workers int `json:"workers"`
}

// Service owns the job table, the worker pool and the per-job subscriber
// lists.
type Service struct {
	cfg    Config
	runner Runner
	pool   *worker.Pool
	bus    event.Bus

	mu      sync.RWMutex
	jobs    map[string]*domain.SimulationJob
	order   []string
	running int
	cancels map[string]context.CancelFunc
	subs    map[string][]chan Event

	stop chan struct{}
}

// NewService creates the job service. Start must be called before Submit.
func NewService(cfg Config, runner Runner, bus event.Bus) *Service {
	return &Service{
		cfg:     cfg,
		runner:  runner,
		pool:    worker.NewPool(cfg.Workers, cfg.QueueSize),
		bus:     bus,
		jobs:    make(map[string]*domain.SimulationJob),
		cancels: make(map[string]context.CancelFunc),
		subs:    make(map[string][]chan Event),
		stop:    make(chan struct{}),
	}
}

// Start launches the workers and the retention janitor.
func (s *Service) Start() {
	s.pool.Start()
	if s.cfg.Retention > 0 {
		go s.janitor()
	}
}

// Stop drains the workers. In-flight runs finish; queued jobs stay QUEUED.
func (s *Service) Stop() {
	close(s.stop)
	s.pool.Stop()
}

// Submit queues a new simulation. The returned job carries its queue
// position and a rough wait estimate.
func (s *Service) Submit(ctx context.Context, input string) (*domain.SimulationJob, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: empty simulation input", domain.ErrInvalidInput)
	}

	job := &domain.SimulationJob{
		ID:          uuid.NewString(),
		Status:      domain.JobStatusQueued,
		Input:       input,
		SubmittedAt: time.Now(),
	}

	s.mu.Lock()
	job.QueuePosition = s.queuedCountLocked() + 1
	job.EstimatedWait = job.QueuePosition * domain.EstimatedSecondsPerJob
	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	s.mu.Unlock()

	if !s.pool.TryEnqueue(&runTask{svc: s, jobID: job.ID}) {
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.order = s.order[:len(s.order)-1]
		s.mu.Unlock()
		return nil, domain.ErrQueueFull
	}

	metrics.SimulationQueueDepth.Set(float64(s.pool.QueueDepth()))
	if s.bus != nil {
		_ = s.bus.Publish(ctx, event.NewSimulationEvent(
			event.SimulationSubmitted, job.ID, string(job.Status), job.QueuePosition, 0, ""))
	}

	logger.FromContext(ctx).Info("simulation queued",
		"job_id", job.ID,
		"queue_position", job.QueuePosition)

	snapshot := *job
	return &snapshot, nil
}

// Get returns a snapshot of a job.
func (s *Service) Get(id string) (*domain.SimulationJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	snapshot := *job
	return &snapshot, nil
}

// Result returns the HTML report of a completed job. A job that exists but
// has not completed yet returns ErrJobNotFinished.
func (s *Service) Result(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return "", domain.ErrJobNotFound
	}
	if job.Status != domain.JobStatusCompleted {
		return "", fmt.Errorf("%w: job is %s", domain.ErrJobNotFinished, job.Status)
	}
	return job.ResultHTML, nil
}

// Cancel aborts a job. Queued jobs fail immediately; running jobs have
// their process context cancelled and fail once the runner notices.
func (s *Service) Cancel(id string) error {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrJobNotFound
	}

	if job.Status == domain.JobStatusQueued {
		job.Status = domain.JobStatusFailed
		job.Error = "canceled"
		job.FinishedAt = time.Now()
		cancel := s.cancels[id]
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		s.publish(id, Event{Type: EventError, JobID: id, Content: "canceled"})
		s.finish(id)
		return nil
	}

	cancel := s.cancels[id]
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// Queue reports current queue occupancy.
func (s *Service) Queue() QueueStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return QueueStatus{
		Queued:  s.queuedCountLocked(),
		Running: s.running,
		Workers: s.pool.Workers(),
	}
}

// Subscribe registers for a job's progress events. The returned cancel
// function must be called unless the channel was closed by a terminal
// event. Subscribing to a finished job delivers its terminal events
// immediately.
func (s *Service) Subscribe(id string) (<-chan Event, func(), error) {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return nil, nil, domain.ErrJobNotFound
	}

	ch := make(chan Event, subscriberBuffer)

	if job.Status.Terminal() {
		s.mu.Unlock()
		replayTerminal(ch, job)
		close(ch)
		return ch, func() {}, nil
	}

	s.subs[id] = append(s.subs[id], ch)
	s.mu.Unlock()

	cancel := func() { s.unsubscribe(id, ch) }
	return ch, cancel, nil
}

func replayTerminal(ch chan Event, job *domain.SimulationJob) {
	ch <- Event{Type: EventStatus, JobID: job.ID, Content: string(job.Status)}
	if job.Status == domain.JobStatusCompleted {
		ch <- Event{Type: EventResult, JobID: job.ID, Content: job.ResultHTML}
	} else if job.Error != "" {
		ch <- Event{Type: EventError, JobID: job.ID, Content: job.Error}
	}
	ch <- Event{Type: EventComplete, JobID: job.ID}
}

func (s *Service) unsubscribe(id string, ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.subs[id]
	for i, c := range list {
		if c == ch {
			s.subs[id] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// publish fans an event out to a job's subscribers. Full subscriber
// buffers drop the event; terminal events always follow later and are
// never dropped because the buffer is drained by then or the channel
// closes regardless.
func (s *Service) publish(id string, ev Event) {
	s.mu.RLock()
	list := append([]chan Event(nil), s.subs[id]...)
	s.mu.RUnlock()

	for _, ch := range list {
		select {
		case ch <- ev:
		default:
		}
	}
}

// finish closes all subscriber channels for a job after its terminal
// event was delivered.
func (s *Service) finish(id string) {
	s.mu.Lock()
	list := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()

	for _, ch := range list {
		close(ch)
	}
}

func (s *Service) queuedCountLocked() int {
	n := 0
	for _, id := range s.order {
		if job := s.jobs[id]; job != nil && job.Status == domain.JobStatusQueued {
			n++
		}
	}
	return n
}

// refreshQueuePositions renumbers queued jobs and notifies their
// subscribers after a job leaves the queue.
func (s *Service) refreshQueuePositions() {
	type update struct {
		id       string
		position int
	}
	var updates []update

	s.mu.Lock()
	pos := 0
	for _, id := range s.order {
		job := s.jobs[id]
		if job == nil || job.Status != domain.JobStatusQueued {
			continue
		}
		pos++
		if job.QueuePosition != pos {
			job.QueuePosition = pos
			job.EstimatedWait = pos * domain.EstimatedSecondsPerJob
			updates = append(updates, update{id: id, position: pos})
		}
	}
	s.mu.Unlock()

	for _, u := range updates {
		s.publish(u.id, Event{Type: EventQueuePosition, JobID: u.id, Position: u.position})
		s.publish(u.id, Event{Type: EventEstimatedWait, JobID: u.id, Wait: u.position * domain.EstimatedSecondsPerJob})
	}
}

// janitor drops terminal jobs once they outlive the retention window.
func (s *Service) janitor() {
	interval := s.cfg.Retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now().Add(-s.cfg.Retention))
		}
	}
}

func (s *Service) sweep(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, id := range s.order {
		job := s.jobs[id]
		if job != nil && job.Status.Terminal() && !job.FinishedAt.IsZero() && job.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// runTask adapts one job to the worker pool.
type runTask struct {
	svc   *Service
	jobID string
}

// Process executes the job. It runs on a pool worker.
func (t *runTask) Process(ctx context.Context) error {
	s := t.svc

	s.mu.Lock()
	job, ok := s.jobs[t.jobID]
	if !ok || job.Status != domain.JobStatusQueued {
		// Canceled or swept while waiting in the queue.
		s.mu.Unlock()
		return nil
	}

	job.Status = domain.JobStatusRunning
	job.StartedAt = time.Now()
	job.QueuePosition = 0
	job.EstimatedWait = 0
	s.running++

	runCtx := ctx
	var cancel context.CancelFunc
	if s.cfg.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	s.cancels[t.jobID] = cancel
	s.mu.Unlock()
	defer cancel()

	s.publish(t.jobID, Event{Type: EventStatus, JobID: t.jobID, Content: string(domain.JobStatusRunning)})
	s.refreshQueuePositions()
	metrics.SimulationQueueDepth.Set(float64(s.pool.QueueDepth()))
	if s.bus != nil {
		_ = s.bus.Publish(ctx, event.NewSimulationEvent(
			event.SimulationStarted, t.jobID, string(domain.JobStatusRunning), 0, 0, ""))
	}

	html, runErr := s.runner.Run(runCtx, job.Input, func(ev Event) {
		ev.JobID = t.jobID
		s.publish(t.jobID, ev)
	})

	s.mu.Lock()
	delete(s.cancels, t.jobID)
	s.running--
	if runErr != nil {
		job.Status = domain.JobStatusFailed
		job.Error = runErr.Error()
	} else {
		job.Status = domain.JobStatusCompleted
		job.ResultHTML = html
	}
	job.FinishedAt = time.Now()
	duration := job.Duration()
	status := job.Status
	s.mu.Unlock()

	if runErr != nil {
		s.publish(t.jobID, Event{Type: EventError, JobID: t.jobID, Content: runErr.Error()})
	} else {
		s.publish(t.jobID, Event{Type: EventResult, JobID: t.jobID, Content: html})
	}
	s.publish(t.jobID, Event{Type: EventComplete, JobID: t.jobID})
	s.finish(t.jobID)

	if s.bus != nil {
		busType := event.SimulationCompleted
		errMsg := ""
		if runErr != nil {
			busType = event.SimulationFailed
			errMsg = runErr.Error()
		}
		_ = s.bus.Publish(ctx, event.NewSimulationEvent(
			busType, t.jobID, string(status), 0, duration.Milliseconds(), errMsg))
	}

	logger.FromContext(ctx).Info("simulation finished",
		"job_id", t.jobID,
		"status", status,
		"duration_ms", duration.Milliseconds())
	return nil
}
