// Package worker provides a fixed-size worker pool with a bounded queue.
// Simulation runs are queued here so a burst of submissions cannot fork an
// unbounded number of simc processes.
package worker

import (
	"context"
	"sync"

	"github.com/wowlab/guildsim/internal/logger"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Process(ctx context.Context) error
}

// Pool executes jobs on a fixed number of workers.
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(workers, queueSize int) *Pool {
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			ctx := context.Background()
			if err := job.Process(ctx); err != nil {
				logger.FromContext(ctx).Error("worker job failed", "error", err)
			}
		case <-p.quit:
			return
		}
	}
}

// TryEnqueue adds a job without blocking. It reports false when the queue
// is full so callers can reject instead of stalling request handlers.
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// QueueDepth reports how many jobs are waiting for a worker.
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// Workers reports the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
