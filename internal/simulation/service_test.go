package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
)

// fakeRunner emits canned events and returns a canned result. When block
// is set it waits for release or context cancellation first.
type fakeRunner struct {
	events []Event
	html   string
	err    error
	block  chan struct{}
}

func (r *fakeRunner) Run(ctx context.Context, input string, emit func(Event)) (string, error) {
	for _, ev := range r.events {
		emit(ev)
	}
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return r.html, r.err
}

func newTestService(t *testing.T, runner Runner, cfg Config) *Service {
	t.Helper()
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 8
	}
	svc := NewService(cfg, runner, event.NewMemoryBus())
	svc.Start()
	t.Cleanup(svc.Stop)
	return svc
}

func TestSubmit_EmptyInput(t *testing.T) {
	svc := newTestService(t, &fakeRunner{}, Config{})

	_, err := svc.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_QueuesJob(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{}), html: "<html/>"}
	svc := newTestService(t, runner, Config{})
	defer close(runner.block)

	job, err := svc.Submit(context.Background(), "rogue=\"Shadowstep\"\n")
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, domain.JobStatusQueued, job.Status)
	assert.Equal(t, 1, job.QueuePosition)
	assert.Equal(t, domain.EstimatedSecondsPerJob, job.EstimatedWait)
	assert.False(t, job.SubmittedAt.IsZero())
}

func TestJobLifecycle_Completes(t *testing.T) {
	runner := &fakeRunner{html: "<html>report</html>"}
	svc := newTestService(t, runner, Config{})

	job, err := svc.Submit(context.Background(), "input")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, getErr := svc.Get(job.ID)
		return getErr == nil && got.Status == domain.JobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	got, err := svc.Get(job.ID)
	require.NoError(t, err)
	assert.False(t, got.StartedAt.IsZero())
	assert.False(t, got.FinishedAt.IsZero())

	html, err := svc.Result(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "<html>report</html>", html)
}

func TestJobLifecycle_Fails(t *testing.T) {
	runner := &fakeRunner{err: errors.New("simc exploded")}
	svc := newTestService(t, runner, Config{})

	job, err := svc.Submit(context.Background(), "input")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, getErr := svc.Get(job.ID)
		return getErr == nil && got.Status == domain.JobStatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	got, err := svc.Get(job.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Error, "simc exploded")

	_, err = svc.Result(job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFinished)
}

func TestGet_UnknownJob(t *testing.T) {
	svc := newTestService(t, &fakeRunner{}, Config{})

	_, err := svc.Get("no-such-job")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	_, err = svc.Result("no-such-job")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestResult_BeforeCompletion(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	svc := newTestService(t, runner, Config{})
	defer close(runner.block)

	job, err := svc.Submit(context.Background(), "input")
	require.NoError(t, err)

	_, err = svc.Result(job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFinished)
}

func TestSubmit_QueueFull(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	svc := newTestService(t, runner, Config{Workers: 1, QueueSize: 1})
	defer close(runner.block)

	// First job occupies the worker, second fills the queue.
	_, err := svc.Submit(context.Background(), "a")
	require.NoError(t, err)

	// Give the worker time to pick up the first job.
	require.Eventually(t, func() bool {
		return svc.Queue().Running == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = svc.Submit(context.Background(), "b")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "c")
	assert.ErrorIs(t, err, domain.ErrQueueFull)
}

func TestSubscribe_StreamsProgress(t *testing.T) {
	runner := &fakeRunner{
		events: []Event{
			{Type: EventStdout, Content: "Generating Baseline: 50%", Progress: 50},
			{Type: EventStdout, Content: "Generating Baseline: 100%", Progress: 100},
		},
		html: "<html/>",
	}
	svc := NewService(Config{Workers: 1, QueueSize: 8}, runner, event.NewMemoryBus())

	// Subscribe before starting the workers so no events are missed.
	job, err := svc.Submit(context.Background(), "input")
	require.NoError(t, err)

	ch, cancel, err := svc.Subscribe(job.ID)
	require.NoError(t, err)
	defer cancel()

	svc.Start()
	defer svc.Stop()

	var got []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				types := make([]EventType, len(got))
				for i, e := range got {
					types[i] = e.Type
				}
				assert.Contains(t, types, EventStatus)
				assert.Contains(t, types, EventStdout)
				assert.Contains(t, types, EventResult)
				require.NotEmpty(t, got)
				assert.Equal(t, EventComplete, got[len(got)-1].Type)
				return
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func TestSubscribe_FinishedJobReplaysTerminalEvents(t *testing.T) {
	runner := &fakeRunner{html: "<html/>"}
	svc := newTestService(t, runner, Config{})

	job, err := svc.Submit(context.Background(), "input")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, getErr := svc.Get(job.ID)
		return getErr == nil && got.Status.Terminal()
	}, 2*time.Second, 10*time.Millisecond)

	ch, cancel, err := svc.Subscribe(job.ID)
	require.NoError(t, err)
	defer cancel()

	var got []Event
	for ev := range ch {
		got = append(got, ev)
	}
	require.Len(t, got, 3)
	assert.Equal(t, EventStatus, got[0].Type)
	assert.Equal(t, string(domain.JobStatusCompleted), got[0].Content)
	assert.Equal(t, EventResult, got[1].Type)
	assert.Equal(t, EventComplete, got[2].Type)
}

func TestSubscribe_UnknownJob(t *testing.T) {
	svc := newTestService(t, &fakeRunner{}, Config{})

	_, _, err := svc.Subscribe("no-such-job")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestCancel_QueuedJob(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	svc := newTestService(t, runner, Config{Workers: 1, QueueSize: 4})
	defer close(runner.block)

	_, err := svc.Submit(context.Background(), "running")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return svc.Queue().Running == 1
	}, 2*time.Second, 10*time.Millisecond)

	queued, err := svc.Submit(context.Background(), "queued")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(queued.ID))

	got, err := svc.Get(queued.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, got.Status)
	assert.Equal(t, "canceled", got.Error)
}

func TestCancel_UnknownJob(t *testing.T) {
	svc := newTestService(t, &fakeRunner{}, Config{})
	assert.ErrorIs(t, svc.Cancel("no-such-job"), domain.ErrJobNotFound)
}

func TestSweep_DropsExpiredTerminalJobs(t *testing.T) {
	runner := &fakeRunner{html: "<html/>"}
	svc := newTestService(t, runner, Config{})

	job, err := svc.Submit(context.Background(), "input")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		got, getErr := svc.Get(job.ID)
		return getErr == nil && got.Status.Terminal()
	}, 2*time.Second, 10*time.Millisecond)

	// A cutoff in the past keeps the job.
	svc.sweep(time.Now().Add(-time.Hour))
	_, err = svc.Get(job.ID)
	require.NoError(t, err)

	// A cutoff in the future drops it.
	svc.sweep(time.Now().Add(time.Hour))
	_, err = svc.Get(job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}
