package event

import (
	"context"
	"time"

	"github.com/wowlab/guildsim/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	DeadLetter *DeadLetterWriter
}

// ResilientPublisher wraps a Bus with background retries and dead-letter
// capture. Callers get nil back as soon as the event is accepted; delivery
// failures are retried off the request path.
type ResilientPublisher struct {
	inner  Bus
	config ResilientConfig
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	if config.MaxRetries == 0 {
		config.MaxRetries = RetryMaxAttempts
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = RetryInitialDelay
	}
	return &ResilientPublisher{inner: inner, config: config}
}

// Publish attempts to publish an event, retrying in the background on
// failure. The original context may be request-scoped, so retries run on a
// detached context.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	go p.retryLoop(event, err)

	return nil
}

func (p *ResilientPublisher) retryLoop(event Event, lastErr error) {
	ctx := context.Background()
	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		time.Sleep(CalculateRetryDelay(p.config.RetryDelay, attempt))

		if err := p.inner.Publish(ctx, event); err != nil {
			lastErr = err
			continue
		}
		log.Info(LogMsgEventRetrySucceeded,
			"event_type", event.Type,
			"attempt", attempt)
		return
	}

	log.Warn(LogMsgEventRetryExhausted, "event_type", event.Type)
	if p.config.DeadLetter != nil {
		if err := p.config.DeadLetter.Write(event, p.config.MaxRetries, lastErr); err != nil {
			log.Error(LogMsgDeadLetterWriteFailed, "error", err)
		}
	}
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}
