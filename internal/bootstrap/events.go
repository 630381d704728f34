package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wowlab/guildsim/internal/config"
	"github.com/wowlab/guildsim/internal/event"
)

// InitializeEventSystem creates and configures the event bus and resilient
// publisher. It applies default values for retry configuration when the
// config leaves them unset, creates the dead-letter directory, and wires
// the dead-letter writer into the publisher.
// The returned writer must be closed on shutdown.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, *event.DeadLetterWriter, error) {
	eventBus := event.NewMemoryBus()

	maxRetries := cfg.EventMaxRetries
	if maxRetries == 0 {
		maxRetries = EventDefaultMaxRetries
	}

	retryDelay := cfg.EventRetryDelay
	if retryDelay == 0 {
		retryDelay = EventDefaultRetryDelay
	}

	deadLetterPath := cfg.EventDeadLetterPath
	if deadLetterPath == "" {
		deadLetterPath = EventDefaultDeadLetterPath
	}

	// Ensure dead-letter directory exists
	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	deadLetter, err := event.NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetter, err)
	}

	publisher := event.NewResilientPublisher(eventBus, event.ResilientConfig{
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		DeadLetter: deadLetter,
	})

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", maxRetries,
		"retry_delay", retryDelay,
		"deadletter_path", deadLetterPath)

	return eventBus, publisher, deadLetter, nil
}
