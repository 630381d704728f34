package event

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DeadLetterSchemaVersion identifies the on-disk entry format. Bump it when
// DeadLetterEntry changes so replays can distinguish generations.
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry is one JSONL line: an event that exhausted its retries.
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends exhausted events to a JSONL file so they survive
// a restart and can be replayed by hand.
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
}

// NewDeadLetterWriter opens (or creates) the dead-letter file for appending.
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f}, nil
}

// Write records an event that failed all publish attempts.
func (dlw *DeadLetterWriter) Write(event Event, attempts int, lastError error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now(),
		Event:         event,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	slog.Warn("event_dead_lettered",
		"event_type", event.Type,
		"attempts", attempts,
		"error", entry.LastError)

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	dlw.mu.Lock()
	defer dlw.mu.Unlock()
	_, err = dlw.file.Write(append(line, '\n'))
	return err
}

// Close closes the underlying file. The writer must not be used afterwards.
func (dlw *DeadLetterWriter) Close() error {
	return dlw.file.Close()
}
