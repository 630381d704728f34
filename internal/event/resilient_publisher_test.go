package event

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBus is a test double for event.Bus
type mockBus struct {
	mu         sync.Mutex
	calls      []Event
	shouldFail func(attempt int) bool
}

func (m *mockBus) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	m.calls = append(m.calls, event)
	callCount := len(m.calls)
	m.mu.Unlock()

	if m.shouldFail != nil && m.shouldFail(callCount) {
		return errors.New("mock publish error")
	}
	return nil
}

func (m *mockBus) Subscribe(eventType Type, handler Handler) {}

func (m *mockBus) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestResilientPublisher_SuccessfulPublish(t *testing.T) {
	bus := &mockBus{}
	rp := NewResilientPublisher(bus, ResilientConfig{MaxRetries: 3, RetryDelay: 10 * time.Millisecond})

	err := rp.Publish(context.Background(), Event{Type: Type("test_event")})
	require.NoError(t, err)
	assert.Equal(t, 1, bus.CallCount())
}

func TestResilientPublisher_RetrySuccess(t *testing.T) {
	bus := &mockBus{
		shouldFail: func(attempt int) bool { return attempt == 1 },
	}
	rp := NewResilientPublisher(bus, ResilientConfig{MaxRetries: 3, RetryDelay: 10 * time.Millisecond})

	err := rp.Publish(context.Background(), Event{Type: Type("test_event")})
	require.NoError(t, err, "caller is insulated from the initial failure")

	assert.Eventually(t, func() bool { return bus.CallCount() == 2 },
		time.Second, 10*time.Millisecond, "initial attempt plus one retry")
}

func TestResilientPublisher_ExhaustionWritesDeadLetter(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"
	dl, err := NewDeadLetterWriter(tmpFile)
	require.NoError(t, err)
	defer dl.Close()

	bus := &mockBus{
		shouldFail: func(attempt int) bool { return true },
	}
	rp := NewResilientPublisher(bus, ResilientConfig{
		MaxRetries: 2,
		RetryDelay: 10 * time.Millisecond,
		DeadLetter: dl,
	})

	err = rp.Publish(context.Background(), Event{
		Type:    Type("doomed_event"),
		Payload: map[string]interface{}{"id": "456"},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		content, readErr := os.ReadFile(tmpFile)
		return readErr == nil && len(content) > 0
	}, 2*time.Second, 20*time.Millisecond, "dead-letter entry should appear")

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, Type("doomed_event"), entry.Event.Type)
	assert.Equal(t, 2, entry.Attempts)
	assert.NotEmpty(t, entry.LastError)
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 8*time.Second, CalculateRetryDelay(base, 3))
}
