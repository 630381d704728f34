package stream_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/stream"
)

func newTestHub(t *testing.T) *stream.Hub {
	t.Helper()
	hub := stream.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func waitForClients(t *testing.T, hub *stream.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n },
		time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, ch chan stream.Notification) stream.Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
		return stream.Notification{}
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := newTestHub(t)

	first := hub.Register(nil)
	second := hub.Register(nil)
	waitForClients(t, hub, 2)

	hub.Broadcast("simulation.completed", map[string]string{"job_id": "j1"})

	for _, client := range []*stream.Client{first, second} {
		n := receive(t, client.EventChannel)
		assert.Equal(t, "simulation.completed", n.Type)
		assert.NotEmpty(t, n.ID)
		assert.NotZero(t, n.Timestamp)
	}
}

func TestHub_EventFilter(t *testing.T) {
	hub := newTestHub(t)

	filtered := hub.Register([]string{"simulation.failed"})
	all := hub.Register(nil)
	waitForClients(t, hub, 2)

	hub.Broadcast("simulation.completed", nil)
	hub.Broadcast("simulation.failed", nil)

	// The unfiltered client sees both, the filtered one only failures.
	assert.Equal(t, "simulation.completed", receive(t, all.EventChannel).Type)
	assert.Equal(t, "simulation.failed", receive(t, all.EventChannel).Type)
	assert.Equal(t, "simulation.failed", receive(t, filtered.EventChannel).Type)

	select {
	case n := <-filtered.EventChannel:
		t.Fatalf("filtered client received unexpected notification %q", n.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := newTestHub(t)

	client := hub.Register(nil)
	waitForClients(t, hub, 1)

	hub.Unregister(client.ID)
	waitForClients(t, hub, 0)

	select {
	case _, ok := <-client.EventChannel:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unregister")
	}
}

func TestHub_StopClosesAllClients(t *testing.T) {
	hub := stream.NewHub()
	hub.Start()

	client := hub.Register(nil)
	waitForClients(t, hub, 1)

	hub.Stop()

	_, ok := <-client.EventChannel
	assert.False(t, ok)
	assert.Zero(t, hub.ClientCount())
}

func TestBridgeBus_ForwardsLifecycleEvents(t *testing.T) {
	hub := newTestHub(t)
	bus := event.NewMemoryBus()
	stream.BridgeBus(bus, hub)

	client := hub.Register(nil)
	waitForClients(t, hub, 1)

	ev := event.NewSimulationEvent(event.SimulationCompleted, "job-1", "COMPLETED", 0, 4200, "")
	require.NoError(t, bus.Publish(context.Background(), ev))

	n := receive(t, client.EventChannel)
	assert.Equal(t, string(event.SimulationCompleted), n.Type)
}
