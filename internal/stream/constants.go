package stream

import "time"

// Hub buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 16

	// ClientEventBuffer is the per-client notification buffer
	ClientEventBuffer = 64
)

// WebSocket timing and limits
const (
	// writeWait bounds a single socket write
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong before dropping the peer
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound messages; pasted profiles are large
	// but bounded
	maxMessageSize = 1 << 20
)
