package httpclient

import (
	"fmt"
	"time"
)

// Kind classifies a failed request. Retry decisions and user-facing error
// mapping both key off it.
type Kind int

const (
	// KindNetwork covers connection resets, DNS failures and short reads.
	KindNetwork Kind = iota
	// KindTimeout covers deadline and transport timeouts.
	KindTimeout
	// KindServer covers 5xx responses.
	KindServer
	// KindClient covers 4xx responses other than 429 and malformed requests.
	KindClient
	// KindRateLimited covers 429 responses.
	KindRateLimited
	// KindCanceled covers caller-initiated context cancellation.
	KindCanceled
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindRateLimited:
		return "rate_limited"
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the failure type every client method returns. StatusCode is zero
// for transport-level failures; RetryAfter is set only for 429 responses
// that carried the header.
type Error struct {
	Kind       Kind
	StatusCode int
	URL        string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error: %s returned status %d", e.Kind, e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.URL)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt can reasonably succeed.
// Client errors and cancellations never retry.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout, KindServer, KindRateLimited:
		return true
	default:
		return false
	}
}
