package event

import "time"

// EventSchemaVersion is the current envelope schema version.
const EventSchemaVersion = "1.0"

// Retry defaults used when the config leaves them unset.
const (
	RetryInitialDelay = 2 * time.Second
	RetryMaxAttempts  = 5
)

// DeadLetterFilePermissions is the mode for newly created dead-letter files.
const DeadLetterFilePermissions = 0644

// Log message constants
const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"

	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay returns the exponential backoff delay for an attempt:
// baseDelay * 2^(attempt-1).
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
