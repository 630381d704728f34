package bootstrap

import "time"

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting guildsim"
	LogMsgConfigurationLoaded = "Configuration loaded"
)

// Event system defaults
const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized    = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir = "failed to create dead-letter directory"
	LogMsgFailedCreateDeadLetter    = "failed to create dead-letter writer"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgStreamBridgeRegistered     = "Stream notification bridge registered"
	LogMsgDiscordNotifierRegistered  = "Discord notifier registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer       = "Shutting down server..."
	LogMsgServerStopped            = "Server stopped"
	LogMsgServerForcedShutdown     = "Server forced to shutdown"
	LogMsgNotifierShutdownFailed   = "Discord notifier shutdown failed"
	LogMsgDeadLetterShutdownFailed = "Dead-letter writer shutdown failed"
)
