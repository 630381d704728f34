package config

import "time"

// Default configuration values
const (
	DefaultPort            = 8080
	DefaultSimcMaxTime     = 300
	DefaultQueueWorkers    = 2
	DefaultQueueSize       = 64
	DefaultCacheMaxEntries = 500

	DefaultSessionDuration = 24 * time.Hour
	DefaultSimcTimeout     = 15 * time.Minute
	DefaultJobRetention    = time.Hour
)
