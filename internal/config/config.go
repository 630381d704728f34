package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	ServiceName string
	Version     string
	LogLevel    string
	LogFormat   string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Session auth
	SessionSecret    string
	SessionDuration  time.Duration
	FrontendURL      string
	OAuthRedirectURL string

	// TrustedProxies lists proxy addresses whose X-Forwarded-For is honored
	TrustedProxies []string

	// Battle.net API credentials
	BlizzardClientID     string
	BlizzardClientSecret string
	BlizzardRegion       string
	DefaultLocale        string

	// SimulationCraft execution
	SimcPath        string
	SimcMaxTime     int
	SimcTimeout     time.Duration
	QueueWorkers    int
	QueueSize       int
	JobRetention    time.Duration
	CacheMaxEntries int

	// Optional Discord notifications
	DiscordToken     string
	DiscordChannelID string

	// Event delivery retries and dead-letter capture
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServiceName: getEnv("SERVICE_NAME", "guildsim"),
		Version:     getEnv("VERSION", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "guildsim"),

		SessionSecret:    getEnv("SESSION_SECRET", ""),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
		OAuthRedirectURL: getEnv("OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
		TrustedProxies:   getEnvList("TRUSTED_PROXIES"),

		BlizzardClientID:     getEnv("BLIZZARD_CLIENT_ID", ""),
		BlizzardClientSecret: getEnv("BLIZZARD_CLIENT_SECRET", ""),
		BlizzardRegion:       getEnv("BLIZZARD_REGION", "us"),
		DefaultLocale:        getEnv("DEFAULT_LOCALE", "en_US"),

		SimcPath: getEnv("SIMC_PATH", "simc"),

		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		DiscordChannelID: getEnv("DISCORD_CHANNEL_ID", ""),

		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", ""),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.SimcMaxTime, err = getEnvInt("SIMC_MAX_TIME", DefaultSimcMaxTime); err != nil {
		return nil, err
	}
	if cfg.QueueWorkers, err = getEnvInt("QUEUE_WORKERS", DefaultQueueWorkers); err != nil {
		return nil, err
	}
	if cfg.QueueSize, err = getEnvInt("QUEUE_SIZE", DefaultQueueSize); err != nil {
		return nil, err
	}
	if cfg.CacheMaxEntries, err = getEnvInt("CACHE_MAX_ENTRIES", DefaultCacheMaxEntries); err != nil {
		return nil, err
	}

	if cfg.EventMaxRetries, err = getEnvInt("EVENT_MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	cfg.EventRetryDelay = getEnvDuration("EVENT_RETRY_DELAY", 0)

	cfg.SessionDuration = getEnvDuration("SESSION_DURATION", DefaultSessionDuration)
	cfg.SimcTimeout = getEnvDuration("SIMC_TIMEOUT", DefaultSimcTimeout)
	cfg.JobRetention = getEnvDuration("JOB_RETENTION", DefaultJobRetention)

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvList retrieves a comma-separated environment variable as a slice
func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
