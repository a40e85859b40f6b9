package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port     int
	Env      string
	LogLevel string

	// CORS
	AllowedOrigins []string

	// Database URLs
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string

	// Worker pool
	WorkerCount int
	QueueSize   int
	GameTimeout time.Duration

	// Engine
	StrictValidation bool

	// Gateway circuit breaker
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnvInt("PORT", 8080),
		Env:      getEnv("ENV", "development"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		WorkerCount: getEnvInt("WORKER_COUNT", 8),
		QueueSize:   getEnvInt("QUEUE_SIZE", 100),
		GameTimeout: getEnvDuration("GAME_TIMEOUT", 2*time.Minute),

		StrictValidation: getEnvBool("STRICT_VALIDATION", false),

		BreakerFailures: uint32(getEnvInt("BREAKER_FAILURES", 5)),
		BreakerTimeout:  getEnvDuration("BREAKER_TIMEOUT", 30*time.Second),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the production logger and settings apply
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
