// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database. A sqlite:// or file path URL selects the embedded database;
	// a postgres:// URL selects PostgreSQL.
	DatabaseURL string

	// Redis. Empty disables the persistent milestone store.
	RedisURL string

	// RabbitMQ. Empty disables execution event publishing.
	RabbitMQURL string

	// Engine
	EnginePollInterval time.Duration
	EngineErrorBackoff time.Duration
	SignalTimeout      time.Duration
	EngineStatsInterval time.Duration

	// History retention
	HistoryRetentionDays   int
	HistoryCleanupInterval time.Duration

	// Worker
	WorkerHealthAddr string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", "file:postpulse.db"),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		EnginePollInterval:  getDurationEnv("ENGINE_POLL_INTERVAL", time.Minute),
		EngineErrorBackoff:  getDurationEnv("ENGINE_ERROR_BACKOFF", 5*time.Minute),
		SignalTimeout:       getDurationEnv("SIGNAL_TIMEOUT", 5*time.Second),
		EngineStatsInterval: getDurationEnv("ENGINE_STATS_INTERVAL", 30*time.Second),

		HistoryRetentionDays:   getIntEnv("HISTORY_RETENTION_DAYS", 90),
		HistoryCleanupInterval: getDurationEnv("HISTORY_CLEANUP_INTERVAL", 24*time.Hour),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
