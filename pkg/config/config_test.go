package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "file:postpulse.db", cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, time.Minute, cfg.EnginePollInterval)
	assert.Equal(t, 5*time.Minute, cfg.EngineErrorBackoff)
	assert.Equal(t, 5*time.Second, cfg.SignalTimeout)
	assert.Equal(t, 90, cfg.HistoryRetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.HistoryCleanupInterval)
	assert.Equal(t, "0.0.0.0:8081", cfg.WorkerHealthAddr)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/postpulse")
	t.Setenv("ENGINE_POLL_INTERVAL", "30s")
	t.Setenv("HISTORY_RETENTION_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "postgres://localhost/postpulse", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.EnginePollInterval)
	assert.Equal(t, 30, cfg.HistoryRetentionDays)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENGINE_POLL_INTERVAL", "soon")
	t.Setenv("HISTORY_RETENTION_DAYS", "many")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.EnginePollInterval)
	assert.Equal(t, 90, cfg.HistoryRetentionDays)
}

func TestConfig_EnvironmentChecks(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.AppEnv = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}
