package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"APP_ADDR", "APP_ENV", "LOG_LEVEL", "DATABASE_URL", "MAX_BODY_BYTES", "CORS_ALLOWED_ORIGINS", "AUTO_ARCHIVE_INTERVAL", "JOB_QUEUE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.UsesDatabase())
	assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Zero(t, cfg.AutoArchiveInterval)
	assert.Equal(t, 32, cfg.JobQueueSize)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/payroll")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("AUTO_ARCHIVE_INTERVAL", "12h")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("JOB_QUEUE_SIZE", "not-a-number")

	cfg := FromEnv()
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.AutoArchiveInterval)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 32, cfg.JobQueueSize)
}

func TestValidate(t *testing.T) {
	base := Config{LogLevel: "info", MaxBodyBytes: 4096, JobQueueSize: 4}
	require.NoError(t, base.Validate())

	cases := map[string]func(*Config){
		"production without database": func(c *Config) { c.Environment = "production" },
		"unknown log level":           func(c *Config) { c.LogLevel = "verbose" },
		"tiny body limit":             func(c *Config) { c.MaxBodyBytes = 10 },
		"negative interval":           func(c *Config) { c.AutoArchiveInterval = -time.Minute },
		"empty queue":                 func(c *Config) { c.JobQueueSize = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
