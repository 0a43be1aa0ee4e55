package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "NODE_ENV", "PORT", "CLIENT_URL", "DATABASE_URL", "MONGODB_URI",
		"QUEUE_BACKEND", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "SERVE_FRONTEND"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
	assert.Equal(t, "mongodb://localhost:27017/attendance", cfg.DatabaseURL)
	assert.Equal(t, "memory", cfg.QueueBackend)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, int64(10<<20), cfg.BodyLimitBytes)
	assert.True(t, cfg.ServeFrontend)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/att")
	t.Setenv("RATE_LIMIT_MAX", "7")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("SERVE_FRONTEND", "false")

	cfg := FromEnv()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mongodb://db:27017/att", cfg.DatabaseURL)
	assert.Equal(t, 7, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.ServeFrontend)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "lots")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")
	t.Setenv("SERVE_FRONTEND", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.True(t, cfg.ServeFrontend)
}
