package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env              string
	Port             string
	ClientURL        string
	DatabaseURL      string
	LogLevel         string
	RedisAddr        string
	NatsURL          string
	NatsToken        string
	QueueBackend     string
	RateLimitBackend string
	RateLimitMax     int
	RateLimitWindow  time.Duration
	BodyLimitBytes   int64
	ServeFrontend    bool
}

// Load reads an optional .env file and returns config populated from the environment with sensible defaults.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("could not read .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the current process environment only.
func FromEnv() App {
	return App{
		Env:              getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		Port:             getEnv("PORT", "5000"),
		ClientURL:        getEnv("CLIENT_URL", "http://localhost:3000"),
		DatabaseURL:      getEnv("DATABASE_URL", getEnv("MONGODB_URI", "mongodb://localhost:27017/attendance")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		NatsURL:          getEnv("NATS_URL", "nats://localhost:4222"),
		NatsToken:        getEnv("NATS_TOKEN", ""),
		QueueBackend:     getEnv("QUEUE_BACKEND", "memory"),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		RateLimitMax:     intEnv("RATE_LIMIT_MAX", 100),
		RateLimitWindow:  durationEnv("RATE_LIMIT_WINDOW", 15*time.Minute),
		BodyLimitBytes:   int64(intEnv("BODY_LIMIT_BYTES", 10<<20)),
		ServeFrontend:    boolEnv("SERVE_FRONTEND", true),
	}
}

// IsProduction reports whether the service runs in production mode.
func (a App) IsProduction() bool {
	return a.Env == "production" || a.Env == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Warnf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Warnf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Warnf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
