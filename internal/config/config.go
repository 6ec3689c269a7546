package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr            string
	BackendBaseURL      string
	BackendTimeout      time.Duration
	RedisAddr           string
	RedisPassword       string
	SessionSecret       string
	SessionIssuer       string
	SessionTTL          time.Duration
	ChatReplyDelay      time.Duration
	ChatRefreshInterval time.Duration
	ChatPurgeAfter      time.Duration
	ChatJobsEnabled     bool
}

func Load() Config {
	return Config{
		HTTPAddr:            getenv("HTTP_ADDR", ":3000"),
		BackendBaseURL:      getenv("BACKEND_BASE_URL", "http://127.0.0.1:8000"),
		BackendTimeout:      getenvDuration("BACKEND_TIMEOUT", 10*time.Second),
		RedisAddr:           getenv("REDIS_ADDR", ""),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		SessionSecret:       getenv("SESSION_SECRET", "dev-secret"),
		SessionIssuer:       getenv("SESSION_ISSUER", "aiagents-webui"),
		SessionTTL:          getenvDuration("SESSION_TTL", 24*time.Hour),
		ChatReplyDelay:      getenvDuration("CHAT_REPLY_DELAY", time.Second),
		ChatRefreshInterval: getenvDuration("CHAT_REFRESH_INTERVAL", 5*time.Second),
		ChatPurgeAfter:      getenvDuration("CHAT_PURGE_AFTER", 24*time.Hour),
		ChatJobsEnabled:     getenvBool("CHAT_JOBS_ENABLED", true),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
