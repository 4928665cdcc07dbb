package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the task tracker service.
type Config struct {
	BindAddr         string
	DataDir          string
	PublicBaseURL    string
	ReplyEndpoint    string
	DatabaseURL      string
	MetricsNamespace string

	QueueBuffer     int
	DialogTTL       time.Duration
	ShutdownTimeout time.Duration
	AllowAnyOrigin  bool
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		DataDir:          envOrDefault("APP_DATA_DIR", "data"),
		PublicBaseURL:    strings.TrimRight(envOrDefault("APP_PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		ReplyEndpoint:    envTrimmed("REPLY_ENDPOINT"),
		DatabaseURL:      envTrimmed("DATABASE_URL"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "taskline"),
		QueueBuffer:      128,
		DialogTTL:        10 * time.Minute,
		ShutdownTimeout:  15 * time.Second,
		AllowAnyOrigin:   false,
	}

	var err error
	cfg.QueueBuffer, err = intFromEnv("APP_QUEUE_BUFFER", cfg.QueueBuffer)
	if err != nil {
		return Config{}, err
	}
	cfg.DialogTTL, err = durationFromEnv("APP_DIALOG_TTL", cfg.DialogTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.QueueBuffer <= 0 {
		return Config{}, fmt.Errorf("APP_QUEUE_BUFFER must be positive")
	}
	if cfg.DialogTTL < 30*time.Second {
		return Config{}, fmt.Errorf("APP_DIALOG_TTL must be at least 30s")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return Config{}, fmt.Errorf("APP_DATA_DIR must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
