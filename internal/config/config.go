package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains all runtime settings for the communication bridge service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string
	AllowAnyOrigin   bool

	BrainMode    string
	BrainHTTPURL string
	BrainTimeout time.Duration

	ConfidenceThreshold float64

	StoreMode   string
	DatabaseURL string
	SQLitePath  string

	ContextWindow    int
	ContextColdLimit int
}

// Load reads a local .env file when present, then environment variables, and
// applies safe defaults.
func Load() (Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	cfg := Config{
		BindAddr:            envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:    envOrDefault("APP_METRICS_NAMESPACE", "bridged"),
		BrainMode:           envOrDefault("BRAIN_MODE", "auto"),
		BrainHTTPURL:        trimmedEnv("BRAIN_HTTP_URL"),
		StoreMode:           envOrDefault("STORE", "auto"),
		DatabaseURL:         trimmedEnv("DATABASE_URL"),
		SQLitePath:          envOrDefault("SQLITE_PATH", "bridged.db"),
		ShutdownTimeout:     15 * time.Second,
		BrainTimeout:        20 * time.Second,
		ConfidenceThreshold: 0.7,
		ContextWindow:       10,
		ContextColdLimit:    5,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainTimeout, err = durationFromEnv("BRAIN_TIMEOUT", cfg.BrainTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.ConfidenceThreshold, err = floatFromEnv("CONFIDENCE_THRESHOLD", cfg.ConfidenceThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.ContextWindow, err = intFromEnv("CONTEXT_WINDOW", cfg.ContextWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.ContextColdLimit, err = intFromEnv("CONTEXT_COLD_LIMIT", cfg.ContextColdLimit)
	if err != nil {
		return Config{}, err
	}

	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1 {
		return Config{}, fmt.Errorf("CONFIDENCE_THRESHOLD must be in (0, 1]")
	}
	if cfg.ContextWindow <= 0 {
		return Config{}, fmt.Errorf("CONTEXT_WINDOW must be positive")
	}
	if cfg.ContextColdLimit <= 0 {
		return Config{}, fmt.Errorf("CONTEXT_COLD_LIMIT must be positive")
	}
	if cfg.BrainTimeout <= 0 {
		return Config{}, fmt.Errorf("BRAIN_TIMEOUT must be positive")
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

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
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
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(trimmedEnv(key))
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
