// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server and the CLI.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// OpenAIAPIKey authenticates against the chat completion API. Optional:
	// when empty the AI is treated as unavailable and generation uses the
	// offline planner.
	OpenAIAPIKey string

	// OpenAIBaseURL points the client at an OpenAI-compatible server.
	// Empty selects the public API.
	OpenAIBaseURL string

	// AIModel is the chat model identifier. Defaults to "gpt-4o".
	AIModel string

	// CacheTTL is how long a generated itinerary is reused for identical
	// preferences. Defaults to 15m.
	CacheTTL time.Duration

	// RateLimit and RateWindow bound AI generation calls per fixed window.
	// Default to 10 per 60s.
	RateLimit  int
	RateWindow time.Duration

	// RedisURL, when set, moves the itinerary cache into Redis so several
	// API processes share it. Empty keeps the cache in process memory.
	RedisURL string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// ClientRPS is the sustained per-client HTTP request rate. Defaults to 5.
	ClientRPS float64

	// PublicBaseURL is the origin printed in exported documents.
	// Defaults to "http://localhost:8080".
	PublicBaseURL string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every variable whose value could not be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		AIModel:       getEnv("AI_MODEL", "gpt-4o"),
		RedisURL:      os.Getenv("REDIS_URL"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
	}

	var invalid []string
	p := parser{invalid: &invalid}
	cfg.CacheTTL = p.duration("CACHE_TTL", 15*time.Minute)
	cfg.RateLimit = p.positiveInt("RATE_LIMIT", 10)
	cfg.RateWindow = p.duration("RATE_WINDOW", 60*time.Second)
	cfg.MaxBodyBytes = int64(p.positiveInt("MAX_BODY_BYTES", 1<<20))
	cfg.ClientRPS = p.positiveFloat("CLIENT_RPS", 5)

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "LOG_LEVEL")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// parser reads typed values and records the names of unparsable ones.
type parser struct {
	invalid *[]string
}

func (p parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return d
}

func (p parser) positiveInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return n
}

func (p parser) positiveFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return f
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
