package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	TelegramToken    string
	GoogleAPIKey     string
	DatabaseURL      string
	Port             string
	WebhookURL       string
	WebhookSecret    string
	PhoneRegion      string
	RadiusMeters     float64
	MaxResults       int
	RateLimitSend    RateLimitConfig
	RateLimitWebhook RateLimitConfig
	RequestTimeout   time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		GoogleAPIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getEnv("PORT", "8080"),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		PhoneRegion:    getEnv("DEFAULT_PHONE_REGION", "UZ"),
		RadiusMeters:   parseFloat(getEnv("SEARCH_RADIUS_M", "2000"), 2000),
		MaxResults:     parseInt(getEnv("MAX_RESULTS", "10"), 10),
		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "20s")),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN must be set")
	}
	if cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY must be set")
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEND", "25/sec"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEND value: %w", err)
	}
	cfg.RateLimitSend = rl

	rl, err = parseRateLimit(getEnv("RATE_LIMIT_WEBHOOK", "30/sec"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WEBHOOK value: %w", err)
	}
	cfg.RateLimitWebhook = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 20 * time.Second
	}
	return d
}

func parseFloat(input string, fallback float64) float64 {
	f, err := strconv.ParseFloat(input, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
