// Package config loads and validates environment variables at startup.
// Fail-fast: a malformed value is reported before any screen runs.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the deployed gateway used when RESUMATCH_API_URL is unset.
const DefaultAPIURL = "https://c70935dw4m.execute-api.us-east-1.amazonaws.com/mili"

// Config holds all runtime configuration for the client.
type Config struct {
	APIURL          string
	Environment     string // development, staging, production
	Debug           bool
	UseMockFallback bool

	DefaultTimeout time.Duration
	UploadTimeout  time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	RedisURL  string // optional, shares probe results between runs
	HealthTTL time.Duration
	ProbeSpec string // cron spec for the watch command, ex: "@every 1m"

	NotifyDuration time.Duration
	Locale         string // BCP 47 tag used for name sorting

	TelegramToken  string
	TelegramChatID string
	DiscordWebhook string
}

// LoadDotEnv loads variables from the given files without overriding the
// ones already set in the environment. Missing files are not an error.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Printf("[config] could not load %s: %v", p, err)
		}
	}
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	apiURL := strings.TrimRight(getenv("RESUMATCH_API_URL"), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	u, err := url.Parse(apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("RESUMATCH_API_URL must be an absolute URL, got %q", apiURL)
	}

	cfg := &Config{
		APIURL:          apiURL,
		Environment:     orDefault(getenv("RESUMATCH_ENVIRONMENT"), "development"),
		Debug:           getenv("RESUMATCH_DEBUG") == "true",
		UseMockFallback: getenv("RESUMATCH_USE_MOCK_FALLBACK") == "true",
		RedisURL:        getenv("RESUMATCH_REDIS_URL"),
		ProbeSpec:       orDefault(getenv("RESUMATCH_PROBE_SPEC"), "@every 1m"),
		Locale:          orDefault(getenv("RESUMATCH_LOCALE"), "und"),
		TelegramToken:   getenv("TELEGRAM_TOKEN"),
		TelegramChatID:  getenv("TELEGRAM_CHAT_ID"),
		DiscordWebhook:  getenv("DISCORD_WEBHOOK_URL"),
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"RESUMATCH_DEFAULT_TIMEOUT", 30 * time.Second, &cfg.DefaultTimeout},
		{"RESUMATCH_UPLOAD_TIMEOUT", 60 * time.Second, &cfg.UploadTimeout},
		{"RESUMATCH_RETRY_DELAY", time.Second, &cfg.RetryDelay},
		{"RESUMATCH_HEALTH_TTL", 5 * time.Minute, &cfg.HealthTTL},
		{"RESUMATCH_NOTIFY_DURATION", 6 * time.Second, &cfg.NotifyDuration},
	}
	for _, d := range durations {
		v, err := parseDuration(getenv(d.key), d.def)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}

	cfg.MaxRetries = 3
	if s := getenv("RESUMATCH_MAX_RETRIES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RESUMATCH_MAX_RETRIES must be a positive integer, got %q", s)
		}
		cfg.MaxRetries = v
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("30s") or bare milliseconds ("30000").
func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	if ms, err := strconv.Atoi(s); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("must be positive, got %q", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %q", s)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
