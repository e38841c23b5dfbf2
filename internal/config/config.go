package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvCDXAPI            = "URLREVIVE_CDX_API"
	EnvWebAPI            = "URLREVIVE_WEB_API"
	EnvMementoAPI        = "URLREVIVE_MEMENTO_API"
	EnvConnectTimeout    = "URLREVIVE_CONNECT_TIMEOUT"
	EnvReadTimeout       = "URLREVIVE_READ_TIMEOUT"
	EnvDefaultFetchLimit = "URLREVIVE_DEFAULT_FETCH_LIMIT"
	EnvRateLimitCalls    = "URLREVIVE_RATE_LIMIT_CALLS"
	EnvRateLimitPeriod   = "URLREVIVE_RATE_LIMIT_PERIOD"
	EnvRateLimitBackoff  = "URLREVIVE_RATE_LIMIT_BACKOFF"
	EnvLogLevel          = "URLREVIVE_LOG_LEVEL"
	EnvUserAgent         = "URLREVIVE_USER_AGENT"
)

const (
	defaultCDXAPI     = "https://web.archive.org/cdx/search/cdx"
	defaultWebAPI     = "https://web.archive.org/web"
	defaultMementoAPI = "https://timetravel.mementoweb.org/timemap/json"
	defaultUserAgent  = "urlrevive/1.0"
)

// Config holds every tunable endpoint and timeout.
// It is built once by Load and must not be modified afterwards.
type Config struct {
	CDXAPI     string // snapshot index endpoint
	WebAPI     string // archive playback base URL
	MementoAPI string // Memento aggregator timemap endpoint

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	DefaultFetchLimit int

	RateLimitCalls   int           // calls allowed per RateLimitPeriod
	RateLimitPeriod  time.Duration
	RateLimitBackoff time.Duration // fixed sleep when the throttle trips

	LogLevel  log.Level
	UserAgent string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		CDXAPI:            defaultCDXAPI,
		WebAPI:            defaultWebAPI,
		MementoAPI:        defaultMementoAPI,
		ConnectTimeout:    5 * time.Second,
		ReadTimeout:       30 * time.Second,
		DefaultFetchLimit: 10,
		RateLimitCalls:    15,
		RateLimitPeriod:   time.Minute,
		RateLimitBackoff:  10 * time.Second,
		LogLevel:          log.InfoLevel,
		UserAgent:         defaultUserAgent,
	}
}

// Load reads the given .env files (default ".env"), then overlays URLREVIVE_*
// environment variables on top of the defaults. Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	cfg := Default()

	setString(&cfg.CDXAPI, EnvCDXAPI)
	setString(&cfg.WebAPI, EnvWebAPI)
	setString(&cfg.MementoAPI, EnvMementoAPI)
	setString(&cfg.UserAgent, EnvUserAgent)

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&cfg.ConnectTimeout, EnvConnectTimeout},
		{&cfg.ReadTimeout, EnvReadTimeout},
		{&cfg.RateLimitPeriod, EnvRateLimitPeriod},
		{&cfg.RateLimitBackoff, EnvRateLimitBackoff},
	}
	for _, d := range durations {
		if err := setDuration(d.dst, d.key); err != nil {
			return nil, err
		}
	}

	if err := setInt(&cfg.DefaultFetchLimit, EnvDefaultFetchLimit); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.RateLimitCalls, EnvRateLimitCalls); err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
