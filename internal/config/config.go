// ABOUTME: Configuration loader for the mythic CLI and TUI
// ABOUTME: Loads settings from environment variables and an optional .env file

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Defaults
const (
	DefaultAPIURL            = "http://localhost:8080"
	DefaultRedisURL          = "redis://localhost:6379/0"
	DefaultSessionProfile    = "default"
	DefaultInactivityTimeout = 5 * time.Minute
	DefaultHTTPTimeout       = 30 * time.Second
)

// Config holds the client's settings
type Config struct {
	// API
	APIURL      string
	HTTPTimeout time.Duration

	// Session
	ConfigDir         string
	SessionStore      string // file or redis (default: file)
	RedisURL          string
	SessionProfile    string // namespaces redis keys so several users can share one server
	InactivityTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the environment, after merging in envFiles (default ".env").
// Variables already set in the environment always win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{
		APIURL:      ensureScheme(strings.TrimRight(getEnv("MYTHIC_API_URL", DefaultAPIURL), "/")),
		HTTPTimeout: getEnvDuration("MYTHIC_HTTP_TIMEOUT", DefaultHTTPTimeout),

		ConfigDir:         getEnv("MYTHIC_CONFIG_DIR", DefaultConfigDir()),
		SessionStore:      strings.ToLower(getEnv("MYTHIC_SESSION_STORE", StoreFile)),
		RedisURL:          getEnv("MYTHIC_REDIS_URL", DefaultRedisURL),
		SessionProfile:    getEnv("MYTHIC_SESSION_PROFILE", DefaultSessionProfile),
		InactivityTimeout: getEnvDuration("MYTHIC_INACTIVITY_TIMEOUT", DefaultInactivityTimeout),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for values the client cannot work with
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("MYTHIC_API_URL is not a valid URL: %q", c.APIURL)
	}
	switch c.SessionStore {
	case StoreFile:
		if c.ConfigDir == "" {
			return fmt.Errorf("MYTHIC_CONFIG_DIR is required when the home directory is unknown")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("MYTHIC_REDIS_URL is required for the redis session store")
		}
	default:
		return fmt.Errorf("invalid MYTHIC_SESSION_STORE: %q (must be file or redis)", c.SessionStore)
	}
	if c.InactivityTimeout <= 0 {
		return fmt.Errorf("MYTHIC_INACTIVITY_TIMEOUT must be positive, got %s", c.InactivityTimeout)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("MYTHIC_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mythic")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mythic")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
