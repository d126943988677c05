// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath   string
	CcusageBin     string
	CcusageFile    string
	LogLevel       string
	CcusageTimeout time.Duration
	WatchDebounce  time.Duration
	RetentionDays  int
}

// Default values
const (
	defaultCcusageBin     = "ccusage"
	defaultCcusageTimeout = 60 * time.Second
	defaultWatchDebounce  = 500 * time.Millisecond
	defaultRetentionDays  = 90
	defaultLogLevel       = "info"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:   getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		CcusageBin:     getEnvString("CCUSAGE_BIN", defaultCcusageBin),
		CcusageFile:    getEnvString("CCUSAGE_FILE", ""),
		LogLevel:       getEnvString("LOG_LEVEL", defaultLogLevel),
		CcusageTimeout: getEnvDuration("CCUSAGE_TIMEOUT", defaultCcusageTimeout),
		WatchDebounce:  getEnvDuration("WATCH_DEBOUNCE", defaultWatchDebounce),
		RetentionDays:  getEnvInt("SAVINGS_RETENTION_DAYS", defaultRetentionDays),
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "cc-economics", ".env"),
			filepath.Join(home, ".config", "rtk", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path of the savings ledger.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".local", "share", "rtk", "history.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves a positive integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
