package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultStorePath = "tasks.json"
	DefaultLogPath   = "tasks.log"
)

// Config contains all runtime settings for one taskctl invocation.
type Config struct {
	StoreDriver string
	StorePath   string
	DatabaseURL string
	DBTimeout   time.Duration

	LogPath     string
	LogDisabled bool

	MetricsNamespace string
	MetricsTextfile  string
}

// Load reads an optional dotenv file, then environment variables, and applies safe defaults.
// Variables already present in the environment take precedence over the dotenv file.
func Load() (Config, error) {
	if err := loadEnvFile(envOrDefault("TASKS_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{
		StoreDriver:      strings.ToLower(envOrDefault("TASKS_STORE_DRIVER", "file")),
		StorePath:        envOrDefault("TASKS_STORE_PATH", DefaultStorePath),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBTimeout:        10 * time.Second,
		LogPath:          envOrDefault("TASKS_LOG_PATH", DefaultLogPath),
		MetricsNamespace: envOrDefault("TASKS_METRICS_NAMESPACE", "taskctl"),
		MetricsTextfile:  strings.TrimSpace(os.Getenv("TASKS_METRICS_TEXTFILE")),
	}
	var err error
	cfg.DBTimeout, err = durationFromEnv("TASKS_DB_TIMEOUT", cfg.DBTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.LogDisabled, err = boolFromEnv("TASKS_LOG_DISABLED", cfg.LogDisabled)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints. It is re-run after flag overrides.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case "file":
		if strings.TrimSpace(c.StorePath) == "" {
			return fmt.Errorf("TASKS_STORE_PATH must not be empty")
		}
	case "postgres", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for TASKS_STORE_DRIVER=%s", c.StoreDriver)
		}
	default:
		return fmt.Errorf("invalid TASKS_STORE_DRIVER: %q (expected file|postgres|mysql)", c.StoreDriver)
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("TASKS_DB_TIMEOUT must be positive")
	}
	if !c.LogDisabled && strings.TrimSpace(c.LogPath) == "" {
		return fmt.Errorf("TASKS_LOG_PATH must not be empty")
	}
	if strings.TrimSpace(c.MetricsNamespace) == "" {
		return fmt.Errorf("TASKS_METRICS_NAMESPACE must not be empty")
	}
	return nil
}

func loadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback, nil
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b, nil
	}
	switch v {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
