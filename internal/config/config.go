package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL    string
	LogLevel       string
	LogFormat      string
	Port           string
	PrometheusPort string
	SeedCategories bool

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	TelegramToken  string
	TelegramChatID int64
}

// Load loads configuration from environment variables. Values from a .env file
// in the working directory are applied first when the file exists; variables
// already present in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function. Every invalid value
// is reported, not only the first one.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, defaultValue string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		DatabaseURL:    getenv("DATABASE_URL"),
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "text"),
		Port:           get("PORT", "8080"),
		PrometheusPort: get("PROMETHEUS_PORT", "9090"),
		GeminiAPIKey:   getenv("GEMINI_API_KEY"),
		GeminiModel:    get("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:  get("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		TelegramToken:  getenv("TELEGRAM_TOKEN"),
	}

	var result *multierror.Error

	seed, err := strconv.ParseBool(get("SEED_CATEGORIES", "true"))
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("SEED_CATEGORIES must be a boolean: %w", err))
	}
	cfg.SeedCategories = seed

	if raw := getenv("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err))
		}
		cfg.TelegramChatID = id
	}

	for _, p := range []struct{ key, value string }{
		{"PORT", cfg.Port},
		{"PROMETHEUS_PORT", cfg.PrometheusPort},
	} {
		if n, err := strconv.Atoi(p.value); err != nil || n <= 0 || n > 65535 {
			result = multierror.Append(result, fmt.Errorf("%s must be a TCP port, got %q", p.key, p.value))
		}
	}

	if cfg.DatabaseURL == "" {
		path, err := defaultDatabasePath(getenv)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to resolve database path: %w", err))
		}
		cfg.DatabaseURL = path
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultDatabasePath returns the SQLite file under the XDG data directory,
// creating the directory when needed.
func defaultDatabasePath(getenv func(string) string) (string, error) {
	dataDir := getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "giftmate")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, "giftmate.db"), nil
}
