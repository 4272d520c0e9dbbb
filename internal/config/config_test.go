package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	dataDir := t.TempDir()
	cfg, err := FromEnv(envMap(map[string]string{"XDG_DATA_HOME": dataDir}))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9090", cfg.PrometheusPort)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.GeminiBaseURL)
	assert.True(t, cfg.SeedCategories)
	assert.Equal(t, filepath.Join(dataDir, "giftmate", "giftmate.db"), cfg.DatabaseURL)
	assert.DirExists(t, filepath.Join(dataDir, "giftmate"))
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DATABASE_URL":     "postgres://u:p@localhost/giftmate",
		"GEMINI_API_KEY":   "secret",
		"SEED_CATEGORIES":  "false",
		"TELEGRAM_TOKEN":   "tok",
		"TELEGRAM_CHAT_ID": "-100123",
		"PORT":             "3000",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost/giftmate", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
	assert.False(t, cfg.SeedCategories)
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
	assert.Equal(t, "3000", cfg.Port)
}

func TestFromEnv_ReportsEveryInvalidValue(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{
		"DATABASE_URL":     ":memory:",
		"SEED_CATEGORIES":  "maybe",
		"TELEGRAM_CHAT_ID": "abc",
		"PORT":             "99999",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEED_CATEGORIES")
	assert.Contains(t, err.Error(), "TELEGRAM_CHAT_ID")
	assert.Contains(t, err.Error(), "PORT")
}

func TestResolveDriver(t *testing.T) {
	tests := []struct {
		url, driver, dsn string
	}{
		{"postgres://localhost/db", DriverPostgres, "postgres://localhost/db"},
		{"postgresql://localhost/db", DriverPostgres, "postgresql://localhost/db"},
		{":memory:", DriverSQLite, ":memory:?_foreign_keys=on"},
		{"/tmp/g.db?cache=shared", DriverSQLite, "/tmp/g.db?cache=shared&_foreign_keys=on"},
		{"/tmp/g.db?_foreign_keys=off", DriverSQLite, "/tmp/g.db?_foreign_keys=off"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, dsn := resolveDriver(tt.url)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dsn, dsn)
		})
	}
}
