package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mistakeflash/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                 ":8080",
		DBDriver:             "sqlite3",
		DBDSN:                "file:test.db",
		LogLevel:             "INFO",
		QuizDefaultLimit:     20,
		QuizMaxLimit:         100,
		StatsRefreshInterval: 15 * time.Minute,
		WorkerCount:          2,
		WorkerQueueSize:      64,
		ReviewRateLimit:      10,
		ReviewRateBurst:      20,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.DBDriver = "mysql"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestValidate_QuizLimits(t *testing.T) {
	tests := []struct {
		name       string
		def, max   int
		wantSubstr string
	}{
		{"zero default", 0, 100, "QUIZ_DEFAULT_LIMIT must be positive"},
		{"negative max", 20, -1, "QUIZ_MAX_LIMIT must be positive"},
		{"default above max", 50, 10, "QUIZ_DEFAULT_LIMIT cannot exceed QUIZ_MAX_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.QuizDefaultLimit = tt.def
			cfg.QuizMaxLimit = tt.max

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSubstr)
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "info", "WARN", "warning", "ERROR"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:     "",
		DBDriver: "oracle",
		DBDSN:    "",
		LogLevel: "LOUD",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_DRIVER")
	assert.Contains(t, errStr, "DB_DSN cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "STATS_REFRESH_INTERVAL")
	assert.Contains(t, errStr, "WORKER_COUNT")
	assert.Contains(t, errStr, "WORKER_QUEUE_SIZE")
	assert.Contains(t, errStr, "REVIEW_RATE_LIMIT")
	assert.Contains(t, errStr, "REVIEW_RATE_BURST")
}

func TestNormalizeDriver(t *testing.T) {
	assert.Equal(t, "sqlite3", config.NormalizeDriver("SQLite"))
	assert.Equal(t, "sqlite3", config.NormalizeDriver("sqlite3"))
	assert.Equal(t, "postgres", config.NormalizeDriver("postgresql"))
	assert.Equal(t, "mysql", config.NormalizeDriver("mysql"))
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/mistakes")
	t.Setenv("QUIZ_DEFAULT_LIMIT", "5")
	t.Setenv("STATS_REFRESH_INTERVAL", "1h")
	t.Setenv("REVIEW_RATE_LIMIT", "2.5")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/mistakes", cfg.DBDSN)
	assert.Equal(t, 5, cfg.QuizDefaultLimit)
	assert.Equal(t, time.Hour, cfg.StatsRefreshInterval)
	assert.Equal(t, 2.5, cfg.ReviewRateLimit)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	t.Setenv("STATS_REFRESH_INTERVAL", "soon")

	cfg := config.Load()

	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 15*time.Minute, cfg.StatsRefreshInterval)
}
