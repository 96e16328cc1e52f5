package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBDriver             string
	DBDSN                string
	LogLevel             string
	QuizDefaultLimit     int
	QuizMaxLimit         int
	StatsRefreshInterval time.Duration
	WorkerCount          int
	WorkerQueueSize      int
	ReviewRateLimit      float64
	ReviewRateBurst      int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBDriver:             NormalizeDriver(envOr("DB_DRIVER", "sqlite")),
		DBDSN:                envOr("DB_DSN", "file:mistakeflash.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		QuizDefaultLimit:     envIntOr("QUIZ_DEFAULT_LIMIT", 20),
		QuizMaxLimit:         envIntOr("QUIZ_MAX_LIMIT", 100),
		StatsRefreshInterval: envDurationOr("STATS_REFRESH_INTERVAL", 15*time.Minute),
		WorkerCount:          envIntOr("WORKER_COUNT", 2),
		WorkerQueueSize:      envIntOr("WORKER_QUEUE_SIZE", 64),
		ReviewRateLimit:      envFloatOr("REVIEW_RATE_LIMIT", 10),
		ReviewRateBurst:      envIntOr("REVIEW_RATE_BURST", 20),
	}
}

// NormalizeDriver maps user-facing driver names onto registered sql driver names.
func NormalizeDriver(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return name
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBDriver != "sqlite3" && c.DBDriver != "postgres" {
		problems = append(problems, fmt.Sprintf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		problems = append(problems, "DB_DSN cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.QuizDefaultLimit <= 0 {
		problems = append(problems, "QUIZ_DEFAULT_LIMIT must be positive")
	}
	if c.QuizMaxLimit <= 0 {
		problems = append(problems, "QUIZ_MAX_LIMIT must be positive")
	}
	if c.QuizDefaultLimit > 0 && c.QuizMaxLimit > 0 && c.QuizDefaultLimit > c.QuizMaxLimit {
		problems = append(problems, "QUIZ_DEFAULT_LIMIT cannot exceed QUIZ_MAX_LIMIT")
	}
	if c.StatsRefreshInterval < time.Minute {
		problems = append(problems, "STATS_REFRESH_INTERVAL must be at least 1m")
	}
	if c.WorkerCount <= 0 {
		problems = append(problems, "WORKER_COUNT must be positive")
	}
	if c.WorkerQueueSize <= 0 {
		problems = append(problems, "WORKER_QUEUE_SIZE must be positive")
	}
	if c.ReviewRateLimit <= 0 {
		problems = append(problems, "REVIEW_RATE_LIMIT must be positive")
	}
	if c.ReviewRateBurst <= 0 {
		problems = append(problems, "REVIEW_RATE_BURST must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
