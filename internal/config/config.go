package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port                string
	DataURL             string
	StoreBackend        string
	SQLitePath          string
	DatabaseURL         string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	TriageStorageKey    string
	NewWindowHours      float64
	SessionSecret       string
	SnoozeCheckInterval int
	SessionIdleHours    int
	LogLevel            string
	Env                 string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	sqlitePath := GetEnv("SQLITE_PATH", "")
	defaultBackend := BackendMemory
	if sqlitePath != "" {
		defaultBackend = BackendSQLite
	}

	windowHours, err := strconv.ParseFloat(GetEnv("NEW_WINDOW_HOURS", "6"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid NEW_WINDOW_HOURS: %w", err)
	}

	return &Config{
		Port:                GetEnv("PORT", "8080"),
		DataURL:             GetEnv("DATA_URL", "./data/dashboard_view_model_v1.json"),
		StoreBackend:        strings.ToLower(GetEnv("STORE_BACKEND", defaultBackend)),
		SQLitePath:          sqlitePath,
		DatabaseURL:         GetEnv("DATABASE_URL", ""),
		RedisAddr:           GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       GetEnv("REDIS_PASSWORD", ""),
		RedisDB:             GetEnvInt("REDIS_DB", 0),
		TriageStorageKey:    GetEnv("TRIAGE_STORAGE_KEY", "inbox_triage_v1"),
		NewWindowHours:      windowHours,
		SessionSecret:       GetEnv("SESSION_SECRET", "9b0e5c1e-2f7d-4a53-8d8e-4c1f0a6b7e21"),
		SnoozeCheckInterval: GetEnvInt("SNOOZE_CHECK_INTERVAL_SECONDS", 60),
		SessionIdleHours:    GetEnvInt("SESSION_IDLE_HOURS", 720),
		LogLevel:            GetEnv("LOG_LEVEL", "info"),
		Env:                 GetEnv("ENV", "development"),
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvInt falls back to defaultValue when the variable is unset or not an integer.
func GetEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func (c *Config) Validate() error {
	if c.DataURL == "" {
		return fmt.Errorf("DATA_URL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.NewWindowHours <= 0 {
		return fmt.Errorf("NEW_WINDOW_HOURS must be positive")
	}
	if c.SnoozeCheckInterval <= 0 {
		return fmt.Errorf("SNOOZE_CHECK_INTERVAL_SECONDS must be positive")
	}
	if c.SessionIdleHours <= 0 {
		return fmt.Errorf("SESSION_IDLE_HOURS must be positive")
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
