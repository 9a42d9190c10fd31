package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, sourced from the environment
// with an optional .env file on top.
type Config struct {
	// BindAddr is the address the HTTP server listens on.
	BindAddr string

	// DBPath is the SQLite database file path.
	DBPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment. A .env file is applied
// first when present (non-fatal if missing). All settings have defaults,
// so Load never fails on absent variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BindAddr: getEnvDefault("BIND_ADDR", ":8080"),
		DBPath:   getEnvDefault("DB_PATH", "./data/ledger.db"),
		LogLevel: getEnvDefault("LOG_LEVEL", "info"),
	}
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
