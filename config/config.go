// Package config loads server configuration from environment variables,
// with .env file support for local development. All keys are optional
// and carry development defaults; production deployments set them
// explicitly.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DBPath is the SQLite database path; ":memory:" for ephemeral runs.
	DBPath string

	// DefaultLimitsPath points at the operator default-limit JSON file.
	// Empty means no operator defaults are loaded.
	DefaultLimitsPath string

	// AllowedOrigins for CORS, comma-separated.
	AllowedOrigins string
}

// New loads configuration from the environment, reading .env first when
// present.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnvInt("CHARGING_PORT", 8080),
		DBPath:            getEnv("CHARGING_DB_PATH", "charging.db"),
		DefaultLimitsPath: getEnv("CHARGING_DEFAULT_LIMITS_PATH", ""),
		AllowedOrigins:    getEnv("CHARGING_ALLOWED_ORIGINS", "http://localhost:8080"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}
