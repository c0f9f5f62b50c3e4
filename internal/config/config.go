package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port              string
	SessionTTLMinutes int
	SwaggerEnabled    bool

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlite-purego, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// StateKey names the state document row, one per deployment
	StateKey string

	// OrganizationName labels the global aggregate
	OrganizationName string

	// Logging configuration
	LogLevel string
	LogFile  string

	// Narrative summary collaborator
	NarrativeURL            string
	NarrativeModel          string
	NarrativeAPIKey         string
	NarrativeTimeoutSeconds int
}

// Load loads configuration from environment variables. Values from a .env
// file (ENV_FILE, default ".env") fill in anything not already set.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "3000"),
		SessionTTLMinutes:       getEnvAsInt("SESSION_TTL_MINUTES", 60),
		SwaggerEnabled:          getEnvAsBool("SWAGGER_ENABLED", true),
		DBType:                  strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DBHost:                  getEnv("DB_HOST", "localhost"),
		DBPort:                  getEnv("DB_PORT", "3306"),
		DBDatabase:              getEnv("DB_DATABASE", ""),
		DBUser:                  getEnv("DB_USER", ""),
		DBPassword:              getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:       getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		StateKey:                getEnv("STATE_KEY", "fgbmfiLofReportingData"),
		OrganizationName:        getEnv("ORGANIZATION_NAME", "FGBMFI-NG LOF SW7"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFile:                 getEnv("LOG_FILE", ""),
		NarrativeURL:            getEnv("NARRATIVE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		NarrativeModel:          getEnv("NARRATIVE_MODEL", "gemini-2.5-flash"),
		NarrativeAPIKey:         getEnv("NARRATIVE_API_KEY", ""),
		NarrativeTimeoutSeconds: getEnvAsInt("NARRATIVE_TIMEOUT_SECONDS", 30),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBType != "sqlite-purego" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required for %s", cfg.DBType)
	}
	if cfg.SessionTTLMinutes <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
