// Package config provides configuration management for Sommelier.
// It loads settings from environment variables with the SOMMELIER_ prefix
// and provides sensible defaults for all configuration options.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration settings for the Sommelier application.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	LLM      LLMConfig
	Security SecurityConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 6380)
	Host string // Server host (default: 127.0.0.1)
}

// StorageConfig contains profile-store configuration.
type StorageConfig struct {
	StorageEngine string // Storage engine type: sqlite, postgres (default: sqlite)
	DataPath      string // Path to data directory (default: ./data)
	PostgresDSN   string // Postgres connection string (when engine is postgres)
}

// LLMConfig contains generation provider configuration.
type LLMConfig struct {
	OpenAIAPIKey    string // OpenAI API key
	AnthropicAPIKey string // Anthropic API key
	CredentialsFile string // Optional JSON credentials file watched for rotation
	RequestTimeout  int    // Per-call timeout in seconds (default: 60)
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string // Security mode: development, production (default: development)
	APIToken     string // API authentication token
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the SOMMELIER_ prefix.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SOMMELIER_PORT", 6380),
			Host: getEnv("SOMMELIER_HOST", "127.0.0.1"),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("SOMMELIER_STORAGE_ENGINE", "sqlite"),
			DataPath:      getEnv("SOMMELIER_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("SOMMELIER_POSTGRES_DSN", ""),
		},
		LLM: LLMConfig{
			OpenAIAPIKey:    getEnv("SOMMELIER_OPENAI_API_KEY", os.Getenv("OPENAI_API_KEY")),
			AnthropicAPIKey: getEnv("SOMMELIER_ANTHROPIC_API_KEY", os.Getenv("ANTHROPIC_API_KEY")),
			CredentialsFile: getEnv("SOMMELIER_CREDENTIALS_FILE", ""),
			RequestTimeout:  getEnvInt("SOMMELIER_REQUEST_TIMEOUT", 60),
		},
		Security: SecurityConfig{
			SecurityMode: getEnv("SOMMELIER_SECURITY_MODE", "development"),
			APIToken:     getEnv("SOMMELIER_API_TOKEN", ""),
		},
	}, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the environment variable exists but cannot be parsed as an
// integer, it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
