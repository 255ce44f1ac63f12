package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Rate      RateConfig
	Ledger    LedgerConfig
	Analytics AnalyticsConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// RateConfig holds configuration for the live reference-rate feed
type RateConfig struct {
	SourceURL string
	Symbol    string
	Interval  time.Duration
}

// LedgerConfig holds configuration for the paged transaction view
type LedgerConfig struct {
	PageSize int
}

// AnalyticsConfig holds configuration for the analytics event log
type AnalyticsConfig struct {
	RetentionDays int
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/btc_ledger.db"),
		},
		Rate: RateConfig{
			SourceURL: getEnv("RATE_SOURCE_URL", "https://api.binance.com"),
			Symbol:    getEnv("RATE_SYMBOL", "BTCUSDT"),
			Interval:  time.Duration(getEnvInt("RATE_INTERVAL_SECONDS", 15)) * time.Second,
		},
		Ledger: LedgerConfig{
			PageSize: getEnvInt("PAGE_SIZE", 20),
		},
		Analytics: AnalyticsConfig{
			RetentionDays: getEnvInt("ANALYTICS_RETENTION_DAYS", 30),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
