package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Ledger    LedgerConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Market    MarketConfig
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

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LedgerConfig holds the defaults of new ledgers.
type LedgerConfig struct {
	StartingCash decimal.Decimal
	Currency     string // ISO 4217 code used to format amounts
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// SchedulerConfig holds the cron specs of the background jobs.
// An empty schedule disables the job.
type SchedulerConfig struct {
	PriceRefresh string
	Snapshot     string
}

// MarketConfig holds market data configuration.
type MarketConfig struct {
	YahooEnabled       bool
	YahooBaseURL       string
	YahooTimeout       time.Duration
	RefreshConcurrency int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	startingCash, err := decimal.NewFromString(getEnv("STARTING_CASH", "100000"))
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_CASH: %w", err)
	}
	if startingCash.IsNegative() {
		return nil, fmt.Errorf("invalid STARTING_CASH: must not be negative")
	}

	pretty, err := strconv.ParseBool(getEnv("LOG_PRETTY", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_PRETTY: %w", err)
	}

	yahooEnabled, err := strconv.ParseBool(getEnv("YAHOO_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid YAHOO_ENABLED: %w", err)
	}

	yahooTimeout, err := time.ParseDuration(getEnv("YAHOO_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid YAHOO_TIMEOUT: %w", err)
	}

	concurrency, err := strconv.Atoi(getEnv("REFRESH_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_CONCURRENCY: %w", err)
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("invalid REFRESH_CONCURRENCY: must be at least 1")
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/paper_trading.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Ledger: LedgerConfig{
			StartingCash: startingCash,
			Currency:     strings.ToUpper(getEnv("LEDGER_CURRENCY", "INR")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
		Scheduler: SchedulerConfig{
			PriceRefresh: os.Getenv("PRICE_REFRESH_SCHEDULE"),
			Snapshot:     os.Getenv("SNAPSHOT_SCHEDULE"),
		},
		Market: MarketConfig{
			YahooEnabled:       yahooEnabled,
			YahooBaseURL:       os.Getenv("YAHOO_BASE_URL"),
			YahooTimeout:       yahooTimeout,
			RefreshConcurrency: concurrency,
		},
	}
	if _, ok := os.LookupEnv("PRICE_REFRESH_SCHEDULE"); !ok {
		config.Scheduler.PriceRefresh = "@every 15m"
	}
	if _, ok := os.LookupEnv("SNAPSHOT_SCHEDULE"); !ok {
		config.Scheduler.Snapshot = "@every 1h"
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

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
