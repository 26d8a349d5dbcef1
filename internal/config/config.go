package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize int
	CacheTTL  time.Duration

	// Scraper settings
	RequestTimeout time.Duration
	UserAgent      string
	MaxRetries     int
	RetryDelay     time.Duration

	// Reconciliation settings
	FreshnessWindow time.Duration

	// Concurrency settings
	MaxConcurrentScrapes int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:         getEnv("HOST", "0.0.0.0"),
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/processes.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		UserAgent:    getEnv("USER_AGENT", "Mozilla/5.0 (compatible; JudicialBot/1.0)"),
	}

	// Parse integer values
	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	requestTimeout, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = time.Duration(requestTimeout) * time.Second

	cfg.MaxRetries, err = strconv.Atoi(getEnv("MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_RETRIES: %w", err)
	}

	retryDelay, err := strconv.Atoi(getEnv("RETRY_DELAY", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETRY_DELAY: %w", err)
	}
	cfg.RetryDelay = time.Duration(retryDelay) * time.Second

	freshnessWindow, err := strconv.Atoi(getEnv("SCRAPE_FRESHNESS_WINDOW", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCRAPE_FRESHNESS_WINDOW: %w", err)
	}
	cfg.FreshnessWindow = time.Duration(freshnessWindow) * time.Minute

	cfg.MaxConcurrentScrapes, err = strconv.Atoi(getEnv("MAX_CONCURRENT_SCRAPES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_SCRAPES: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
