package config

import (
	"os"
	"strconv"
	"time"

	"jralmeda/pcxscraper/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Scrape targets
	BaseURL    string
	ListingURL string

	// Pipeline behavior
	FetchDelay  time.Duration
	HTTPTimeout time.Duration
	OutputFile  string

	// Memcache page cache (optional, enabled when addr is set)
	MemcacheAddr string
	PageCacheTTL time.Duration

	// Redis publisher (optional, enabled when addr is set)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Postgres store (optional, enabled when URL is set)
	DatabaseURL string

	// Prometheus metrics listener (optional, enabled when port is set)
	MetricsPort string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	fetchDelayMs, _ := strconv.Atoi(getEnv("FETCH_DELAY_MS", "500"))
	httpTimeoutSec, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "10"))
	cacheTTLSec, _ := strconv.Atoi(getEnv("PAGE_CACHE_TTL_SECONDS", "3600"))

	return Config{
		BaseURL:              getEnv("BASE_URL", "https://pcx.com.ph"),
		ListingURL:           getEnv("LISTING_URL", "https://pcx.com.ph/collections/laptops"),
		FetchDelay:           time.Duration(fetchDelayMs) * time.Millisecond,
		HTTPTimeout:          time.Duration(httpTimeoutSec) * time.Second,
		OutputFile:           getEnv("OUTPUT_FILE", "laptops_scraped.csv"),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		PageCacheTTL:         time.Duration(cacheTTLSec) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "products"),
		RedisStreamMaxLength: streamMaxLen,
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		MetricsPort:          getEnv("METRICS_PORT", ""),
		Environment:          getEnv("PCX_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.ListingURL == "" {
		return errors.NewConfiguration("LISTING_URL must not be empty", nil)
	}
	if c.BaseURL == "" {
		return errors.NewConfiguration("BASE_URL must not be empty", nil)
	}
	if c.FetchDelay < 0 {
		return errors.NewConfiguration("FETCH_DELAY_MS must not be negative", nil)
	}
	if c.OutputFile == "" {
		return errors.NewConfiguration("OUTPUT_FILE must not be empty", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
