// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/stockwatch/internal/utils"
	"github.com/joho/godotenv"
)

// Risk series sources
const (
	SeriesSynthetic = "synthetic"
	SeriesHistory   = "history"
)

// Config holds application configuration
type Config struct {
	FinnhubAPIKey    string
	FinnhubBaseURL   string
	ProviderTimeout  time.Duration
	RequestSpacing   time.Duration // minimum gap between provider requests
	RefreshSchedule  string
	IndicesSchedule  string
	PortfolioName    string
	WatchlistSeed    []string
	RiskSeriesSource string
	RiskSeriesPoints int
	LogLevel         string
	Port             int
	DevMode          bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		FinnhubAPIKey:    getEnv("FINNHUB_API_KEY", ""),
		FinnhubBaseURL:   getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		ProviderTimeout:  getEnvAsDuration("PROVIDER_TIMEOUT", 10*time.Second),
		RequestSpacing:   getEnvAsDuration("REQUEST_SPACING", time.Second),
		RefreshSchedule:  getEnv("REFRESH_SCHEDULE", "@every 30s"),
		IndicesSchedule:  getEnv("INDICES_SCHEDULE", "@every 5m"),
		PortfolioName:    getEnv("PORTFOLIO_NAME", "My Portfolio"),
		WatchlistSeed:    utils.Dedupe(utils.ParseCSV(getEnv("WATCHLIST_SEED", "AAPL,GOOGL,MSFT,AMZN,TSLA"))),
		RiskSeriesSource: strings.ToLower(getEnv("RISK_SERIES_SOURCE", SeriesSynthetic)),
		RiskSeriesPoints: getEnvAsInt("RISK_SERIES_POINTS", 30),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Port:             getEnvAsInt("GO_PORT", 8001),
		DevMode:          getEnvAsBool("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded values for consistency
func (c *Config) Validate() error {
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", c.ProviderTimeout)
	}
	if c.RequestSpacing <= 0 {
		return fmt.Errorf("REQUEST_SPACING must be positive, got %s", c.RequestSpacing)
	}
	switch c.RiskSeriesSource {
	case SeriesSynthetic, SeriesHistory:
	default:
		return fmt.Errorf("unknown RISK_SERIES_SOURCE %q (want %q or %q)", c.RiskSeriesSource, SeriesSynthetic, SeriesHistory)
	}
	if c.RiskSeriesPoints < 2 {
		return fmt.Errorf("RISK_SERIES_POINTS must be at least 2, got %d", c.RiskSeriesPoints)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("GO_PORT out of range: %d", c.Port)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("1500ms") or bare milliseconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
