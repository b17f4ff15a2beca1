package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"FINNHUB_API_KEY", "FINNHUB_BASE_URL", "PROVIDER_TIMEOUT", "REQUEST_SPACING",
		"REFRESH_SCHEDULE", "INDICES_SCHEDULE", "PORTFOLIO_NAME", "WATCHLIST_SEED",
		"RISK_SERIES_SOURCE", "RISK_SERIES_POINTS", "LOG_LEVEL", "GO_PORT", "DEV_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://finnhub.io/api/v1", cfg.FinnhubBaseURL)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, time.Second, cfg.RequestSpacing)
	assert.Equal(t, "@every 30s", cfg.RefreshSchedule)
	assert.Equal(t, "My Portfolio", cfg.PortfolioName)
	assert.Equal(t, []string{"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA"}, cfg.WatchlistSeed)
	assert.Equal(t, SeriesSynthetic, cfg.RiskSeriesSource)
	assert.Equal(t, 30, cfg.RiskSeriesPoints)
	assert.Equal(t, 8001, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_SPACING", "250")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("WATCHLIST_SEED", " nvda , ,amd")
	t.Setenv("RISK_SERIES_SOURCE", "History")
	t.Setenv("GO_PORT", "9000")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.RequestSpacing)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, []string{"nvda", "amd"}, cfg.WatchlistSeed)
	assert.Equal(t, SeriesHistory, cfg.RiskSeriesSource)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.DevMode)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("GO_PORT", "not-a-number")
	t.Setenv("REQUEST_SPACING", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, time.Second, cfg.RequestSpacing)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ProviderTimeout:  time.Second,
			RequestSpacing:   time.Second,
			RiskSeriesSource: SeriesSynthetic,
			RiskSeriesPoints: 30,
			Port:             8001,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.ProviderTimeout = 0 }},
		{"negative spacing", func(c *Config) { c.RequestSpacing = -time.Second }},
		{"unknown series source", func(c *Config) { c.RiskSeriesSource = "random" }},
		{"too few points", func(c *Config) { c.RiskSeriesPoints = 1 }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
