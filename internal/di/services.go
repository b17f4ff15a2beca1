package di

import (
	"fmt"

	"github.com/aristath/stockwatch/internal/clients/finnhub"
	"github.com/aristath/stockwatch/internal/config"
	"github.com/aristath/stockwatch/internal/events"
	"github.com/aristath/stockwatch/internal/modules/alerts"
	"github.com/aristath/stockwatch/internal/modules/analytics"
	"github.com/aristath/stockwatch/internal/modules/indices"
	"github.com/aristath/stockwatch/internal/modules/portfolio"
	"github.com/aristath/stockwatch/internal/modules/refresh"
	"github.com/aristath/stockwatch/internal/modules/snapshots"
	"github.com/aristath/stockwatch/internal/modules/watchlist"
	"github.com/rs/zerolog"
)

// InitializeServices creates every service in dependency order.
// Every provider request goes through the refresh service or the spaced
// history wrapper, so all of them share one spacer.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.EventBus = events.NewBus(log)

	container.FinnhubClient = finnhub.NewClient(finnhub.Config{
		BaseURL: cfg.FinnhubBaseURL,
		APIKey:  cfg.FinnhubAPIKey,
		Timeout: cfg.ProviderTimeout,
	}, log)
	if cfg.FinnhubAPIKey == "" {
		log.Warn().Msg("FINNHUB_API_KEY not set, provider requests will likely be rejected")
	}

	container.Spacer = refresh.NewSpacer(cfg.RequestSpacing)
	container.History = refresh.NewSpacedHistory(container.FinnhubClient, container.Spacer)

	container.Watchlist = watchlist.New()
	container.Portfolio = portfolio.New(cfg.PortfolioName)

	container.AlertEngine = alerts.NewEngine(log,
		alerts.NewLogNotifier(log),
		alerts.NewBusNotifier(container.EventBus),
	)

	container.RefreshService = refresh.NewService(
		container.FinnhubClient,
		container.FinnhubClient,
		container.Watchlist,
		container.Portfolio,
		container.AlertEngine,
		container.EventBus,
		container.Spacer,
		log,
	)

	container.WatchlistService = watchlist.NewService(container.Watchlist, container.Portfolio, container.RefreshService, container.EventBus, log)
	container.PortfolioService = portfolio.NewService(container.Portfolio, container.Watchlist, container.RefreshService, container.EventBus, log)
	container.IndicesService = indices.NewService(container.RefreshService, indices.Default, log)

	series, fallback, err := riskSeries(cfg, container.History)
	if err != nil {
		return err
	}
	container.AnalyticsService = analytics.NewService(
		container.Portfolio,
		container.RefreshService,
		series,
		fallback,
		container.History,
		container.EventBus,
		log,
	)

	container.SnapshotService = snapshots.NewService(
		container.WatchlistService,
		container.PortfolioService,
		container.AlertEngine,
		container.IndicesService,
		container.RefreshService,
	)

	log.Info().
		Str("risk_series", cfg.RiskSeriesSource).
		Dur("request_spacing", cfg.RequestSpacing).
		Msg("Services initialized")

	return nil
}

// riskSeries picks the report's value-series source. The history source
// falls back to the synthetic one when history cannot be fetched.
func riskSeries(cfg *config.Config, history *refresh.SpacedHistory) (analytics.SeriesSource, analytics.SeriesSource, error) {
	synthetic := analytics.NewSyntheticSeries(cfg.RiskSeriesPoints)

	switch cfg.RiskSeriesSource {
	case config.SeriesSynthetic:
		return synthetic, nil, nil
	case config.SeriesHistory:
		return analytics.NewHistoricalSeries(history, cfg.RiskSeriesPoints), synthetic, nil
	default:
		return nil, nil, fmt.Errorf("unknown risk series source %q", cfg.RiskSeriesSource)
	}
}
