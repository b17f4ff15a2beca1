// Package di provides dependency injection type definitions and wiring.
//
// The Container holds every long-lived service instance and is the single
// source the server and entrypoint read from.
package di

import (
	"time"

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
	"github.com/aristath/stockwatch/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	StartedAt time.Time

	// Infrastructure
	EventBus      *events.Bus
	FinnhubClient *finnhub.Client
	Spacer        *refresh.Spacer
	History       *refresh.SpacedHistory

	// State
	Watchlist *watchlist.Watchlist
	Portfolio *portfolio.Portfolio

	// Services
	AlertEngine      *alerts.Engine
	RefreshService   *refresh.Service
	WatchlistService *watchlist.Service
	PortfolioService *portfolio.Service
	IndicesService   *indices.Service
	AnalyticsService *analytics.Service
	SnapshotService  *snapshots.Service

	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered background jobs
type JobInstances struct {
	PriceRefresh  *scheduler.PriceRefreshJob
	IndexRefresh  *scheduler.IndexRefreshJob
	WatchlistSeed *scheduler.WatchlistSeedJob
}
