// Package snapshots assembles the read-only view of watchlist, portfolio and
// alert state handed to the presentation layer.
package snapshots

import (
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/alerts"
	"github.com/aristath/stockwatch/internal/modules/portfolio"
	"github.com/aristath/stockwatch/internal/modules/refresh"
)

// WatchlistView reads the watched stocks
type WatchlistView interface {
	Snapshot() []domain.StockSnapshot
}

// PortfolioView reads the portfolio
type PortfolioView interface {
	Snapshot() portfolio.Snapshot
}

// AlertsView lists alerts
type AlertsView interface {
	List() []alerts.Handle
}

// IndicesView reads cached index values
type IndicesView interface {
	Latest() []domain.MarketIndex
}

// RefreshView reads the last refresh outcome
type RefreshView interface {
	LastResult() *refresh.Result
}

// Snapshot is the complete current state
type Snapshot struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Watchlist   []domain.StockSnapshot `json:"watchlist"`
	Portfolio   portfolio.Snapshot     `json:"portfolio"`
	Alerts      []alerts.Handle        `json:"alerts"`
	Indices     []domain.MarketIndex   `json:"indices"`
	LastRefresh *refresh.Result        `json:"last_refresh,omitempty"`
}

// Service builds snapshots
type Service struct {
	watchlist WatchlistView
	portfolio PortfolioView
	alerts    AlertsView
	indices   IndicesView
	refresh   RefreshView
	now       func() time.Time
}

// NewService creates a snapshot service. indices and refresh may be nil.
func NewService(w WatchlistView, p PortfolioView, a AlertsView, i IndicesView, r RefreshView) *Service {
	return &Service{
		watchlist: w,
		portfolio: p,
		alerts:    a,
		indices:   i,
		refresh:   r,
		now:       time.Now,
	}
}

// Build returns the current state. Each part is internally consistent; parts
// are read one after another, not under a single lock.
func (s *Service) Build() Snapshot {
	snap := Snapshot{
		GeneratedAt: s.now(),
		Watchlist:   s.watchlist.Snapshot(),
		Portfolio:   s.portfolio.Snapshot(),
		Alerts:      s.alerts.List(),
		Indices:     []domain.MarketIndex{},
	}
	if s.indices != nil {
		snap.Indices = s.indices.Latest()
	}
	if s.refresh != nil {
		snap.LastRefresh = s.refresh.LastResult()
	}
	return snap
}
