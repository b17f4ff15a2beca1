package portfolio

import (
	"context"
	"fmt"
	"math"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/events"
	"github.com/rs/zerolog"
)

// WatchedStocks looks up stocks already tracked on the watchlist
type WatchedStocks interface {
	Get(symbol string) (*domain.Stock, bool)
}

// StockFetcher performs an explicit single-symbol fetch
type StockFetcher interface {
	FetchStock(ctx context.Context, symbol string) (*domain.Stock, error)
}

// Service owns the portfolio for the lifetime of the process and resolves
// stocks for new holdings.
type Service struct {
	portfolio *Portfolio
	watched   WatchedStocks
	fetcher   StockFetcher
	bus       *events.Bus
	log       zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(p *Portfolio, watched WatchedStocks, fetcher StockFetcher, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		portfolio: p,
		watched:   watched,
		fetcher:   fetcher,
		bus:       bus,
		log:       log.With().Str("service", "portfolio").Logger(),
	}
}

// Portfolio returns the owned portfolio
func (s *Service) Portfolio() *Portfolio {
	return s.portfolio
}

// AddHolding adds a lot for symbol. The stock is shared with existing lots or
// the watchlist when present, and fetched once otherwise.
func (s *Service) AddHolding(ctx context.Context, rawSymbol string, shares int, purchasePrice float64) (*Holding, error) {
	symbol, err := domain.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	if shares <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShares, shares)
	}
	if purchasePrice < 0 || math.IsNaN(purchasePrice) || math.IsInf(purchasePrice, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPurchasePrice, purchasePrice)
	}

	stock, err := s.resolveStock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	h, err := s.portfolio.AddHolding(stock, shares, purchasePrice)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("symbol", symbol).
		Int("shares", shares).
		Float64("purchase_price", purchasePrice).
		Msg("Holding added")

	s.bus.Emit("portfolio", &events.HoldingAddedData{
		HoldingID:     h.ID(),
		Symbol:        symbol,
		Shares:        shares,
		PurchasePrice: purchasePrice,
	})

	return h, nil
}

func (s *Service) resolveStock(ctx context.Context, symbol string) (*domain.Stock, error) {
	if stock, ok := s.portfolio.Stock(symbol); ok {
		return stock, nil
	}
	if s.watched != nil {
		if stock, ok := s.watched.Get(symbol); ok {
			return stock, nil
		}
	}

	stock, err := s.fetcher.FetchStock(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", symbol, err)
	}
	return stock, nil
}

// RemoveHolding removes all lots for symbol and returns how many were removed
func (s *Service) RemoveHolding(rawSymbol string) (int, error) {
	symbol, err := domain.NormalizeSymbol(rawSymbol)
	if err != nil {
		return 0, err
	}

	removed := s.portfolio.RemoveHolding(symbol)
	if removed == 0 {
		return 0, nil
	}

	s.log.Info().Str("symbol", symbol).Int("removed", removed).Msg("Holdings removed")
	s.bus.Emit("portfolio", &events.HoldingRemovedData{Symbol: symbol, Removed: removed})

	return removed, nil
}

// Stocks returns the distinct stocks held
func (s *Service) Stocks() []*domain.Stock {
	return s.portfolio.Stocks()
}

// Snapshot returns a read-only view of the portfolio
func (s *Service) Snapshot() Snapshot {
	return s.portfolio.Snapshot()
}
