package watchlist

import (
	"context"
	"fmt"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/events"
	"github.com/rs/zerolog"
)

// StockFetcher performs an explicit single-symbol fetch
type StockFetcher interface {
	FetchStock(ctx context.Context, symbol string) (*domain.Stock, error)
}

// HeldStocks looks up stocks already referenced by portfolio holdings
type HeldStocks interface {
	Stock(symbol string) (*domain.Stock, bool)
}

// Service manages the watchlist
type Service struct {
	list    *Watchlist
	held    HeldStocks
	fetcher StockFetcher
	bus     *events.Bus
	log     zerolog.Logger
}

// NewService creates a new watchlist service. held may be nil.
func NewService(list *Watchlist, held HeldStocks, fetcher StockFetcher, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		list:    list,
		held:    held,
		fetcher: fetcher,
		bus:     bus,
		log:     log.With().Str("service", "watchlist").Logger(),
	}
}

// List returns the underlying watchlist
func (s *Service) List() *Watchlist {
	return s.list
}

// AddSymbol normalizes query, resolves the stock and adds it.
// A symbol already on the list is returned as is; a held symbol shares the
// holding's stock. Neither case fetches. Unknown symbols and provider
// failures are returned to the caller.
func (s *Service) AddSymbol(ctx context.Context, query string) (*domain.Stock, error) {
	symbol, err := domain.NormalizeSymbol(query)
	if err != nil {
		return nil, err
	}

	if existing, ok := s.list.Get(symbol); ok {
		return existing, nil
	}

	stock, err := s.resolveStock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	watched, added := s.list.Add(stock)
	if added {
		s.log.Info().Str("symbol", symbol).Msg("Added to watchlist")
		s.bus.Emit("watchlist", &events.WatchlistChangedData{Symbol: symbol, Action: "added"})
	}

	return watched, nil
}

func (s *Service) resolveStock(ctx context.Context, symbol string) (*domain.Stock, error) {
	if s.held != nil {
		if stock, ok := s.held.Stock(symbol); ok {
			return stock, nil
		}
	}

	stock, err := s.fetcher.FetchStock(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s to watchlist: %w", symbol, err)
	}
	return stock, nil
}

// Remove drops symbol from the watchlist and reports whether it was present
func (s *Service) Remove(rawSymbol string) (bool, error) {
	symbol, err := domain.NormalizeSymbol(rawSymbol)
	if err != nil {
		return false, err
	}

	if !s.list.Remove(symbol) {
		return false, nil
	}

	s.log.Info().Str("symbol", symbol).Msg("Removed from watchlist")
	s.bus.Emit("watchlist", &events.WatchlistChangedData{Symbol: symbol, Action: "removed"})
	return true, nil
}

// Get returns the watched stock for symbol
func (s *Service) Get(symbol string) (*domain.Stock, bool) {
	return s.list.Get(symbol)
}

// Stocks returns the watched stocks
func (s *Service) Stocks() []*domain.Stock {
	return s.list.Stocks()
}

// Snapshot returns the watched stocks as read-only copies
func (s *Service) Snapshot() []domain.StockSnapshot {
	return s.list.Snapshot()
}

// Seed adds each symbol in order. Failures are logged and skipped.
// It returns the number of symbols added.
func (s *Service) Seed(ctx context.Context, symbols []string) int {
	added := 0
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.AddSymbol(ctx, symbol); err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to seed watchlist symbol")
			s.bus.EmitError("watchlist", err, map[string]interface{}{"symbol": symbol, "action": "seed"})
			continue
		}
		added++
	}

	s.log.Info().Int("added", added).Int("requested", len(symbols)).Msg("Watchlist seeded")
	return added
}
