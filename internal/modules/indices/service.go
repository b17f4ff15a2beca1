// Package indices tracks headline market index levels.
package indices

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/rs/zerolog"
)

// Index identifies a tracked market index
type Index struct {
	Symbol string
	Name   string
}

// Default is the set of indices shown alongside the watchlist
var Default = []Index{
	{Symbol: "^GSPC", Name: "S&P 500"},
	{Symbol: "^IXIC", Name: "NASDAQ Composite"},
	{Symbol: "^DJI", Name: "Dow Jones Industrial Average"},
}

// Service fetches and caches index quotes
type Service struct {
	quotes  domain.QuoteProvider
	indices []Index
	log     zerolog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	latest map[string]domain.MarketIndex
}

// NewService creates an index service over the given indices
func NewService(quotes domain.QuoteProvider, indices []Index, log zerolog.Logger) *Service {
	return &Service{
		quotes:  quotes,
		indices: indices,
		log:     log.With().Str("service", "indices").Logger(),
		now:     time.Now,
		latest:  make(map[string]domain.MarketIndex),
	}
}

// Refresh fetches every index. Failed indices are logged and keep their last value.
func (s *Service) Refresh(ctx context.Context) []domain.MarketIndex {
	for _, idx := range s.indices {
		q, err := s.quotes.FetchQuote(ctx, idx.Symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", idx.Symbol).Msg("Failed to fetch market index")
			continue
		}

		s.mu.Lock()
		s.latest[idx.Symbol] = domain.MarketIndex{
			Symbol:        idx.Symbol,
			Name:          idx.Name,
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
			UpdatedAt:     s.now(),
		}
		s.mu.Unlock()
	}

	return s.Latest()
}

// Latest returns the last successful value of each index in configured order
func (s *Service) Latest() []domain.MarketIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MarketIndex, 0, len(s.indices))
	for _, idx := range s.indices {
		if v, ok := s.latest[idx.Symbol]; ok {
			out = append(out, v)
		}
	}
	return out
}
