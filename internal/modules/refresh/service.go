// Package refresh implements the price refresh cycle: it pulls fresh quotes
// for every tracked stock, applies them in place and hands each updated
// stock to the alert engine.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/events"
	"github.com/aristath/stockwatch/internal/modules/alerts"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Trigger names what started a refresh batch
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerScheduled Trigger = "scheduled"
	TriggerReport    Trigger = "report"
)

// StockSource lists the stocks a refresh batch covers
type StockSource interface {
	Stocks() []*domain.Stock
}

// Update is a successfully refreshed symbol
type Update struct {
	Symbol      string                `json:"symbol"`
	Stock       domain.StockSnapshot  `json:"stock"`
	AlertsFired []alerts.Notification `json:"alerts_fired,omitempty"`
}

// Failure is a symbol whose refresh failed
type Failure struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// Result is the outcome of one refresh batch
type Result struct {
	Trigger   Trigger       `json:"trigger"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Updated   []Update      `json:"updated"`
	Failed    []Failure     `json:"failed"`
}

// Service runs refresh batches and explicit single-symbol fetches.
// All provider requests share one Spacer.
type Service struct {
	quotes    domain.QuoteProvider
	names     domain.NameResolver
	watchlist StockSource
	holdings  StockSource
	alerts    *alerts.Engine
	bus       *events.Bus
	spacer    *Spacer
	group     singleflight.Group
	log       zerolog.Logger
	now       func() time.Time

	mu   sync.RWMutex
	last *Result
}

// NewService creates a new refresh service
func NewService(
	quotes domain.QuoteProvider,
	names domain.NameResolver,
	watchlist StockSource,
	holdings StockSource,
	engine *alerts.Engine,
	bus *events.Bus,
	spacer *Spacer,
	log zerolog.Logger,
) *Service {
	return &Service{
		quotes:    quotes,
		names:     names,
		watchlist: watchlist,
		holdings:  holdings,
		alerts:    engine,
		bus:       bus,
		spacer:    spacer,
		log:       log.With().Str("service", "refresh").Logger(),
		now:       time.Now,
	}
}

// RefreshAll refreshes every watched and held stock.
// Concurrent calls share one in-flight batch.
func (s *Service) RefreshAll(ctx context.Context, trigger Trigger) *Result {
	return s.coalesce(ctx, "all", trigger, s.watchlist, s.holdings)
}

// RefreshHoldings refreshes only the stocks referenced by holdings
func (s *Service) RefreshHoldings(ctx context.Context, trigger Trigger) *Result {
	return s.coalesce(ctx, "holdings", trigger, s.holdings)
}

// LastResult returns the most recently completed batch, or nil
func (s *Service) LastResult() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Service) coalesce(ctx context.Context, key string, trigger Trigger, sources ...StockSource) *Result {
	// a batch runs to completion once started, whoever asked for it
	batchCtx := context.WithoutCancel(ctx)

	v, _, shared := s.group.Do(key, func() (interface{}, error) {
		return s.runBatch(batchCtx, trigger, sources...), nil
	})
	if shared {
		s.log.Debug().Str("batch", key).Msg("Joined in-flight refresh")
	}
	return v.(*Result)
}

// symbolGroup is every tracked Stock object for one symbol
type symbolGroup struct {
	symbol string
	stocks []*domain.Stock
}

func collect(sources ...StockSource) []symbolGroup {
	index := make(map[string]int)
	var groups []symbolGroup
	seen := make(map[*domain.Stock]struct{})

	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, stock := range src.Stocks() {
			if _, ok := seen[stock]; ok {
				continue
			}
			seen[stock] = struct{}{}

			if i, ok := index[stock.Symbol()]; ok {
				groups[i].stocks = append(groups[i].stocks, stock)
				continue
			}
			index[stock.Symbol()] = len(groups)
			groups = append(groups, symbolGroup{symbol: stock.Symbol(), stocks: []*domain.Stock{stock}})
		}
	}
	return groups
}

func (s *Service) runBatch(ctx context.Context, trigger Trigger, sources ...StockSource) *Result {
	started := s.now()
	result := &Result{
		Trigger:   trigger,
		StartedAt: started,
		Updated:   []Update{},
		Failed:    []Failure{},
	}

	for _, g := range collect(sources...) {
		quote, err := s.FetchQuote(ctx, g.symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", g.symbol).Msg("Failed to refresh symbol")
			result.Failed = append(result.Failed, Failure{Symbol: g.symbol, Error: err.Error()})
			s.bus.EmitError("refresh", err, map[string]interface{}{
				"symbol":  g.symbol,
				"trigger": string(trigger),
			})
			continue
		}
		result.Updated = append(result.Updated, s.apply(g, quote))
	}

	result.Duration = s.now().Sub(started)

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	s.log.Info().
		Str("trigger", string(trigger)).
		Int("updated", len(result.Updated)).
		Int("failed", len(result.Failed)).
		Dur("duration", result.Duration).
		Msg("Refresh completed")

	s.publish(result)
	return result
}

// apply writes quote to every stock object for the symbol and notifies alerts
func (s *Service) apply(g symbolGroup, quote domain.Quote) Update {
	at := s.now()
	update := Update{Symbol: g.symbol}

	for _, stock := range g.stocks {
		stock.Apply(quote, at)
		update.AlertsFired = append(update.AlertsFired, s.alerts.Notify(stock)...)
	}
	update.Stock = g.stocks[0].Snapshot()

	s.bus.Emit("refresh", &events.PriceUpdatedData{
		Symbol:        g.symbol,
		Price:         quote.Price,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		Volume:        quote.Volume,
	})

	return update
}

func (s *Service) publish(result *Result) {
	data := &events.RefreshCompletedData{
		Trigger:    string(result.Trigger),
		Updated:    make([]events.SymbolRefresh, len(result.Updated)),
		DurationMs: result.Duration.Milliseconds(),
	}
	for i, u := range result.Updated {
		data.Updated[i] = events.SymbolRefresh{
			Symbol:        u.Symbol,
			Price:         u.Stock.Price,
			Change:        u.Stock.Change,
			ChangePercent: u.Stock.ChangePercent,
			Volume:        u.Stock.Volume,
			AlertFired:    len(u.AlertsFired) > 0,
		}
	}
	for _, f := range result.Failed {
		data.Failed = append(data.Failed, f.Symbol)
	}
	s.bus.Emit("refresh", data)
}

// FetchQuote fetches one quote, waiting for the next request slot first
func (s *Service) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	if err := s.spacer.Wait(ctx); err != nil {
		return domain.Quote{}, err
	}
	return s.quotes.FetchQuote(ctx, symbol)
}

// FetchStock performs an explicit single-symbol fetch and returns a new
// stock with its quote and display name applied. Errors are returned to the
// caller rather than logged.
func (s *Service) FetchStock(ctx context.Context, symbol string) (*domain.Stock, error) {
	quote, err := s.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	name := symbol
	if s.names != nil {
		if err := s.spacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("interrupted resolving name for %s: %w", symbol, err)
		}
		name = s.names.FetchName(ctx, symbol)
	}

	stock := domain.NewStock(symbol, name)
	stock.Apply(quote, s.now())
	s.alerts.Notify(stock)

	return stock, nil
}
