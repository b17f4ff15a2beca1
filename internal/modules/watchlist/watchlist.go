// Package watchlist tracks the set of stocks followed for price display,
// separate from portfolio holdings.
package watchlist

import (
	"sync"

	"github.com/aristath/stockwatch/internal/domain"
)

// Watchlist is an ordered set of stocks keyed by symbol
type Watchlist struct {
	mu       sync.RWMutex
	order    []*domain.Stock
	bySymbol map[string]*domain.Stock
}

// New creates an empty watchlist
func New() *Watchlist {
	return &Watchlist{bySymbol: make(map[string]*domain.Stock)}
}

// Add appends stock unless its symbol is already watched.
// It returns the watched stock and whether it was newly added.
func (w *Watchlist) Add(stock *domain.Stock) (*domain.Stock, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := w.bySymbol[stock.Symbol()]; ok {
		return existing, false
	}
	w.bySymbol[stock.Symbol()] = stock
	w.order = append(w.order, stock)
	return stock, true
}

// Remove drops symbol and reports whether it was present
func (w *Watchlist) Remove(symbol string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.bySymbol[symbol]; !ok {
		return false
	}
	delete(w.bySymbol, symbol)
	for i, s := range w.order {
		if s.Symbol() == symbol {
			w.order = append(w.order[:i:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the watched stock for symbol
func (w *Watchlist) Get(symbol string) (*domain.Stock, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.bySymbol[symbol]
	return s, ok
}

// Len returns the number of watched stocks
func (w *Watchlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.order)
}

// Stocks returns the watched stocks in insertion order
func (w *Watchlist) Stocks() []*domain.Stock {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*domain.Stock(nil), w.order...)
}

// Snapshot returns a consistent copy of every watched stock in order
func (w *Watchlist) Snapshot() []domain.StockSnapshot {
	stocks := w.Stocks()
	out := make([]domain.StockSnapshot, len(stocks))
	for i, s := range stocks {
		out[i] = s.Snapshot()
	}
	return out
}
