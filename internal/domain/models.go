// Package domain provides core domain models and types.
package domain

import (
	"sync"
	"time"
)

// Quote is one provider response for a symbol
type Quote struct {
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
}

// Stock is a mutable quote snapshot for one ticker.
// Identity is the symbol; the refresh cycle overwrites the quote fields in place.
type Stock struct {
	mu            sync.RWMutex
	symbol        string
	name          string
	price         float64
	change        float64
	changePercent float64
	volume        int64
	lastUpdated   time.Time
}

// StockSnapshot is a consistent, immutable copy of a Stock
type StockSnapshot struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	LastUpdated   time.Time `json:"last_updated"`
}

// NewStock creates a stock with no quote applied yet.
// An empty name falls back to the symbol.
func NewStock(symbol, name string) *Stock {
	if name == "" {
		name = symbol
	}
	return &Stock{symbol: symbol, name: name}
}

// Symbol returns the stock's ticker
func (s *Stock) Symbol() string {
	return s.symbol
}

// Name returns the display name
func (s *Stock) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// SetName replaces the display name
func (s *Stock) SetName(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

// Price returns the last applied price
func (s *Stock) Price() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.price
}

// Apply overwrites price, change, change percent and volume from one quote.
// All four fields change together under the stock's lock.
func (s *Stock) Apply(q Quote, at time.Time) {
	s.mu.Lock()
	s.price = q.Price
	s.change = q.Change
	s.changePercent = q.ChangePercent
	s.volume = q.Volume
	s.lastUpdated = at
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the stock
func (s *Stock) Snapshot() StockSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StockSnapshot{
		Symbol:        s.symbol,
		Name:          s.name,
		Price:         s.price,
		Change:        s.change,
		ChangePercent: s.changePercent,
		Volume:        s.volume,
		LastUpdated:   s.lastUpdated,
	}
}

// PricePoint is one daily close
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// MarketIndex is the latest value of a market index
type MarketIndex struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	UpdatedAt     time.Time `json:"updated_at"`
}
