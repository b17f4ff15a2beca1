// Package portfolio implements the holdings ledger: lots of shares with a fixed
// cost basis and the portfolio-level valuation derived from them.
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidShares is returned when a share count is not a positive integer
	ErrInvalidShares = errors.New("shares must be a positive integer")
	// ErrInvalidPurchasePrice is returned when a purchase price is negative or not finite
	ErrInvalidPurchasePrice = errors.New("purchase price must be a finite value >= 0")
	// ErrNilStock is returned when a holding is added without a stock
	ErrNilStock = errors.New("holding requires a stock")
)

// Holding is one lot of shares with a fixed cost basis.
// The referenced Stock is shared and mutated by refresh; the lot itself never changes.
type Holding struct {
	id            string
	stock         *domain.Stock
	shares        int
	purchasePrice decimal.Decimal
	acquiredAt    time.Time
}

// ID returns the holding identifier
func (h *Holding) ID() string { return h.id }

// Stock returns the referenced stock
func (h *Holding) Stock() *domain.Stock { return h.stock }

// Shares returns the share count
func (h *Holding) Shares() int { return h.shares }

// PurchasePrice returns the per-share cost basis
func (h *Holding) PurchasePrice() float64 { return h.purchasePrice.InexactFloat64() }

// CurrentValue returns price × shares at the stock's current price
func (h *Holding) CurrentValue() float64 { return h.currentValue().InexactFloat64() }

// InitialCost returns purchasePrice × shares
func (h *Holding) InitialCost() float64 { return h.initialCost().InexactFloat64() }

func (h *Holding) initialCost() decimal.Decimal {
	return h.purchasePrice.Mul(decimal.NewFromInt(int64(h.shares)))
}

func (h *Holding) currentValue() decimal.Decimal {
	return decimal.NewFromFloat(h.stock.Price()).Mul(decimal.NewFromInt(int64(h.shares)))
}

// HoldingSnapshot is a read-only view of a holding priced at snapshot time
type HoldingSnapshot struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Shares        int       `json:"shares"`
	PurchasePrice float64   `json:"purchase_price"`
	CurrentPrice  float64   `json:"current_price"`
	CurrentValue  float64   `json:"current_value"`
	InitialCost   float64   `json:"initial_cost"`
	GainLoss      float64   `json:"gain_loss"`
	AcquiredAt    time.Time `json:"acquired_at"`
}

// Performance holds the four portfolio-derived values
type Performance struct {
	CurrentValue      float64 `json:"current_value"`
	InitialInvestment float64 `json:"initial_investment"`
	GainLoss          float64 `json:"gain_loss"`
	GainLossPercent   float64 `json:"gain_loss_percent"`
}

// Snapshot is a consistent read-only view of the whole portfolio
type Snapshot struct {
	Name        string            `json:"name"`
	Holdings    []HoldingSnapshot `json:"holdings"`
	Performance Performance       `json:"performance"`
}

// Portfolio is the mutable aggregate of holdings.
// Lock order is portfolio then stock; refresh only ever takes stock locks.
type Portfolio struct {
	mu                sync.RWMutex
	name              string
	holdings          []*Holding
	initialInvestment decimal.Decimal
	now               func() time.Time
}

// New creates an empty portfolio
func New(name string) *Portfolio {
	return &Portfolio{
		name:              name,
		initialInvestment: decimal.Zero,
		now:               time.Now,
	}
}

// Name returns the portfolio name
func (p *Portfolio) Name() string {
	return p.name
}

// AddHolding appends a new lot and increases the initial investment by
// shares × purchasePrice. The same symbol may be added any number of times.
func (p *Portfolio) AddHolding(stock *domain.Stock, shares int, purchasePrice float64) (*Holding, error) {
	if stock == nil {
		return nil, ErrNilStock
	}
	if shares <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShares, shares)
	}
	if purchasePrice < 0 || math.IsNaN(purchasePrice) || math.IsInf(purchasePrice, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPurchasePrice, purchasePrice)
	}

	h := &Holding{
		id:            uuid.New().String(),
		stock:         stock,
		shares:        shares,
		purchasePrice: decimal.NewFromFloat(purchasePrice),
		acquiredAt:    p.now(),
	}

	p.mu.Lock()
	p.holdings = append(p.holdings, h)
	p.initialInvestment = p.initialInvestment.Add(h.initialCost())
	p.mu.Unlock()

	return h, nil
}

// RemoveHolding removes every lot for symbol and recomputes the initial
// investment from the remaining lots. It returns the number of lots removed.
func (p *Portfolio) RemoveHolding(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := make([]*Holding, 0, len(p.holdings))
	for _, h := range p.holdings {
		if h.stock.Symbol() != symbol {
			kept = append(kept, h)
		}
	}
	removed := len(p.holdings) - len(kept)
	p.holdings = kept
	p.initialInvestment = sumInitialCost(p.holdings)

	return removed
}

func sumInitialCost(holdings []*Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.initialCost())
	}
	return total
}

func sumCurrentValue(holdings []*Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.currentValue())
	}
	return total
}

// CurrentValue returns Σ price × shares
func (p *Portfolio) CurrentValue() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sumCurrentValue(p.holdings).InexactFloat64()
}

// InitialInvestment returns Σ purchasePrice × shares
func (p *Portfolio) InitialInvestment() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialInvestment.InexactFloat64()
}

// GainLoss returns CurrentValue - InitialInvestment
func (p *Portfolio) GainLoss() float64 {
	return p.Performance().GainLoss
}

// GainLossPercent returns GainLoss / InitialInvestment × 100, or 0 with no investment
func (p *Portfolio) GainLossPercent() float64 {
	return p.Performance().GainLossPercent
}

// Performance returns the four derived values computed from one read of the holdings
func (p *Portfolio) Performance() Performance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return performanceOf(sumCurrentValue(p.holdings), p.initialInvestment)
}

func performanceOf(current, invested decimal.Decimal) Performance {
	gainLoss := current.Sub(invested)
	perf := Performance{
		CurrentValue:      current.InexactFloat64(),
		InitialInvestment: invested.InexactFloat64(),
		GainLoss:          gainLoss.InexactFloat64(),
	}
	if invested.IsPositive() {
		perf.GainLossPercent = gainLoss.Div(invested).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return perf
}

// Holdings returns the lots in insertion order
func (p *Portfolio) Holdings() []*Holding {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*Holding(nil), p.holdings...)
}

// Stock returns the stock shared by existing lots of symbol
func (p *Portfolio) Stock(symbol string) (*domain.Stock, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, h := range p.holdings {
		if h.stock.Symbol() == symbol {
			return h.stock, true
		}
	}
	return nil, false
}

// Stocks returns each distinct stock referenced by a holding
func (p *Portfolio) Stocks() []*domain.Stock {
	p.mu.RLock()
	defer p.mu.RUnlock()

	seen := make(map[*domain.Stock]struct{}, len(p.holdings))
	stocks := make([]*domain.Stock, 0, len(p.holdings))
	for _, h := range p.holdings {
		if _, ok := seen[h.stock]; ok {
			continue
		}
		seen[h.stock] = struct{}{}
		stocks = append(stocks, h.stock)
	}
	return stocks
}

// Snapshot returns holdings and performance priced from one read of each stock
func (p *Portfolio) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	holdings := make([]HoldingSnapshot, len(p.holdings))
	current := decimal.Zero
	for i, h := range p.holdings {
		stock := h.stock.Snapshot()
		value := decimal.NewFromFloat(stock.Price).Mul(decimal.NewFromInt(int64(h.shares)))
		cost := h.initialCost()
		current = current.Add(value)

		holdings[i] = HoldingSnapshot{
			ID:            h.id,
			Symbol:        stock.Symbol,
			Name:          stock.Name,
			Shares:        h.shares,
			PurchasePrice: h.purchasePrice.InexactFloat64(),
			CurrentPrice:  stock.Price,
			CurrentValue:  value.InexactFloat64(),
			InitialCost:   cost.InexactFloat64(),
			GainLoss:      value.Sub(cost).InexactFloat64(),
			AcquiredAt:    h.acquiredAt,
		}
	}

	return Snapshot{
		Name:        p.name,
		Holdings:    holdings,
		Performance: performanceOf(current, p.initialInvestment),
	}
}
