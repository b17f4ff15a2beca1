package portfolio

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedStock(symbol string, price float64) *domain.Stock {
	s := domain.NewStock(symbol, "")
	s.Apply(domain.Quote{Price: price}, time.Now())
	return s
}

func TestAddHolding_MultipleLotsSameSymbol(t *testing.T) {
	p := New("Test")
	aapl := pricedStock("AAPL", 170)

	first, err := p.AddHolding(aapl, 10, 150)
	require.NoError(t, err)
	second, err := p.AddHolding(aapl, 5, 160)
	require.NoError(t, err)

	assert.Equal(t, 2300.0, p.InitialInvestment())
	require.Len(t, p.Holdings(), 2)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Len(t, p.Stocks(), 1)
	assert.Equal(t, 2550.0, p.CurrentValue())
	assert.Equal(t, 250.0, p.GainLoss())
}

func TestAddHolding_Validation(t *testing.T) {
	p := New("Test")
	s := pricedStock("MSFT", 1)

	tests := []struct {
		name   string
		stock  *domain.Stock
		shares int
		price  float64
		err    error
	}{
		{"zero shares", s, 0, 10, ErrInvalidShares},
		{"negative shares", s, -3, 10, ErrInvalidShares},
		{"negative price", s, 1, -0.01, ErrInvalidPurchasePrice},
		{"nan price", s, 1, math.NaN(), ErrInvalidPurchasePrice},
		{"infinite price", s, 1, math.Inf(1), ErrInvalidPurchasePrice},
		{"nil stock", nil, 1, 10, ErrNilStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.AddHolding(tt.stock, tt.shares, tt.price)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}

	assert.Empty(t, p.Holdings())
	assert.Equal(t, 0.0, p.InitialInvestment())
}

func TestAddHolding_ZeroPurchasePriceAllowed(t *testing.T) {
	p := New("Test")
	_, err := p.AddHolding(pricedStock("GIFT", 10), 3, 0)
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.InitialInvestment())
	assert.Equal(t, 30.0, p.GainLoss())
	assert.Equal(t, 0.0, p.GainLossPercent())
}

func TestRemoveHolding_RecomputesInvestment(t *testing.T) {
	p := New("Test")
	aapl := pricedStock("AAPL", 100)
	msft := pricedStock("MSFT", 300)

	_, _ = p.AddHolding(aapl, 10, 150)
	_, _ = p.AddHolding(msft, 2, 250)
	_, _ = p.AddHolding(aapl, 5, 160)

	removed := p.RemoveHolding("AAPL")

	assert.Equal(t, 2, removed)
	require.Len(t, p.Holdings(), 1)
	assert.Equal(t, "MSFT", p.Holdings()[0].Stock().Symbol())

	direct := 0.0
	for _, h := range p.Holdings() {
		direct += h.InitialCost()
	}
	assert.Equal(t, direct, p.InitialInvestment())
	assert.Equal(t, 500.0, p.InitialInvestment())
}

func TestRemoveHolding_AbsentSymbol(t *testing.T) {
	p := New("Test")
	_, _ = p.AddHolding(pricedStock("AAPL", 100), 1, 100)

	assert.Equal(t, 0, p.RemoveHolding("TSLA"))
	assert.Equal(t, 100.0, p.InitialInvestment())
}

func TestGainLossPercent_NoInvestment(t *testing.T) {
	p := New("Empty")
	assert.Equal(t, 0.0, p.GainLossPercent())
	assert.Equal(t, 0.0, p.GainLoss())
	assert.Equal(t, Performance{}, p.Performance())
}

func TestGainLossPercent(t *testing.T) {
	p := New("Test")
	_, _ = p.AddHolding(pricedStock("AAPL", 120), 10, 100)

	assert.InDelta(t, 20.0, p.GainLossPercent(), 1e-9)
}

func TestGainLossIdentity_AfterOperations(t *testing.T) {
	p := New("Test")
	stocks := map[string]*domain.Stock{
		"AAPL": pricedStock("AAPL", 187.13),
		"MSFT": pricedStock("MSFT", 411.07),
		"TSLA": pricedStock("TSLA", 0.1),
	}

	_, _ = p.AddHolding(stocks["AAPL"], 7, 150.33)
	_, _ = p.AddHolding(stocks["MSFT"], 3, 399.99)
	_, _ = p.AddHolding(stocks["TSLA"], 11, 212.5)
	p.RemoveHolding("MSFT")
	_, _ = p.AddHolding(stocks["AAPL"], 2, 0.07)

	perf := p.Performance()
	assert.InDelta(t, perf.CurrentValue-perf.InitialInvestment, perf.GainLoss, 1e-9)
	assert.InDelta(t, p.CurrentValue()-p.InitialInvestment(), p.GainLoss(), 1e-9)
}

func TestSnapshot(t *testing.T) {
	p := New("Snap")
	_, _ = p.AddHolding(pricedStock("AAPL", 110), 2, 100)

	snap := p.Snapshot()
	assert.Equal(t, "Snap", snap.Name)
	require.Len(t, snap.Holdings, 1)
	h := snap.Holdings[0]
	assert.Equal(t, "AAPL", h.Symbol)
	assert.Equal(t, 220.0, h.CurrentValue)
	assert.Equal(t, 200.0, h.InitialCost)
	assert.Equal(t, 20.0, h.GainLoss)
	assert.Equal(t, 220.0, snap.Performance.CurrentValue)
	assert.InDelta(t, 10.0, snap.Performance.GainLossPercent, 1e-9)
}

func TestPortfolio_ConcurrentMutationAndReads(t *testing.T) {
	p := New("Concurrent")
	stock := pricedStock("AAPL", 100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = p.AddHolding(stock, 1, 10)
		}()
		go func() {
			defer wg.Done()
			_ = p.Performance()
		}()
		go func(i int) {
			defer wg.Done()
			stock.Apply(domain.Quote{Price: float64(100 + i)}, time.Now())
		}(i)
	}
	wg.Wait()

	assert.Len(t, p.Holdings(), 20)
	assert.Equal(t, 200.0, p.InitialInvestment())
}
