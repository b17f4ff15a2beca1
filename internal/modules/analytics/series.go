package analytics

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/portfolio"
)

const (
	// DefaultSeriesPoints is the number of historical points before the current value
	DefaultSeriesPoints = 30
	noiseAmplitude      = 0.05
)

// SeriesSource produces the value series risk metrics are computed over.
// The series ends with the portfolio's current value.
type SeriesSource interface {
	Name() string
	Series(ctx context.Context, snap portfolio.Snapshot) ([]float64, error)
}

// SyntheticSeries perturbs the current value with independent uniform noise
// in [-5%, +5%] per point. It is a placeholder for a real historical feed and
// its output carries no statistical meaning.
type SyntheticSeries struct {
	points int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticSeries creates a synthetic source with points perturbed values
func NewSyntheticSeries(points int) *SyntheticSeries {
	now := uint64(time.Now().UnixNano())
	return NewSeededSyntheticSeries(points, now, now>>1)
}

// NewSeededSyntheticSeries creates a deterministic synthetic source
func NewSeededSyntheticSeries(points int, seed1, seed2 uint64) *SyntheticSeries {
	if points <= 0 {
		points = DefaultSeriesPoints
	}
	return &SyntheticSeries{
		points: points,
		rng:    rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Name identifies the source in reports
func (s *SyntheticSeries) Name() string { return "synthetic" }

// Series returns points noisy values around the current value, followed by the current value
func (s *SyntheticSeries) Series(_ context.Context, snap portfolio.Snapshot) ([]float64, error) {
	current := snap.Performance.CurrentValue
	series := make([]float64, s.points+1)

	s.mu.Lock()
	for i := 0; i < s.points; i++ {
		noise := (s.rng.Float64()*2 - 1) * noiseAmplitude
		series[i] = current * (1 + noise)
	}
	s.mu.Unlock()

	series[s.points] = current
	return series, nil
}

// HistoricalSeries values the current holdings over real daily closes
type HistoricalSeries struct {
	history domain.HistoryProvider
	points  int
}

// NewHistoricalSeries creates a source that fetches points days of history per held symbol
func NewHistoricalSeries(history domain.HistoryProvider, points int) *HistoricalSeries {
	if points <= 0 {
		points = DefaultSeriesPoints
	}
	return &HistoricalSeries{history: history, points: points}
}

// Name identifies the source in reports
func (h *HistoricalSeries) Name() string { return "history" }

// Series values today's share counts at each of the most recent common
// trading days, then appends the current value.
func (h *HistoricalSeries) Series(ctx context.Context, snap portfolio.Snapshot) ([]float64, error) {
	if len(snap.Holdings) == 0 {
		return []float64{snap.Performance.CurrentValue}, nil
	}

	shares := make(map[string]int)
	var symbols []string
	for _, holding := range snap.Holdings {
		if _, ok := shares[holding.Symbol]; !ok {
			symbols = append(symbols, holding.Symbol)
		}
		shares[holding.Symbol] += holding.Shares
	}

	closes := make(map[string][]float64, len(symbols))
	length := -1
	for _, symbol := range symbols {
		points, err := h.history.FetchHistory(ctx, symbol, h.points)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
		}
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Close
		}
		closes[symbol] = values
		if length < 0 || len(values) < length {
			length = len(values)
		}
	}

	if length <= 0 {
		return nil, errors.New("no overlapping history for held symbols")
	}

	series := make([]float64, length+1)
	for _, symbol := range symbols {
		values := closes[symbol]
		offset := len(values) - length
		for i := 0; i < length; i++ {
			series[i] += values[offset+i] * float64(shares[symbol])
		}
	}
	series[length] = snap.Performance.CurrentValue

	return series, nil
}
