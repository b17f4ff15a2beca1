// Package analytics produces portfolio analysis reports and single-stock
// technical summaries.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/events"
	"github.com/aristath/stockwatch/internal/modules/portfolio"
	"github.com/aristath/stockwatch/internal/modules/refresh"
	"github.com/aristath/stockwatch/internal/utils"
	"github.com/aristath/stockwatch/pkg/formulas"
	"github.com/rs/zerolog"
)

// HoldingsRefresher refreshes the stocks referenced by holdings
type HoldingsRefresher interface {
	RefreshHoldings(ctx context.Context, trigger refresh.Trigger) *refresh.Result
}

// Service generates analysis reports
type Service struct {
	portfolio *portfolio.Portfolio
	refresher HoldingsRefresher
	series    SeriesSource
	fallback  SeriesSource
	history   domain.HistoryProvider
	bus       *events.Bus
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new analytics service.
// fallback is used when series fails; it may be nil.
func NewService(
	p *portfolio.Portfolio,
	refresher HoldingsRefresher,
	series SeriesSource,
	fallback SeriesSource,
	history domain.HistoryProvider,
	bus *events.Bus,
	log zerolog.Logger,
) *Service {
	return &Service{
		portfolio: p,
		refresher: refresher,
		series:    series,
		fallback:  fallback,
		history:   history,
		bus:       bus,
		log:       log.With().Str("service", "analytics").Logger(),
		now:       time.Now,
	}
}

// GenerateReport refreshes holdings and builds a report from the prices held
// afterwards. Refresh failures leave last-known prices in place and are
// listed on the report; they never abort it.
func (s *Service) GenerateReport(ctx context.Context) *Report {
	defer utils.OperationTimer("generate_report", s.log)()

	result := s.refresher.RefreshHoldings(ctx, refresh.TriggerReport)

	snap := s.portfolio.Snapshot()
	perf := performanceMetrics(snap.Performance)

	values, source := s.riskSeries(ctx, snap)
	risk := map[string]float64{
		MetricVolatility:  formulas.VolatilityPercent(values),
		MetricMaxDrawdown: formulas.MaxDrawdownPercent(values),
		MetricSharpeRatio: SharpeRatioPlaceholder,
	}

	recommendation := Recommend(snap.Performance.GainLossPercent)
	report := &Report{
		Portfolio:          snap,
		Date:               s.now(),
		Summary:            summarize(snap.Name, perf, risk, recommendation),
		PerformanceMetrics: perf,
		RiskMetrics:        risk,
		Recommendation:     recommendation,
		RiskSeriesSource:   source,
	}
	if result != nil && len(result.Failed) > 0 {
		report.RefreshFailures = append([]refresh.Failure(nil), result.Failed...)
	}

	s.log.Info().
		Str("portfolio", snap.Name).
		Float64("current_value", snap.Performance.CurrentValue).
		Float64("gain_loss_percent", snap.Performance.GainLossPercent).
		Int("refresh_failures", len(report.RefreshFailures)).
		Str("risk_series", source).
		Msg("Report generated")

	s.bus.Emit("analytics", &events.ReportGeneratedData{
		Portfolio:       snap.Name,
		CurrentValue:    snap.Performance.CurrentValue,
		GainLossPercent: snap.Performance.GainLossPercent,
		Recommendation:  recommendation,
	})

	return report
}

func (s *Service) riskSeries(ctx context.Context, snap portfolio.Snapshot) ([]float64, string) {
	values, err := s.series.Series(ctx, snap)
	if err == nil {
		return values, s.series.Name()
	}

	s.log.Warn().Err(err).Str("source", s.series.Name()).Msg("Risk series unavailable")
	if s.fallback != nil {
		if values, err := s.fallback.Series(ctx, snap); err == nil {
			return values, s.fallback.Name()
		}
	}
	return []float64{snap.Performance.CurrentValue}, "current"
}

// StockAnalysis is a technical summary of one symbol's recent closes
type StockAnalysis struct {
	Symbol          string              `json:"symbol"`
	Points          int                 `json:"points"`
	From            time.Time           `json:"from"`
	To              time.Time           `json:"to"`
	FirstClose      float64             `json:"first_close"`
	LastClose       float64             `json:"last_close"`
	PeriodChangePct float64             `json:"period_change_pct"`
	AverageClose    float64             `json:"average_close"`
	SMA5            *float64            `json:"sma_5,omitempty"`
	SMA20           *float64            `json:"sma_20,omitempty"`
	RSI14           *float64            `json:"rsi_14,omitempty"`
	VolatilityPct   float64             `json:"volatility_pct"`
	MaxDrawdownPct  float64             `json:"max_drawdown_pct"`
	History         []domain.PricePoint `json:"history"`
}

// AnalysisWindowDays is the history window for single-stock analysis
const AnalysisWindowDays = 30

// AnalyzeStock fetches recent history for symbol and summarizes it
func (s *Service) AnalyzeStock(ctx context.Context, rawSymbol string) (*StockAnalysis, error) {
	symbol, err := domain.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}

	points, err := s.history.FetchHistory(ctx, symbol, AnalysisWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no history for %s", domain.ErrUnknownSymbol, symbol)
	}

	points = append([]domain.PricePoint(nil), points...)
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}

	first, last := points[0], points[len(points)-1]
	return &StockAnalysis{
		Symbol:          symbol,
		Points:          len(points),
		From:            first.Date,
		To:              last.Date,
		FirstClose:      first.Close,
		LastClose:       last.Close,
		PeriodChangePct: formulas.PercentChange(first.Close, last.Close),
		AverageClose:    formulas.Mean(closes),
		SMA5:            formulas.SMA(closes, 5),
		SMA20:           formulas.SMA(closes, 20),
		RSI14:           formulas.RSI(closes, 14),
		VolatilityPct:   formulas.VolatilityPercent(closes),
		MaxDrawdownPct:  formulas.MaxDrawdownPercent(closes),
		History:         points,
	}, nil
}
