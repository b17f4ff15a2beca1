package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/aristath/stockwatch/internal/modules/portfolio"
	"github.com/aristath/stockwatch/internal/modules/refresh"
	"github.com/shopspring/decimal"
)

// Performance metric keys
const (
	MetricCurrentValue      = "currentValue"
	MetricInitialInvestment = "initialInvestment"
	MetricGainLoss          = "gainLoss"
	MetricGainLossPercent   = "gainLossPercent"
)

// Risk metric keys
const (
	MetricVolatility  = "volatility"
	MetricMaxDrawdown = "maxDrawdown"
	MetricSharpeRatio = "sharpeRatio"
)

const (
	// SharpeRatioPlaceholder stands in until a risk-free rate input exists
	SharpeRatioPlaceholder = 1.2

	takeProfitsAbove  = 15.0
	reassessBelow     = -10.0
	currencyCode      = money.USD
	recommendProfits  = "Consider taking some profits."
	recommendReassess = "Consider reassessing your positions."
	recommendSteady   = "Portfolio is steady and on track."
)

// Report is an immutable portfolio analysis
type Report struct {
	Portfolio          portfolio.Snapshot `json:"portfolio"`
	Date               time.Time          `json:"date"`
	Summary            string             `json:"summary"`
	PerformanceMetrics map[string]float64 `json:"performance_metrics"`
	RiskMetrics        map[string]float64 `json:"risk_metrics"`
	Recommendation     string             `json:"recommendation"`
	RiskSeriesSource   string             `json:"risk_series_source"`
	RefreshFailures    []refresh.Failure  `json:"refresh_failures,omitempty"`
}

// Recommend selects the recommendation for a gain/loss percentage.
// Thresholds are exclusive: > 15 takes profits, < -10 reassesses.
func Recommend(gainLossPercent float64) string {
	switch {
	case gainLossPercent > takeProfitsAbove:
		return recommendProfits
	case gainLossPercent < reassessBelow:
		return recommendReassess
	default:
		return recommendSteady
	}
}

func performanceMetrics(perf portfolio.Performance) map[string]float64 {
	return map[string]float64{
		MetricCurrentValue:      perf.CurrentValue,
		MetricInitialInvestment: perf.InitialInvestment,
		MetricGainLoss:          perf.GainLoss,
		MetricGainLossPercent:   perf.GainLossPercent,
	}
}

// formatMoney renders an amount as currency, e.g. $1,234.56
func formatMoney(amount float64) string {
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return money.New(cents, currencyCode).Display()
}

func summarize(name string, perf, risk map[string]float64, recommendation string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Portfolio Analysis Summary for %s\n\n", name)
	b.WriteString("Performance:\n")
	fmt.Fprintf(&b, "  Current Value: %s\n", formatMoney(perf[MetricCurrentValue]))
	fmt.Fprintf(&b, "  Initial Investment: %s\n", formatMoney(perf[MetricInitialInvestment]))
	fmt.Fprintf(&b, "  Gain/Loss: %s (%.2f%%)\n", formatMoney(perf[MetricGainLoss]), perf[MetricGainLossPercent])

	b.WriteString("\nRisk Metrics:\n")
	fmt.Fprintf(&b, "  Volatility: %.2f%%\n", risk[MetricVolatility])
	fmt.Fprintf(&b, "  Max Drawdown: %.2f%%\n", risk[MetricMaxDrawdown])
	fmt.Fprintf(&b, "  Sharpe Ratio: %.2f\n", risk[MetricSharpeRatio])

	fmt.Fprintf(&b, "\nRecommendation: %s", recommendation)

	return b.String()
}
