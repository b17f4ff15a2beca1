package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMA returns the latest simple moving average over period closes, or nil
// when there are fewer closes than the period.
func SMA(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}

	sma := talib.Sma(closes, period)
	return last(sma)
}

// RSI returns the latest Relative Strength Index (0-100), or nil if there is
// not enough data.
//
//	RSI = 100 - (100 / (1 + RS)), RS = average gain / average loss
func RSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	rsi := talib.Rsi(closes, period)
	return last(rsi)
}

func last(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
