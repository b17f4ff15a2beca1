package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxDrawdownPercent(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"peak to trough", []float64{100, 90, 95, 80, 120}, 20},
		{"monotonic rise", []float64{1, 2, 3, 4}, 0},
		{"single point", []float64{50}, 0},
		{"empty", nil, 0},
		{"zero peak skipped", []float64{0, 0, 10, 5}, 50},
		{"later deeper drop", []float64{100, 80, 200, 100}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxDrawdownPercent(tt.values), 1e-9)
		})
	}
}

func TestCalculateReturns(t *testing.T) {
	returns := CalculateReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)

	assert.Empty(t, CalculateReturns([]float64{100}))
	assert.Equal(t, []float64{0}, CalculateReturns([]float64{0, 10}))
}

func TestPopStdDev(t *testing.T) {
	// population stddev of {2,4,4,4,5,5,7,9} is exactly 2
	assert.InDelta(t, 2.0, PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, PopStdDev(nil))
}

func TestVolatilityPercent(t *testing.T) {
	// returns: +10%, -10% -> mean 0, population stddev 0.10
	assert.InDelta(t, 10.0, VolatilityPercent([]float64{100, 110, 99}), 1e-9)
	assert.Equal(t, 0.0, VolatilityPercent([]float64{100, 100, 100}))
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 25.0, PercentChange(80, 100), 1e-12)
	assert.Equal(t, 0.0, PercentChange(0, 100))
}

func TestSMA(t *testing.T) {
	sma := SMA([]float64{1, 2, 3, 4, 5}, 5)
	require.NotNil(t, sma)
	assert.InDelta(t, 3.0, *sma, 1e-12)

	assert.Nil(t, SMA([]float64{1, 2}, 5))
}

func TestRSI(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 100.0, *rsi, 1e-6)

	assert.Nil(t, RSI(closes[:10], 14))
	assert.False(t, math.IsNaN(*rsi))
}
