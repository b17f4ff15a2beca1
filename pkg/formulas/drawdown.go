package formulas

// MaxDrawdownPercent calculates the largest decline from a running peak,
// expressed as a positive percentage (20 means a 20% drop from peak).
//
//	Drawdown_i = (peak_so_far - v_i) / peak_so_far
//
// peak_so_far includes index i. Points whose running peak is not positive are skipped.
func MaxDrawdownPercent(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}

		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown * 100
}
