package indicator

import "math"

// DefaultRSIPeriod is the standard RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes the Relative Strength Index over close prices.
//
// Per-bar gain = max(Δclose, 0) and loss = max(-Δclose, 0), each smoothed
// with the pure recursive EMA of span=period (seeded by the first delta, no
// bias adjustment). This deliberately differs from Wilder's textbook
// smoothing: the recommendation thresholds downstream were tuned against
// this exact recursion, so it must not be "corrected".
//
// The first period-1 entries are NaN. When the average loss is zero the
// division saturates and RSI is 100 for that bar.
func RSI(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(prices) < 2 {
		return out
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	gains[0] = math.NaN()
	losses[0] = math.NaN()
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}

	// Deltas exist from bar 1, so the smoothing recursion seeds there.
	avgGain := emaFrom(gains, period, 1)
	avgLoss := emaFrom(losses, period, 1)

	for i := period - 1; i < len(prices); i++ {
		if i == 0 {
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
