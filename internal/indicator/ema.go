package indicator

// EMA computes an exponential moving average over prices with the given span.
// Smoothing factor is 2/(span+1) and the first element seeds itself, so every
// bar has a value; early bars carry warm-up bias by construction.
// Output is aligned by position: one value per input bar.
func EMA(prices []float64, span int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)

	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// emaFrom runs the same recursion but starts seeding at index start,
// leaving earlier entries untouched (NaN from the caller). Used by RSI,
// whose gain/loss series only begins at the second bar.
func emaFrom(values []float64, span int, start int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if start >= len(values) {
		return out
	}
	alpha := 2.0 / float64(span+1)

	for i := start + 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
