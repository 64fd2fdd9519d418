package indicator

// Default MACD parameters (12/26/9).
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACD computes the MACD line, signal line, and histogram over close prices.
//
// Line = EMA(fast) - EMA(slow), signal = EMA(span=signal) of the line,
// histogram = line - signal, all bar-for-bar. The EMAs seed themselves on
// the first bar, so there is no hard minimum length; values before ~slow
// bars are warm-up estimates rather than errors.
func MACD(prices []float64, fast, slow, signal int) (line, sig, hist []float64) {
	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)

	line = make([]float64, len(prices))
	for i := range prices {
		line[i] = emaFast[i] - emaSlow[i]
	}

	sig = EMA(line, signal)

	hist = make([]float64, len(prices))
	for i := range prices {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}
