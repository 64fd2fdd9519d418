package pricesource

import (
	"math"

	"trade-monitorv1/internal/indicator"
	"trade-monitorv1/internal/model"
)

// minSnapshotBars is the minimum history for a meaningful snapshot
// (the slow MACD span).
const minSnapshotBars = indicator.DefaultMACDSlow

// BuildTechnicalSnapshot derives a TechnicalSnapshot from a price series.
// Returns nil when the series is too short, the "no data" outcome.
func BuildTechnicalSnapshot(symbol string, series model.Series) *model.TechnicalSnapshot {
	if len(series) < minSnapshotBars {
		return nil
	}
	closes := series.Closes()

	rsi := indicator.RSI(closes, indicator.DefaultRSIPeriod)
	line, sig, hist := indicator.MACD(closes, indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)
	ema20 := indicator.EMA(closes, indicator.DefaultEMAFastSpan)
	ema50 := indicator.EMA(closes, indicator.DefaultEMASlowSpan)

	last := len(closes) - 1
	snap := &model.TechnicalSnapshot{
		Symbol:        symbol,
		RSI:           rsi[last],
		MACDLine:      line[last],
		MACDSignal:    sig[last],
		MACDHistogram: hist[last],
		PrevMACDLine:  line[last-1],
		PrevMACDSig:   sig[last-1],
		EMA20:         ema20[last],
		EMA50:         ema50[last],
		CurrentPrice:  closes[last],
	}
	snap.Signals = describeSignals(snap)
	return snap
}

// describeSignals produces the human-readable signal strings callers and
// the exit analysis message consume.
func describeSignals(s *model.TechnicalSnapshot) []string {
	var signals []string

	if !math.IsNaN(s.RSI) {
		if s.RSI < 30 {
			signals = append(signals, "RSI Oversold (Bullish)")
		} else if s.RSI > 70 {
			signals = append(signals, "RSI Overbought (Bearish)")
		}
	}

	if s.MACDLine > s.MACDSignal && s.PrevMACDLine <= s.PrevMACDSig {
		signals = append(signals, "MACD Bullish Crossover")
	} else if s.MACDLine < s.MACDSignal && s.PrevMACDLine >= s.PrevMACDSig {
		signals = append(signals, "MACD Bearish Crossover")
	}

	if s.EMA20 > s.EMA50 {
		signals = append(signals, "EMA Bullish Trend")
	} else {
		signals = append(signals, "EMA Bearish Trend")
	}

	if s.CurrentPrice > s.EMA20 && s.EMA20 > s.EMA50 {
		signals = append(signals, "Above All EMAs (Strong Bullish)")
	} else if s.CurrentPrice < s.EMA20 && s.EMA20 < s.EMA50 {
		signals = append(signals, "Below All EMAs (Strong Bearish)")
	}

	return signals
}

// MACDSeries adapts a snapshot's two latest MACD bars for crossover
// detection in the recommendation engine.
func MACDSeries(s *model.TechnicalSnapshot) ([]float64, []float64, []float64) {
	if s == nil {
		return nil, nil, nil
	}
	line := []float64{s.PrevMACDLine, s.MACDLine}
	sig := []float64{s.PrevMACDSig, s.MACDSignal}
	hist := []float64{s.PrevMACDLine - s.PrevMACDSig, s.MACDHistogram}
	return line, sig, hist
}
