// Package indicator provides pure technical indicator calculations over
// ordered price series: RSI, MACD, and EMA.
//
// All functions are deterministic, side-effect free, and produce one output
// value per input bar, aligned by position. NaN marks bars with insufficient
// history.
package indicator

import (
	"math"

	"trade-monitorv1/internal/model"
)

// Default EMA trend spans used by the snapshot.
const (
	DefaultEMAFastSpan = 20
	DefaultEMASlowSpan = 50
)

// Compute derives an IndicatorSnapshot from the series using default
// parameters: RSI(14), MACD(12/26/9), EMA(20), EMA(50). An empty series
// yields a snapshot of all-NaN values.
func Compute(series model.Series) model.IndicatorSnapshot {
	snap := model.IndicatorSnapshot{
		RSI:           math.NaN(),
		MACDLine:      math.NaN(),
		MACDSignal:    math.NaN(),
		MACDHistogram: math.NaN(),
		EMA20:         math.NaN(),
		EMA50:         math.NaN(),
	}
	closes := series.Closes()
	if len(closes) == 0 {
		return snap
	}

	rsi := RSI(closes, DefaultRSIPeriod)
	snap.RSI = rsi[len(rsi)-1]

	line, sig, hist := MACD(closes, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	snap.MACDLine = line[len(line)-1]
	snap.MACDSignal = sig[len(sig)-1]
	snap.MACDHistogram = hist[len(hist)-1]

	ema20 := EMA(closes, DefaultEMAFastSpan)
	ema50 := EMA(closes, DefaultEMASlowSpan)
	snap.EMA20 = ema20[len(ema20)-1]
	snap.EMA50 = ema50[len(ema50)-1]

	return snap
}
