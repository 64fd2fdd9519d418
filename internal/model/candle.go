// Package model defines the core data types shared across the trade monitor:
// price candles, trades, indicator snapshots, and alert events.
package model

import "time"

// Candle is a single OHLCV bar.
type Candle struct {
	TS     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series is an ordered price series: timestamps strictly increasing,
// no duplicates. Indicator code reads it positionally and never mutates it.
type Series []Candle

// Closes extracts the close prices, aligned by position.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Valid reports whether timestamps are strictly increasing.
func (s Series) Valid() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].TS.After(s[i-1].TS) {
			return false
		}
	}
	return true
}
