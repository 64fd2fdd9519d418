package model

import (
	"math"
	"time"
)

// IndicatorSnapshot holds the latest indicator values derived from a Series.
// NaN marks values with insufficient history (warm-up).
type IndicatorSnapshot struct {
	RSI           float64 `json:"rsi"`
	MACDLine      float64 `json:"macd_line"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`
	EMA20         float64 `json:"ema_20"`
	EMA50         float64 `json:"ema_50"`
}

// HasRSI reports whether enough history existed to compute RSI.
func (s IndicatorSnapshot) HasRSI() bool { return !math.IsNaN(s.RSI) }

// TechnicalSnapshot is what the price source reports for one symbol:
// current indicator values plus human-readable signal strings.
// A nil snapshot is the valid "no data" outcome, not an error.
type TechnicalSnapshot struct {
	Symbol        string   `json:"symbol"`
	RSI           float64  `json:"rsi"`
	MACDLine      float64  `json:"macd_line"`
	MACDSignal    float64  `json:"macd_signal"`
	MACDHistogram float64  `json:"macd_histogram"`
	PrevMACDLine  float64  `json:"prev_macd_line"`
	PrevMACDSig   float64  `json:"prev_macd_signal"`
	EMA20         float64  `json:"ema_20"`
	EMA50         float64  `json:"ema_50"`
	CurrentPrice  float64  `json:"current_price"`
	Signals       []string `json:"signals"`
}

// AlertEvent is what the monitor emits to the alert sink for one trade.
type AlertEvent struct {
	TradeID string    `json:"trade_id"`
	Symbol  string    `json:"symbol"`
	Level   string    `json:"alert_level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}
