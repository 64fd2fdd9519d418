// Package recommend maps indicator values to discrete trading
// recommendations and exit-signal alerts.
//
// Two modes: RSI-only (used when no MACD data is available) and combined
// RSI+MACD with crossover detection. Recommendations are immutable values;
// callers never mutate them.
package recommend

import "fmt"

// Action is the recommended trading action.
type Action string

const (
	ActionBuyCall        Action = "BUY CALL"
	ActionBuyPut         Action = "BUY PUT"
	ActionHold           Action = "HOLD"
	ActionSellNow        Action = "SELL NOW"
	ActionBuyStrong      Action = "BUY STRONG"
	ActionReviewPosition Action = "REVIEW POSITION"
	ActionBuyOpportunity Action = "BUY OPPORTUNITY"
)

// SignalType is the directional reading of the market.
type SignalType string

const (
	SignalBullish       SignalType = "BULLISH"
	SignalBearish       SignalType = "BEARISH"
	SignalNeutral       SignalType = "NEUTRAL"
	SignalStrongBullish SignalType = "STRONG_BULLISH"
	SignalStrongBearish SignalType = "STRONG_BEARISH"
)

// Strength grades how convincing the signal is.
type Strength string

const (
	StrengthWeak     Strength = "WEAK"
	StrengthModerate Strength = "MODERATE"
	StrengthStrong   Strength = "STRONG"
)

// Recommendation is the pure output of the engine.
type Recommendation struct {
	Action        Action     `json:"action"`
	Signal        SignalType `json:"signal"`
	Reason        string     `json:"reason"`
	Strength      Strength   `json:"strength"`
	IsExitSignal  bool       `json:"is_exit_signal"`
	IsEntrySignal bool       `json:"is_entry_signal"`
	MACDTrend     string     `json:"macd_trend,omitempty"`
}

// MACDData carries the MACD line and signal line series. Crossovers are
// detected from the latest two bars, so at least two values are needed for
// crossover logic to engage.
type MACDData struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

func (m *MACDData) latest() (line, sig, hist float64) {
	if len(m.Line) > 0 {
		line = m.Line[len(m.Line)-1]
	}
	if len(m.Signal) > 0 {
		sig = m.Signal[len(m.Signal)-1]
	}
	if len(m.Histogram) > 0 {
		hist = m.Histogram[len(m.Histogram)-1]
	}
	return line, sig, hist
}

// crossovers reports (bullish, bearish) crossover between the latest two bars.
func (m *MACDData) crossovers() (bool, bool) {
	if len(m.Line) < 2 || len(m.Signal) < 2 {
		return false, false
	}
	cur, prev := len(m.Line)-1, len(m.Line)-2
	curDiff := m.Line[cur] - m.Signal[cur]
	prevDiff := m.Line[prev] - m.Signal[prev]
	bullish := prevDiff <= 0 && curDiff > 0
	bearish := prevDiff >= 0 && curDiff < 0
	return bullish, bearish
}

// Recommend produces a trading recommendation from the current RSI and,
// when macd is non-nil, MACD crossover context. Priority order with MACD:
// strong exit, strong entry, overbought review, oversold opportunity, hold.
func Recommend(rsi float64, macd *MACDData) Recommendation {
	if macd == nil {
		return fromRSI(rsi)
	}

	curMACD, curSignal, curHist := macd.latest()
	bullishCross, bearishCross := macd.crossovers()

	switch {
	case rsi > 70 && bearishCross:
		return Recommendation{
			Action:       ActionSellNow,
			Signal:       SignalStrongBearish,
			Reason:       fmt.Sprintf("RSI overbought (%.1f) + MACD bearish crossover - Strong sell signal", rsi),
			Strength:     StrengthStrong,
			IsExitSignal: true,
		}
	case rsi < 30 && bullishCross:
		return Recommendation{
			Action:        ActionBuyStrong,
			Signal:        SignalStrongBullish,
			Reason:        fmt.Sprintf("RSI oversold (%.1f) + MACD bullish crossover - Strong buy signal", rsi),
			Strength:      StrengthStrong,
			IsEntrySignal: true,
		}
	case rsi > 70:
		return Recommendation{
			Action:    ActionReviewPosition,
			Signal:    SignalBearish,
			Reason:    fmt.Sprintf("RSI overbought (%.1f) - Consider reducing position", rsi),
			Strength:  StrengthModerate,
			MACDTrend: trendLabel(curMACD, curSignal),
		}
	case rsi < 30:
		return Recommendation{
			Action:    ActionBuyOpportunity,
			Signal:    SignalBullish,
			Reason:    fmt.Sprintf("RSI oversold (%.1f) - Consider accumulating", rsi),
			Strength:  StrengthModerate,
			MACDTrend: trendLabel(curMACD, curSignal),
		}
	}

	trend := trendLabel(curMACD, curSignal)
	momentum := "Decreasing"
	if curHist > 0 {
		momentum = "Increasing"
	}
	return Recommendation{
		Action:    ActionHold,
		Signal:    SignalNeutral,
		Reason:    fmt.Sprintf("RSI neutral (%.1f) - %s MACD trend, %s momentum", rsi, trend, momentum),
		Strength:  StrengthWeak,
		MACDTrend: trend,
	}
}

// fromRSI is the RSI-only mode.
func fromRSI(rsi float64) Recommendation {
	switch {
	case rsi < 30:
		strength := StrengthModerate
		if rsi < 20 {
			strength = StrengthStrong
		}
		return Recommendation{
			Action:   ActionBuyCall,
			Signal:   SignalBullish,
			Reason:   "RSI indicates oversold conditions - potential upward movement",
			Strength: strength,
		}
	case rsi > 70:
		strength := StrengthModerate
		if rsi > 80 {
			strength = StrengthStrong
		}
		return Recommendation{
			Action:   ActionBuyPut,
			Signal:   SignalBearish,
			Reason:   "RSI indicates overbought conditions - potential downward movement",
			Strength: strength,
		}
	}
	return Recommendation{
		Action:   ActionHold,
		Signal:   SignalNeutral,
		Reason:   "RSI in neutral range - no strong directional signal",
		Strength: StrengthWeak,
	}
}

func trendLabel(macdLine, signalLine float64) string {
	if macdLine > signalLine {
		return "Bullish"
	}
	return "Bearish"
}
