package recommend

import "fmt"

// AlertLevel is the alert tier attached to an exit analysis.
type AlertLevel string

const (
	AlertLow    AlertLevel = "LOW"
	AlertMedium AlertLevel = "MEDIUM"
	AlertHigh   AlertLevel = "HIGH"
)

// PnL is the profit/loss context attached to an exit analysis.
type PnL struct {
	Dollar       float64 `json:"dollar"`
	Percent      float64 `json:"percent"`
	EntryPrice   float64 `json:"entry_price"`
	CurrentPrice float64 `json:"current_price"`
}

// ExitAnalysis is a recommendation specialized for an open position:
// the base recommendation plus P&L and an alert tier.
type ExitAnalysis struct {
	Recommendation
	PnL          PnL        `json:"pnl"`
	AlertLevel   AlertLevel `json:"alert_level"`
	AlertMessage string     `json:"alert_message,omitempty"`
}

// AnalyzeForExit wraps Recommend with position P&L and derives the alert
// tier: HIGH on a hard exit signal, MEDIUM when an overbought review
// coincides with a >10% gain or a >10% loss meets RSI<40, LOW otherwise.
func AnalyzeForExit(rsi float64, macd *MACDData, entryPrice, currentPrice float64) ExitAnalysis {
	rec := Recommend(rsi, macd)

	pnlDollar := currentPrice - entryPrice
	pnlPercent := 0.0
	if entryPrice != 0 {
		pnlPercent = (currentPrice - entryPrice) / entryPrice * 100
	}

	out := ExitAnalysis{
		Recommendation: rec,
		PnL: PnL{
			Dollar:       pnlDollar,
			Percent:      pnlPercent,
			EntryPrice:   entryPrice,
			CurrentPrice: currentPrice,
		},
		AlertLevel: AlertLow,
	}

	switch {
	case rec.IsExitSignal:
		out.AlertLevel = AlertHigh
		out.AlertMessage = fmt.Sprintf("SELL SIGNAL: %s. Current P&L: %+.1f%%", rec.Reason, pnlPercent)
	case rec.Action == ActionReviewPosition && pnlPercent > 10:
		out.AlertLevel = AlertMedium
		out.AlertMessage = fmt.Sprintf("Consider taking profits. Current gain: +%.1f%%", pnlPercent)
	case pnlPercent < -10 && rsi < 40:
		out.AlertLevel = AlertMedium
		out.AlertMessage = fmt.Sprintf("Position down %.1f%%. Consider stop loss.", pnlPercent)
	}
	return out
}
