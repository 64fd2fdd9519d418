package monitor

import (
	"fmt"
	"time"

	"trade-monitorv1/internal/model"
	"trade-monitorv1/internal/pricesource"
	"trade-monitorv1/internal/recommend"
)

const (
	expiryWarnDays     = 7
	expiryCriticalDays = 1
)

// analyzeTrade combines indicator-driven exit analysis with position-level
// risk checks (stop loss, take profit, option expiry). Risk checks only
// raise the alert level, never lower it.
func analyzeTrade(t model.Trade, snap *model.TechnicalSnapshot, now time.Time) recommend.ExitAnalysis {
	var analysis recommend.ExitAnalysis
	if snap == nil {
		analysis = recommend.ExitAnalysis{
			Recommendation: recommend.Recommendation{
				Action:   recommend.ActionHold,
				Signal:   recommend.SignalNeutral,
				Reason:   "No technical data available",
				Strength: recommend.StrengthWeak,
			},
			PnL: recommend.PnL{
				Dollar:       t.CurrentPrice - t.EntryPrice,
				Percent:      pricePnLPercent(t.EntryPrice, t.CurrentPrice),
				EntryPrice:   t.EntryPrice,
				CurrentPrice: t.CurrentPrice,
			},
			AlertLevel: recommend.AlertLow,
		}
	} else {
		line, sig, hist := pricesource.MACDSeries(snap)
		macd := &recommend.MACDData{Line: line, Signal: sig, Histogram: hist}
		analysis = recommend.AnalyzeForExit(snap.RSI, macd, t.EntryPrice, t.CurrentPrice)
	}

	if t.StopLoss > 0 && t.CurrentPrice <= t.StopLoss {
		raise(&analysis, recommend.AlertHigh,
			fmt.Sprintf("Stop loss triggered: price %.2f at or below %.2f", t.CurrentPrice, t.StopLoss))
	}
	if t.TakeProfit > 0 && t.CurrentPrice >= t.TakeProfit {
		raise(&analysis, recommend.AlertHigh,
			fmt.Sprintf("Take profit reached: price %.2f at or above %.2f", t.CurrentPrice, t.TakeProfit))
	}
	if t.Kind.IsOption() && !t.Expiration.IsZero() {
		daysLeft := t.Expiration.Sub(now).Hours() / 24
		if daysLeft <= expiryCriticalDays {
			raise(&analysis, recommend.AlertHigh,
				fmt.Sprintf("Option expires within %d day(s)", expiryCriticalDays))
		} else if daysLeft <= expiryWarnDays {
			raise(&analysis, recommend.AlertMedium,
				fmt.Sprintf("Option expires in %.0f days", daysLeft))
		}
	}
	return analysis
}

// raise escalates to level if it outranks the current one and appends the
// message so escalation reasons accumulate.
func raise(a *recommend.ExitAnalysis, level recommend.AlertLevel, message string) {
	if rank(level) > rank(a.AlertLevel) {
		a.AlertLevel = level
	}
	if a.AlertMessage == "" {
		a.AlertMessage = message
	} else {
		a.AlertMessage += "; " + message
	}
}

func rank(l recommend.AlertLevel) int {
	switch l {
	case recommend.AlertHigh:
		return 2
	case recommend.AlertMedium:
		return 1
	default:
		return 0
	}
}

func pricePnLPercent(entry, current float64) float64 {
	if entry == 0 {
		return 0
	}
	return (current - entry) / entry * 100
}
