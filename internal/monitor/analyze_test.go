package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trade-monitorv1/internal/model"
	"trade-monitorv1/internal/recommend"
)

func stockTrade(entry, current float64) model.Trade {
	return model.Trade{
		Symbol: "AAPL", Kind: model.KindStock,
		EntryPrice: entry, CurrentPrice: current, Contracts: 1,
	}
}

func TestAnalyzeTrade_NilSnapshotIsNeutral(t *testing.T) {
	out := analyzeTrade(stockTrade(100, 105), nil, openTime)

	assert.Equal(t, recommend.ActionHold, out.Action)
	assert.Equal(t, "No technical data available", out.Reason)
	assert.Equal(t, recommend.AlertLow, out.AlertLevel)
	assert.InDelta(t, 5.0, out.PnL.Percent, 1e-9)
}

func TestAnalyzeTrade_ExitSignalIsHigh(t *testing.T) {
	out := analyzeTrade(stockTrade(100, 110), exitSnapshot("AAPL"), openTime)

	assert.Equal(t, recommend.ActionSellNow, out.Action)
	assert.Equal(t, recommend.AlertHigh, out.AlertLevel)
	assert.True(t, out.IsExitSignal)
}

func TestAnalyzeTrade_StopLossEscalates(t *testing.T) {
	trade := stockTrade(100, 94)
	trade.StopLoss = 95

	out := analyzeTrade(trade, neutralSnapshot("AAPL"), openTime)

	assert.Equal(t, recommend.AlertHigh, out.AlertLevel)
	assert.Contains(t, out.AlertMessage, "Stop loss triggered")
}

func TestAnalyzeTrade_TakeProfitEscalates(t *testing.T) {
	trade := stockTrade(100, 121)
	trade.TakeProfit = 120

	out := analyzeTrade(trade, neutralSnapshot("AAPL"), openTime)

	assert.Equal(t, recommend.AlertHigh, out.AlertLevel)
	assert.Contains(t, out.AlertMessage, "Take profit reached")
}

func TestAnalyzeTrade_ThresholdsDisabledAtZero(t *testing.T) {
	out := analyzeTrade(stockTrade(100, 50), neutralSnapshot("AAPL"), openTime)
	assert.NotContains(t, out.AlertMessage, "Stop loss triggered")
}

func TestAnalyzeTrade_ExpiryEscalation(t *testing.T) {
	option := func(expiresIn time.Duration) model.Trade {
		return model.Trade{
			Symbol: "TSLA", Kind: model.KindCall,
			EntryPrice: 5, StrikePrice: 250, Contracts: 1,
			CurrentPrice: 5.2,
			Expiration:   openTime.Add(expiresIn),
		}
	}

	near := analyzeTrade(option(3*24*time.Hour), neutralSnapshot("TSLA"), openTime)
	assert.Equal(t, recommend.AlertMedium, near.AlertLevel)
	assert.Contains(t, near.AlertMessage, "expires in")

	imminent := analyzeTrade(option(12*time.Hour), neutralSnapshot("TSLA"), openTime)
	assert.Equal(t, recommend.AlertHigh, imminent.AlertLevel)

	far := analyzeTrade(option(30*24*time.Hour), neutralSnapshot("TSLA"), openTime)
	assert.Equal(t, recommend.AlertLow, far.AlertLevel)
}

func TestAnalyzeTrade_EscalationNeverLowers(t *testing.T) {
	trade := stockTrade(100, 110)
	trade.Kind = model.KindCall
	trade.StrikePrice = 100
	trade.Expiration = openTime.Add(3 * 24 * time.Hour) // MEDIUM-tier expiry

	out := analyzeTrade(trade, exitSnapshot("AAPL"), openTime)

	assert.Equal(t, recommend.AlertHigh, out.AlertLevel, "exit signal must not be diluted by a lower escalation")
	assert.True(t, strings.HasPrefix(out.AlertMessage, "SELL SIGNAL: "))
	assert.Contains(t, out.AlertMessage, "expires in", "escalation reasons accumulate")
}
