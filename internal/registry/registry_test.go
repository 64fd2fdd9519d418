package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-monitorv1/internal/model"
)

// recorderSpy captures retired trades.
type recorderSpy struct {
	recorded []model.Trade
}

func (r *recorderSpy) Record(trade model.Trade) error {
	r.recorded = append(r.recorded, trade)
	return nil
}

func stockSpec(symbol string, entry float64, contracts int) OpenSpec {
	return OpenSpec{Symbol: symbol, Kind: model.KindStock, EntryPrice: entry, Contracts: contracts}
}

func TestOpen_Validation(t *testing.T) {
	reg := New(nil)
	cases := []struct {
		name string
		spec OpenSpec
	}{
		{"empty symbol", OpenSpec{Kind: model.KindStock, EntryPrice: 10, Contracts: 1}},
		{"blank symbol", OpenSpec{Symbol: "   ", Kind: model.KindStock, EntryPrice: 10, Contracts: 1}},
		{"unknown kind", OpenSpec{Symbol: "AAPL", Kind: "FUTURE", EntryPrice: 10, Contracts: 1}},
		{"zero entry", OpenSpec{Symbol: "AAPL", Kind: model.KindStock, Contracts: 1}},
		{"negative entry", OpenSpec{Symbol: "AAPL", Kind: model.KindStock, EntryPrice: -5, Contracts: 1}},
		{"zero contracts", OpenSpec{Symbol: "AAPL", Kind: model.KindStock, EntryPrice: 10}},
		{"option without strike", OpenSpec{Symbol: "AAPL", Kind: model.KindCall, EntryPrice: 5, Contracts: 1}},
		{"stock with strike", OpenSpec{Symbol: "AAPL", Kind: model.KindStock, EntryPrice: 10, StrikePrice: 100, Contracts: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reg.Open(tc.spec)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Zero(t, reg.Count(), "failed opens must not leak trades")
}

func TestOpen_Defaults(t *testing.T) {
	reg := New(nil)
	id, err := reg.Open(stockSpec("aapl", 150, 10))
	require.NoError(t, err)
	require.Len(t, id, 8)

	trade, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", trade.Symbol, "symbol is normalized to upper case")
	assert.Equal(t, model.StatusActive, trade.Status)
	assert.True(t, trade.AlertsEnabled, "alerts default on")
	assert.Zero(t, trade.CurrentPrice)
	assert.True(t, trade.LastChecked.IsZero(), "never checked yet")
}

func TestApplyPrice_Stock(t *testing.T) {
	reg := New(nil)
	id, err := reg.Open(stockSpec("AAPL", 150, 10))
	require.NoError(t, err)

	require.NoError(t, reg.ApplyPrice(id, 165))

	trade, _ := reg.Get(id)
	assert.Equal(t, 165.0, trade.CurrentPrice)
	assert.Equal(t, 1650.0, trade.CurrentValue)
	assert.InDelta(t, 150.0, trade.PnLDollar, 1e-9)
	assert.InDelta(t, 10.0, trade.PnLPercent, 1e-9)
	assert.False(t, trade.LastChecked.IsZero())
}

func TestApplyPrice_CallOption(t *testing.T) {
	reg := New(nil)
	id, err := reg.Open(OpenSpec{
		Symbol: "TSLA", Kind: model.KindCall,
		EntryPrice: 5.50, StrikePrice: 250, Contracts: 2,
	})
	require.NoError(t, err)

	// Underlying at 260: intrinsic 10, time value = 5.50*0.5 = 2.75
	// (the premium is all extrinsic at entry), premium 12.75.
	// Value = 12.75 * 2 * 100 = 2550; entry value = 5.50 * 2 * 100 = 1100.
	require.NoError(t, reg.ApplyPrice(id, 260))

	trade, _ := reg.Get(id)
	assert.InDelta(t, 2550.0, trade.CurrentValue, 1e-9)
	assert.InDelta(t, 1450.0, trade.PnLDollar, 1e-9)
	assert.InDelta(t, 131.818181, trade.PnLPercent, 1e-4)
}

func TestApplyPrice_PutOptionTimeValueFloor(t *testing.T) {
	reg := New(nil)
	id, err := reg.Open(OpenSpec{
		Symbol: "SPY", Kind: model.KindPut,
		EntryPrice: 3, StrikePrice: 100, Contracts: 1,
	})
	require.NoError(t, err)

	// Underlying at 90: intrinsic 10. The entry premium was below intrinsic
	// at open (strike - entry > entry), so time value floors at 0.05.
	require.NoError(t, reg.ApplyPrice(id, 90))

	trade, _ := reg.Get(id)
	assert.InDelta(t, 1005.0, trade.CurrentValue, 1e-9)
	assert.InDelta(t, 705.0, trade.PnLDollar, 1e-9)
	assert.InDelta(t, 235.0, trade.PnLPercent, 1e-4)
}

func TestApplyPrice_NonPositiveIgnored(t *testing.T) {
	reg := New(nil)
	id, _ := reg.Open(stockSpec("AAPL", 150, 10))

	require.NoError(t, reg.ApplyPrice(id, 0))
	require.NoError(t, reg.ApplyPrice(id, -12))

	trade, _ := reg.Get(id)
	assert.Zero(t, trade.CurrentPrice)
	assert.True(t, trade.LastChecked.IsZero(), "ignored prices must not touch the trade")
}

func TestApplyPrice_UnknownID(t *testing.T) {
	reg := New(nil)
	assert.ErrorIs(t, reg.ApplyPrice("nope", 100), ErrNotFound)
}

func TestClose_MovesToHistoryAndRecords(t *testing.T) {
	spy := &recorderSpy{}
	reg := New(spy)
	id, _ := reg.Open(stockSpec("AAPL", 150, 10))

	require.NoError(t, reg.Close(id, 160))

	_, err := reg.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, reg.Count())

	history := reg.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.StatusClosed, history[0].Status)
	assert.InDelta(t, 100.0, history[0].PnLDollar, 1e-9)

	require.Len(t, spy.recorded, 1)
	assert.Equal(t, id, spy.recorded[0].TradeID)
}

func TestClose_WithoutFinalPrice(t *testing.T) {
	reg := New(nil)
	id, _ := reg.Open(stockSpec("AAPL", 150, 10))
	reg.ApplyPrice(id, 155)

	require.NoError(t, reg.Close(id, 0))

	history := reg.History()
	require.Len(t, history, 1)
	assert.Equal(t, 155.0, history[0].CurrentPrice, "last known price is kept")
}

func TestExpireSweep(t *testing.T) {
	spy := &recorderSpy{}
	reg := New(spy)
	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)

	expiredID, err := reg.Open(OpenSpec{
		Symbol: "TSLA", Kind: model.KindCall,
		EntryPrice: 5, StrikePrice: 250, Contracts: 1,
		Expiration: now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	liveID, err := reg.Open(OpenSpec{
		Symbol: "TSLA", Kind: model.KindCall,
		EntryPrice: 5, StrikePrice: 250, Contracts: 1,
		Expiration: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	stockID, err := reg.Open(stockSpec("AAPL", 150, 10))
	require.NoError(t, err)

	ids := reg.ExpireSweep(now)

	assert.Equal(t, []string{expiredID}, ids)
	assert.Equal(t, 2, reg.Count())
	_, err = reg.Get(liveID)
	assert.NoError(t, err)
	_, err = reg.Get(stockID)
	assert.NoError(t, err)

	history := reg.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.StatusExpired, history[0].Status)
	require.Len(t, spy.recorded, 1)
	assert.Equal(t, model.StatusExpired, spy.recorded[0].Status)
}

func TestListActive_InsertionOrder(t *testing.T) {
	reg := New(nil)
	var want []string
	for _, sym := range []string{"AAPL", "TSLA", "SPY", "NVDA"} {
		id, err := reg.Open(stockSpec(sym, 100, 1))
		require.NoError(t, err)
		want = append(want, id)
	}
	require.NoError(t, reg.Close(want[1], 0))
	want = append(want[:1], want[2:]...)

	active := reg.ListActive()
	require.Len(t, active, len(want))
	for i, trade := range active {
		assert.Equal(t, want[i], trade.TradeID, "position %d", i)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	reg := New(nil)
	id, _ := reg.Open(stockSpec("AAPL", 150, 10))

	trade, _ := reg.Get(id)
	trade.CurrentPrice = 9999

	again, _ := reg.Get(id)
	assert.Zero(t, again.CurrentPrice, "mutating the copy must not leak into the registry")
}

func TestSummary(t *testing.T) {
	reg := New(nil)
	winID, _ := reg.Open(stockSpec("AAPL", 100, 1))
	loseID, _ := reg.Open(stockSpec("TSLA", 200, 1))
	reg.ApplyPrice(winID, 120)  // +20, +20%
	reg.ApplyPrice(loseID, 180) // -20, -10%

	sum := reg.Summary()
	assert.Equal(t, 2, sum.TotalTrades)
	assert.InDelta(t, 0.0, sum.TotalPnL, 1e-9)
	assert.InDelta(t, 300.0, sum.TotalInvested, 1e-9)
	assert.InDelta(t, 0.0, sum.TotalPnLPercent, 1e-9)
	require.NotNil(t, sum.BestPerformer)
	require.NotNil(t, sum.WorstPerformer)
	assert.Equal(t, winID, sum.BestPerformer.TradeID)
	assert.Equal(t, loseID, sum.WorstPerformer.TradeID)

	// Pure read: identical when repeated.
	assert.Equal(t, sum, reg.Summary())
}

func TestSummary_TiesResolveToEarliest(t *testing.T) {
	reg := New(nil)
	firstID, _ := reg.Open(stockSpec("AAPL", 100, 1))
	secondID, _ := reg.Open(stockSpec("TSLA", 100, 1))
	reg.ApplyPrice(firstID, 110)
	reg.ApplyPrice(secondID, 110)

	sum := reg.Summary()
	assert.Equal(t, firstID, sum.BestPerformer.TradeID)
	assert.Equal(t, firstID, sum.WorstPerformer.TradeID)
}

func TestSummary_Empty(t *testing.T) {
	sum := New(nil).Summary()
	assert.Zero(t, sum.TotalTrades)
	assert.Nil(t, sum.BestPerformer)
	assert.Nil(t, sum.WorstPerformer)
}

func TestRecord_FailureDoesNotBlockClose(t *testing.T) {
	reg := New(failingRecorder{})
	id, _ := reg.Open(stockSpec("AAPL", 150, 10))
	assert.NoError(t, reg.Close(id, 160))
	assert.Len(t, reg.History(), 1)
}

type failingRecorder struct{}

func (failingRecorder) Record(model.Trade) error { return errors.New("disk full") }
