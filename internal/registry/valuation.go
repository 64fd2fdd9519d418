package registry

import (
	"math"

	"trade-monitorv1/internal/model"
)

// minTimeValue floors the crude time-value estimate for options.
const minTimeValue = 0.05

// valuate applies the valuation rule for a new market price. Caller holds
// the registry lock; price is known positive.
//
// Stocks value at price*contracts. Options use an intrinsic-value plus
// crude time-value approximation (no real pricing model): the time value is
// half the entry premium's extrinsic portion, floored at minTimeValue, and
// contracts are per 100 shares.
func valuate(t *model.Trade, price float64) {
	t.CurrentPrice = price

	var currentValue, entryValue float64
	switch t.Kind {
	case model.KindCall:
		intrinsic := math.Max(0, price-t.StrikePrice)
		timeValue := math.Max(minTimeValue, (t.EntryPrice-math.Max(0, t.EntryPrice-t.StrikePrice))*0.5)
		premium := intrinsic + timeValue
		currentValue = premium * float64(t.Contracts) * 100
		entryValue = t.EntryPrice * float64(t.Contracts) * 100
	case model.KindPut:
		intrinsic := math.Max(0, t.StrikePrice-price)
		timeValue := math.Max(minTimeValue, (t.EntryPrice-math.Max(0, t.StrikePrice-t.EntryPrice))*0.5)
		premium := intrinsic + timeValue
		currentValue = premium * float64(t.Contracts) * 100
		entryValue = t.EntryPrice * float64(t.Contracts) * 100
	default: // STOCK
		currentValue = price * float64(t.Contracts)
		entryValue = t.EntryPrice * float64(t.Contracts)
	}

	t.CurrentValue = currentValue
	t.PnLDollar = currentValue - entryValue
	if entryValue == 0 {
		t.PnLPercent = 0
	} else {
		t.PnLPercent = t.PnLDollar / entryValue * 100
	}
}
