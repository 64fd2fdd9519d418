// Package pricesource abstracts the market data collaborator: batch latest
// quotes and per-symbol technical snapshots.
//
// Fetches are best-effort. A failed or missing symbol is reported as a
// per-symbol Quote result, never as a batch-level error, so one bad symbol
// cannot abort a monitoring tick.
package pricesource

import (
	"context"

	"trade-monitorv1/internal/model"
)

// Quote is the per-symbol outcome of a batch fetch.
type Quote struct {
	Symbol string
	Price  float64
	Err    error
}

// OK reports whether the quote is usable.
func (q Quote) OK() bool { return q.Err == nil && q.Price > 0 }

// Source is the abstract price/technical data provider.
type Source interface {
	// FetchLatest returns one Quote per requested symbol. Unreachable
	// symbols carry a non-nil Err; the batch itself never fails.
	FetchLatest(ctx context.Context, symbols []string) []Quote

	// FetchTechnicalSnapshot returns current indicator values for a symbol.
	// (nil, nil) is the valid "no data" outcome.
	FetchTechnicalSnapshot(ctx context.Context, symbol string) (*model.TechnicalSnapshot, error)
}

// Prices collapses quote results into a symbol→price map of successes.
func Prices(quotes []Quote) map[string]float64 {
	out := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		if q.OK() {
			out[q.Symbol] = q.Price
		}
	}
	return out
}
