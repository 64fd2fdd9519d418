package registry

import "trade-monitorv1/internal/model"

// Summary aggregates the active trade set into a portfolio view.
// Derived on demand from current trade state; calling it twice without an
// intervening mutation yields identical values. Best/worst ties resolve to
// the earliest-opened trade.
func (r *Registry) Summary() model.PortfolioSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := model.PortfolioSummary{TotalTrades: len(r.order)}
	if len(r.order) == 0 {
		return summary
	}

	var best, worst *model.Trade
	for _, id := range r.order {
		trade, ok := r.trades[id]
		if !ok {
			continue
		}
		summary.TotalPnL += trade.PnLDollar
		summary.TotalInvested += trade.EntryValue()

		if best == nil || trade.PnLPercent > best.PnLPercent {
			best = trade
		}
		if worst == nil || trade.PnLPercent < worst.PnLPercent {
			worst = trade
		}
	}

	if summary.TotalInvested > 0 {
		summary.TotalPnLPercent = summary.TotalPnL / summary.TotalInvested * 100
	}
	if best != nil {
		summary.BestPerformer = &model.Performer{
			Symbol:     best.Symbol,
			TradeID:    best.TradeID,
			PnLPercent: best.PnLPercent,
		}
	}
	if worst != nil {
		summary.WorstPerformer = &model.Performer{
			Symbol:     worst.Symbol,
			TradeID:    worst.TradeID,
			PnLPercent: worst.PnLPercent,
		}
	}
	return summary
}
