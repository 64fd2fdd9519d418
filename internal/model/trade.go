package model

import "time"

// InstrumentKind distinguishes stock positions from option contracts.
type InstrumentKind string

const (
	KindStock InstrumentKind = "STOCK"
	KindCall  InstrumentKind = "CALL"
	KindPut   InstrumentKind = "PUT"
)

// IsOption reports whether the kind is CALL or PUT.
func (k InstrumentKind) IsOption() bool {
	return k == KindCall || k == KindPut
}

// TradeStatus is the lifecycle state of a trade.
type TradeStatus string

const (
	StatusActive  TradeStatus = "ACTIVE"
	StatusClosed  TradeStatus = "CLOSED"
	StatusExpired TradeStatus = "EXPIRED"
)

// Trade is a monitored position. Immutable facts are set at open time;
// price/P&L fields are mutated only by the registry under its lock and
// always as a consistent group (price, value, P&L together).
type Trade struct {
	TradeID string         `json:"trade_id"`
	Symbol  string         `json:"symbol"`
	Kind    InstrumentKind `json:"kind"`

	EntryPrice  float64   `json:"entry_price"`
	StrikePrice float64   `json:"strike_price,omitempty"` // options only
	Expiration  time.Time `json:"expiration,omitempty"`   // zero = none
	Contracts   int       `json:"contracts"`
	EntryTime   time.Time `json:"entry_time"`

	// 0 = disabled
	StopLoss   float64 `json:"stop_loss,omitempty"`
	TakeProfit float64 `json:"take_profit,omitempty"`

	AlertsEnabled bool `json:"alerts_enabled"`

	CurrentPrice float64     `json:"current_price"`
	CurrentValue float64     `json:"current_value"`
	PnLDollar    float64     `json:"pnl_dollar"`
	PnLPercent   float64     `json:"pnl_percent"`
	Status       TradeStatus `json:"status"`
	LastChecked  time.Time   `json:"last_checked"`
}

// EntryValue is the notional invested: option premiums are per 100 shares.
func (t *Trade) EntryValue() float64 {
	if t.Kind.IsOption() {
		return t.EntryPrice * float64(t.Contracts) * 100
	}
	return t.EntryPrice * float64(t.Contracts)
}

// PortfolioSummary aggregates the active trade set. Recomputed on demand,
// never stored.
type PortfolioSummary struct {
	TotalTrades     int        `json:"total_trades"`
	TotalPnL        float64    `json:"total_pnl"`
	TotalInvested   float64    `json:"total_invested"`
	TotalPnLPercent float64    `json:"total_pnl_percent"`
	BestPerformer   *Performer `json:"best_performer,omitempty"`
	WorstPerformer  *Performer `json:"worst_performer,omitempty"`
}

// Performer identifies a best/worst position by P&L percent.
type Performer struct {
	Symbol     string  `json:"symbol"`
	TradeID    string  `json:"trade_id"`
	PnLPercent float64 `json:"pnl_percent"`
}
