// Package registry owns all monitored trades. It is the single shared
// mutable resource in the system: the monitor loop writes price/P&L fields
// through it, callers open/close/read through it, and every access runs
// under one registry-wide lock sized for low contention.
//
// Trades leave the active set only by closing or expiring; they are then
// appended to an in-memory history log and, when a recorder is attached,
// persisted through it. No further mutation occurs after that.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trade-monitorv1/internal/model"
)

// ErrNotFound is returned for unknown trade IDs.
var ErrNotFound = errors.New("trade not found")

// ErrValidation wraps all open-time validation failures.
var ErrValidation = errors.New("invalid trade")

// Recorder receives trades as they leave the active set (closed or expired).
type Recorder interface {
	Record(trade model.Trade) error
}

// OpenSpec describes a trade to open.
type OpenSpec struct {
	Symbol      string
	Kind        model.InstrumentKind
	EntryPrice  float64
	StrikePrice float64
	Expiration  time.Time
	Contracts   int
	StopLoss    float64
	TakeProfit  float64
	// AlertsDisabled inverts the default: alerts are on unless asked off.
	AlertsDisabled bool
}

// Registry holds the active trade set and the closed/expired history.
type Registry struct {
	mu       sync.RWMutex
	trades   map[string]*model.Trade
	order    []string // insertion order of active trade IDs
	history  []model.Trade
	recorder Recorder
	now      func() time.Time
}

// New creates an empty registry. recorder may be nil.
func New(recorder Recorder) *Registry {
	return &Registry{
		trades:   make(map[string]*model.Trade),
		recorder: recorder,
		now:      time.Now,
	}
}

// SetClock overrides the registry clock. Test hook.
func (r *Registry) SetClock(now func() time.Time) { r.now = now }

// Open validates the spec and adds a new ACTIVE trade, returning its ID.
// IDs are fresh and never reused.
func (r *Registry) Open(spec OpenSpec) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(spec.Symbol))
	if symbol == "" {
		return "", fmt.Errorf("%w: symbol required", ErrValidation)
	}
	switch spec.Kind {
	case model.KindStock, model.KindCall, model.KindPut:
	default:
		return "", fmt.Errorf("%w: unknown instrument kind %q", ErrValidation, spec.Kind)
	}
	if spec.EntryPrice <= 0 {
		return "", fmt.Errorf("%w: entry price must be positive", ErrValidation)
	}
	if spec.Contracts <= 0 {
		return "", fmt.Errorf("%w: contracts must be positive", ErrValidation)
	}
	if spec.Kind.IsOption() && spec.StrikePrice <= 0 {
		return "", fmt.Errorf("%w: strike price required for %s", ErrValidation, spec.Kind)
	}
	if !spec.Kind.IsOption() && spec.StrikePrice != 0 {
		return "", fmt.Errorf("%w: strike price only valid for options", ErrValidation)
	}

	id := uuid.NewString()[:8]
	trade := &model.Trade{
		TradeID:       id,
		Symbol:        symbol,
		Kind:          spec.Kind,
		EntryPrice:    spec.EntryPrice,
		StrikePrice:   spec.StrikePrice,
		Expiration:    spec.Expiration,
		Contracts:     spec.Contracts,
		EntryTime:     r.now(),
		StopLoss:      spec.StopLoss,
		TakeProfit:    spec.TakeProfit,
		AlertsEnabled: !spec.AlertsDisabled,
		Status:        model.StatusActive,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades[id] = trade
	r.order = append(r.order, id)
	return id, nil
}

// ApplyPrice applies a new market price to a trade, recomputing value and
// P&L atomically as a group. Non-positive prices are ignored without
// touching the trade. Unknown IDs return ErrNotFound.
func (r *Registry) ApplyPrice(tradeID string, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trade, ok := r.trades[tradeID]
	if !ok {
		return ErrNotFound
	}
	if price <= 0 {
		return nil
	}
	valuate(trade, price)
	trade.LastChecked = r.now()
	return nil
}

// Close applies an optional final price (finalPrice > 0), marks the trade
// CLOSED, and moves it to history.
func (r *Registry) Close(tradeID string, finalPrice float64) error {
	r.mu.Lock()
	trade, ok := r.trades[tradeID]
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	if finalPrice > 0 {
		valuate(trade, finalPrice)
	}
	trade.Status = model.StatusClosed
	closed := *trade
	r.retire(tradeID, closed)
	r.mu.Unlock()

	r.record(closed)
	return nil
}

// ExpireSweep moves option trades whose expiration has passed to history
// with EXPIRED status. Returns the IDs of expired trades.
func (r *Registry) ExpireSweep(now time.Time) []string {
	var expired []model.Trade

	r.mu.Lock()
	for _, id := range append([]string(nil), r.order...) {
		trade := r.trades[id]
		if trade == nil || !trade.Kind.IsOption() || trade.Expiration.IsZero() {
			continue
		}
		if now.After(trade.Expiration) {
			trade.Status = model.StatusExpired
			copied := *trade
			r.retire(id, copied)
			expired = append(expired, copied)
		}
	}
	r.mu.Unlock()

	ids := make([]string, 0, len(expired))
	for _, t := range expired {
		r.record(t)
		ids = append(ids, t.TradeID)
	}
	return ids
}

// retire removes an active trade and appends it to history. Caller holds the lock.
func (r *Registry) retire(tradeID string, copied model.Trade) {
	delete(r.trades, tradeID)
	for i, id := range r.order {
		if id == tradeID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.history = append(r.history, copied)
}

func (r *Registry) record(trade model.Trade) {
	if r.recorder == nil {
		return
	}
	// Recorder failures must not affect the registry; callers log via wrapper.
	_ = r.recorder.Record(trade)
}

// Get returns a copy of the trade with the given ID.
func (r *Registry) Get(tradeID string) (model.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trade, ok := r.trades[tradeID]
	if !ok {
		return model.Trade{}, ErrNotFound
	}
	return *trade, nil
}

// ListActive returns a stable insertion-ordered snapshot of active trades.
func (r *Registry) ListActive() []model.Trade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Trade, 0, len(r.order))
	for _, id := range r.order {
		if trade, ok := r.trades[id]; ok {
			out = append(out, *trade)
		}
	}
	return out
}

// History returns a snapshot of closed/expired trades, oldest first.
func (r *Registry) History() []model.Trade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Trade, len(r.history))
	copy(out, r.history)
	return out
}

// Count returns the number of active trades.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trades)
}
