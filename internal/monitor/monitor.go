// Package monitor runs the background polling loop: while the market is
// open and trades exist, it periodically refreshes prices for all open
// symbols, recomputes P&L through the registry, runs exit-signal analysis
// per trade, and raises alerts.
//
// The loop owns no trade state. It reads snapshots from the registry and
// writes price updates back through it; the registry's lock keeps caller
// reads consistent with in-flight ticks.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trade-monitorv1/internal/alertlog"
	"trade-monitorv1/internal/logger"
	"trade-monitorv1/internal/markethours"
	"trade-monitorv1/internal/metrics"
	"trade-monitorv1/internal/model"
	"trade-monitorv1/internal/notification"
	"trade-monitorv1/internal/pricesource"
	"trade-monitorv1/internal/quotes"
	"trade-monitorv1/internal/recommend"
	"trade-monitorv1/internal/registry"
)

// Broadcaster pushes live events to connected UI clients.
type Broadcaster interface {
	BroadcastAlert(event model.AlertEvent)
	BroadcastPortfolio(summary model.PortfolioSummary)
	BroadcastMarketStatus(status markethours.Status)
}

// Config holds monitor loop settings.
type Config struct {
	Interval    time.Duration // tick period; default 30s
	StopTimeout time.Duration // bounded wait for Stop; default 5s
	AlertBuffer int           // alert sink channel capacity; default 64
}

func (c *Config) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = 5 * time.Second
	}
	if c.AlertBuffer <= 0 {
		c.AlertBuffer = 64
	}
}

// Deps are the monitor's collaborators. Registry and Source are required;
// the rest may be nil.
type Deps struct {
	Registry *registry.Registry
	Source   pricesource.Source
	Notifier notification.Notifier
	Metrics  *metrics.Metrics
	Health   *metrics.HealthStatus
	Quotes   *quotes.Cache
	Gateway  Broadcaster
	AlertLog *alertlog.Log
	Log      *slog.Logger
}

// Monitor is the background trade monitoring loop.
type Monitor struct {
	cfg  Config
	deps Deps
	log  *slog.Logger

	// Clock hooks, overridable in tests.
	now     func() time.Time
	session func(time.Time) markethours.Status

	alertCh  chan model.AlertEvent
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	lastSession markethours.Session
}

// New creates a monitor. Run must be called exactly once.
func New(cfg Config, deps Deps) (*Monitor, error) {
	if deps.Registry == nil {
		return nil, fmt.Errorf("monitor: registry required")
	}
	if deps.Source == nil {
		return nil, fmt.Errorf("monitor: price source required")
	}
	cfg.applyDefaults()

	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		cfg:     cfg,
		deps:    deps,
		log:     log,
		now:     time.Now,
		session: markethours.At,
		alertCh: make(chan model.AlertEvent, cfg.AlertBuffer),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// SetClock overrides the wall clock and session function. Test hook.
func (m *Monitor) SetClock(now func() time.Time, session func(time.Time) markethours.Status) {
	m.now = now
	m.session = session
}

// Alerts returns the alert sink channel. Events are dropped, not blocked
// on, when the consumer falls behind.
func (m *Monitor) Alerts() <-chan model.AlertEvent {
	return m.alertCh
}

// Run drives the loop until ctx is cancelled or Stop is called. Stop
// requests are honored at tick boundaries, never mid-tick.
func (m *Monitor) Run(ctx context.Context) {
	defer close(m.doneCh)
	if m.deps.Health != nil {
		m.deps.Health.SetMonitorRunning(true)
		defer m.deps.Health.SetMonitorRunning(false)
	}

	m.log.Info("monitor started", "interval", m.cfg.Interval.String())
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped", "reason", "context cancelled")
			return
		case <-m.stopCh:
			m.log.Info("monitor stopped", "reason", "stop requested")
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// Stop requests a cooperative shutdown and waits for the loop to exit,
// bounded by StopTimeout. Returns false if the wait timed out.
func (m *Monitor) Stop() bool {
	m.stopOnce.Do(func() { close(m.stopCh) })
	select {
	case <-m.doneCh:
		return true
	case <-time.After(m.cfg.StopTimeout):
		return false
	}
}

// tick performs one round of monitoring work, or skips when the market is
// closed or there is nothing to monitor. Trade fields are left stale on a
// skip rather than incorrectly updated.
func (m *Monitor) tick(ctx context.Context) {
	now := m.now()
	status := m.session(now)

	if status.Session != m.lastSession {
		m.log.Info("market session changed", "session", string(status.Session), "next", status.NextSession)
		if m.deps.Gateway != nil {
			m.deps.Gateway.BroadcastMarketStatus(status)
		}
		m.lastSession = status.Session
	}

	if m.deps.Metrics != nil {
		if status.Session == markethours.SessionOpen {
			m.deps.Metrics.MarketState.Set(1)
		} else {
			m.deps.Metrics.MarketState.Set(0)
		}
		m.deps.Metrics.ActiveTrades.Set(float64(m.deps.Registry.Count()))
	}

	if status.Session != markethours.SessionOpen {
		m.skip("market_closed")
		return
	}

	expired := m.deps.Registry.ExpireSweep(now)
	for _, id := range expired {
		m.log.Info("trade expired", "trade_id", id)
		if m.deps.Metrics != nil {
			m.deps.Metrics.TradesClosed.WithLabelValues(string(model.StatusExpired)).Inc()
		}
	}

	trades := m.deps.Registry.ListActive()
	if len(trades) == 0 {
		m.skip("no_trades")
		return
	}

	ctx = logger.WithTickID(ctx, logger.NewTickID(now))
	start := time.Now()
	defer func() {
		if m.deps.Metrics != nil {
			m.deps.Metrics.TicksTotal.Inc()
			m.deps.Metrics.TickDuration.Observe(time.Since(start).Seconds())
		}
		if m.deps.Health != nil {
			m.deps.Health.SetLastTickAt(now)
		}
	}()

	// One batch fetch per tick over the deduplicated symbol set. A failed
	// symbol is skipped for this tick only.
	symbols := dedupeSymbols(trades)
	quoteResults := m.deps.Source.FetchLatest(ctx, symbols)
	prices := pricesource.Prices(quoteResults)

	if m.deps.Metrics != nil {
		m.deps.Metrics.SymbolsFetched.Add(float64(len(prices)))
		m.deps.Metrics.FetchFailures.Add(float64(len(symbols) - len(prices)))
	}
	for symbol, price := range prices {
		m.deps.Quotes.SetLatest(ctx, symbol, price)
	}

	snapshots := make(map[string]*model.TechnicalSnapshot, len(symbols))
	for _, trade := range trades {
		price, ok := prices[trade.Symbol]
		if !ok {
			continue
		}
		m.processTrade(ctx, trade, price, snapshots)
	}

	summary := m.deps.Registry.Summary()
	if m.deps.Metrics != nil {
		m.deps.Metrics.PortfolioPnL.Set(summary.TotalPnL)
	}
	if m.deps.Gateway != nil {
		m.deps.Gateway.BroadcastPortfolio(summary)
	}
}

func (m *Monitor) skip(reason string) {
	if m.deps.Metrics != nil {
		m.deps.Metrics.TicksSkipped.WithLabelValues(reason).Inc()
	}
}

// processTrade applies the new price and runs exit analysis for one trade.
// Any failure here is contained: it must never abort the rest of the tick.
func (m *Monitor) processTrade(ctx context.Context, trade model.Trade, price float64, snapshots map[string]*model.TechnicalSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			if m.deps.Metrics != nil {
				m.deps.Metrics.TradeErrors.Inc()
			}
			m.log.Error("trade processing panicked",
				append(logger.TickAttrs(ctx), "trade_id", trade.TradeID, "panic", fmt.Sprint(r))...)
		}
	}()

	if err := m.deps.Registry.ApplyPrice(trade.TradeID, price); err != nil {
		// Closed between snapshot and update; nothing to do.
		return
	}
	updated, err := m.deps.Registry.Get(trade.TradeID)
	if err != nil {
		return
	}
	if m.deps.Metrics != nil {
		m.deps.Metrics.TradesUpdated.Inc()
	}

	snap, cached := snapshots[trade.Symbol]
	if !cached {
		snap, err = m.deps.Source.FetchTechnicalSnapshot(ctx, trade.Symbol)
		if err != nil {
			m.log.Warn("technical snapshot failed",
				append(logger.TickAttrs(ctx), "symbol", trade.Symbol, "err", err)...)
			snap = nil
		}
		if snap == nil && m.deps.Metrics != nil {
			m.deps.Metrics.SnapshotMisses.Inc()
		}
		snapshots[trade.Symbol] = snap
	}

	analysis := analyzeTrade(updated, snap, m.now())
	if analysis.AlertLevel == recommend.AlertHigh && updated.AlertsEnabled {
		m.emitAlert(ctx, updated, analysis)
	}
}

func (m *Monitor) emitAlert(ctx context.Context, trade model.Trade, analysis recommend.ExitAnalysis) {
	message := analysis.AlertMessage
	if message == "" {
		message = analysis.Reason
	}
	event := model.AlertEvent{
		TradeID: trade.TradeID,
		Symbol:  trade.Symbol,
		Level:   string(analysis.AlertLevel),
		Message: message,
		At:      m.now(),
	}

	select {
	case m.alertCh <- event:
	default:
		// Sink full; the alert still goes out through the other channels.
	}

	if m.deps.Notifier != nil {
		if err := m.deps.Notifier.Send(ctx, event); err != nil {
			m.log.Warn("alert delivery failed",
				append(logger.TickAttrs(ctx), "trade_id", trade.TradeID, "err", err)...)
		}
	}
	m.deps.Quotes.PublishAlert(ctx, event)
	m.deps.AlertLog.Append(event)
	if m.deps.Gateway != nil {
		m.deps.Gateway.BroadcastAlert(event)
	}
	if m.deps.Metrics != nil {
		m.deps.Metrics.AlertsTotal.WithLabelValues(event.Level).Inc()
	}

	m.log.Warn("alert emitted",
		append(logger.TickAttrs(ctx),
			"trade_id", trade.TradeID,
			"symbol", trade.Symbol,
			"level", event.Level,
			"pnl_percent", fmt.Sprintf("%.2f", trade.PnLPercent),
		)...)
}

// dedupeSymbols extracts unique symbols across trades, preserving first-seen order.
func dedupeSymbols(trades []model.Trade) []string {
	seen := make(map[string]bool, len(trades))
	var symbols []string
	for _, t := range trades {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			symbols = append(symbols, t.Symbol)
		}
	}
	return symbols
}
