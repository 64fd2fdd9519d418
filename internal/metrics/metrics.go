// Package metrics exposes Prometheus metrics and a health endpoint for the
// trade monitor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the monitor.
type Metrics struct {
	TicksTotal      prometheus.Counter
	TicksSkipped    *prometheus.CounterVec // labels: reason=market_closed|no_trades
	TickDuration    prometheus.Histogram
	SymbolsFetched  prometheus.Counter
	FetchFailures   prometheus.Counter
	TradesUpdated   prometheus.Counter
	TradeErrors     prometheus.Counter
	AlertsTotal     *prometheus.CounterVec // labels: level
	ActiveTrades    prometheus.Gauge
	MarketState     prometheus.Gauge // 0=closed, 1=open
	TradesOpened    prometheus.Counter
	TradesClosed    *prometheus.CounterVec // labels: status=CLOSED|EXPIRED
	PortfolioPnL    prometheus.Gauge
	SnapshotMisses  prometheus.Counter
}

// New registers and returns all monitor metrics.
func New() *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trademonitor_ticks_total",
			Help: "Monitoring ticks executed (work done)",
		}),
		TicksSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trademonitor_ticks_skipped_total",
			Help: "Ticks skipped without work (by reason)",
		}, []string{"reason"}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trademonitor_tick_duration_seconds",
			Help:    "Wall time of one monitoring tick",
			Buckets: prometheus.DefBuckets,
		}),
		SymbolsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trademonitor_symbols_fetched_total",
			Help: "Symbols successfully quoted across all ticks",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trademonitor_fetch_failures_total",
			Help: "Per-symbol quote fetch failures (skipped for the tick)",
		}),
		TradesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trademonitor_trades_updated_total",
			Help: "Trade price/P&L updates applied",
		}),
		TradeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trademonitor_trade_errors_total",
			Help: "Unexpected per-trade processing failures (recovered)",
		}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trademonitor_alerts_total",
			Help: "Alerts emitted (by level)",
		}, []string{"level"}),
		ActiveTrades: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trademonitor_active_trades",
			Help: "Current number of active trades",
		}),
		MarketState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trademonitor_market_state",
			Help: "Market session state (0=closed, 1=open)",
		}),
		TradesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trademonitor_trades_opened_total",
			Help: "Trades opened",
		}),
		TradesClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trademonitor_trades_closed_total",
			Help: "Trades retired (by final status)",
		}, []string{"status"}),
		PortfolioPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trademonitor_portfolio_pnl_dollars",
			Help: "Total unrealized P&L across active trades",
		}),
		SnapshotMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trademonitor_snapshot_misses_total",
			Help: "Technical snapshots unavailable for a symbol on a tick",
		}),
	}

	prometheus.MustRegister(
		m.TicksTotal,
		m.TicksSkipped,
		m.TickDuration,
		m.SymbolsFetched,
		m.FetchFailures,
		m.TradesUpdated,
		m.TradeErrors,
		m.AlertsTotal,
		m.ActiveTrades,
		m.MarketState,
		m.TradesOpened,
		m.TradesClosed,
		m.PortfolioPnL,
		m.SnapshotMisses,
	)

	return m
}
