// Package journal persists closed and expired trades to SQLite for audit
// and later review. The active trade set itself lives only in memory.
package journal

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trade-monitorv1/internal/model"
)

// Journal is a SQLite-backed closed-trade log. Implements registry.Recorder.
type Journal struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (or creates) the journal database.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_sync=NORMAL")
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS trade_history (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id     TEXT NOT NULL,
		symbol       TEXT NOT NULL,
		kind         TEXT NOT NULL,
		entry_price  REAL NOT NULL,
		strike_price REAL,
		contracts    INTEGER NOT NULL,
		entry_time   DATETIME NOT NULL,
		exit_price   REAL,
		pnl_dollar   REAL,
		pnl_percent  REAL,
		status       TEXT NOT NULL,
		recorded_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_history_symbol ON trade_history(symbol);
	CREATE INDEX IF NOT EXISTS idx_history_trade_id ON trade_history(trade_id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("trade journal opened", "path", dbPath)
	return &Journal{db: db}, nil
}

// Record persists a retired trade.
func (j *Journal) Record(trade model.Trade) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(
		`INSERT INTO trade_history
		 (trade_id, symbol, kind, entry_price, strike_price, contracts, entry_time, exit_price, pnl_dollar, pnl_percent, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.TradeID,
		trade.Symbol,
		string(trade.Kind),
		trade.EntryPrice,
		trade.StrikePrice,
		trade.Contracts,
		trade.EntryTime.Format(time.RFC3339),
		trade.CurrentPrice,
		trade.PnLDollar,
		trade.PnLPercent,
		string(trade.Status),
	)
	return err
}

// Entry is a row from the trade_history table.
type Entry struct {
	ID          int64   `json:"id"`
	TradeID     string  `json:"trade_id"`
	Symbol      string  `json:"symbol"`
	Kind        string  `json:"kind"`
	EntryPrice  float64 `json:"entry_price"`
	StrikePrice float64 `json:"strike_price"`
	Contracts   int     `json:"contracts"`
	EntryTime   string  `json:"entry_time"`
	ExitPrice   float64 `json:"exit_price"`
	PnLDollar   float64 `json:"pnl_dollar"`
	PnLPercent  float64 `json:"pnl_percent"`
	Status      string  `json:"status"`
}

// Recent returns the last N journal entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(
		`SELECT id, trade_id, symbol, kind, entry_price, strike_price, contracts, entry_time, exit_price, pnl_dollar, pnl_percent, status
		 FROM trade_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TradeID, &e.Symbol, &e.Kind, &e.EntryPrice, &e.StrikePrice,
			&e.Contracts, &e.EntryTime, &e.ExitPrice, &e.PnLDollar, &e.PnLPercent, &e.Status); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DB exposes the underlying handle for health checks.
func (j *Journal) DB() *sql.DB { return j.db }

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
