// Package store persists executed trades and the equity curve in SQLite so
// trade history survives server restarts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/trendlab/papertrader"
)

// Store is a SQLite-backed archive of ledger output. Money columns hold
// decimal strings, never floats, so amounts survive the round trip exactly.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a throwaway
// in-process database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS trades (
    id TEXT PRIMARY KEY,
    ticker TEXT NOT NULL,
    side TEXT NOT NULL,
    shares INTEGER NOT NULL,
    price TEXT NOT NULL,
    realized_pnl TEXT NOT NULL,
    executed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker);

CREATE TABLE IF NOT EXISTS equity_curve (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    at TEXT NOT NULL,
    cash TEXT NOT NULL,
    equity TEXT NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveTrade archives one executed trade. Saving the same trade twice is a
// no-op, which lets callers retry after a broken connection.
func (s *Store) SaveTrade(ctx context.Context, t papertrader.Trade) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO trades (id, ticker, side, shares, price, realized_pnl, executed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`, t.ID, t.Symbol, string(t.Side), t.Shares,
		t.Price.Decimal().String(), t.Realized.Decimal().String(),
		t.Time.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert trade %s: %w", t.ID, err)
	}
	return nil
}

// SaveEquityPoint appends one equity curve sample.
func (s *Store) SaveEquityPoint(ctx context.Context, p papertrader.EquityPoint) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO equity_curve (at, cash, equity)
VALUES (?, ?, ?)
`, p.Time.UTC().Format(time.RFC3339Nano),
		p.Cash.Decimal().String(), p.Equity.Decimal().String())
	if err != nil {
		return fmt.Errorf("insert equity point: %w", err)
	}
	return nil
}

// Trades returns all archived trades in execution order.
func (s *Store) Trades(ctx context.Context) ([]papertrader.Trade, error) {
	return s.queryTrades(ctx, `
SELECT id, ticker, side, shares, price, realized_pnl, executed_at
FROM trades ORDER BY executed_at, rowid
`)
}

// TradesFor returns the archived trades for one symbol in execution order.
func (s *Store) TradesFor(ctx context.Context, symbol string) ([]papertrader.Trade, error) {
	return s.queryTrades(ctx, `
SELECT id, ticker, side, shares, price, realized_pnl, executed_at
FROM trades WHERE ticker = ? ORDER BY executed_at, rowid
`, papertrader.NormalizeSymbol(symbol))
}

func (s *Store) queryTrades(ctx context.Context, query string, args ...any) ([]papertrader.Trade, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []papertrader.Trade
	for rows.Next() {
		var (
			t                   papertrader.Trade
			side                string
			price, realized, at string
		)
		if err := rows.Scan(&t.ID, &t.Symbol, &side, &t.Shares, &price, &realized, &at); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = papertrader.Side(side)
		if t.Price, err = papertrader.ParseMoney(price); err != nil {
			return nil, fmt.Errorf("trade %s: %w", t.ID, err)
		}
		if t.Realized, err = papertrader.ParseMoney(realized); err != nil {
			return nil, fmt.Errorf("trade %s: %w", t.ID, err)
		}
		if t.Time, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("trade %s: %w", t.ID, err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// EquityCurve returns all equity samples in recording order.
func (s *Store) EquityCurve(ctx context.Context) ([]papertrader.EquityPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT at, cash, equity FROM equity_curve ORDER BY seq
`)
	if err != nil {
		return nil, fmt.Errorf("query equity curve: %w", err)
	}
	defer rows.Close()

	var points []papertrader.EquityPoint
	for rows.Next() {
		var (
			p                papertrader.EquityPoint
			at, cash, equity string
		)
		if err := rows.Scan(&at, &cash, &equity); err != nil {
			return nil, fmt.Errorf("scan equity point: %w", err)
		}
		if p.Time, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("equity point: %w", err)
		}
		if p.Cash, err = papertrader.ParseMoney(cash); err != nil {
			return nil, fmt.Errorf("equity point: %w", err)
		}
		if p.Equity, err = papertrader.ParseMoney(equity); err != nil {
			return nil, fmt.Errorf("equity point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Clear wipes both tables. An account reset archives nothing older than the
// reset.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("clear trades: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM equity_curve`); err != nil {
		return fmt.Errorf("clear equity curve: %w", err)
	}
	return nil
}
