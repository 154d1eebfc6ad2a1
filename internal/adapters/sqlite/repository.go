package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.ResultRepository using SQLite. Each backtest
// run is stored as one row in runs with its trades in trades.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/backtests.db" // Default path
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Results database ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		strategy TEXT NOT NULL,
		initial_cash REAL NOT NULL,
		final_equity REAL NOT NULL,
		trade_count INTEGER NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		symbol TEXT NOT NULL,
		entry_date TIMESTAMP NOT NULL,
		entry_price REAL NOT NULL,
		exit_date TIMESTAMP NOT NULL,
		exit_price REAL NOT NULL,
		size REAL NOT NULL,
		pnl REAL NOT NULL,
		return_pct REAL NOT NULL,
		duration_days INTEGER NOT NULL,
		exit_reason TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trades_run_id ON trades(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveRun persists a run summary together with its trades in one
// transaction and returns the assigned run ID.
func (r *Repository) SaveRun(ctx context.Context, run *ports.RunRecord, trades []*domain.Trade) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %v", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (symbol, strategy, initial_cash, final_equity, trade_count, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Symbol, run.Strategy, run.InitialCash, run.FinalEquity, run.TradeCount,
		run.StartDate, run.EndDate, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: insert run: %v", ports.ErrQueryFailed, err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %v", ports.ErrQueryFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trades (run_id, symbol, entry_date, entry_price, exit_date, exit_price, size, pnl, return_pct, duration_days, exit_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare trade insert: %v", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			runID, t.Symbol, t.EntryDate, t.EntryPrice, t.ExitDate, t.ExitPrice,
			t.Size, t.PNL, t.ReturnPct, t.Duration, string(t.ExitReason)); err != nil {
			return 0, fmt.Errorf("%w: insert trade: %v", ports.ErrQueryFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ports.ErrQueryFailed, err)
	}

	r.logger.Debug(ctx, "saved backtest run", map[string]interface{}{
		"run_id": runID, "symbol": run.Symbol, "strategy": run.Strategy, "trades": len(trades),
	})
	return runID, nil
}

// FindRuns retrieves the most recent runs, up to a limit.
func (r *Repository) FindRuns(ctx context.Context, limit int) ([]*ports.RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, symbol, strategy, initial_cash, final_equity, trade_count, start_date, end_date, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query runs: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var runs []*ports.RunRecord
	for rows.Next() {
		rec := &ports.RunRecord{}
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Strategy, &rec.InitialCash, &rec.FinalEquity,
			&rec.TradeCount, &rec.StartDate, &rec.EndDate, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan run: %v", ports.ErrQueryFailed, err)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// FindTradesByRun retrieves all trades recorded for a run, ordered by entry
// date ascending.
func (r *Repository) FindTradesByRun(ctx context.Context, runID int64) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, symbol, entry_date, entry_price, exit_date, exit_price, size, pnl, return_pct, duration_days, exit_reason
		 FROM trades WHERE run_id = ? ORDER BY entry_date ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: query trades: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		t := &domain.Trade{}
		var reason string
		if err := rows.Scan(&t.ID, &t.Symbol, &t.EntryDate, &t.EntryPrice, &t.ExitDate, &t.ExitPrice,
			&t.Size, &t.PNL, &t.ReturnPct, &t.Duration, &reason); err != nil {
			return nil, fmt.Errorf("%w: scan trade: %v", ports.ErrQueryFailed, err)
		}
		t.ExitReason = domain.ExitReason(reason)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

var _ ports.ResultRepository = (*Repository)(nil)
