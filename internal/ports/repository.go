package ports

import (
	"context"
	"time"

	"swingtrader/internal/domain"
)

// RunRecord summarizes one persisted backtest run.
type RunRecord struct {
	ID          int64
	Symbol      string
	Strategy    string
	InitialCash float64
	FinalEquity float64
	TradeCount  int
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
}

// ResultRepository defines the interface for storing and retrieving backtest
// runs and their trade logs.
type ResultRepository interface {
	// SaveRun persists a run summary together with its trades and returns
	// the assigned run ID.
	SaveRun(ctx context.Context, run *RunRecord, trades []*domain.Trade) (int64, error)
	// FindRuns retrieves the most recent runs, up to a limit.
	FindRuns(ctx context.Context, limit int) ([]*RunRecord, error)
	// FindTradesByRun retrieves all trades recorded for a run, ordered by
	// entry date ascending.
	FindTradesByRun(ctx context.Context, runID int64) ([]*domain.Trade, error)
}
