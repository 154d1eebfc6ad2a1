package domain

import "time"

// ExitReason indicates why a position was closed.
type ExitReason string

const (
	ExitReasonStopLoss     ExitReason = "Stop Loss"
	ExitReasonTakeProfit   ExitReason = "Take Profit"
	ExitReasonTrailingStop ExitReason = "Trailing Stop"
	ExitReasonFixedStop    ExitReason = "Fixed Stop"
	ExitReasonSignal       ExitReason = "Strategy Signal"
	ExitReasonForcedClose  ExitReason = "Forced Close" // Closed at final bar because data ended
)

// Trade represents a completed round-trip trade. Records are immutable once
// appended to a run's trade log.
type Trade struct {
	ID         int64      // Assigned by the repository when persisted (0 otherwise)
	Symbol     string     // Asset symbol
	EntryDate  time.Time  // Date the position was opened
	EntryPrice float64    // Volume-weighted average entry price
	ExitDate   time.Time  // Date the position was closed
	ExitPrice  float64    // Price at which the position was closed
	Size       float64    // Number of shares/units traded
	PNL        float64    // Realized profit and loss in currency
	ReturnPct  float64    // Realized return as a percentage of entry value
	Duration   int        // Holding duration in calendar days
	ExitReason ExitReason // Why the position was closed
}

// EquityPoint is one observation on an equity curve: total account value
// (cash plus mark-to-market position value) at a date.
type EquityPoint struct {
	Date  time.Time
	Value float64
}
