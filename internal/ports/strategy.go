package ports

import (
	"context"

	"swingtrader/internal/domain"
)

// SignalSource defines the contract between the simulation engine and a
// trading strategy. Implementations are pure functions of the price history
// up to and including index i plus their own internal state; they must never
// read bars beyond i (no future-data leakage).
type SignalSource interface {
	// Name returns a short identifier for reports and logs.
	Name() string

	// WarmupBars returns the minimum number of bars needed before the
	// source can produce a non-hold signal.
	WarmupBars() int

	// Generate produces the signal for bar i given the history bars[0..i]
	// and the currently open position, or nil when flat.
	Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal

	// Reset clears any state carried across bars (pyramid counters,
	// trailing-stop high-water marks). The engine calls it before each run
	// and after every full position close.
	Reset()
}
