package risk

import (
	"swingtrader/internal/domain"
)

// StopConfig holds parameters for per-position stop and pyramiding management.
type StopConfig struct {
	UseTrailingStop  bool    // Trailing high-water stop instead of a fixed stop
	FixedStopPct     float64 // Fixed stop distance below entry (e.g., 0.05)
	TrailingStopPct  float64 // Trailing stop distance below the high-water mark
	MaxPyramids      int     // Total entry tranches allowed per position
	PyramidProfitPct float64 // Unrealized gain required before adding a tranche
}

// StopManager tracks the mutable stop state a signal source carries across
// bars: the trailing-stop high-water price and the tranche counter. One
// manager serves one position at a time; Reset must be called after the
// position fully closes.
type StopManager struct {
	cfg StopConfig

	trancheCount int
	stopPrice    float64
}

// NewStopManager creates a stop manager with the given configuration.
func NewStopManager(cfg StopConfig) *StopManager {
	return &StopManager{cfg: cfg}
}

// Reset clears the tranche counter and the trailing-stop high-water mark.
func (m *StopManager) Reset() {
	m.trancheCount = 0
	m.stopPrice = 0
}

// CheckExit ratchets the trailing stop from the bar high, then reports
// whether the close has hit the configured stop. The stop only ever moves up.
func (m *StopManager) CheckExit(price, high float64, position *domain.Position) (domain.ExitReason, bool) {
	if m.cfg.UseTrailingStop {
		if candidate := high * (1 - m.cfg.TrailingStopPct); candidate > m.stopPrice {
			m.stopPrice = candidate
		}
		if price <= m.stopPrice {
			return domain.ExitReasonTrailingStop, true
		}
		return "", false
	}
	if position != nil && position.StopLoss != nil && price <= *position.StopLoss {
		return domain.ExitReasonFixedStop, true
	}
	return "", false
}

// OpenStop records the first tranche and returns the initial stop price for
// the new position.
func (m *StopManager) OpenStop(price, high float64) float64 {
	m.trancheCount = 1
	if m.cfg.UseTrailingStop {
		m.stopPrice = high * (1 - m.cfg.TrailingStopPct)
		return m.stopPrice
	}
	return price * (1 - m.cfg.FixedStopPct)
}

// CanPyramid reports whether another tranche is allowed: the tranche budget
// must have room and the position must carry enough unrealized gain.
func (m *StopManager) CanPyramid(price float64, position *domain.Position) bool {
	if position == nil || m.trancheCount >= m.cfg.MaxPyramids {
		return false
	}
	profit := (price - position.EntryPrice) / position.EntryPrice
	return profit >= m.cfg.PyramidProfitPct
}

// AddTranche increments the tranche counter and returns the stop price the
// new tranche inherits.
func (m *StopManager) AddTranche() float64 {
	m.trancheCount++
	return m.stopPrice
}

// StopPrice returns the current trailing-stop level.
func (m *StopManager) StopPrice() float64 { return m.stopPrice }

// Trailing reports whether the manager runs a trailing rather than fixed stop.
func (m *StopManager) Trailing() bool { return m.cfg.UseTrailingStop }

// TrancheCount returns the number of entry tranches in the open position.
func (m *StopManager) TrancheCount() int { return m.trancheCount }
