package strategies

import (
	"context"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/risk"
	"swingtrader/internal/strategy/indicators"
)

// BreakoutV2Config holds configuration for the pyramiding breakout signal
// source.
type BreakoutV2Config struct {
	Period           int     // Lookback for the prior high (e.g., 20)
	UseTrailingStop  bool    // Trailing high-water stop instead of a fixed stop
	FixedStopPct     float64 // Fixed stop distance below entry (e.g., 0.05)
	TrailingStopPct  float64 // Trailing stop distance below the high-water mark
	MaxPyramids      int     // Total entry tranches allowed per position
	PyramidProfitPct float64 // Unrealized gain required before adding a tranche
	EntrySizePct     float64 // Equity fraction committed per tranche (e.g., 0.2)
	TakeProfitPct    float64 // Take-profit as a multiple of entry price
}

// BreakoutV2 extends the simple breakout with a trailing stop and pyramiding.
// Per-position stop state lives in the embedded stop manager; Reset clears it
// and the engine invokes Reset after every full position close.
type BreakoutV2 struct {
	cfg   BreakoutV2Config
	high  *indicators.RollingHigh
	stops *risk.StopManager
}

// NewBreakoutV2 creates the signal source with the given configuration.
func NewBreakoutV2(cfg BreakoutV2Config) *BreakoutV2 {
	return &BreakoutV2{
		cfg:  cfg,
		high: indicators.NewRollingHigh(indicators.IndicatorConfig{Period: cfg.Period}),
		stops: risk.NewStopManager(risk.StopConfig{
			UseTrailingStop:  cfg.UseTrailingStop,
			FixedStopPct:     cfg.FixedStopPct,
			TrailingStopPct:  cfg.TrailingStopPct,
			MaxPyramids:      cfg.MaxPyramids,
			PyramidProfitPct: cfg.PyramidProfitPct,
		}),
	}
}

// Name returns a short identifier for reports and logs.
func (s *BreakoutV2) Name() string { return "Breakout_V2" }

// WarmupBars returns the minimum history needed before signals can fire.
func (s *BreakoutV2) WarmupBars() int { return s.cfg.Period + 1 }

// Reset clears the stop manager state.
func (s *BreakoutV2) Reset() { s.stops.Reset() }

// Generate produces the signal for bar i. Exit checks (take-profit, then the
// configured stop) run before entry checks so an open position is never
// pyramided on a bar it should have exited.
func (s *BreakoutV2) Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal {
	if i < s.cfg.Period {
		return domain.HoldSignal()
	}

	price := bars[i].Close
	high := bars[i].High

	if position != nil {
		if position.TakeProfit != nil && price >= *position.TakeProfit {
			return domain.SellSignal(domain.ExitReasonTakeProfit)
		}
		if reason, hit := s.stops.CheckExit(price, high, position); hit {
			return domain.SellSignal(reason)
		}
	}

	prevHigh, err := s.high.Calculate(ctx, bars[:i])
	if err != nil {
		return domain.HoldSignal()
	}

	if price > prevHigh {
		if position == nil {
			tp := price * s.cfg.TakeProfitPct
			sl := s.stops.OpenStop(price, high)
			return domain.Signal{Action: domain.Buy, StopLoss: &sl, TakeProfit: &tp, SizeFrac: s.cfg.EntrySizePct}
		}

		if s.stops.CanPyramid(price, position) {
			sl := s.stops.AddTranche()
			return domain.Signal{Action: domain.Pyramid, StopLoss: &sl, SizeFrac: s.cfg.EntrySizePct}
		}
	}

	if position != nil && s.stops.Trailing() {
		// Push the ratcheted stop onto the position even when holding.
		sl := s.stops.StopPrice()
		return domain.Signal{Action: domain.Hold, StopLoss: &sl}
	}
	return domain.HoldSignal()
}

var _ ports.SignalSource = (*BreakoutV2)(nil)
