package strategies

import (
	"context"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/strategy/indicators"
)

// BreakoutConfig holds configuration for the simple breakout signal source.
type BreakoutConfig struct {
	Period        int     // Lookback for the prior high (e.g., 20)
	StopLossPct   float64 // Stop-loss as a multiple of entry price
	TakeProfitPct float64 // Take-profit as a multiple of entry price
}

// Breakout buys when the close exceeds the highest high of the previous
// Period bars and exits on stop-loss or take-profit breaches.
type Breakout struct {
	cfg  BreakoutConfig
	high *indicators.RollingHigh
}

// NewBreakout creates the signal source with the given configuration.
func NewBreakout(cfg BreakoutConfig) *Breakout {
	return &Breakout{
		cfg:  cfg,
		high: indicators.NewRollingHigh(indicators.IndicatorConfig{Period: cfg.Period}),
	}
}

// Name returns a short identifier for reports and logs.
func (s *Breakout) Name() string { return "Breakout" }

// WarmupBars returns the minimum history needed before signals can fire.
// The breakout window ends at the previous bar, so one extra bar is needed.
func (s *Breakout) WarmupBars() int { return s.cfg.Period + 1 }

// Reset is a no-op; the source carries no state across bars.
func (s *Breakout) Reset() {}

// Generate produces the signal for bar i.
func (s *Breakout) Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal {
	if i < s.cfg.Period {
		return domain.HoldSignal()
	}

	price := bars[i].Close

	if position != nil {
		if position.StopLoss != nil && price <= *position.StopLoss {
			return domain.SellSignal(domain.ExitReasonStopLoss)
		}
		if position.TakeProfit != nil && price >= *position.TakeProfit {
			return domain.SellSignal(domain.ExitReasonTakeProfit)
		}
		return domain.HoldSignal()
	}

	// Window ends at the previous bar: the current bar must clear the prior
	// high, not its own.
	prevHigh, err := s.high.Calculate(ctx, bars[:i])
	if err != nil {
		return domain.HoldSignal()
	}
	if price <= prevHigh {
		return domain.HoldSignal()
	}

	sl := price * s.cfg.StopLossPct
	tp := price * s.cfg.TakeProfitPct
	return domain.Signal{Action: domain.Buy, StopLoss: &sl, TakeProfit: &tp, SizeFrac: 1.0}
}

var _ ports.SignalSource = (*Breakout)(nil)
