package strategies

import (
	"context"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/strategy/indicators"
)

// MACrossoverConfig holds configuration for the moving-average crossover
// signal source.
type MACrossoverConfig struct {
	FastPeriod    int     // Fast SMA period (e.g., 10)
	SlowPeriod    int     // Slow SMA period (e.g., 20)
	StopLossPct   float64 // Stop-loss as a multiple of entry price (e.g., 0.95)
	TakeProfitPct float64 // Take-profit as a multiple of entry price (e.g., 1.10)
}

// MACrossover buys when the fast SMA crosses above the slow SMA and exits on
// stop-loss or take-profit breaches. It holds no state across bars.
type MACrossover struct {
	cfg  MACrossoverConfig
	fast *indicators.MovingAverage
	slow *indicators.MovingAverage
}

// NewMACrossover creates the signal source with the given configuration.
func NewMACrossover(cfg MACrossoverConfig) *MACrossover {
	return &MACrossover{
		cfg: cfg,
		fast: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.FastPeriod},
			Type:            indicators.SimpleMovingAverage,
		}),
		slow: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.SlowPeriod},
			Type:            indicators.SimpleMovingAverage,
		}),
	}
}

// Name returns a short identifier for reports and logs.
func (s *MACrossover) Name() string { return "MA_Crossover" }

// WarmupBars returns the minimum history needed before signals can fire.
func (s *MACrossover) WarmupBars() int { return s.cfg.SlowPeriod }

// Reset is a no-op; the source carries no state across bars.
func (s *MACrossover) Reset() {}

// Generate produces the signal for bar i.
//
// A crossover fires on the first bar where the fast SMA sits above the slow
// SMA and did not on the previous bar. On the first bar with enough history
// for both averages there is no previous observation to compare against, so
// fast above slow counts as a cross there.
func (s *MACrossover) Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal {
	if i < s.cfg.SlowPeriod-1 {
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

	fast, err := s.fast.Calculate(ctx, bars[:i+1])
	if err != nil {
		return domain.HoldSignal()
	}
	slow, err := s.slow.Calculate(ctx, bars[:i+1])
	if err != nil {
		return domain.HoldSignal()
	}

	crossed := fast > slow
	if crossed && i >= s.cfg.SlowPeriod {
		prevFast, errF := s.fast.Calculate(ctx, bars[:i])
		prevSlow, errS := s.slow.Calculate(ctx, bars[:i])
		if errF == nil && errS == nil {
			crossed = prevFast <= prevSlow
		}
	}
	if !crossed {
		return domain.HoldSignal()
	}

	sl := price * s.cfg.StopLossPct
	tp := price * s.cfg.TakeProfitPct
	return domain.Signal{Action: domain.Buy, StopLoss: &sl, TakeProfit: &tp, SizeFrac: 1.0}
}

var _ ports.SignalSource = (*MACrossover)(nil)
