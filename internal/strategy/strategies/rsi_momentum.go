package strategies

import (
	"context"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/strategy/indicators"
)

// ReasonRSIOverbought marks an exit triggered by the RSI crossing the
// overbought threshold while a position is open.
const ReasonRSIOverbought = domain.ExitReason("RSI Overbought")

// RSIMomentumConfig holds configuration for the RSI momentum signal source.
type RSIMomentumConfig struct {
	Period        int     // RSI lookback period (e.g., 14)
	Oversold      float64 // Entry threshold (e.g., 30)
	Overbought    float64 // Exit threshold (e.g., 70)
	StopLossPct   float64 // Stop-loss as a multiple of entry price
	TakeProfitPct float64 // Take-profit as a multiple of entry price
}

// RSIMomentum buys when the RSI drops below the oversold threshold and exits
// on stop-loss, RSI overbought, or take-profit.
type RSIMomentum struct {
	cfg RSIMomentumConfig
	rsi *indicators.RSI
}

// NewRSIMomentum creates the signal source with the given configuration.
func NewRSIMomentum(cfg RSIMomentumConfig) *RSIMomentum {
	return &RSIMomentum{
		cfg: cfg,
		rsi: indicators.NewRSI(indicators.RSIConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.Period},
			Overbought:      cfg.Overbought,
			Oversold:        cfg.Oversold,
		}),
	}
}

// Name returns a short identifier for reports and logs.
func (s *RSIMomentum) Name() string { return "RSI_Momentum" }

// WarmupBars returns the minimum history needed before signals can fire.
// RSI needs one bar more than its period to form the first price change.
func (s *RSIMomentum) WarmupBars() int { return s.cfg.Period + 1 }

// Reset is a no-op; the source carries no state across bars.
func (s *RSIMomentum) Reset() {}

// Generate produces the signal for bar i. Exit checks run in order:
// stop-loss, overbought RSI, take-profit.
func (s *RSIMomentum) Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal {
	if i < s.cfg.Period {
		return domain.HoldSignal()
	}

	value, err := s.rsi.Calculate(ctx, bars[:i+1])
	if err != nil {
		return domain.HoldSignal()
	}
	price := bars[i].Close

	if position == nil {
		if s.rsi.IsOversold(value) {
			sl := price * s.cfg.StopLossPct
			tp := price * s.cfg.TakeProfitPct
			return domain.Signal{Action: domain.Buy, StopLoss: &sl, TakeProfit: &tp, SizeFrac: 1.0}
		}
		return domain.HoldSignal()
	}

	if position.StopLoss != nil && price <= *position.StopLoss {
		return domain.SellSignal(domain.ExitReasonStopLoss)
	}
	if s.rsi.IsOverbought(value) {
		return domain.SellSignal(ReasonRSIOverbought)
	}
	if position.TakeProfit != nil && price >= *position.TakeProfit {
		return domain.SellSignal(domain.ExitReasonTakeProfit)
	}
	return domain.HoldSignal()
}

var _ ports.SignalSource = (*RSIMomentum)(nil)
