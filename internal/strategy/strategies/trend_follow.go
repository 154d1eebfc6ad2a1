package strategies

import (
	"context"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/strategy/indicators"
)

// TrendFollowConfig holds parameters for the composite trend strategy.
type TrendFollowConfig struct {
	ShortTermMAPeriod int     // e.g., 20
	LongTermMAPeriod  int     // e.g., 50
	EMAPeriod         int     // e.g., 20
	RSIPeriod         int     // e.g., 14
	RSIOverbought     float64 // e.g., 70.0
	StopLossPct       float64 // Stop-loss as a multiple of entry price (e.g., 0.95)
	TakeProfitPct     float64 // Take-profit as a multiple of entry price (e.g., 1.15)
}

// TrendFollow enters when price trades above both moving averages with the
// short average above the long one, price holds above the EMA, and RSI is not
// overbought. Exits are handled by the stop-loss and take-profit levels set
// at entry.
type TrendFollow struct {
	cfg      TrendFollowConfig
	shortSMA *indicators.MovingAverage
	longSMA  *indicators.MovingAverage
	ema      *indicators.MovingAverage
	rsi      *indicators.RSI
}

// NewTrendFollow creates the signal source with the given configuration.
func NewTrendFollow(cfg TrendFollowConfig) *TrendFollow {
	return &TrendFollow{
		cfg: cfg,
		shortSMA: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.ShortTermMAPeriod},
			Type:            indicators.SimpleMovingAverage,
		}),
		longSMA: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.LongTermMAPeriod},
			Type:            indicators.SimpleMovingAverage,
		}),
		ema: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.EMAPeriod},
			Type:            indicators.ExponentialMovingAverage,
		}),
		rsi: indicators.NewRSI(indicators.RSIConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.RSIPeriod},
			Overbought:      cfg.RSIOverbought,
		}),
	}
}

// Name returns a short identifier for reports and logs.
func (s *TrendFollow) Name() string { return "Trend_Follow" }

// WarmupBars returns the minimum history needed before signals can fire.
// RSI looks one bar further back than its period.
func (s *TrendFollow) WarmupBars() int {
	maxPeriod := s.cfg.LongTermMAPeriod
	if s.cfg.EMAPeriod > maxPeriod {
		maxPeriod = s.cfg.EMAPeriod
	}
	if s.cfg.RSIPeriod > maxPeriod {
		maxPeriod = s.cfg.RSIPeriod
	}
	return maxPeriod + 1
}

// Reset is a no-op; the strategy carries no state across positions.
func (s *TrendFollow) Reset() {}

// Generate produces the signal for bar i.
func (s *TrendFollow) Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal {
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

	if i+1 < s.WarmupBars() {
		return domain.HoldSignal()
	}
	window := bars[:i+1]

	shortMA, err := s.shortSMA.Calculate(ctx, window)
	if err != nil {
		return domain.HoldSignal()
	}
	longMA, err := s.longSMA.Calculate(ctx, window)
	if err != nil {
		return domain.HoldSignal()
	}
	ema, err := s.ema.Calculate(ctx, window)
	if err != nil {
		return domain.HoldSignal()
	}
	rsi, err := s.rsi.Calculate(ctx, window)
	if err != nil {
		return domain.HoldSignal()
	}

	isTrendingUp := price > shortMA && price > longMA && shortMA > longMA
	isNotOverbought := !s.rsi.IsOverbought(rsi)
	isAboveEMA := price > ema

	if isTrendingUp && isNotOverbought && isAboveEMA {
		sl := price * s.cfg.StopLossPct
		tp := price * s.cfg.TakeProfitPct
		return domain.Signal{Action: domain.Buy, StopLoss: &sl, TakeProfit: &tp}
	}
	return domain.HoldSignal()
}

var _ ports.SignalSource = (*TrendFollow)(nil)
