package strategies

import (
	"context"
	"fmt"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/risk"
	"swingtrader/internal/strategy/indicators"
)

// BandCross selects which band line an entry cross is measured against.
type BandCross string

const (
	CrossAboveLower BandCross = "lower"
	CrossAboveSMA   BandCross = "sma"
	CrossAboveUpper BandCross = "upper"
)

// StdDevBandsConfig holds configuration for the standard-deviation band
// signal source.
type StdDevBandsConfig struct {
	Length           int       // Band lookback period (e.g., 20 or 260)
	StdDevs          float64   // Band width in standard deviations (default 2.0)
	BuyCondition     BandCross // Which line the close must cross above to enter
	UseTrailingStop  bool      // Trailing high-water stop instead of a fixed stop
	FixedStopPct     float64   // Fixed stop distance below entry
	TrailingStopPct  float64   // Trailing stop distance below the high-water mark
	MaxPyramids      int       // Total entry tranches allowed per position
	PyramidProfitPct float64   // Unrealized gain required before adding a tranche
	EntrySizePct     float64   // Equity fraction committed per tranche
	TakeProfitPct    float64   // Take-profit as a multiple of entry price
}

// StdDevBands buys when the close crosses above the configured band line
// (lower band, middle SMA, or upper band) and manages exits with the same
// stop manager as BreakoutV2.
type StdDevBands struct {
	cfg   StdDevBandsConfig
	bands *indicators.Bands
	stops *risk.StopManager
}

// NewStdDevBands creates the signal source with the given configuration.
func NewStdDevBands(cfg StdDevBandsConfig) *StdDevBands {
	if cfg.StdDevs == 0 {
		cfg.StdDevs = 2.0
	}
	return &StdDevBands{
		cfg: cfg,
		bands: indicators.NewBands(indicators.BandsConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.Length},
			StdDevs:         cfg.StdDevs,
		}),
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
func (s *StdDevBands) Name() string {
	return fmt.Sprintf("StdDevBands_%s_%d", s.cfg.BuyCondition, s.cfg.Length)
}

// WarmupBars returns the minimum history needed before signals can fire.
// Cross detection needs band values at both the current and previous bar.
func (s *StdDevBands) WarmupBars() int { return s.cfg.Length + 1 }

// Reset clears the stop manager state.
func (s *StdDevBands) Reset() { s.stops.Reset() }

// Generate produces the signal for bar i.
func (s *StdDevBands) Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal {
	if i < s.cfg.Length {
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

	curr, err := s.bands.CalculateBands(ctx, bars[:i+1])
	if err != nil {
		return domain.HoldSignal()
	}
	prev, err := s.bands.CalculateBands(ctx, bars[:i])
	if err != nil {
		return domain.HoldSignal()
	}
	prevClose := bars[i-1].Close

	crossed := prevClose <= s.line(prev) && price > s.line(curr)

	if crossed && position == nil {
		tp := price * s.cfg.TakeProfitPct
		sl := s.stops.OpenStop(price, high)
		return domain.Signal{Action: domain.Buy, StopLoss: &sl, TakeProfit: &tp, SizeFrac: s.cfg.EntrySizePct}
	}

	if crossed && s.stops.CanPyramid(price, position) {
		sl := s.stops.AddTranche()
		return domain.Signal{Action: domain.Pyramid, StopLoss: &sl, SizeFrac: s.cfg.EntrySizePct}
	}

	if position != nil && s.stops.Trailing() {
		sl := s.stops.StopPrice()
		return domain.Signal{Action: domain.Hold, StopLoss: &sl}
	}
	return domain.HoldSignal()
}

// line picks the band value the entry condition is measured against.
func (s *StdDevBands) line(v indicators.BandValues) float64 {
	switch s.cfg.BuyCondition {
	case CrossAboveUpper:
		return v.Upper
	case CrossAboveSMA:
		return v.Middle
	default:
		return v.Lower
	}
}

var _ ports.SignalSource = (*StdDevBands)(nil)
