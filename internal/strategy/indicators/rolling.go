package indicators

import (
	"context"
	"fmt"
	"math"

	"swingtrader/internal/domain"
)

// RollingHigh computes the highest high over the last Period bars. Breakout
// strategies compare the current close against the value computed over the
// window ending at the previous bar.
type RollingHigh struct {
	BaseIndicator
}

// NewRollingHigh creates a rolling-high indicator instance.
func NewRollingHigh(config IndicatorConfig) *RollingHigh {
	return &RollingHigh{BaseIndicator: BaseIndicator{Config: config}}
}

// Name returns the name of the indicator
func (h *RollingHigh) Name() string {
	return "RollingHigh"
}

// Calculate returns the maximum high of the last Period bars.
func (h *RollingHigh) Calculate(ctx context.Context, bars []*domain.Bar) (float64, error) {
	if len(bars) < h.Config.Period {
		return 0, fmt.Errorf("not enough data (%d) to calculate rolling high for period %d", len(bars), h.Config.Period)
	}
	highest := math.Inf(-1)
	for i := len(bars) - h.Config.Period; i < len(bars); i++ {
		if bars[i].High > highest {
			highest = bars[i].High
		}
	}
	return highest, nil
}

// BandsConfig holds configuration for standard-deviation bands.
type BandsConfig struct {
	IndicatorConfig
	StdDevs float64 // Band width in standard deviations (e.g., 2.0)
}

// Bands computes a simple moving average of closes with upper and lower
// bands a configurable number of sample standard deviations away.
type Bands struct {
	BaseIndicator
	config BandsConfig
}

// BandValues is one observation of the three band lines.
type BandValues struct {
	Middle float64
	Upper  float64
	Lower  float64
}

// NewBands creates a standard-deviation band indicator instance.
func NewBands(config BandsConfig) *Bands {
	if config.StdDevs == 0 {
		config.StdDevs = 2.0
	}
	return &Bands{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (b *Bands) Name() string {
	return "StdDevBands"
}

// Calculate returns the middle band (SMA) for the most recent bar.
func (b *Bands) Calculate(ctx context.Context, bars []*domain.Bar) (float64, error) {
	values, err := b.CalculateBands(ctx, bars)
	if err != nil {
		return 0, err
	}
	return values.Middle, nil
}

// CalculateBands returns all three band lines for the most recent bar.
func (b *Bands) CalculateBands(ctx context.Context, bars []*domain.Bar) (BandValues, error) {
	period := b.Config.Period
	if len(bars) < period {
		return BandValues{}, fmt.Errorf("not enough data (%d) to calculate bands for period %d", len(bars), period)
	}

	window := bars[len(bars)-period:]
	mean := 0.0
	for _, bar := range window {
		mean += bar.Close
	}
	mean /= float64(period)

	variance := 0.0
	for _, bar := range window {
		d := bar.Close - mean
		variance += d * d
	}
	variance /= float64(period)
	sd := math.Sqrt(variance)

	return BandValues{
		Middle: mean,
		Upper:  mean + b.config.StdDevs*sd,
		Lower:  mean - b.config.StdDevs*sd,
	}, nil
}
