package indicators

import (
	"context"

	"swingtrader/internal/domain"
)

// Indicator represents a technical indicator computed from a bar series.
// Calculate returns the indicator value for the most recent bar of the
// given history.
type Indicator interface {
	// Calculate computes the indicator value for the given price data
	Calculate(ctx context.Context, bars []*domain.Bar) (float64, error)

	// RequiredDataPoints returns the minimum number of bars needed for calculation
	RequiredDataPoints() int

	// Name returns the name of the indicator
	Name() string
}

// IndicatorConfig holds common configuration for indicators
type IndicatorConfig struct {
	Period int
}

// BaseIndicator provides common functionality for indicators
type BaseIndicator struct {
	Config IndicatorConfig
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (b *BaseIndicator) RequiredDataPoints() int {
	return b.Config.Period
}
