package strategies

import "swingtrader/internal/ports"

// Factory builds a fresh signal source instance. The portfolio aggregator
// needs one instance per asset because sources may carry mutable state.
type Factory func() ports.SignalSource

// Spec pairs a report-friendly name with its factory.
type Spec struct {
	Name    string
	Factory Factory
}

// DefaultSpecs returns the strategy configurations evaluated by the runners.
func DefaultSpecs() []Spec {
	return []Spec{
		{Name: "MA_Crossover_10_20", Factory: func() ports.SignalSource {
			return NewMACrossover(MACrossoverConfig{FastPeriod: 10, SlowPeriod: 20, StopLossPct: 0.95, TakeProfitPct: 1.10})
		}},
		{Name: "RSI_Momentum_14", Factory: func() ports.SignalSource {
			return NewRSIMomentum(RSIMomentumConfig{Period: 14, Oversold: 30, Overbought: 70, StopLossPct: 0.95, TakeProfitPct: 1.10})
		}},
		{Name: "Breakout_Simple", Factory: func() ports.SignalSource {
			return NewBreakout(BreakoutConfig{Period: 20, StopLossPct: 0.95, TakeProfitPct: 999999.9})
		}},
		{Name: "BreakoutV2_TrailingStop", Factory: func() ports.SignalSource {
			return NewBreakoutV2(BreakoutV2Config{
				Period:           20,
				UseTrailingStop:  true,
				TrailingStopPct:  0.05,
				MaxPyramids:      1,
				EntrySizePct:     1.0,
				PyramidProfitPct: 999,
				TakeProfitPct:    999,
			})
		}},
		{Name: "BreakoutV2_Full_Features", Factory: func() ports.SignalSource {
			return NewBreakoutV2(BreakoutV2Config{
				Period:           20,
				UseTrailingStop:  true,
				TrailingStopPct:  0.10,
				MaxPyramids:      5,
				EntrySizePct:     0.20,
				PyramidProfitPct: 0.10,
				TakeProfitPct:    999,
			})
		}},
		{Name: "StdDev_Lower_Trailing", Factory: func() ports.SignalSource {
			return NewStdDevBands(StdDevBandsConfig{
				Length:          20,
				BuyCondition:    CrossAboveLower,
				UseTrailingStop: true,
				TrailingStopPct: 0.50,
				EntrySizePct:    1.0,
				TakeProfitPct:   10000,
			})
		}},
		{Name: "Trend_Follow_20_50", Factory: func() ports.SignalSource {
			return NewTrendFollow(TrendFollowConfig{
				ShortTermMAPeriod: 20,
				LongTermMAPeriod:  50,
				EMAPeriod:         20,
				RSIPeriod:         14,
				RSIOverbought:     70,
				StopLossPct:       0.95,
				TakeProfitPct:     1.15,
			})
		}},
		{Name: "StdDev_SMA_Trailing_Pyramid", Factory: func() ports.SignalSource {
			return NewStdDevBands(StdDevBandsConfig{
				Length:           20,
				BuyCondition:     CrossAboveSMA,
				UseTrailingStop:  true,
				TrailingStopPct:  0.10,
				MaxPyramids:      5,
				PyramidProfitPct: 0.10,
				EntrySizePct:     0.20,
				TakeProfitPct:    1.20,
			})
		}},
	}
}
