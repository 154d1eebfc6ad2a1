package analytics

import (
	"math"

	"swingtrader/internal/domain"
)

// tradingDaysPerYear is the annualization factor for daily-return Sharpe.
const tradingDaysPerYear = 252

// Summary holds per-run performance metrics. Pointer fields are nil when the
// metric is unavailable (empty trade log, equity series shorter than two
// points) rather than zero, so reports can render an explicit marker.
type Summary struct {
	TradeCount  int
	FinalEquity float64
	ReturnPct   float64

	WinRate       *float64 // Percentage of trades with positive PNL
	BestTradePct  *float64
	WorstTradePct *float64
	AvgTradePct   *float64
	SharpeRatio   *float64 // Daily returns, zero risk-free rate, √252 annualized
}

// Summarize computes the summary metrics for one completed run.
func Summarize(trades []*domain.Trade, equity []domain.EquityPoint, initialCash float64) Summary {
	s := Summary{TradeCount: len(trades)}

	if len(equity) > 0 {
		s.FinalEquity = equity[len(equity)-1].Value
		s.ReturnPct = (s.FinalEquity - initialCash) / initialCash * 100
	} else {
		s.FinalEquity = initialCash
	}

	if len(trades) == 0 {
		return s
	}

	wins := 0
	best := math.Inf(-1)
	worst := math.Inf(1)
	sum := 0.0
	for _, t := range trades {
		if t.PNL > 0 {
			wins++
		}
		if t.ReturnPct > best {
			best = t.ReturnPct
		}
		if t.ReturnPct < worst {
			worst = t.ReturnPct
		}
		sum += t.ReturnPct
	}
	winRate := float64(wins) / float64(len(trades)) * 100
	avg := sum / float64(len(trades))
	s.WinRate = &winRate
	s.BestTradePct = &best
	s.WorstTradePct = &worst
	s.AvgTradePct = &avg

	if sharpe, ok := SharpeRatio(equity); ok {
		s.SharpeRatio = &sharpe
	}

	return s
}

// SharpeRatio computes the annualized Sharpe ratio of the day-over-day
// returns of an equity curve, assuming a zero risk-free rate. It reports
// ok=false when fewer than three points are available (fewer than two
// returns) or the returns have zero variance.
func SharpeRatio(equity []domain.EquityPoint) (float64, bool) {
	if len(equity) < 3 {
		return 0, false
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			return 0, false
		}
		returns = append(returns, equity[i].Value/prev-1)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)
	sd := math.Sqrt(variance)
	if sd == 0 {
		return 0, false
	}

	return mean / sd * math.Sqrt(tradingDaysPerYear), true
}

// MaxDrawdown returns the deepest percentage decline of the curve from its
// running peak, as a negative fraction (e.g., -0.25 for a 25% drawdown).
// A monotonically rising curve yields 0.
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
