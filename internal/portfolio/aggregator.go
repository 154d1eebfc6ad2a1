package portfolio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/strategy/analytics"
	"swingtrader/internal/strategy/backtesting"
	"swingtrader/internal/strategy/strategies"
)

// Benchmark identifiers reported alongside the configured strategies.
const (
	BenchmarkBuyAndHold     = "Buy_and_Hold"
	BenchmarkCashBuyAndHold = "Cash_plus_Buy_and_Hold"
)

// Config holds the global portfolio configuration.
type Config struct {
	InitialCapital   float64
	CashFraction     float64 // Fraction of initial capital held as the cash sleeve
	CashAnnualReturn float64 // Annual return on the cash sleeve
	RebalanceYearly  bool    // Rebalance back to the target split on year boundaries
	Logger           ports.Logger
}

// Metrics summarizes one portfolio-level equity curve.
type Metrics struct {
	FinalValue  float64
	CAGR        float64
	MaxDrawdown float64 // Negative fraction (e.g., -0.25)
}

// Result holds the portfolio curves and metrics for every strategy and
// benchmark, all aligned to the shared calendar.
type Result struct {
	Calendar []time.Time
	Curves   map[string][]float64
	Metrics  map[string]Metrics
}

// Run simulates every strategy over every asset, projects each asset's
// equity curve onto the universal calendar, sums the curves into one
// portfolio curve per strategy, blends in the cash sleeve, and computes
// portfolio metrics. Asset runs are independent and execute concurrently;
// summation happens only after all runs complete.
func Run(ctx context.Context, assets map[string][]*domain.Bar, specs []strategies.Spec, cfg Config) (*Result, error) {
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("%w: initial capital must be positive", ports.ErrConfigurationError)
	}
	if cfg.CashFraction < 0 || cfg.CashFraction >= 1 {
		return nil, fmt.Errorf("%w: cash fraction must be in [0, 1)", ports.ErrConfigurationError)
	}

	// Assets with no bars in range cannot be reindexed; exclude them.
	active := make(map[string][]*domain.Bar)
	for symbol, bars := range assets {
		if len(bars) > 0 {
			active[symbol] = bars
		} else if cfg.Logger != nil {
			cfg.Logger.Warn(ctx, "excluding asset with no data", map[string]interface{}{"symbol": symbol})
		}
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("%w: no assets with data to simulate", ports.ErrConfigurationError)
	}

	calendar := UnionCalendar(active)
	investedCapital := cfg.InitialCapital * (1 - cfg.CashFraction)
	cashCapital := cfg.InitialCapital * cfg.CashFraction
	capitalPerAsset := investedCapital / float64(len(active))

	result := &Result{
		Calendar: calendar,
		Curves:   make(map[string][]float64),
		Metrics:  make(map[string]Metrics),
	}

	// Buy-and-hold benchmark: the full initial capital split equally across
	// assets at each asset's first close, no cash sleeve.
	bh := sumCurves(buyAndHoldCurves(active, calendar, cfg.InitialCapital/float64(len(active))))
	result.Curves[BenchmarkBuyAndHold] = bh
	result.Metrics[BenchmarkBuyAndHold] = curveMetrics(calendar, bh)

	// Cash+equity benchmark: buy-and-hold on the invested sleeve only,
	// blended with the compounding cash sleeve.
	bhInvested := sumCurves(buyAndHoldCurves(active, calendar, capitalPerAsset))
	cashBH := BlendCash(calendar, bhInvested, investedCapital, cashCapital, cfg.CashAnnualReturn, cfg.CashFraction, cfg.RebalanceYearly)
	result.Curves[BenchmarkCashBuyAndHold] = cashBH
	result.Metrics[BenchmarkCashBuyAndHold] = curveMetrics(calendar, cashBH)

	for _, spec := range specs {
		invested, err := runStrategy(ctx, active, calendar, spec, capitalPerAsset, cfg)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", spec.Name, err)
		}
		combined := BlendCash(calendar, invested, investedCapital, cashCapital, cfg.CashAnnualReturn, cfg.CashFraction, cfg.RebalanceYearly)
		result.Curves[spec.Name] = combined
		result.Metrics[spec.Name] = curveMetrics(calendar, combined)
	}

	return result, nil
}

// runStrategy simulates one strategy on every asset concurrently and returns
// the summed invested-equity curve on the shared calendar.
func runStrategy(ctx context.Context, assets map[string][]*domain.Bar, calendar []time.Time, spec strategies.Spec, capitalPerAsset float64, cfg Config) ([]float64, error) {
	var mu sync.Mutex
	curves := make([][]float64, 0, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	for symbol, bars := range assets {
		symbol, bars := symbol, bars
		g.Go(func() error {
			// Fresh source per asset: sources may carry mutable state.
			res, err := backtesting.Run(gctx, spec.Factory(), bars, backtesting.Config{
				Symbol:      symbol,
				InitialCash: capitalPerAsset,
				Logger:      cfg.Logger,
			})
			if err != nil {
				return fmt.Errorf("asset %s: %w", symbol, err)
			}

			// Drop the duplicated day-0 point so the curve aligns 1:1 with
			// the asset's own dates before projection.
			equity := res.Equity[1:]
			dates := make([]time.Time, len(bars))
			values := make([]float64, len(bars))
			for i, bar := range bars {
				dates[i] = bar.Date
				values[i] = equity[i].Value
			}

			projected := Project(dates, values, calendar, capitalPerAsset)
			mu.Lock()
			curves = append(curves, projected)
			mu.Unlock()
			return nil
		})
	}
	// Join point: curves from all assets must be complete before summing.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sumCurves(curves), nil
}

// buyAndHoldCurves marks an equal allocation to market in each asset at its
// first close and projects the resulting curves onto the calendar.
func buyAndHoldCurves(assets map[string][]*domain.Bar, calendar []time.Time, capitalPerAsset float64) [][]float64 {
	curves := make([][]float64, 0, len(assets))
	for _, bars := range assets {
		shares := capitalPerAsset / bars[0].Close
		dates := make([]time.Time, len(bars))
		values := make([]float64, len(bars))
		for i, bar := range bars {
			dates[i] = bar.Date
			values[i] = shares * bar.Close
		}
		curves = append(curves, Project(dates, values, calendar, capitalPerAsset))
	}
	return curves
}

// sumCurves adds per-asset curves pointwise. All curves are defined on every
// calendar date (projection guarantees it), so direct summation is sound.
func sumCurves(curves [][]float64) []float64 {
	if len(curves) == 0 {
		return nil
	}
	total := make([]float64, len(curves[0]))
	for _, curve := range curves {
		for i, v := range curve {
			total[i] += v
		}
	}
	return total
}

// curveMetrics computes final value, CAGR, and max drawdown for a curve.
func curveMetrics(calendar []time.Time, curve []float64) Metrics {
	if len(curve) == 0 {
		return Metrics{}
	}
	m := Metrics{
		FinalValue:  curve[len(curve)-1],
		MaxDrawdown: analytics.MaxDrawdown(curve),
	}
	years := calendar[len(calendar)-1].Sub(calendar[0]).Hours() / 24 / 365.25
	if years > 0 && curve[0] > 0 {
		m.CAGR = math.Pow(m.FinalValue/curve[0], 1/years) - 1
	}
	return m
}
