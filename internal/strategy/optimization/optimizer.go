package optimization

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/strategy/analytics"
	"swingtrader/internal/strategy/backtesting"
)

// ParameterRange defines a range for a parameter to optimize.
type ParameterRange struct {
	Name  string
	Min   float64
	Max   float64
	Step  float64
	IsInt bool
}

// Result holds the outcome of a single parameter combination.
type Result struct {
	Parameters map[string]float64
	Summary    analytics.Summary
	Score      float64
}

// Config holds configuration for the optimizer. Build constructs a signal
// source from one parameter combination; Score ranks its backtest summary
// (higher is better) and defaults to the net return percentage.
type Config struct {
	Ranges      []ParameterRange
	Symbol      string
	InitialCash float64
	Build       func(params map[string]float64) ports.SignalSource
	Score       func(analytics.Summary) float64
	Logger      ports.Logger
}

// Optimizer runs a backtest per parameter combination and ranks the results.
type Optimizer struct {
	cfg Config
}

// New creates an optimizer, validating the configuration.
func New(cfg Config) (*Optimizer, error) {
	if cfg.Build == nil {
		return nil, fmt.Errorf("%w: optimizer requires a Build function", ports.ErrConfigurationError)
	}
	if len(cfg.Ranges) == 0 {
		return nil, fmt.Errorf("%w: optimizer requires at least one parameter range", ports.ErrConfigurationError)
	}
	if cfg.InitialCash <= 0 {
		return nil, fmt.Errorf("%w: initial cash must be positive", ports.ErrConfigurationError)
	}
	if cfg.Score == nil {
		cfg.Score = DefaultScore
	}
	return &Optimizer{cfg: cfg}, nil
}

// Optimize backtests every parameter combination over the given series and
// returns the results sorted by score, best first. Combinations run
// concurrently; each gets its own signal source instance.
func (o *Optimizer) Optimize(ctx context.Context, bars []*domain.Bar) ([]Result, error) {
	combinations := o.combinations()

	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(combinations))
	)
	g, ctx := errgroup.WithContext(ctx)

	for _, params := range combinations {
		params := params
		g.Go(func() error {
			res, err := backtesting.Run(ctx, o.cfg.Build(params), bars, backtesting.Config{
				Symbol:      o.cfg.Symbol,
				InitialCash: o.cfg.InitialCash,
				Logger:      o.cfg.Logger,
			})
			if err != nil {
				return fmt.Errorf("backtest for %v: %w", params, err)
			}
			summary := analytics.Summarize(res.Trades, res.Equity, o.cfg.InitialCash)
			mu.Lock()
			results = append(results, Result{
				Parameters: params,
				Summary:    summary,
				Score:      o.cfg.Score(summary),
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

// combinations expands the parameter ranges into the full cartesian grid.
func (o *Optimizer) combinations() []map[string]float64 {
	var out []map[string]float64
	current := make(map[string]float64)

	var generate func(int)
	generate = func(idx int) {
		if idx == len(o.cfg.Ranges) {
			combination := make(map[string]float64, len(current))
			for k, v := range current {
				combination[k] = v
			}
			out = append(out, combination)
			return
		}
		p := o.cfg.Ranges[idx]
		// Half-step epsilon guards the float comparison at the upper bound.
		for value := p.Min; value <= p.Max+p.Step/2; value += p.Step {
			v := value
			if p.IsInt {
				v = math.Round(v)
			}
			current[p.Name] = v
			generate(idx + 1)
		}
	}
	generate(0)
	return out
}

// DefaultScore ranks a summary by its net return percentage.
func DefaultScore(s analytics.Summary) float64 {
	return s.ReturnPct
}
