package backtesting

import (
	"context"
	"fmt"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
)

// Config holds configuration for a single-asset simulation run.
type Config struct {
	Symbol      string
	InitialCash float64
	Logger      ports.Logger
}

// Result holds the output of a completed run: the ordered trade log and the
// equity curve. For a series of N bars the curve has N+1 points: one
// start-of-bar observation per bar plus one trailing point capturing the
// state after end-of-data handling.
type Result struct {
	Trades []*domain.Trade
	Equity []domain.EquityPoint
}

// FinalEquity returns the last point of the equity curve.
func (r *Result) FinalEquity() float64 {
	if len(r.Equity) == 0 {
		return 0
	}
	return r.Equity[len(r.Equity)-1].Value
}

// Run simulates a signal source over a daily bar series, converting its
// per-bar signals into cash/position transitions.
//
// Per-bar order is strict: record start-of-bar equity, query the source,
// apply any stop/take-profit update to the open position, then dispatch the
// action. Trade size on Buy and Pyramid is computed from current total
// equity (cash plus marked position value), not from raw cash; the source is
// responsible for keeping size fractions at or below 1.0.
func Run(ctx context.Context, source ports.SignalSource, bars []*domain.Bar, cfg Config) (*Result, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: signal source is required", ports.ErrConfigurationError)
	}
	if cfg.InitialCash <= 0 {
		return nil, fmt.Errorf("%w: initial cash must be positive", ports.ErrConfigurationError)
	}
	if err := domain.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnorderedSeries, err)
	}

	result := &Result{Equity: make([]domain.EquityPoint, 0, len(bars)+1)}
	cash := cfg.InitialCash
	var position *domain.Position

	source.Reset()

	if len(bars) == 0 {
		// No data: no trades, one equity point at the initial balance.
		result.Equity = append(result.Equity, domain.EquityPoint{Value: cash})
		return result, nil
	}

	for i, bar := range bars {
		price := bar.Close

		equity := cash
		if position != nil {
			equity += position.Size * price
		}
		result.Equity = append(result.Equity, domain.EquityPoint{Date: bar.Date, Value: equity})

		sig := source.Generate(ctx, bars[:i+1], i, position)

		// Level updates apply before the action, whatever the action is.
		if position != nil {
			if sig.StopLoss != nil {
				position.StopLoss = sig.StopLoss
			}
			if sig.TakeProfit != nil {
				position.TakeProfit = sig.TakeProfit
			}
		}

		switch sig.Action {
		case domain.Buy:
			if position != nil {
				return nil, fmt.Errorf("%w: buy signal at %s while a position is open",
					ports.ErrContractViolation, bar.Date.Format("2006-01-02"))
			}
			frac := sig.SizeFrac
			if frac == 0 {
				frac = 1.0
			}
			size := equity * frac / price
			position = &domain.Position{
				EntryDate:  bar.Date,
				EntryPrice: price,
				Size:       size,
				StopLoss:   sig.StopLoss,
				TakeProfit: sig.TakeProfit,
			}
			cash -= size * price
			if cfg.Logger != nil {
				cfg.Logger.Debug(ctx, "opened position", map[string]interface{}{
					"symbol": cfg.Symbol, "date": bar.Date.Format("2006-01-02"),
					"price": price, "size": size,
				})
			}

		case domain.Pyramid:
			if position == nil {
				return nil, fmt.Errorf("%w: pyramid signal at %s with no open position",
					ports.ErrContractViolation, bar.Date.Format("2006-01-02"))
			}
			frac := sig.SizeFrac
			if frac == 0 {
				frac = 1.0
			}
			size := equity * frac / price
			position.AddTranche(price, size)
			cash -= size * price

		case domain.Sell:
			if position == nil {
				return nil, fmt.Errorf("%w: sell signal at %s with no open position",
					ports.ErrContractViolation, bar.Date.Format("2006-01-02"))
			}
			cash += position.Size * price
			result.Trades = append(result.Trades, closeTrade(cfg.Symbol, position, bar, price, sig.Reason))
			position = nil
			source.Reset()

		case domain.Hold:
			// Level updates already applied above.

		default:
			return nil, fmt.Errorf("%w: unknown signal action %q", ports.ErrContractViolation, sig.Action)
		}
	}

	// A position still open after the last bar is force-closed at the final
	// close price: no further data exists to evaluate an exit.
	last := bars[len(bars)-1]
	if position != nil {
		cash += position.Size * last.Close
		result.Trades = append(result.Trades, closeTrade(cfg.Symbol, position, last, last.Close, domain.ExitReasonForcedClose))
		position = nil
		source.Reset()
	}
	result.Equity = append(result.Equity, domain.EquityPoint{Date: last.Date, Value: cash})

	return result, nil
}

// closeTrade realizes an open position into an immutable trade record.
func closeTrade(symbol string, pos *domain.Position, bar *domain.Bar, exitPrice float64, reason domain.ExitReason) *domain.Trade {
	pnl := (exitPrice - pos.EntryPrice) * pos.Size
	return &domain.Trade{
		Symbol:     symbol,
		EntryDate:  pos.EntryDate,
		EntryPrice: pos.EntryPrice,
		ExitDate:   bar.Date,
		ExitPrice:  exitPrice,
		Size:       pos.Size,
		PNL:        pnl,
		ReturnPct:  pnl / (pos.EntryPrice * pos.Size) * 100,
		Duration:   int(bar.Date.Sub(pos.EntryDate).Hours() / 24),
		ExitReason: reason,
	}
}
