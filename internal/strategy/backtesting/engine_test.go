package backtesting

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
)

// scriptedSource replays a fixed list of signals, one per bar.
type scriptedSource struct {
	signals    []domain.Signal
	next       int
	resetCount int
}

func (s *scriptedSource) Name() string    { return "scripted" }
func (s *scriptedSource) WarmupBars() int { return 0 }
func (s *scriptedSource) Reset()          { s.resetCount++ }

func (s *scriptedSource) Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal {
	if s.next >= len(s.signals) {
		return domain.HoldSignal()
	}
	sig := s.signals[s.next]
	s.next++
	return sig
}

func day(n int) time.Time {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func makeBars(closes ...float64) []*domain.Bar {
	bars := make([]*domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = &domain.Bar{Date: day(i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRunEquityCurveLength(t *testing.T) {
	bars := makeBars(100, 101, 102, 103, 104)
	source := &scriptedSource{}

	result, err := Run(context.Background(), source, bars, Config{Symbol: "TEST", InitialCash: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := len(result.Equity), len(bars)+1; got != want {
		t.Errorf("expected %d equity points, got %d", want, got)
	}
	for _, pt := range result.Equity {
		if !almostEqual(pt.Value, 1000) {
			t.Errorf("flat hold run should keep equity at 1000, got %f", pt.Value)
		}
	}
}

func TestRunEmptySeries(t *testing.T) {
	source := &scriptedSource{}
	result, err := Run(context.Background(), source, nil, Config{Symbol: "TEST", InitialCash: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Trades) != 0 {
		t.Errorf("expected no trades, got %d", len(result.Trades))
	}
	if len(result.Equity) != 1 || !almostEqual(result.Equity[0].Value, 500) {
		t.Errorf("expected single equity point at 500, got %v", result.Equity)
	}
}

func TestRunConfigValidation(t *testing.T) {
	bars := makeBars(100)

	tests := []struct {
		name   string
		source ports.SignalSource
		bars   []*domain.Bar
		cash   float64
		want   error
	}{
		{name: "nil source", source: nil, bars: bars, cash: 1000, want: ports.ErrConfigurationError},
		{name: "zero cash", source: &scriptedSource{}, bars: bars, cash: 0, want: ports.ErrConfigurationError},
		{name: "negative cash", source: &scriptedSource{}, bars: bars, cash: -5, want: ports.ErrConfigurationError},
		{
			name:   "unordered series",
			source: &scriptedSource{},
			bars: []*domain.Bar{
				{Date: day(1), Close: 100},
				{Date: day(0), Close: 101},
			},
			cash: 1000,
			want: ports.ErrUnorderedSeries,
		},
		{
			name:   "duplicate dates",
			source: &scriptedSource{},
			bars: []*domain.Bar{
				{Date: day(0), Close: 100},
				{Date: day(0), Close: 101},
			},
			cash: 1000,
			want: ports.ErrUnorderedSeries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.source, tt.bars, Config{Symbol: "TEST", InitialCash: tt.cash})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRunContractViolations(t *testing.T) {
	tests := []struct {
		name    string
		signals []domain.Signal
	}{
		{
			name: "buy while position open",
			signals: []domain.Signal{
				{Action: domain.Buy},
				{Action: domain.Buy},
			},
		},
		{
			name:    "sell with no position",
			signals: []domain.Signal{{Action: domain.Sell}},
		},
		{
			name:    "pyramid with no position",
			signals: []domain.Signal{{Action: domain.Pyramid}},
		},
		{
			name:    "unknown action",
			signals: []domain.Signal{{Action: domain.SignalAction("short")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := makeBars(100, 101, 102)
			_, err := Run(context.Background(), &scriptedSource{signals: tt.signals}, bars,
				Config{Symbol: "TEST", InitialCash: 1000})
			if !errors.Is(err, ports.ErrContractViolation) {
				t.Errorf("expected contract violation, got %v", err)
			}
		})
	}
}

func TestRunBuyThenSell(t *testing.T) {
	bars := makeBars(100, 110, 120)
	source := &scriptedSource{signals: []domain.Signal{
		{Action: domain.Buy},
		domain.HoldSignal(),
		domain.SellSignal(domain.ExitReasonSignal),
	}}

	result, err := Run(context.Background(), source, bars, Config{Symbol: "TEST", InitialCash: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(result.Trades))
	}

	trade := result.Trades[0]
	// 1000/100 = 10 shares, sold at 120 for a 200 gain.
	if !almostEqual(trade.Size, 10) {
		t.Errorf("expected size 10, got %f", trade.Size)
	}
	if !almostEqual(trade.PNL, 200) {
		t.Errorf("expected PNL 200, got %f", trade.PNL)
	}
	if !almostEqual(trade.ReturnPct, 20) {
		t.Errorf("expected return 20%%, got %f", trade.ReturnPct)
	}
	if trade.Duration != 2 {
		t.Errorf("expected duration 2 days, got %d", trade.Duration)
	}
	if trade.ExitReason != domain.ExitReasonSignal {
		t.Errorf("expected strategy signal exit, got %s", trade.ExitReason)
	}

	// Equity: 1000 at bar 0, 1100 at bar 1, 1200 at bar 2, 1200 trailing.
	wantEquity := []float64{1000, 1100, 1200, 1200}
	if len(result.Equity) != len(wantEquity) {
		t.Fatalf("expected %d equity points, got %d", len(wantEquity), len(result.Equity))
	}
	for i, want := range wantEquity {
		if !almostEqual(result.Equity[i].Value, want) {
			t.Errorf("equity[%d]: expected %f, got %f", i, want, result.Equity[i].Value)
		}
	}
	if source.resetCount < 2 {
		// One reset at run start, one after the position closes.
		t.Errorf("expected source reset after close, got %d resets", source.resetCount)
	}
}

func TestRunForcedCloseAtEnd(t *testing.T) {
	bars := makeBars(100, 105, 110)
	source := &scriptedSource{signals: []domain.Signal{{Action: domain.Buy}}}

	result, err := Run(context.Background(), source, bars, Config{Symbol: "TEST", InitialCash: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 forced-close trade, got %d", len(result.Trades))
	}
	trade := result.Trades[0]
	if trade.ExitReason != domain.ExitReasonForcedClose {
		t.Errorf("expected forced close, got %s", trade.ExitReason)
	}
	if !trade.ExitDate.Equal(day(2)) {
		t.Errorf("expected exit on last bar, got %s", trade.ExitDate)
	}
	if !almostEqual(result.FinalEquity(), 1100) {
		t.Errorf("expected final equity 1100, got %f", result.FinalEquity())
	}
}

func TestRunZeroDurationTrade(t *testing.T) {
	// Buy on the last bar: forced close on the same bar at the same price.
	bars := makeBars(100, 100)
	source := &scriptedSource{signals: []domain.Signal{
		domain.HoldSignal(),
		{Action: domain.Buy},
	}}

	result, err := Run(context.Background(), source, bars, Config{Symbol: "TEST", InitialCash: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(result.Trades))
	}
	trade := result.Trades[0]
	if trade.Duration != 0 {
		t.Errorf("expected zero duration, got %d", trade.Duration)
	}
	if !almostEqual(trade.PNL, 0) {
		t.Errorf("expected zero PNL, got %f", trade.PNL)
	}
	if !almostEqual(result.FinalEquity(), 1000) {
		t.Errorf("expected final equity 1000, got %f", result.FinalEquity())
	}
}

func TestRunPyramidAveragesEntry(t *testing.T) {
	bars := makeBars(100, 110, 120)
	source := &scriptedSource{signals: []domain.Signal{
		{Action: domain.Buy, SizeFrac: 0.5},
		{Action: domain.Pyramid, SizeFrac: 0.25},
		domain.SellSignal(domain.ExitReasonSignal),
	}}

	result, err := Run(context.Background(), source, bars, Config{Symbol: "TEST", InitialCash: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(result.Trades))
	}
	trade := result.Trades[0]

	// Bar 0: equity 1000, buy 0.5 -> 5 shares at 100, cash 500.
	// Bar 1: equity 500 + 5*110 = 1050, pyramid 0.25 -> 262.5/110 shares at 110.
	addSize := 1050 * 0.25 / 110
	wantSize := 5 + addSize
	wantEntry := (100*5 + 110*addSize) / wantSize
	if !almostEqual(trade.Size, wantSize) {
		t.Errorf("expected size %f, got %f", wantSize, trade.Size)
	}
	if !almostEqual(trade.EntryPrice, wantEntry) {
		t.Errorf("expected averaged entry %f, got %f", wantEntry, trade.EntryPrice)
	}
	if !trade.EntryDate.Equal(day(0)) {
		t.Errorf("entry date should stay at the first tranche, got %s", trade.EntryDate)
	}
}

func TestRunLevelUpdatesApplyBeforeAction(t *testing.T) {
	bars := makeBars(100, 110, 120)
	sl1 := 95.0
	sl2 := 105.0
	source := &scriptedSource{signals: []domain.Signal{
		{Action: domain.Buy, StopLoss: &sl1},
		{Action: domain.Hold, StopLoss: &sl2},
		domain.SellSignal(domain.ExitReasonTrailingStop),
	}}

	var seen []float64
	probe := &probeSource{inner: source, onGenerate: func(position *domain.Position) {
		if position != nil && position.StopLoss != nil {
			seen = append(seen, *position.StopLoss)
		}
	}}

	if _, err := Run(context.Background(), probe, bars, Config{Symbol: "TEST", InitialCash: 1000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Bar 1 sees the stop set at entry; bar 2 sees the hold-updated stop.
	if len(seen) != 2 || !almostEqual(seen[0], sl1) || !almostEqual(seen[1], sl2) {
		t.Errorf("expected observed stops [%f %f], got %v", sl1, sl2, seen)
	}
}

// probeSource wraps a source to observe the position passed by the engine.
type probeSource struct {
	inner      ports.SignalSource
	onGenerate func(position *domain.Position)
}

func (p *probeSource) Name() string    { return p.inner.Name() }
func (p *probeSource) WarmupBars() int { return p.inner.WarmupBars() }
func (p *probeSource) Reset()          { p.inner.Reset() }

func (p *probeSource) Generate(ctx context.Context, bars []*domain.Bar, i int, position *domain.Position) domain.Signal {
	p.onGenerate(position)
	return p.inner.Generate(ctx, bars, i, position)
}

func TestRunDeterministic(t *testing.T) {
	bars := makeBars(100, 105, 95, 110, 108, 120)
	build := func() ports.SignalSource {
		return &scriptedSource{signals: []domain.Signal{
			{Action: domain.Buy, SizeFrac: 0.5},
			domain.HoldSignal(),
			domain.SellSignal(domain.ExitReasonSignal),
			{Action: domain.Buy},
		}}
	}

	first, err := Run(context.Background(), build(), bars, Config{Symbol: "TEST", InitialCash: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Run(context.Background(), build(), bars, Config{Symbol: "TEST", InitialCash: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Trades) != len(second.Trades) {
		t.Fatalf("trade counts differ: %d vs %d", len(first.Trades), len(second.Trades))
	}
	for i := range first.Equity {
		if !almostEqual(first.Equity[i].Value, second.Equity[i].Value) {
			t.Errorf("equity[%d] differs: %f vs %f", i, first.Equity[i].Value, second.Equity[i].Value)
		}
	}
}

func TestRunFullSizeEntryKeepsCashNonNegative(t *testing.T) {
	bars := makeBars(100, 90, 80)
	source := &scriptedSource{signals: []domain.Signal{
		{Action: domain.Buy},
		domain.HoldSignal(),
		domain.SellSignal(domain.ExitReasonSignal),
	}}

	result, err := Run(context.Background(), source, bars, Config{Symbol: "TEST", InitialCash: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Full-size entry leaves zero cash; the sale at 80 realizes the loss.
	if !almostEqual(result.FinalEquity(), 800) {
		t.Errorf("expected final equity 800, got %f", result.FinalEquity())
	}
	if result.Trades[0].PNL >= 0 {
		t.Errorf("expected a losing trade, got PNL %f", result.Trades[0].PNL)
	}
}
