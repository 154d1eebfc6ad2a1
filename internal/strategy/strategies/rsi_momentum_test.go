package strategies

import (
	"context"
	"testing"

	"swingtrader/internal/domain"
)

func TestRSIMomentumBuysOversold(t *testing.T) {
	// A steady decline pushes RSI to the floor.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 200 - float64(i)*2
	}
	bars := testBars(closes...)
	source := NewRSIMomentum(RSIMomentumConfig{Period: 14, Oversold: 30, Overbought: 70, StopLossPct: 0.95, TakeProfitPct: 1.10})

	i := len(bars) - 1
	sig := source.Generate(context.Background(), bars, i, nil)
	if sig.Action != domain.Buy {
		t.Fatalf("expected buy on oversold RSI, got %s", sig.Action)
	}
	price := bars[i].Close
	if sig.StopLoss == nil || *sig.StopLoss != price*0.95 {
		t.Errorf("expected stop at %f, got %v", price*0.95, sig.StopLoss)
	}
	if sig.TakeProfit == nil || *sig.TakeProfit != price*1.10 {
		t.Errorf("expected target at %f, got %v", price*1.10, sig.TakeProfit)
	}
}

func TestRSIMomentumNoEntryInRally(t *testing.T) {
	bars := testBars(risingCloses(20, 100, 2)...)
	source := NewRSIMomentum(RSIMomentumConfig{Period: 14, Oversold: 30, Overbought: 70, StopLossPct: 0.95, TakeProfitPct: 1.10})

	for i := range bars {
		if sig := source.Generate(context.Background(), bars[:i+1], i, nil); sig.Action == domain.Buy {
			t.Fatalf("bar %d: overbought market must not trigger entries", i)
		}
	}
}

func TestRSIMomentumExitOrder(t *testing.T) {
	// Rally bars saturate RSI at 100 so the overbought exit is armed; the
	// stop-loss check still fires first when breached.
	bars := testBars(risingCloses(20, 100, 2)...)
	source := NewRSIMomentum(RSIMomentumConfig{Period: 14, Oversold: 30, Overbought: 70, StopLossPct: 0.95, TakeProfitPct: 1.10})
	i := len(bars) - 1
	price := bars[i].Close

	above := price + 1
	sig := source.Generate(context.Background(), bars, i, &domain.Position{EntryPrice: price, Size: 1, StopLoss: &above})
	if sig.Action != domain.Sell || sig.Reason != domain.ExitReasonStopLoss {
		t.Errorf("stop-loss must take priority, got %s/%s", sig.Action, sig.Reason)
	}

	below := price - 10
	sig = source.Generate(context.Background(), bars, i, &domain.Position{EntryPrice: price, Size: 1, StopLoss: &below})
	if sig.Action != domain.Sell || sig.Reason != ReasonRSIOverbought {
		t.Errorf("expected overbought exit, got %s/%s", sig.Action, sig.Reason)
	}
}
