package analytics

import (
	"math"
	"testing"

	"swingtrader/internal/domain"
)

func equityCurve(values ...float64) []domain.EquityPoint {
	pts := make([]domain.EquityPoint, len(values))
	for i, v := range values {
		pts[i] = domain.EquityPoint{Value: v}
	}
	return pts
}

func TestSummarizeNoTrades(t *testing.T) {
	s := Summarize(nil, equityCurve(1000, 1000, 1000), 1000)

	if s.TradeCount != 0 {
		t.Errorf("expected 0 trades, got %d", s.TradeCount)
	}
	if s.FinalEquity != 1000 || s.ReturnPct != 0 {
		t.Errorf("expected flat result, got final=%f return=%f", s.FinalEquity, s.ReturnPct)
	}
	// Trade-derived metrics are unavailable, not zero.
	if s.WinRate != nil || s.BestTradePct != nil || s.WorstTradePct != nil || s.AvgTradePct != nil || s.SharpeRatio != nil {
		t.Error("expected nil trade metrics for an empty trade log")
	}
}

func TestSummarizeWithTrades(t *testing.T) {
	trades := []*domain.Trade{
		{PNL: 100, ReturnPct: 10},
		{PNL: -50, ReturnPct: -5},
		{PNL: 200, ReturnPct: 20},
		{PNL: 0, ReturnPct: 0},
	}
	s := Summarize(trades, equityCurve(1000, 1100, 1050, 1250, 1250), 1000)

	if s.TradeCount != 4 {
		t.Errorf("expected 4 trades, got %d", s.TradeCount)
	}
	if s.ReturnPct != 25 {
		t.Errorf("expected 25%% return, got %f", s.ReturnPct)
	}
	if s.WinRate == nil || *s.WinRate != 50 {
		t.Errorf("expected 50%% win rate (breakeven is not a win), got %v", s.WinRate)
	}
	if s.BestTradePct == nil || *s.BestTradePct != 20 {
		t.Errorf("expected best trade 20%%, got %v", s.BestTradePct)
	}
	if s.WorstTradePct == nil || *s.WorstTradePct != -5 {
		t.Errorf("expected worst trade -5%%, got %v", s.WorstTradePct)
	}
	if s.AvgTradePct == nil || *s.AvgTradePct != 6.25 {
		t.Errorf("expected average trade 6.25%%, got %v", s.AvgTradePct)
	}
	if s.SharpeRatio == nil {
		t.Error("expected a Sharpe ratio for a varying curve")
	}
}

func TestSharpeRatio(t *testing.T) {
	tests := []struct {
		name   string
		equity []domain.EquityPoint
		wantOK bool
	}{
		{name: "too short", equity: equityCurve(1000, 1100), wantOK: false},
		{name: "zero variance", equity: equityCurve(1000, 1000, 1000), wantOK: false},
		{name: "zero value in curve", equity: equityCurve(1000, 0, 1000), wantOK: false},
		{name: "varying curve", equity: equityCurve(1000, 1100, 1050, 1200), wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SharpeRatio(tt.equity)
			if ok != tt.wantOK {
				t.Errorf("expected ok=%v, got %v", tt.wantOK, ok)
			}
		})
	}
}

func TestSharpeRatioAnnualization(t *testing.T) {
	// Returns +10%, -10%: mean and deviation are simple to state exactly.
	sharpe, ok := SharpeRatio(equityCurve(1000, 1100, 990))
	if !ok {
		t.Fatal("expected a computable ratio")
	}
	returns := []float64{0.1, -0.1}
	mean := 0.0
	sd := math.Sqrt(((returns[0]-mean)*(returns[0]-mean) + (returns[1]-mean)*(returns[1]-mean)) / 1)
	want := mean / sd * math.Sqrt(252)
	if math.Abs(sharpe-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, sharpe)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "monotonic rise", values: []float64{100, 110, 120}, want: 0},
		{name: "single dip", values: []float64{100, 120, 90, 130}, want: -0.25},
		{name: "deepest of two dips", values: []float64{100, 80, 120, 60}, want: -0.5},
		{name: "flat", values: []float64{100, 100}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxDrawdown(tt.values)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
