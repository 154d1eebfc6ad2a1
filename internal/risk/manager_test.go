package risk

import (
	"testing"

	"swingtrader/internal/domain"
)

func TestStopManagerTrailingRatchet(t *testing.T) {
	m := NewStopManager(StopConfig{UseTrailingStop: true, TrailingStopPct: 0.10})
	m.OpenStop(100, 100)

	if got := m.StopPrice(); got != 90 {
		t.Fatalf("expected initial stop 90, got %f", got)
	}

	// Higher high moves the stop up.
	if _, hit := m.CheckExit(110, 120, nil); hit {
		t.Fatal("price above the stop must not exit")
	}
	if got := m.StopPrice(); got != 108 {
		t.Errorf("expected ratcheted stop 108, got %f", got)
	}

	// Lower high never moves it back down.
	if _, hit := m.CheckExit(109, 110, nil); hit {
		t.Fatal("price above the stop must not exit")
	}
	if got := m.StopPrice(); got != 108 {
		t.Errorf("stop must not move down, got %f", got)
	}

	reason, hit := m.CheckExit(107, 107, nil)
	if !hit {
		t.Fatal("close at or below the stop must exit")
	}
	if reason != domain.ExitReasonTrailingStop {
		t.Errorf("expected trailing stop reason, got %s", reason)
	}
}

func TestStopManagerFixedStop(t *testing.T) {
	m := NewStopManager(StopConfig{FixedStopPct: 0.05})
	sl := m.OpenStop(100, 100)
	if sl != 95 {
		t.Fatalf("expected fixed stop 95, got %f", sl)
	}

	pos := &domain.Position{EntryPrice: 100, Size: 1, StopLoss: &sl}
	if _, hit := m.CheckExit(96, 96, pos); hit {
		t.Error("price above the fixed stop must not exit")
	}
	reason, hit := m.CheckExit(95, 95, pos)
	if !hit || reason != domain.ExitReasonFixedStop {
		t.Errorf("expected fixed stop exit, got hit=%v reason=%s", hit, reason)
	}
}

func TestStopManagerPyramiding(t *testing.T) {
	m := NewStopManager(StopConfig{
		UseTrailingStop:  true,
		TrailingStopPct:  0.10,
		MaxPyramids:      2,
		PyramidProfitPct: 0.10,
	})
	m.OpenStop(100, 100)
	pos := &domain.Position{EntryPrice: 100, Size: 1}

	if m.CanPyramid(105, pos) {
		t.Error("5% gain is below the 10% pyramid threshold")
	}
	if !m.CanPyramid(111, pos) {
		t.Error("11% gain should allow a second tranche")
	}
	m.AddTranche()
	if m.TrancheCount() != 2 {
		t.Errorf("expected 2 tranches, got %d", m.TrancheCount())
	}
	if m.CanPyramid(150, pos) {
		t.Error("tranche budget exhausted, no further pyramiding")
	}
	if m.CanPyramid(150, nil) {
		t.Error("no position, no pyramiding")
	}

	m.Reset()
	if m.TrancheCount() != 0 || m.StopPrice() != 0 {
		t.Error("reset must clear tranche count and stop price")
	}
}
