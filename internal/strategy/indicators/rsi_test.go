package indicators

import (
	"context"
	"testing"
)

func TestRSI_Calculate(t *testing.T) {
	tests := []struct {
		name        string
		closes      []float64
		period      int
		expectMin   float64
		expectMax   float64
		expectError bool
	}{
		{
			name:      "all gains saturate at 100",
			closes:    []float64{100, 101, 102, 103, 104, 105},
			period:    5,
			expectMin: 100,
			expectMax: 100,
		},
		{
			name:      "all losses floor at 0",
			closes:    []float64{105, 104, 103, 102, 101, 100},
			period:    5,
			expectMin: 0,
			expectMax: 0,
		},
		{
			name:      "no change is neutral",
			closes:    []float64{100, 100, 100, 100, 100, 100},
			period:    5,
			expectMin: 50,
			expectMax: 50,
		},
		{
			name:      "mixed changes stay in range",
			closes:    []float64{100, 102, 101, 103, 102, 104, 103},
			period:    5,
			expectMin: 50,
			expectMax: 80,
		},
		{
			name:        "insufficient data",
			closes:      []float64{100, 101},
			period:      5,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicator := NewRSI(RSIConfig{IndicatorConfig: IndicatorConfig{Period: tt.period}})
			value, err := indicator.Calculate(context.Background(), barsFromCloses(tt.closes...))

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if value < tt.expectMin || value > tt.expectMax {
				t.Errorf("Expected RSI in [%f, %f], got %f", tt.expectMin, tt.expectMax, value)
			}
		})
	}
}

func TestRSI_Thresholds(t *testing.T) {
	indicator := NewRSI(RSIConfig{IndicatorConfig: IndicatorConfig{Period: 14}, Overbought: 70, Oversold: 30})

	if !indicator.IsOverbought(70) || !indicator.IsOverbought(85) {
		t.Error("values at or above 70 are overbought")
	}
	if indicator.IsOverbought(69.9) {
		t.Error("values below 70 are not overbought")
	}
	if !indicator.IsOversold(30) || !indicator.IsOversold(10) {
		t.Error("values at or below 30 are oversold")
	}
	if indicator.IsOversold(30.1) {
		t.Error("values above 30 are not oversold")
	}
}
