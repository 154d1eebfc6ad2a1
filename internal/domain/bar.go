package domain

import (
	"fmt"
	"time"
)

// Bar represents a single daily OHLC price bar.
type Bar struct {
	Date   time.Time // Trading day (midnight UTC)
	Symbol string    // Asset symbol (e.g., "AAPL")
	Open   float64   // Opening price
	High   float64   // Highest price
	Low    float64   // Lowest price
	Close  float64   // Closing price
	Volume float64   // Trading volume
}

// ValidateSeries checks that a bar series is sorted ascending by date with no
// duplicate dates. An empty series is valid.
func ValidateSeries(bars []*Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return fmt.Errorf("bar series not strictly ascending at index %d: %s followed by %s",
				i, bars[i-1].Date.Format("2006-01-02"), bars[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}
