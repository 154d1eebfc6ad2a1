package domain

import "time"

// Position represents an open long position held during a simulation run.
// It is owned exclusively by the engine for the lifetime of a trade and is
// converted into a Trade record on full exit.
type Position struct {
	EntryDate  time.Time // Date the position was opened
	EntryPrice float64   // Volume-weighted average entry price
	Size       float64   // Number of shares/units held (grows via pyramiding)
	StopLoss   *float64  // Stop-loss price level (nil if not set)
	TakeProfit *float64  // Take-profit price level (nil if not set)
}

// AddTranche grows the position by size units filled at price and updates the
// entry price to the volume-weighted average of all fills. Equal-size adds
// degenerate to a simple average of the fill prices.
func (p *Position) AddTranche(price, size float64) {
	total := p.Size + size
	p.EntryPrice = (p.EntryPrice*p.Size + price*size) / total
	p.Size = total
}
