package domain

// SignalAction is the kind of action a signal source requests for the
// current bar.
type SignalAction string

const (
	Hold    SignalAction = "hold"
	Buy     SignalAction = "buy"
	Pyramid SignalAction = "pyramid"
	Sell    SignalAction = "sell"
)

// Signal is the per-bar output of a signal source. StopLoss and TakeProfit,
// when non-nil, are level updates applied to the open position before the
// action itself is dispatched. SizeFrac is the fraction of current total
// equity to commit on Buy/Pyramid; Reason carries the exit reason on Sell.
type Signal struct {
	Action     SignalAction
	StopLoss   *float64
	TakeProfit *float64
	SizeFrac   float64
	Reason     ExitReason
}

// HoldSignal returns a plain hold with no level updates.
func HoldSignal() Signal {
	return Signal{Action: Hold}
}

// SellSignal returns a full-exit signal carrying the given reason.
func SellSignal(reason ExitReason) Signal {
	return Signal{Action: Sell, Reason: reason}
}
