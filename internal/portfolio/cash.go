package portfolio

import (
	"math"
	"time"
)

// tradingDaysPerYear converts an annual cash return into the daily
// compounding rate applied on each calendar date.
const tradingDaysPerYear = 252

// DailyRate converts an annual cash return into its daily-compounded
// equivalent: (1+annual)^(1/252) - 1.
func DailyRate(annualRate float64) float64 {
	return math.Pow(1+annualRate, 1.0/tradingDaysPerYear) - 1
}

// BlendCash combines an invested-only equity curve with a cash sleeve.
//
// Static mode: the sleeves evolve independently; the combined value on each
// date is the invested value plus the compounded cash value.
//
// Yearly-rebalance mode: a forward day-by-day recurrence over the state
// (invested, cash). Within a year the invested sleeve tracks the day-over-day
// percentage return of the invested-only curve and cash compounds at the
// daily rate; on each calendar-year boundary the combined total is
// redistributed back to the target split. A recurrence is required because
// the return-tracking step needs the prior day's value as its base.
func BlendCash(dates []time.Time, invested []float64, investedCapital, cashCapital, annualRate, cashFraction float64, rebalanceYearly bool) []float64 {
	if len(dates) == 0 {
		return nil
	}
	daily := DailyRate(annualRate)
	combined := make([]float64, len(dates))

	if !rebalanceYearly {
		cash := cashCapital
		combined[0] = invested[0] + cash
		for i := 1; i < len(dates); i++ {
			cash *= 1 + daily
			combined[i] = invested[i] + cash
		}
		return combined
	}

	inv := investedCapital
	cash := cashCapital
	combined[0] = inv + cash
	for i := 1; i < len(dates); i++ {
		if dates[i].Year() != dates[i-1].Year() {
			total := inv + cash
			inv = total * (1 - cashFraction)
			cash = total * cashFraction
		} else {
			if invested[i-1] != 0 {
				inv *= invested[i] / invested[i-1]
			}
			cash *= 1 + daily
		}
		combined[i] = inv + cash
	}
	return combined
}
