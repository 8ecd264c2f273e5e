package payoff

import (
	"math"
	"time"
)

// DaysPerYear converts calendar days to year fractions.
const DaysPerYear = 365.0

// TimeToExpiry returns the whole calendar days between valuation and expiry
// divided by daysPerYear. Only the date parts count; an expiry on or before
// the valuation date yields 0.
func TimeToExpiry(valuation, expiry time.Time, daysPerYear float64) float64 {
	if daysPerYear <= 0 {
		daysPerYear = DaysPerYear
	}
	days := math.Round(dateOnly(expiry).Sub(dateOnly(valuation)).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return days / daysPerYear
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
