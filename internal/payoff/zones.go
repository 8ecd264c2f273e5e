package payoff

import (
	"math"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

var breakEvenByKind = [models.NumOptionKinds]func(strike, premium float64) float64{
	models.Call: func(strike, premium float64) float64 { return strike + premium },
	models.Put:  func(strike, premium float64) float64 { return strike - premium },
}

// zoneEdges returns the lower and upper edge of the breakeven band.
var zoneEdges = [models.NumOptionKinds]func(strike, premium, breakEven float64) (float64, float64){
	models.Call: func(strike, premium, breakEven float64) (float64, float64) { return strike - premium, breakEven },
	models.Put:  func(strike, premium, breakEven float64) (float64, float64) { return breakEven, strike + premium },
}

// bandOutcome maps a positional band to what it means for a position.
var bandOutcome = [models.NumOptionKinds][models.NumPositionSides][models.NumBands]models.Band{
	models.Call: {
		models.Long:  {models.BandLoss, models.BandBreakeven, models.BandProfit},
		models.Short: {models.BandProfit, models.BandBreakeven, models.BandLoss},
	},
	models.Put: {
		models.Long:  {models.BandProfit, models.BandBreakeven, models.BandLoss},
		models.Short: {models.BandLoss, models.BandBreakeven, models.BandProfit},
	},
}

// BreakEven returns the underlying price at which expiry PnL is zero. The
// same price is the zero crossing for the long and the short position.
func BreakEven(strike, premium float64, kind models.OptionKind) float64 {
	if !kind.Valid() {
		return math.NaN()
	}
	return breakEvenByKind[kind](strike, premium)
}

// Zones partitions [min, max] into Loss, Breakeven and Profit bands ordered
// from the bottom of the axis. Band edges are clamped into the axis, so bands
// may be empty but never overlap or invert.
func Zones(min, max, strike, premium, breakEven float64, kind models.OptionKind) (models.ZoneBreakdown, error) {
	if !kind.Valid() {
		return models.ZoneBreakdown{}, apperrors.NewUnsupportedError("kind", int(kind), "option kind must be CALL or PUT")
	}
	if !isFinite(min) || !isFinite(max) || max <= min {
		return models.ZoneBreakdown{}, apperrors.NewValidationError("price_max", max, "must exceed price_min")
	}
	if !isFinite(strike) || strike <= 0 {
		return models.ZoneBreakdown{}, apperrors.NewValidationError("strike", strike, "must be positive")
	}
	if !isFinite(premium) || premium < 0 {
		return models.ZoneBreakdown{}, apperrors.NewValidationError("premium", premium, "must be non-negative")
	}
	if !isFinite(breakEven) {
		return models.ZoneBreakdown{}, apperrors.NewValidationError("break_even", breakEven, "must be finite")
	}

	lower, upper := zoneEdges[kind](strike, premium, breakEven)
	if upper < lower {
		lower, upper = upper, lower
	}
	lower = clamp(lower, min, max)
	upper = clamp(upper, min, max)

	return models.ZoneBreakdown{
		BreakEven: breakEven,
		Min:       min,
		Max:       max,
		Loss:      models.Interval{Lo: min, Hi: lower},
		Breakeven: models.Interval{Lo: lower, Hi: upper},
		Profit:    models.Interval{Lo: upper, Hi: max},
	}, nil
}

// BandOutcome reports what a positional band means for the given position:
// the bottom band is a loss for a long call but a profit for a long put.
func BandOutcome(band models.Band, kind models.OptionKind, side models.PositionSide) models.Band {
	if !kind.Valid() || !side.Valid() || band < 0 || band >= models.NumBands {
		return band
	}
	return bandOutcome[kind][side][band]
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
