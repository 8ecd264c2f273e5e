// Package payoff implements the option valuation engine: price grid
// construction, intrinsic and Black-Scholes valuation, PnL conversion and
// break-even zone classification. Every function is pure.
package payoff

import (
	"math"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

const (
	// DefaultSteps is the default number of grid samples.
	DefaultSteps = 500
	// MinSteps and MaxSteps bound the step count accepted from users.
	MinSteps = 100
	MaxSteps = 1000
)

// boundsFactors scale lo = min(strike, spot) and hi = max(strike, spot).
type boundsFactors struct {
	lo, hi float64
}

// Puts need room below (the underlying is floored at zero), calls above.
var policyFactors = map[models.BoundsPolicy]boundsFactors{
	models.PolicyPutDominant:  {lo: 0.5, hi: 1.1},
	models.PolicyCallDominant: {lo: 0.9, hi: 1.5},
	models.PolicySymmetric:    {lo: 0.75, hi: 1.25},
	models.PolicyAroundSpot:   {lo: 0.85, hi: 1.15},
}

var autoPolicy = [models.NumOptionKinds]models.BoundsPolicy{
	models.Call: models.PolicyCallDominant,
	models.Put:  models.PolicyPutDominant,
}

// ResolvePolicy replaces PolicyAuto with the policy matching kind. An
// unrecognised kind falls back to PolicySymmetric.
func ResolvePolicy(policy models.BoundsPolicy, kind models.OptionKind) models.BoundsPolicy {
	if policy != models.PolicyAuto {
		return policy
	}
	if !kind.Valid() {
		return models.PolicySymmetric
	}
	return autoPolicy[kind]
}

// Bounds returns the price axis limits for a single-strike position.
func Bounds(policy models.BoundsPolicy, kind models.OptionKind, strike, spot float64) (float64, float64, error) {
	return rangeBounds(ResolvePolicy(policy, kind), math.Min(strike, spot), math.Max(strike, spot), spot)
}

func rangeBounds(policy models.BoundsPolicy, lo, hi, spot float64) (float64, float64, error) {
	f, ok := policyFactors[policy]
	if !ok {
		return 0, 0, apperrors.NewValidationError("policy", policy.String(), "unknown bounds policy")
	}
	if policy == models.PolicyAroundSpot {
		lo, hi = spot, spot
	}
	if !isFinite(lo) || !isFinite(hi) || lo <= 0 {
		return 0, 0, apperrors.NewValidationError("price", lo, "grid anchor prices must be positive")
	}
	return f.lo * lo, f.hi * hi, nil
}

// Linspace returns n evenly spaced values from min to max inclusive. When
// max <= min the result is flat: n copies of min. Otherwise the samples are
// strictly increasing; a range too narrow for n distinct float64 values is
// rejected.
func Linspace(min, max float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, apperrors.NewValidationError("steps", n, "need at least 2 samples")
	}
	if !isFinite(min) || !isFinite(max) {
		return nil, apperrors.NewValidationError("bounds", [2]float64{min, max}, "must be finite")
	}

	points := make([]float64, n)
	if max <= min {
		for i := range points {
			points[i] = min
		}
		return points, nil
	}

	step := (max - min) / float64(n-1)
	if !isFinite(step) {
		return nil, apperrors.NewValidationError("bounds", [2]float64{min, max}, "range overflows")
	}
	for i := range points {
		points[i] = min + float64(i)*step
	}
	points[n-1] = max
	for i := 1; i < n; i++ {
		if points[i] <= points[i-1] {
			return nil, apperrors.NewValidationError("steps", n, "price range too narrow for distinct samples")
		}
	}
	return points, nil
}

// BuildGrid samples n prices between the policy bounds for strike and spot.
func BuildGrid(policy models.BoundsPolicy, kind models.OptionKind, strike, spot float64, n int) (models.PriceGrid, error) {
	min, max, err := Bounds(policy, kind, strike, spot)
	if err != nil {
		return models.PriceGrid{}, err
	}
	return gridBetween(min, max, n)
}

func gridBetween(min, max float64, n int) (models.PriceGrid, error) {
	prices, err := Linspace(min, max, n)
	if err != nil {
		return models.PriceGrid{}, err
	}
	return models.PriceGrid{Min: min, Max: max, Prices: prices}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
