package payoff

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

// minVolTime is the smallest sigma*sqrt(T) the closed form is evaluated at.
const minVolTime = 1e-12

var intrinsicByKind = [models.NumOptionKinds]func(s, k float64) float64{
	models.Call: func(s, k float64) float64 { return math.Max(s-k, 0) },
	models.Put:  func(s, k float64) float64 { return math.Max(k-s, 0) },
}

// theoreticalByKind receives the spot, the discounted strike and d1, d2.
var theoreticalByKind = [models.NumOptionKinds]func(s, discK, d1, d2 float64) float64{
	models.Call: func(s, discK, d1, d2 float64) float64 { return s*normCDF(d1) - discK*normCDF(d2) },
	models.Put:  func(s, discK, d1, d2 float64) float64 { return discK*normCDF(-d2) - s*normCDF(-d1) },
}

var pnlSign = [models.NumPositionSides]float64{
	models.Long:  1,
	models.Short: -1,
}

// Intrinsic returns the settlement value of the option at expiry. It returns
// 0 for an unsupported kind; callers validate the contract first.
func Intrinsic(s, k float64, kind models.OptionKind) float64 {
	if !kind.Valid() {
		return 0
	}
	return intrinsicByKind[kind](s, k)
}

// Theoretical returns the Black-Scholes value of a European option without
// dividends. At or past expiry, or when sigma*sqrt(T) is vanishingly small,
// it returns the intrinsic value.
func Theoretical(s, k, t, r, sigma float64, kind models.OptionKind) (float64, error) {
	if !kind.Valid() {
		return 0, apperrors.NewUnsupportedError("kind", int(kind), "option kind must be CALL or PUT")
	}
	if math.IsNaN(sigma) || sigma < 0 {
		return 0, apperrors.NewValidationError("volatility", sigma, "must be non-negative")
	}
	if math.IsNaN(t) || t <= 0 {
		return Intrinsic(s, k, kind), nil
	}

	volTime := sigma * math.Sqrt(t)
	if volTime < minVolTime {
		return Intrinsic(s, k, kind), nil
	}
	if !(s > 0) || !(k > 0) {
		return 0, apperrors.NewValidationError("price", [2]float64{s, k}, "spot and strike must be positive before expiry")
	}

	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / volTime
	d2 := d1 - volTime
	value := theoreticalByKind[kind](s, k*math.Exp(-r*t), d1, d2)

	// Cancellation in the tails can leave a tiny residue below the floor:
	// below zero in general, below intrinsic when nothing is discounted.
	if r == 0 {
		return math.Max(value, Intrinsic(s, k, kind)), nil
	}
	return math.Max(value, 0), nil
}

// ToPnL converts an option value into signed PnL for the given side: value
// minus premium when long, premium minus value when short.
func ToPnL(value, premium float64, side models.PositionSide) float64 {
	if !side.Valid() {
		return 0
	}
	return pnlSign[side] * (value - premium)
}

// normCDF is the standard normal cumulative distribution, evaluated through
// erfc so that both tails keep full relative precision.
func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
