package payoff

import (
	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

// Curve evaluates the expiry PnL, and optionally today's theoretical PnL, at
// every grid sample. Parameters are validated once before any sample is
// valued; samples do not depend on each other.
func Curve(grid models.PriceGrid, spec models.ContractSpec, withToday bool) (models.PnLCurve, error) {
	if err := spec.Validate(); err != nil {
		return models.PnLCurve{}, err
	}
	if err := validateSamples(grid.Prices, withToday && spec.TimeToExpiry > 0 && spec.Volatility > 0); err != nil {
		return models.PnLCurve{}, err
	}

	n := grid.Len()
	curve := models.PnLCurve{
		Prices:   append([]float64(nil), grid.Prices...),
		AtExpiry: make([]float64, n),
	}
	if withToday {
		curve.Today = make([]float64, n)
	}

	for i, s := range grid.Prices {
		curve.AtExpiry[i] = ToPnL(Intrinsic(s, spec.Strike, spec.Kind), spec.Premium, spec.Side)
		if !withToday {
			continue
		}
		value, err := Theoretical(s, spec.Strike, spec.TimeToExpiry, spec.RiskFreeRate, spec.Volatility, spec.Kind)
		if err != nil {
			return models.PnLCurve{}, apperrors.Wrapf(err, "valuing sample %d", i)
		}
		curve.Today[i] = ToPnL(value, spec.Premium, spec.Side)
	}

	return curve, nil
}

// PointPnL values a single underlying price; today is only meaningful when
// withToday is set.
func PointPnL(price float64, spec models.ContractSpec, withToday bool) (atExpiry, today float64, err error) {
	grid := models.PriceGrid{Min: price, Max: price, Prices: []float64{price}}
	curve, err := Curve(grid, spec, withToday)
	if err != nil {
		return 0, 0, err
	}
	if withToday {
		today = curve.Today[0]
	}
	return curve.AtExpiry[0], today, nil
}

// validateSamples rejects prices the engine cannot value. The lognormal model
// additionally needs strictly positive prices.
func validateSamples(prices []float64, needsModel bool) error {
	for _, s := range prices {
		if !isFinite(s) || s < 0 {
			return apperrors.NewValidationError("price", s, "grid sample must be finite and non-negative")
		}
		if needsModel && s == 0 {
			return apperrors.NewValidationError("price", s, "grid sample must be positive before expiry")
		}
	}
	return nil
}
