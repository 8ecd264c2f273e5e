package payoff

import (
	"option-pnl/internal/models"
)

var extremesTable = [models.NumOptionKinds][models.NumPositionSides]func(strike, premium float64) models.Extremes{
	models.Call: {
		models.Long: func(_, premium float64) models.Extremes {
			return models.Extremes{MaxProfit: models.Bound{Unbounded: true}, MaxLoss: models.Bound{Value: premium}}
		},
		models.Short: func(_, premium float64) models.Extremes {
			return models.Extremes{MaxProfit: models.Bound{Value: premium}, MaxLoss: models.Bound{Unbounded: true}}
		},
	},
	models.Put: {
		models.Long: func(strike, premium float64) models.Extremes {
			return models.Extremes{MaxProfit: models.Bound{Value: strike - premium}, MaxLoss: models.Bound{Value: premium}}
		},
		// The underlying is not floored at zero here: max loss is strike - premium.
		models.Short: func(strike, premium float64) models.Extremes {
			return models.Extremes{MaxProfit: models.Bound{Value: premium}, MaxLoss: models.Bound{Value: strike - premium}}
		},
	},
}

// PositionExtremes returns the maximum profit and loss at expiry. Losses are
// reported as positive magnitudes.
func PositionExtremes(spec models.ContractSpec) (models.Extremes, error) {
	if err := spec.Validate(); err != nil {
		return models.Extremes{}, err
	}
	return extremesTable[spec.Kind][spec.Side](spec.Strike, spec.Premium), nil
}
