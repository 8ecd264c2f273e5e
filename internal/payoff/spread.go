package payoff

import (
	"math"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

// SpreadRequest is a fully specified vertical spread analysis.
type SpreadRequest struct {
	Spread    models.VerticalSpread
	Spot      float64
	Steps     int
	Policy    models.BoundsPolicy
	ShowToday bool
}

// SpreadAnalysis is the output of one spread recomputation.
type SpreadAnalysis struct {
	Spread       models.VerticalSpread `json:"spread" yaml:"spread"`
	Spot         SpotValue             `json:"spot" yaml:"spot"`
	Policy       models.BoundsPolicy   `json:"policy" yaml:"policy"`
	Grid         models.PriceGrid      `json:"-" yaml:"-"`
	Curve        models.PnLCurve       `json:"curve" yaml:"curve"`
	Extremes     models.Extremes       `json:"extremes" yaml:"extremes"`
	BreakEven    float64               `json:"break_even" yaml:"break_even"`
	HasBreakEven bool                  `json:"has_break_even" yaml:"has_break_even"`
	ShowToday    bool                  `json:"show_today" yaml:"show_today"`
}

// SpreadPnLAtExpiry nets both legs at expiry against the spread premium.
func SpreadPnLAtExpiry(spread models.VerticalSpread, price float64) float64 {
	return spread.NetCredit + Intrinsic(price, spread.LongStrike, spread.Kind) - Intrinsic(price, spread.ShortStrike, spread.Kind)
}

// SpreadPnLToday nets the theoretical value of both legs against the premium.
func SpreadPnLToday(spread models.VerticalSpread, price float64) (float64, error) {
	short, long := spread.Legs()
	shortValue, err := Theoretical(price, short.Strike, short.TimeToExpiry, short.RiskFreeRate, short.Volatility, short.Kind)
	if err != nil {
		return 0, err
	}
	longValue, err := Theoretical(price, long.Strike, long.TimeToExpiry, long.RiskFreeRate, long.Volatility, long.Kind)
	if err != nil {
		return 0, err
	}
	return spread.NetCredit + longValue - shortValue, nil
}

// AnalyzeSpread builds a grid spanning both strikes and the spot, then values
// the spread at every sample.
func AnalyzeSpread(req SpreadRequest) (*SpreadAnalysis, error) {
	spread := req.Spread
	if err := spread.Validate(); err != nil {
		return nil, err
	}
	if !isFinite(req.Spot) || req.Spot <= 0 {
		return nil, apperrors.NewValidationError("spot", req.Spot, "must be positive")
	}
	if req.Steps != 0 && req.Steps < 2 {
		return nil, apperrors.NewValidationError("steps", req.Steps, "need at least 2 samples")
	}
	if !req.Policy.Valid() {
		return nil, apperrors.NewValidationError("policy", int(req.Policy), "unknown bounds policy")
	}
	steps := req.Steps
	if steps == 0 {
		steps = DefaultSteps
	}

	lowStrike := math.Min(spread.ShortStrike, spread.LongStrike)
	highStrike := math.Max(spread.ShortStrike, spread.LongStrike)
	policy := ResolvePolicy(req.Policy, spread.Kind)
	min, max, err := rangeBounds(policy, math.Min(lowStrike, req.Spot), math.Max(highStrike, req.Spot), req.Spot)
	if err != nil {
		return nil, err
	}
	grid, err := gridBetween(min, max, steps)
	if err != nil {
		return nil, apperrors.Wrap(err, "building price grid")
	}

	withToday := req.ShowToday
	curve := models.PnLCurve{
		Prices:   append([]float64(nil), grid.Prices...),
		AtExpiry: make([]float64, grid.Len()),
	}
	if withToday {
		curve.Today = make([]float64, grid.Len())
	}
	for i, s := range grid.Prices {
		curve.AtExpiry[i] = SpreadPnLAtExpiry(spread, s)
		if withToday {
			if curve.Today[i], err = SpreadPnLToday(spread, s); err != nil {
				return nil, apperrors.Wrapf(err, "valuing sample %d", i)
			}
		}
	}

	spot := SpotValue{Price: req.Spot, AtExpiry: SpreadPnLAtExpiry(spread, req.Spot)}
	if withToday {
		if spot.Today, err = SpreadPnLToday(spread, req.Spot); err != nil {
			return nil, apperrors.Wrap(err, "valuing spot")
		}
	}

	// Expiry PnL is flat below the low strike and above the high strike and
	// linear in between.
	pnlLow := SpreadPnLAtExpiry(spread, lowStrike)
	pnlHigh := SpreadPnLAtExpiry(spread, highStrike)
	analysis := &SpreadAnalysis{
		Spread: spread,
		Spot:   spot,
		Policy: policy,
		Grid:   grid,
		Curve:  curve,
		Extremes: models.Extremes{
			MaxProfit: models.Bound{Value: math.Max(pnlLow, pnlHigh)},
			MaxLoss:   models.Bound{Value: -math.Min(pnlLow, pnlHigh)},
		},
		ShowToday: withToday,
	}

	switch {
	case pnlLow == 0:
		analysis.BreakEven, analysis.HasBreakEven = lowStrike, true
	case pnlHigh == 0:
		analysis.BreakEven, analysis.HasBreakEven = highStrike, true
	case (pnlLow < 0) != (pnlHigh < 0):
		analysis.BreakEven = lowStrike + (0-pnlLow)*(highStrike-lowStrike)/(pnlHigh-pnlLow)
		analysis.HasBreakEven = true
	}

	return analysis, nil
}
