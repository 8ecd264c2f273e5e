package payoff

import (
	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

// Request is a fully specified single-option analysis.
type Request struct {
	Contract models.ContractSpec
	Spot     float64
	Steps    int
	Policy   models.BoundsPolicy
	// PriceMin and PriceMax override the matching policy bound when set;
	// a side left at zero keeps the policy value.
	PriceMin  float64
	PriceMax  float64
	ShowToday bool
}

// Validate checks every parameter before any grid is built.
func (r Request) Validate() error {
	if err := r.Contract.Validate(); err != nil {
		return err
	}
	if !isFinite(r.Spot) || r.Spot <= 0 {
		return apperrors.NewValidationError("spot", r.Spot, "must be positive")
	}
	if r.Steps != 0 && r.Steps < 2 {
		return apperrors.NewValidationError("steps", r.Steps, "need at least 2 samples")
	}
	if !r.Policy.Valid() {
		return apperrors.NewValidationError("policy", int(r.Policy), "unknown bounds policy")
	}
	if r.PriceMin != 0 && (!isFinite(r.PriceMin) || r.PriceMin < 0) {
		return apperrors.NewValidationError("price_min", r.PriceMin, "must be positive")
	}
	if r.PriceMax != 0 && (!isFinite(r.PriceMax) || r.PriceMax < 0) {
		return apperrors.NewValidationError("price_max", r.PriceMax, "must be positive")
	}
	if r.PriceMin != 0 && r.PriceMax != 0 && r.PriceMax <= r.PriceMin {
		return apperrors.NewValidationError("price_max", r.PriceMax, "must exceed price_min")
	}
	return nil
}

// axisBounds returns the policy bounds with any explicit side applied.
func (r Request) axisBounds(policy models.BoundsPolicy) (float64, float64, error) {
	min, max, err := Bounds(policy, r.Contract.Kind, r.Contract.Strike, r.Spot)
	if err != nil {
		return 0, 0, err
	}
	if r.PriceMin != 0 {
		min = r.PriceMin
	}
	if r.PriceMax != 0 {
		max = r.PriceMax
	}
	if max <= min {
		return 0, 0, apperrors.NewValidationError("price_max", max, "must exceed price_min")
	}
	return min, max, nil
}

// SpotValue is the position PnL at the current underlying price.
type SpotValue struct {
	Price    float64 `json:"price" yaml:"price"`
	AtExpiry float64 `json:"pnl_at_expiry" yaml:"pnl_at_expiry"`
	Today    float64 `json:"pnl_today" yaml:"pnl_today"`
}

// Analysis is the output of one grid -> curve -> zones recomputation.
type Analysis struct {
	Contract  models.ContractSpec  `json:"contract" yaml:"contract"`
	Spot      SpotValue            `json:"spot" yaml:"spot"`
	Policy    models.BoundsPolicy  `json:"policy" yaml:"policy"`
	Grid      models.PriceGrid     `json:"-" yaml:"-"`
	Curve     models.PnLCurve      `json:"curve" yaml:"curve"`
	Zones     models.ZoneBreakdown `json:"zones" yaml:"zones"`
	Extremes  models.Extremes      `json:"extremes" yaml:"extremes"`
	ShowToday bool                 `json:"show_today" yaml:"show_today"`
}

// Analyze runs the full pipeline for req.
func Analyze(req Request) (*Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	spec := req.Contract
	steps := req.Steps
	if steps == 0 {
		steps = DefaultSteps
	}

	policy := ResolvePolicy(req.Policy, spec.Kind)
	min, max, err := req.axisBounds(policy)
	if err != nil {
		return nil, err
	}
	grid, err := gridBetween(min, max, steps)
	if err != nil {
		return nil, apperrors.Wrap(err, "building price grid")
	}

	curve, err := Curve(grid, spec, req.ShowToday)
	if err != nil {
		return nil, apperrors.Wrap(err, "valuing curve")
	}

	zones, err := Zones(grid.Min, grid.Max, spec.Strike, spec.Premium, BreakEven(spec.Strike, spec.Premium, spec.Kind), spec.Kind)
	if err != nil {
		return nil, apperrors.Wrap(err, "classifying zones")
	}

	extremes, err := PositionExtremes(spec)
	if err != nil {
		return nil, err
	}

	atExpiry, today, err := PointPnL(req.Spot, spec, req.ShowToday)
	if err != nil {
		return nil, apperrors.Wrap(err, "valuing spot")
	}

	return &Analysis{
		Contract:  spec,
		Spot:      SpotValue{Price: req.Spot, AtExpiry: atExpiry, Today: today},
		Policy:    policy,
		Grid:      grid,
		Curve:     curve,
		Zones:     zones,
		Extremes:  extremes,
		ShowToday: req.ShowToday,
	}, nil
}
