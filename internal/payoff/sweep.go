package payoff

import (
	"context"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/performance"
)

// Sweep analyzes req once per volatility on pool. Each scenario always
// includes today's curve. Results keep the order of volatilities; the first
// failing scenario's error is returned.
func Sweep(ctx context.Context, pool *performance.WorkerPool, req Request, volatilities []float64) ([]*Analysis, error) {
	if len(volatilities) == 0 {
		return nil, apperrors.NewValidationError("volatilities", volatilities, "need at least one scenario")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Analysis, len(volatilities))
	errs := make([]error, len(volatilities))
	tasks := make([]func(), len(volatilities))
	for i, vol := range volatilities {
		i, scenario := i, req
		scenario.Contract.Volatility = vol
		scenario.ShowToday = true
		tasks[i] = func() {
			results[i], errs[i] = Analyze(scenario)
		}
	}

	if err := pool.Run(ctx, tasks); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, apperrors.Wrapf(err, "scenario %d (volatility %.4f)", i, volatilities[i])
		}
	}
	return results, nil
}
