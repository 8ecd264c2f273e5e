package cli

import (
	"time"

	"github.com/spf13/cobra"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/logging"
	"option-pnl/internal/payoff"
)

type sweepRow struct {
	Volatility float64 `json:"volatility" yaml:"volatility"`
	PnLToday   float64 `json:"pnl_today" yaml:"pnl_today"`
	PnLExpiry  float64 `json:"pnl_at_expiry" yaml:"pnl_at_expiry"`
	BestToday  float64 `json:"best_today" yaml:"best_today"`
	WorstToday float64 `json:"worst_today" yaml:"worst_today"`
}

func newSweepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Today's PnL at spot across several volatilities",
		Long: `Value the same position under several volatility assumptions in parallel.
Requires a time to expiry (--expiry or --days).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vols, _ := cmd.Flags().GetFloat64Slice("vols")
			req, err := app.requestFromFlags(cmd)
			if err != nil {
				return err
			}
			if req.Contract.TimeToExpiry <= 0 {
				return apperrors.NewValidationError("expiry", req.Contract.TimeToExpiry, "sweep needs a time to expiry")
			}

			logger := logging.WithContract(logging.WithOperation(logging.FromContext(cmd.Context()), "sweep"), req.Contract)
			start := time.Now()
			results, err := payoff.Sweep(cmd.Context(), app.Pool(), req, vols)
			if err != nil {
				return err
			}
			logger.Info().Int("scenarios", len(results)).Dur("duration", time.Since(start)).Msg("Sweep completed")
			stats := app.Pool().Stats()
			logger.Debug().
				Int("workers", stats.Workers).
				Uint64("tasks_total", stats.TasksTotal).
				Uint64("tasks_done", stats.TasksDone).
				Int("queue_len", stats.QueueLen).
				Msg("Worker pool stats")

			rows := make([]sweepRow, len(results))
			for i, a := range results {
				rows[i] = sweepRow{
					Volatility: a.Contract.Volatility,
					PnLToday:   a.Spot.Today,
					PnLExpiry:  a.Spot.AtExpiry,
					BestToday:  maxOf(a.Curve.Today),
					WorstToday: minOf(a.Curve.Today),
				}
			}

			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(rows)
			}

			f := app.Format
			output.Bold(positionTitle(req.Contract, f.Price))
			output.Printf("Spot %s, %.1f days to expiry\n\n", f.Price(req.Spot), req.Contract.TimeToExpiry*app.Config.Pricing.DaysPerYear)
			table := NewTable(output, "VOL", "PNL TODAY", "PNL EXPIRY", "BEST ON AXIS", "WORST ON AXIS")
			for _, r := range rows {
				table.AddRow(
					percentText(r.Volatility),
					output.PnLText(r.PnLToday, f.PnL(r.PnLToday)),
					output.PnLText(r.PnLExpiry, f.PnL(r.PnLExpiry)),
					f.PnL(r.BestToday),
					f.PnL(r.WorstToday),
				)
			}
			table.Render()
			return nil
		},
	}

	addContractFlags(cmd)
	cmd.Flags().Float64Slice("vols", []float64{0.2, 0.4, 0.6, 0.8}, "volatilities to evaluate")
	return cmd
}

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		m = max(m, v)
	}
	return m
}

func minOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		m = min(m, v)
	}
	return m
}
