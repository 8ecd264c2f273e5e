package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"option-pnl/internal/logging"
	"option-pnl/internal/models"
	"option-pnl/internal/payoff"
	"option-pnl/internal/store"
)

func newCurveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "PnL curve of a single option position",
		Long: `Compute the PnL of a single option position across the underlying price axis.

The expiry curve is always shown; today's theoretical curve is added when a
volatility and a time to expiry are given (or with --today).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := app.runAnalysis(cmd, "curve")
			if err != nil {
				return err
			}

			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(analysis)
			}

			app.printSummary(output, analysis)
			if noChart, _ := cmd.Flags().GetBool("no-chart"); !noChart {
				output.Println()
				app.analysisChart(analysis).Render(output, app.Format.Price)
			}
			if rows, _ := cmd.Flags().GetInt("rows"); rows > 0 {
				output.Println()
				app.printCurveTable(output, analysis, rows)
			}
			return nil
		},
	}

	addContractFlags(cmd)
	addSaveFlags(cmd)
	cmd.Flags().Int("rows", 11, "number of sampled rows in the table (0 hides it)")
	cmd.Flags().Bool("no-chart", false, "skip the ASCII chart")

	return cmd
}

func addSaveFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("save", false, "save the analysis to history")
	cmd.Flags().String("label", "", "label stored with --save")
}

// runAnalysis builds the request from flags, runs the engine and saves the
// result when --save is set.
func (a *App) runAnalysis(cmd *cobra.Command, operation string) (*payoff.Analysis, error) {
	req, err := a.requestFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.WithContract(logging.WithOperation(logging.FromContext(cmd.Context()), operation), req.Contract)
	start := time.Now()
	analysis, err := payoff.Analyze(req)
	if err != nil {
		logger.Debug().Err(err).Msg("Analysis rejected")
		return nil, err
	}
	logging.LogAnalysis(logger, analysis.Policy, analysis.Grid.Len(), analysis.Zones.BreakEven, time.Since(start))

	if save, _ := cmd.Flags().GetBool("save"); save {
		label, _ := cmd.Flags().GetString("label")
		if err := a.saveAnalysis(cmd, analysis, label); err != nil {
			return nil, err
		}
	}
	return analysis, nil
}

func (a *App) saveAnalysis(cmd *cobra.Command, analysis *payoff.Analysis, label string) error {
	history, err := a.Store()
	if err != nil {
		return err
	}
	record := store.RecordFromAnalysis(analysis, label)
	if err := history.SaveAnalysis(cmd.Context(), record); err != nil {
		return err
	}
	logger := logging.FromContext(cmd.Context())
	logger.Info().Int64("id", record.ID).Msg("Analysis saved")
	return nil
}

func positionTitle(spec models.ContractSpec, price func(float64) string) string {
	return fmt.Sprintf("%s %s %s @ %s", spec.Side, spec.Kind, price(spec.Strike), price(spec.Premium))
}

func (a *App) boundText(b models.Bound) string {
	if b.Unbounded {
		return "unlimited"
	}
	return a.Format.Price(b.Value)
}

func (a *App) printSummary(output *Output, analysis *payoff.Analysis) {
	f := a.Format
	spec := analysis.Contract
	lines := []string{
		fmt.Sprintf("Spot:        %s", f.Price(analysis.Spot.Price)),
		fmt.Sprintf("PnL expiry:  %s", output.PnLText(analysis.Spot.AtExpiry, f.PnL(analysis.Spot.AtExpiry))),
	}
	if analysis.ShowToday {
		lines = append(lines, fmt.Sprintf("PnL today:   %s", output.PnLText(analysis.Spot.Today, f.PnL(analysis.Spot.Today))))
	}
	lines = append(lines,
		fmt.Sprintf("Break-even:  %s", f.Price(analysis.Zones.BreakEven)),
		fmt.Sprintf("Max profit:  %s", a.boundText(analysis.Extremes.MaxProfit)),
		fmt.Sprintf("Max loss:    %s", a.boundText(analysis.Extremes.MaxLoss)),
		fmt.Sprintf("Axis:        %s .. %s (%d samples, %s)", f.Price(analysis.Grid.Min), f.Price(analysis.Grid.Max), analysis.Grid.Len(), analysis.Policy),
	)
	if spec.TimeToExpiry > 0 {
		lines = append(lines, fmt.Sprintf("Model:       vol %s  rate %s  T %.4fy",
			percentText(spec.Volatility), percentText(spec.RiskFreeRate), spec.TimeToExpiry))
	}
	output.Box(positionTitle(spec, f.Price), lines)
}

func percentText(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func (a *App) analysisChart(analysis *payoff.Analysis) chart {
	spec := analysis.Contract
	zones := analysis.Zones
	c := chart{
		Width:  a.Config.UI.ChartWidth,
		Height: a.Config.UI.ChartHeight,
		Prices: analysis.Curve.Prices,
		Expiry: analysis.Curve.AtExpiry,
		Outcome: func(price, _ float64) models.Band {
			band, ok := zones.Classify(price)
			if !ok {
				return models.BandBreakeven
			}
			return payoff.BandOutcome(band, spec.Kind, spec.Side)
		},
	}
	if analysis.ShowToday {
		c.Today = analysis.Curve.Today
	}
	return c
}

// sampleIndexes picks rows evenly spaced indexes from n samples, always
// including both ends.
func sampleIndexes(n, rows int) []int {
	if rows >= n {
		rows = n
	}
	if rows < 2 {
		return []int{0}
	}
	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i * (n - 1) / (rows - 1)
	}
	return idx
}

func (a *App) printCurveTable(output *Output, analysis *payoff.Analysis, rows int) {
	f := a.Format
	spec := analysis.Contract
	headers := []string{"PRICE", "PNL EXPIRY"}
	if analysis.ShowToday {
		headers = append(headers, "PNL TODAY")
	}
	headers = append(headers, "ZONE")

	table := NewTable(output, headers...)
	curve := analysis.Curve
	for _, i := range sampleIndexes(len(curve.Prices), rows) {
		cells := []string{
			f.Price(curve.Prices[i]),
			output.PnLText(curve.AtExpiry[i], f.PnL(curve.AtExpiry[i])),
		}
		if analysis.ShowToday {
			cells = append(cells, output.PnLText(curve.Today[i], f.PnL(curve.Today[i])))
		}
		zone := "-"
		if band, ok := analysis.Zones.Classify(curve.Prices[i]); ok {
			zone = payoff.BandOutcome(band, spec.Kind, spec.Side).String()
		}
		cells = append(cells, zone)
		table.AddRow(cells...)
	}
	table.Render()
}
