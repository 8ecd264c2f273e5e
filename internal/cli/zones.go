package cli

import (
	"github.com/spf13/cobra"

	"option-pnl/internal/models"
	"option-pnl/internal/payoff"
)

// zoneRow is one band of the zone breakdown with its meaning for the position.
type zoneRow struct {
	Band    models.Band     `json:"band" yaml:"band"`
	Outcome models.Band     `json:"outcome" yaml:"outcome"`
	Range   models.Interval `json:"range" yaml:"range"`
}

type zonesResult struct {
	Contract  models.ContractSpec `json:"contract" yaml:"contract"`
	BreakEven float64             `json:"break_even" yaml:"break_even"`
	Min       float64             `json:"price_min" yaml:"price_min"`
	Max       float64             `json:"price_max" yaml:"price_max"`
	Zones     []zoneRow           `json:"zones" yaml:"zones"`
	Extremes  models.Extremes     `json:"extremes" yaml:"extremes"`
}

func newZonesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Break-even price and loss/breakeven/profit bands",
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := app.runAnalysis(cmd, "zones")
			if err != nil {
				return err
			}

			result := zonesFromAnalysis(analysis)
			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(result)
			}

			f := app.Format
			output.Bold(positionTitle(result.Contract, f.Price))
			output.Printf("Break-even %s, axis %s .. %s\n\n", f.Price(result.BreakEven), f.Price(result.Min), f.Price(result.Max))

			table := NewTable(output, "BAND", "FROM", "TO", "WIDTH", "OUTCOME")
			for _, z := range result.Zones {
				outcome := z.Outcome.String()
				switch z.Outcome {
				case models.BandProfit:
					outcome = output.Green(outcome)
				case models.BandLoss:
					outcome = output.Red(outcome)
				default:
					outcome = output.Yellow(outcome)
				}
				if z.Range.Empty() {
					outcome = output.DimText("(outside axis)")
				}
				table.AddRow(z.Band.String(), f.Price(z.Range.Lo), f.Price(z.Range.Hi), f.Price(z.Range.Width()), outcome)
			}
			table.Render()

			output.Println()
			output.Printf("Max profit: %s\n", app.boundText(result.Extremes.MaxProfit))
			output.Printf("Max loss:   %s\n", app.boundText(result.Extremes.MaxLoss))
			return nil
		},
	}

	addContractFlags(cmd)
	addSaveFlags(cmd)
	return cmd
}

func zonesFromAnalysis(a *payoff.Analysis) zonesResult {
	spec := a.Contract
	result := zonesResult{
		Contract:  spec,
		BreakEven: a.Zones.BreakEven,
		Min:       a.Zones.Min,
		Max:       a.Zones.Max,
		Extremes:  a.Extremes,
	}
	for _, band := range models.Bands {
		result.Zones = append(result.Zones, zoneRow{
			Band:    band,
			Outcome: payoff.BandOutcome(band, spec.Kind, spec.Side),
			Range:   a.Zones.Interval(band),
		})
	}
	return result
}
