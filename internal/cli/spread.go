package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/logging"
	"option-pnl/internal/models"
	"option-pnl/internal/payoff"
)

func newSpreadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spread",
		Short: "PnL of a two-leg vertical spread",
		Long: `Compute the PnL of a vertical spread: one short and one long option of the
same kind with a single net premium. Use --credit for a net credit and
--debit for a net debit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := app.spreadRequestFromFlags(cmd)
			if err != nil {
				return err
			}

			logger := logging.WithOperation(logging.FromContext(cmd.Context()), "spread")
			start := time.Now()
			analysis, err := payoff.AnalyzeSpread(req)
			if err != nil {
				return err
			}
			logging.LogAnalysis(logger, analysis.Policy, analysis.Grid.Len(), analysis.BreakEven, time.Since(start))

			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(analysis)
			}
			app.printSpread(output, analysis)

			if noChart, _ := cmd.Flags().GetBool("no-chart"); !noChart {
				output.Println()
				c := chart{
					Width:   app.Config.UI.ChartWidth,
					Height:  app.Config.UI.ChartHeight,
					Prices:  analysis.Curve.Prices,
					Expiry:  analysis.Curve.AtExpiry,
					Outcome: outcomeBySign,
				}
				if analysis.ShowToday {
					c.Today = analysis.Curve.Today
				}
				c.Render(output, app.Format.Price)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("kind", "", "option kind of both legs: call|put")
	flags.Float64("short-strike", 0, "strike of the short leg")
	flags.Float64("long-strike", 0, "strike of the long leg")
	flags.Float64("credit", 0, "net premium received")
	flags.Float64("debit", 0, "net premium paid")
	flags.Bool("no-chart", false, "skip the ASCII chart")
	addTimeFlags(flags)

	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("short-strike")
	_ = cmd.MarkFlagRequired("long-strike")
	_ = cmd.MarkFlagRequired("spot")
	cmd.MarkFlagsMutuallyExclusive("credit", "debit")

	return cmd
}

func (a *App) spreadRequestFromFlags(cmd *cobra.Command) (payoff.SpreadRequest, error) {
	flags := cmd.Flags()

	kindStr, _ := flags.GetString("kind")
	kind, ok := models.ParseOptionKind(kindStr)
	if !ok {
		return payoff.SpreadRequest{}, apperrors.NewUnsupportedError("kind", kindStr, "expected call or put")
	}

	in, err := a.pricingFromFlags(cmd)
	if err != nil {
		return payoff.SpreadRequest{}, err
	}

	shortStrike, _ := flags.GetFloat64("short-strike")
	longStrike, _ := flags.GetFloat64("long-strike")
	credit, _ := flags.GetFloat64("credit")
	if flags.Changed("debit") {
		debit, _ := flags.GetFloat64("debit")
		credit = -debit
	}

	return payoff.SpreadRequest{
		Spread: models.VerticalSpread{
			Kind:         kind,
			ShortStrike:  shortStrike,
			LongStrike:   longStrike,
			NetCredit:    credit,
			Volatility:   in.Volatility,
			RiskFreeRate: in.RiskFreeRate,
			TimeToExpiry: in.TimeToExpiry,
		},
		Spot:      in.Spot,
		Steps:     in.Steps,
		Policy:    in.Policy,
		ShowToday: in.ShowToday,
	}, nil
}

func (a *App) printSpread(output *Output, analysis *payoff.SpreadAnalysis) {
	f := a.Format
	s := analysis.Spread

	premium := "credit " + f.Price(s.NetCredit)
	if s.NetCredit < 0 {
		premium = "debit " + f.Price(-s.NetCredit)
	}
	breakEven := "none"
	if analysis.HasBreakEven {
		breakEven = f.Price(analysis.BreakEven)
	}

	lines := []string{
		fmt.Sprintf("Legs:        short %s / long %s", f.Price(s.ShortStrike), f.Price(s.LongStrike)),
		fmt.Sprintf("Premium:     %s", premium),
		fmt.Sprintf("Spot:        %s", f.Price(analysis.Spot.Price)),
		fmt.Sprintf("PnL expiry:  %s", output.PnLText(analysis.Spot.AtExpiry, f.PnL(analysis.Spot.AtExpiry))),
	}
	if analysis.ShowToday {
		lines = append(lines, fmt.Sprintf("PnL today:   %s", output.PnLText(analysis.Spot.Today, f.PnL(analysis.Spot.Today))))
	}
	lines = append(lines,
		fmt.Sprintf("Break-even:  %s", breakEven),
		fmt.Sprintf("Max profit:  %s", a.boundText(analysis.Extremes.MaxProfit)),
		fmt.Sprintf("Max loss:    %s", a.boundText(analysis.Extremes.MaxLoss)),
		fmt.Sprintf("Axis:        %s .. %s (%d samples, %s)", f.Price(analysis.Grid.Min), f.Price(analysis.Grid.Max), analysis.Grid.Len(), analysis.Policy),
	)
	output.Box(fmt.Sprintf("%s VERTICAL SPREAD", s.Kind), lines)
}
