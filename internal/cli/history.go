package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
	"option-pnl/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Saved analyses",
		Long:  "List, show and delete analyses saved with --save.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved analyses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := historyFilterFromFlags(cmd)
			if err != nil {
				return err
			}
			history, err := app.Store()
			if err != nil {
				return err
			}
			records, err := history.ListAnalyses(cmd.Context(), filter)
			if err != nil {
				return err
			}

			output := app.output(cmd)
			if output.IsStructured() {
				if records == nil {
					records = []models.AnalysisRecord{}
				}
				return output.Structured(records)
			}
			if len(records) == 0 {
				output.Dim("No saved analyses")
				return nil
			}

			f := app.Format
			table := NewTable(output, "ID", "SAVED", "POSITION", "STRIKE", "PREMIUM", "SPOT", "BREAK-EVEN", "LABEL")
			for _, r := range records {
				table.AddRow(
					strconv.FormatInt(r.ID, 10),
					r.CreatedAt.Local().Format(app.Config.UI.DateFormat+" 15:04"),
					fmt.Sprintf("%s %s", r.Contract.Side, r.Contract.Kind),
					f.Price(r.Contract.Strike),
					f.Price(r.Contract.Premium),
					f.Price(r.Spot),
					f.Price(r.BreakEven),
					r.Label,
				)
			}
			table.Render()
			return nil
		},
	}
	listCmd.Flags().String("kind", "", "only this option kind")
	listCmd.Flags().String("side", "", "only this position side")
	listCmd.Flags().String("label", "", "only this label")
	listCmd.Flags().Duration("since", 0, "only analyses saved within this duration, e.g. 72h")
	listCmd.Flags().Int("limit", 20, "maximum rows (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			history, err := app.Store()
			if err != nil {
				return err
			}
			r, err := history.GetAnalysis(cmd.Context(), id)
			if err != nil {
				return err
			}

			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(r)
			}

			f := app.Format
			lines := []string{
				fmt.Sprintf("Saved:       %s", r.CreatedAt.Local().Format(time.RFC1123)),
				fmt.Sprintf("Spot:        %s", f.Price(r.Spot)),
				fmt.Sprintf("Break-even:  %s", f.Price(r.BreakEven)),
				fmt.Sprintf("Max profit:  %s", app.boundText(r.Extremes.MaxProfit)),
				fmt.Sprintf("Max loss:    %s", app.boundText(r.Extremes.MaxLoss)),
				fmt.Sprintf("Axis:        %s .. %s (%d samples, %s)", f.Price(r.PriceMin), f.Price(r.PriceMax), r.Steps, r.Policy),
				fmt.Sprintf("Model:       vol %s  rate %s  T %.4fy", percentText(r.Contract.Volatility), percentText(r.Contract.RiskFreeRate), r.Contract.TimeToExpiry),
			}
			if r.Label != "" {
				lines = append(lines, fmt.Sprintf("Label:       %s", r.Label))
			}
			output.Box(fmt.Sprintf("#%d %s", r.ID, positionTitle(r.Contract, f.Price)), lines)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			history, err := app.Store()
			if err != nil {
				return err
			}
			if err := history.DeleteAnalysis(cmd.Context(), id); err != nil {
				return err
			}

			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(map[string]int64{"deleted": id})
			}
			output.Success("Deleted analysis %d", id)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, deleteCmd)
	return cmd
}

func historyFilterFromFlags(cmd *cobra.Command) (store.AnalysisFilter, error) {
	flags := cmd.Flags()
	var filter store.AnalysisFilter

	if s, _ := flags.GetString("kind"); s != "" {
		kind, ok := models.ParseOptionKind(s)
		if !ok {
			return filter, apperrors.NewUnsupportedError("kind", s, "expected call or put")
		}
		filter.Kind = &kind
	}
	if s, _ := flags.GetString("side"); s != "" {
		side, ok := models.ParsePositionSide(s)
		if !ok {
			return filter, apperrors.NewUnsupportedError("side", s, "expected long or short")
		}
		filter.Side = &side
	}
	filter.Label, _ = flags.GetString("label")
	if since, _ := flags.GetDuration("since"); since > 0 {
		filter.Since = time.Now().Add(-since)
	}
	filter.Limit, _ = flags.GetInt("limit")
	return filter, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id", s, "expected a positive analysis id")
	}
	return id, nil
}
