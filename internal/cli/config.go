package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"option-pnl/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			path := filepath.Join(app.Config.Dir, "config.toml")
			if output.IsStructured() {
				return output.Structured(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Structured(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Grid")
	output.Printf("  Steps:           %d (allowed %d-%d)\n", cfg.Grid.Steps, cfg.Grid.MinSteps, cfg.Grid.MaxSteps)
	output.Printf("  Policy:          %s\n", cfg.BoundsPolicy())
	output.Println()

	output.Bold("Pricing")
	output.Printf("  Risk-free rate:  %s\n", percentText(cfg.Pricing.RiskFreeRate))
	output.Printf("  Default vol:     %s\n", percentText(cfg.Pricing.DefaultVolatility))
	output.Printf("  Days per year:   %g\n", cfg.Pricing.DaysPerYear)
	output.Println()

	output.Bold("Display")
	output.Printf("  Color:           %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Chart:           %dx%d\n", cfg.UI.ChartWidth, cfg.UI.ChartHeight)
	output.Printf("  Decimals:        %d\n", cfg.UI.PriceDecimals)
	output.Printf("  Grouping:        %s\n", cfg.UI.NumberGrouping)
	output.Println()

	output.Bold("History")
	output.Printf("  Enabled:         %v\n", cfg.Store.Enabled)
	output.Printf("  Database:        %s\n", cfg.Store.Path)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Printf("  Timeouts:        read %s, write %s\n", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	if cfg.Logging.File {
		output.Printf("  File:            %s\n", cfg.Logging.FilePath)
	}
}
