// Package cli provides the command-line interface for the option PnL viewer.
package cli

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"option-pnl/internal/config"
	"option-pnl/internal/logging"
	"option-pnl/internal/performance"
	"option-pnl/internal/store"
	"option-pnl/pkg/utils"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Format utils.Formatter

	// OpenStore opens the history database on first use.
	OpenStore func(path string) (store.AnalysisStore, error)

	storeOnce sync.Once
	store     store.AnalysisStore
	storeErr  error

	poolOnce sync.Once
	pool     *performance.WorkerPool
}

// NewApp wires the application dependencies from cfg.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Format: utils.NewFormatter(cfg.UI.PriceDecimals, cfg.UI.CurrencySymbol, utils.ParseGrouping(cfg.UI.NumberGrouping)),
		OpenStore: func(path string) (store.AnalysisStore, error) {
			return store.NewSQLiteStore(path)
		},
	}
}

// Store returns the history store, opening it on first use.
func (a *App) Store() (store.AnalysisStore, error) {
	a.storeOnce.Do(func() {
		if !a.Config.Store.Enabled {
			a.storeErr = errHistoryDisabled
			return
		}
		a.store, a.storeErr = a.OpenStore(a.Config.Store.Path)
		if a.storeErr == nil {
			a.Logger.Debug().Str("path", a.Config.Store.Path).Msg("History store opened")
		}
	})
	return a.store, a.storeErr
}

// Pool returns the shared worker pool, starting it on first use.
func (a *App) Pool() *performance.WorkerPool {
	a.poolOnce.Do(func() {
		a.pool = performance.NewWorkerPool(0)
		a.pool.Start()
	})
	return a.pool
}

// Close releases the store and worker pool.
func (a *App) Close() error {
	if a.pool != nil {
		a.pool.Stop()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "optpnl",
		Short: "Option PnL viewer - payoff curves, break-even and zones",
		Long: `optpnl computes the profit-and-loss curve of a single option position
against the underlying price, at expiry and (with a volatility) today.

Examples:
  optpnl curve --kind call --side long --strike 100000 --premium 2000 --spot 104000
  optpnl zones --kind put --side short --strike 100000 --premium 2000 --spot 104000
  optpnl spread --kind put --short-strike 98000 --long-strike 93000 --credit 2000 --spot 100000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			cmd.SetContext(loggerContext(cmd.Context(), app.Logger))
			return nil
		},
	}

	// Global flags. --config is read by main before the App exists.
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/option-pnl)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("yaml", false, "output in YAML format")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(newCurveCmd(app))
	rootCmd.AddCommand(newZonesCmd(app))
	rootCmd.AddCommand(newSpreadCmd(app))
	rootCmd.AddCommand(newSweepCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newVersionCmd(app))

	return rootCmd
}

func loggerContext(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logger)
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("optpnl v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func (a *App) output(cmd *cobra.Command) *Output {
	return NewOutput(cmd, a.Config.UI.ColorEnabled)
}
