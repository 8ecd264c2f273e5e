package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"option-pnl/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the engine over HTTP:

  POST /api/v1/curve      single option curve, zones and extremes
  POST /api/v1/spread     vertical spread curve
  GET  /api/v1/breakeven  ?kind=&strike=&premium=
  GET  /healthz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				app.Config.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(app.Config, app.Logger).Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}
