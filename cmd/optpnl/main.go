// Command optpnl computes option PnL curves, break-even prices and zones.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"option-pnl/internal/cli"
	"option-pnl/internal/config"
	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(configDirFromArgs(args))
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		return 1
	}

	logger := logging.NewLoggerWithConfig(logging.FromAppConfig(cfg.Logging))
	if cfg.TemplateCreated {
		logger.Info().Str("path", filepath.Join(cfg.Dir, "config.toml")).Msg("Created configuration template")
	}

	app := cli.NewApp(cfg, logger)
	defer app.Close()

	rootCmd := cli.NewRootCmd(app)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		if apperrors.IsValidation(err) {
			return 2
		}
		return 1
	}
	return 0
}

// configDirFromArgs extracts --config before the command tree is built,
// since the configuration decides how the tree is wired.
func configDirFromArgs(args []string) string {
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	dir := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *dir
}
