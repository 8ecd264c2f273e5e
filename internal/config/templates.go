package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Option PnL Viewer Configuration

[grid]
# Number of underlying price samples per curve
steps = 500
# Accepted range for --steps
min_steps = 100
max_steps = 1000
# Price axis policy: auto, put, call, symmetric, spot
policy = "auto"

[pricing]
# Continuously compounded risk-free rate (0.05 = 5%)
risk_free_rate = 0.0
# Annualized volatility used when --vol is not given (0 = expiry payoff only)
default_volatility = 0.0
# Calendar days per year for time to expiry
days_per_year = 365.0

[ui]
# Enable colored output
color_enabled = true
# ASCII chart size in characters
chart_width = 72
chart_height = 18
# Decimal places for prices and PnL
price_decimals = 2
# Prefix for money amounts, e.g. "$"
currency_symbol = ""
# Digit grouping: "thousands" (1,234,567) or "indian" (12,34,567)
number_grouping = "thousands"
# Date format for --valuation and --expiry
date_format = "2006-01-02"

[store]
# Keep a history of saved analyses
enabled = true
# path = "~/.config/option-pnl/history.db"

[server]
addr = "127.0.0.1:8080"
read_timeout = "10s"
write_timeout = "10s"

[logging]
# debug, info, warn, error
level = "info"
console = true
# Rotate logs under the config directory
file = false
max_size = 20
max_backups = 5
max_age = 30
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
