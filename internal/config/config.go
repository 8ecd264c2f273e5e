// Package config provides configuration management for the PnL viewer.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Grid    GridConfig    `mapstructure:"grid"`
	Pricing PricingConfig `mapstructure:"pricing"`
	UI      UIConfig      `mapstructure:"ui"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
	// TemplateCreated is set when Load wrote a fresh config.toml.
	TemplateCreated bool `mapstructure:"-"`
}

// GridConfig holds price grid configuration.
type GridConfig struct {
	Steps    int    `mapstructure:"steps"`
	MinSteps int    `mapstructure:"min_steps"`
	MaxSteps int    `mapstructure:"max_steps"`
	Policy   string `mapstructure:"policy"` // auto, put, call, symmetric, spot
}

// PricingConfig holds valuation model defaults.
type PricingConfig struct {
	RiskFreeRate      float64 `mapstructure:"risk_free_rate"`
	DefaultVolatility float64 `mapstructure:"default_volatility"`
	DaysPerYear       float64 `mapstructure:"days_per_year"`
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled   bool   `mapstructure:"color_enabled"`
	ChartWidth     int    `mapstructure:"chart_width"`
	ChartHeight    int    `mapstructure:"chart_height"`
	PriceDecimals  int32  `mapstructure:"price_decimals"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	NumberGrouping string `mapstructure:"number_grouping"` // thousands, indian
	DateFormat     string `mapstructure:"date_format"`
}

// StoreConfig holds analysis history configuration.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/option-pnl"
	}
	return filepath.Join(home, ".config", "option-pnl")
}

// Default returns the built-in configuration rooted at configDir.
func Default(configDir string) *Config {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	v := viper.New()
	setDefaults(v, configDir)

	cfg := &Config{}
	// Defaults are plain scalars; decoding them cannot fail.
	_ = v.Unmarshal(cfg)
	cfg.Dir = configDir
	return cfg
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by a commented template and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	created := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
		created = true
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}
	cfg.Dir = configDir
	cfg.TemplateCreated = created

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("grid.steps", 500)
	v.SetDefault("grid.min_steps", 100)
	v.SetDefault("grid.max_steps", 1000)
	v.SetDefault("grid.policy", "auto")

	v.SetDefault("pricing.risk_free_rate", 0.0)
	v.SetDefault("pricing.default_volatility", 0.0)
	v.SetDefault("pricing.days_per_year", 365.0)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.chart_width", 72)
	v.SetDefault("ui.chart_height", 18)
	v.SetDefault("ui.price_decimals", 2)
	v.SetDefault("ui.currency_symbol", "")
	v.SetDefault("ui.number_grouping", "thousands")
	v.SetDefault("ui.date_format", "2006-01-02")

	v.SetDefault("store.enabled", true)
	v.SetDefault("store.path", filepath.Join(configDir, "history.db"))

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "optpnl.log"))
	v.SetDefault("logging.max_size", 20)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("OPTPNL_RISK_FREE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperrors.Wrapf(apperrors.ErrConfigInvalid, "OPTPNL_RISK_FREE_RATE=%q", v)
		}
		cfg.Pricing.RiskFreeRate = rate
	}
	if v := os.Getenv("OPTPNL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OPTPNL_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("OPTPNL_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	g := c.Grid
	if g.MinSteps < 2 || g.MaxSteps < g.MinSteps {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "grid step bounds [%d, %d]", g.MinSteps, g.MaxSteps)
	}
	if err := c.CheckSteps(g.Steps); err != nil {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, err.Error())
	}
	if _, ok := models.ParseBoundsPolicy(g.Policy); !ok {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "grid policy %q", g.Policy)
	}

	p := c.Pricing
	if math.IsNaN(p.RiskFreeRate) || math.IsInf(p.RiskFreeRate, 0) {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "risk_free_rate must be finite")
	}
	if math.IsNaN(p.DefaultVolatility) || p.DefaultVolatility < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "default_volatility must be non-negative")
	}
	if !(p.DaysPerYear > 0) {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "days_per_year must be positive")
	}

	if c.UI.ChartWidth < 10 || c.UI.ChartHeight < 5 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "chart size %dx%d too small", c.UI.ChartWidth, c.UI.ChartHeight)
	}
	if c.UI.PriceDecimals < 0 || c.UI.PriceDecimals > 8 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "price_decimals must be between 0 and 8")
	}

	switch c.UI.NumberGrouping {
	case "thousands", "indian":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "number_grouping %q", c.UI.NumberGrouping)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "log level %q", c.Logging.Level)
	}

	return nil
}

// CheckSteps reports whether n lies within the configured step bounds.
func (c *Config) CheckSteps(n int) error {
	if n < c.Grid.MinSteps || n > c.Grid.MaxSteps {
		return apperrors.NewValidationError("steps", n,
			fmt.Sprintf("must be between %d and %d", c.Grid.MinSteps, c.Grid.MaxSteps))
	}
	return nil
}

// BoundsPolicy returns the configured grid policy.
func (c *Config) BoundsPolicy() models.BoundsPolicy {
	policy, ok := models.ParseBoundsPolicy(c.Grid.Policy)
	if !ok {
		return models.PolicyAuto
	}
	return policy
}
