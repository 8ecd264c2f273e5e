package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

func TestLoad_CreatesTemplate(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.TemplateCreated)
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	assert.Equal(t, 500, cfg.Grid.Steps)
	assert.Equal(t, 100, cfg.Grid.MinSteps)
	assert.Equal(t, 1000, cfg.Grid.MaxSteps)
	assert.Equal(t, models.PolicyAuto, cfg.BoundsPolicy())
	assert.Equal(t, 365.0, cfg.Pricing.DaysPerYear)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.Store.Path)

	// the written template loads back cleanly
	again, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, again.TemplateCreated)
	assert.Equal(t, cfg.Grid, again.Grid)
	assert.Equal(t, cfg.Pricing, again.Pricing)
}

func TestLoad_ReadsValues(t *testing.T) {
	dir := t.TempDir()
	content := `
[grid]
steps = 250
policy = "symmetric"

[pricing]
risk_free_rate = 0.04
default_volatility = 0.55

[server]
addr = ":9090"
write_timeout = "30s"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Grid.Steps)
	assert.Equal(t, models.PolicySymmetric, cfg.BoundsPolicy())
	assert.Equal(t, 0.04, cfg.Pricing.RiskFreeRate)
	assert.Equal(t, 0.55, cfg.Pricing.DefaultVolatility)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	// untouched keys keep defaults
	assert.Equal(t, 1000, cfg.Grid.MaxSteps)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPTPNL_RISK_FREE_RATE", "0.03")
	t.Setenv("OPTPNL_SERVER_ADDR", ":7000")
	t.Setenv("OPTPNL_DB_PATH", "/tmp/other.db")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0.03, cfg.Pricing.RiskFreeRate)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/other.db", cfg.Store.Path)
}

func TestLoad_BadEnvRate(t *testing.T) {
	t.Setenv("OPTPNL_RISK_FREE_RATE", "five")

	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[grid]\nsteps = 5000\n"), 0644))

	_, err := Load(dir)
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted step bounds", func(c *Config) { c.Grid.MinSteps, c.Grid.MaxSteps = 500, 100 }},
		{"unknown policy", func(c *Config) { c.Grid.Policy = "wide" }},
		{"negative volatility", func(c *Config) { c.Pricing.DefaultVolatility = -0.1 }},
		{"zero days per year", func(c *Config) { c.Pricing.DaysPerYear = 0 }},
		{"tiny chart", func(c *Config) { c.UI.ChartWidth = 3 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)
		})
	}
}

func TestCheckSteps(t *testing.T) {
	cfg := Default(t.TempDir())
	assert.NoError(t, cfg.CheckSteps(100))
	assert.NoError(t, cfg.CheckSteps(1000))
	assert.ErrorIs(t, cfg.CheckSteps(99), apperrors.ErrInvalidParameter)
	assert.ErrorIs(t, cfg.CheckSteps(1001), apperrors.ErrInvalidParameter)
}
