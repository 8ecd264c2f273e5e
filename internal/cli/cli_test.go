package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"option-pnl/internal/config"
	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.Store.Path = filepath.Join(t.TempDir(), "history.db")
	app := NewApp(cfg, zerolog.Nop())
	t.Cleanup(func() { app.Close() })
	return app
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(app)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var longCall = []string{"--kind", "call", "--side", "long", "--strike", "100000", "--premium", "2000", "--spot", "104000"}

func withArgs(cmd string, base []string, extra ...string) []string {
	args := append([]string{cmd}, base...)
	return append(args, extra...)
}

func TestCurve_JSON(t *testing.T) {
	app := newTestApp(t)
	out, err := execute(t, app, withArgs("curve", longCall, "--json", "--steps", "200")...)
	require.NoError(t, err)

	var result struct {
		Zones struct {
			BreakEven float64 `json:"break_even"`
		} `json:"zones"`
		Curve struct {
			Prices []float64 `json:"prices"`
			Today  []float64 `json:"pnl_today"`
		} `json:"curve"`
		Spot struct {
			AtExpiry float64 `json:"pnl_at_expiry"`
		} `json:"spot"`
		ShowToday bool `json:"show_today"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, 102000.0, result.Zones.BreakEven)
	assert.Len(t, result.Curve.Prices, 200)
	assert.Equal(t, 2000.0, result.Spot.AtExpiry)
	assert.False(t, result.ShowToday)
	assert.Empty(t, result.Curve.Today)
}

func TestCurve_Text(t *testing.T) {
	app := newTestApp(t)
	out, err := execute(t, app, withArgs("curve", longCall, "--rows", "5")...)
	require.NoError(t, err)

	assert.Contains(t, out, "LONG CALL 100,000.00 @ 2,000.00")
	assert.Contains(t, out, "Break-even:  102,000.00")
	assert.Contains(t, out, "Max profit:  unlimited")
	assert.Contains(t, out, "Max loss:    2,000.00")
	assert.Contains(t, out, "PNL EXPIRY")
	assert.Contains(t, out, "*")
	assert.NotContains(t, out, "\033[", "no color when not a terminal")
}

func TestCurve_TodayWithDays(t *testing.T) {
	app := newTestApp(t)
	out, err := execute(t, app, withArgs("curve", longCall, "--vol", "0.6", "--days", "30", "--json")...)
	require.NoError(t, err)

	var result struct {
		ShowToday bool `json:"show_today"`
		Contract  struct {
			TimeToExpiry float64 `json:"time_to_expiry"`
		} `json:"contract"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.ShowToday)
	assert.InDelta(t, 30.0/365, result.Contract.TimeToExpiry, 1e-12)
}

func TestCurve_ExpiryDates(t *testing.T) {
	app := newTestApp(t)
	out, err := execute(t, app, withArgs("curve", longCall,
		"--vol", "0.6", "--valuation", "2026-01-01", "--expiry", "2026-01-31", "--json")...)
	require.NoError(t, err)

	var result struct {
		Contract models.ContractSpec `json:"contract"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 30.0/365, result.Contract.TimeToExpiry, 1e-12)

	_, err = execute(t, app, withArgs("curve", longCall, "--expiry", "31/01/2026")...)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameter)
}

func TestCurve_Rejections(t *testing.T) {
	app := newTestApp(t)

	_, err := execute(t, app, withArgs("curve", longCall, "--steps", "50")...)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameter)

	_, err = execute(t, app, "curve", "--kind", "straddle", "--strike", "100", "--premium", "5", "--spot", "100")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedCombination)

	_, err = execute(t, app, withArgs("curve", longCall, "--policy", "wide")...)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameter)

	_, err = execute(t, app, "curve", "--kind", "call", "--strike", "100")
	assert.Error(t, err, "spot is required")
}

func TestZones_ShortPut(t *testing.T) {
	app := newTestApp(t)
	args := []string{"zones", "--kind", "put", "--side", "short", "--strike", "100000", "--premium", "2000", "--spot", "104000"}

	out, err := execute(t, app, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "SHORT PUT")
	assert.Contains(t, out, "Break-even 98,000.00")
	assert.Contains(t, out, "OUTCOME")

	out, err = execute(t, app, append(args, "--yaml")...)
	require.NoError(t, err)
	assert.Contains(t, out, "break_even: 98000")
	// bottom band of a short put loses, top band profits
	assert.Contains(t, out, "- band: LOSS\n  outcome: LOSS")
	assert.Contains(t, out, "- band: PROFIT\n  outcome: PROFIT")
}

func TestZonesFromAnalysis_LongPut(t *testing.T) {
	app := newTestApp(t)
	out, err := execute(t, app, "zones", "--kind", "pe", "--strike", "100", "--premium", "5", "--spot", "100", "--json")
	require.NoError(t, err)

	var result zonesResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Zones, 3)
	assert.Equal(t, models.BandProfit, result.Zones[0].Outcome)
	assert.Equal(t, models.BandLoss, result.Zones[2].Outcome)
	assert.Equal(t, 95.0, result.BreakEven)
}

func TestSpread_BullPut(t *testing.T) {
	app := newTestApp(t)
	out, err := execute(t, app, "spread", "--kind", "put", "--short-strike", "98000", "--long-strike", "93000",
		"--credit", "2000", "--spot", "100000", "--json")
	require.NoError(t, err)

	var result struct {
		BreakEven float64         `json:"break_even"`
		Extremes  models.Extremes `json:"extremes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 96000.0, result.BreakEven)
	assert.Equal(t, 2000.0, result.Extremes.MaxProfit.Value)
	assert.Equal(t, 3000.0, result.Extremes.MaxLoss.Value)

	out, err = execute(t, app, "spread", "--kind", "call", "--short-strike", "110", "--long-strike", "100",
		"--debit", "4", "--spot", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "CALL VERTICAL SPREAD")
	assert.Contains(t, out, "Premium:     debit 4.00")
}

func TestSweep(t *testing.T) {
	app := newTestApp(t)
	out, err := execute(t, app, withArgs("sweep", longCall, "--days", "30", "--vols", "0.2,0.4,0.8", "--json")...)
	require.NoError(t, err)

	var rows []sweepRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, 0.2, rows[0].Volatility)
	assert.Equal(t, 0.8, rows[2].Volatility)
	// a long option gains value with volatility
	assert.Less(t, rows[0].PnLToday, rows[1].PnLToday)
	assert.Less(t, rows[1].PnLToday, rows[2].PnLToday)
	assert.Equal(t, 2000.0, rows[0].PnLExpiry)

	_, err = execute(t, app, withArgs("sweep", longCall)...)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameter)
}

func TestSweep_LogsPoolStats(t *testing.T) {
	app := newTestApp(t)
	var logs bytes.Buffer
	app.Logger = zerolog.New(&logs).Level(zerolog.InfoLevel)

	_, err := execute(t, app, withArgs("sweep", longCall, "--days", "30", "--vols", "0.2,0.4", "--json", "--debug")...)
	require.NoError(t, err)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] != "Worker pool stats" {
			continue
		}
		found = true
		assert.Equal(t, "debug", entry["level"])
		assert.Positive(t, entry["workers"])
		assert.Contains(t, entry, "tasks_total")
		assert.Contains(t, entry, "queue_len")
	}
	assert.True(t, found, "pool stats not logged: %s", logs.String())
}

func TestHistory_SaveListShowDelete(t *testing.T) {
	app := newTestApp(t)

	_, err := execute(t, app, withArgs("curve", longCall, "--save", "--label", "btc", "--no-chart", "--rows", "0")...)
	require.NoError(t, err)

	out, err := execute(t, app, "history", "list", "--json")
	require.NoError(t, err)
	var records []models.AnalysisRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "btc", records[0].Label)
	assert.Equal(t, 102000.0, records[0].BreakEven)

	id := records[0].ID
	out, err = execute(t, app, "history", "show", itoa(id))
	require.NoError(t, err)
	assert.Contains(t, out, "LONG CALL")
	assert.Contains(t, out, "Label:       btc")

	out, err = execute(t, app, "history", "list", "--kind", "put")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved analyses")

	_, err = execute(t, app, "history", "delete", itoa(id))
	require.NoError(t, err)

	_, err = execute(t, app, "history", "show", itoa(id))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = execute(t, app, "history", "show", "abc")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameter)
}

func TestHistory_Disabled(t *testing.T) {
	app := newTestApp(t)
	app.Config.Store.Enabled = false

	_, err := execute(t, app, "history", "list")
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestConfigAndVersion(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(t, app, "version", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "version: "+Version)

	out, err = execute(t, app, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	out, err = execute(t, app, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Steps:           500 (allowed 100-1000)")

	out, err = execute(t, app, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(app.Config.Dir, "config.toml"), strings.TrimSpace(out))
}

func TestChart_Render(t *testing.T) {
	app := newTestApp(t)
	var buf bytes.Buffer
	output := &Output{writer: &buf}

	c := chart{
		Width:   10,
		Height:  5,
		Prices:  []float64{90, 95, 100, 105, 110},
		Expiry:  []float64{-5, -5, -5, 0, 5},
		Outcome: outcomeBySign,
	}
	c.Render(output, app.Format.Price)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5+2)
	assert.True(t, strings.HasPrefix(lines[0], " 5.00 |"), lines[0])
	assert.True(t, strings.HasPrefix(lines[2], " 0.00 |---*"), lines[2])
	assert.Contains(t, lines[len(lines)-1], "90.00")
	assert.Contains(t, lines[len(lines)-1], "110.00")
	// the top row holds the last sample only
	assert.True(t, strings.HasSuffix(lines[0], "    *"), lines[0])
}

func TestSampleIndexes(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4}, sampleIndexes(5, 3))
	assert.Equal(t, []int{0, 1, 2}, sampleIndexes(3, 10))
	assert.Equal(t, []int{0}, sampleIndexes(5, 1))
}

func TestVisibleLen(t *testing.T) {
	assert.Equal(t, 5, visibleLen("\033[32mhello\033[0m"))
	assert.Equal(t, 3, visibleLen("abc"))
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
