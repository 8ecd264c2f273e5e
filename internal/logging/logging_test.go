package logging

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"option-pnl/internal/config"
	"option-pnl/internal/models"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestNewLoggerWithConfig_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: "warn", Console: true, Out: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerWithConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "optpnl.log")
	logger := NewLoggerWithConfig(LogConfig{
		Level:    "info",
		File:     true,
		FilePath: path,
		MaxSize:  1,
	})

	logger.Info().Msg("to file")
	assert.FileExists(t, path)
}

func TestFromAppConfig(t *testing.T) {
	cfg := config.Default(t.TempDir())
	lc := FromAppConfig(cfg.Logging)
	assert.Equal(t, cfg.Logging.Level, lc.Level)
	assert.Equal(t, cfg.Logging.FilePath, lc.FilePath)
	assert.Equal(t, 20, lc.MaxSize)
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	ctxLogger := FromContext(ctx)
	ctxLogger.Info().Msg("via context")
	assert.Contains(t, buf.String(), "via context")

	// missing logger yields a no-op logger
	nop := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, nop.GetLevel())
}

func TestFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	spec := models.ContractSpec{Kind: models.Put, Side: models.Short, Strike: 100, Premium: 5}
	l := WithContract(WithOperation(logger, "curve"), spec)
	LogAnalysis(l, models.PolicyPutDominant, 500, 95, time.Millisecond)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"operation":"curve"`)
	assert.Contains(t, out, `"kind":"PUT"`)
	assert.Contains(t, out, `"side":"SHORT"`)
	assert.Contains(t, out, `"samples":500`)
	assert.Contains(t, out, `"break_even":95`)
}

func TestLogRequest_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogRequest(logger, "POST", "/api/v1/curve", 400, time.Millisecond)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	LogRequest(logger, "GET", "/healthz", 200, time.Millisecond)
	assert.Contains(t, buf.String(), `"level":"info"`)
}
