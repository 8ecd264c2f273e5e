package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"option-pnl/internal/config"
)

func newTestServer(t *testing.T) (*Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	cfg := config.Default(t.TempDir())
	return New(cfg, zerolog.New(&logs)), &logs
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s, logs := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.Contains(t, logs.String(), `"path":"/healthz"`)
}

func TestCurve_LongCall(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/curve",
		`{"kind":"call","side":"long","strike":100000,"premium":2000,"spot":104000,"steps":200}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	out := decode(t, rec)
	zones := out["zones"].(map[string]interface{})
	assert.Equal(t, 102000.0, zones["break_even"])

	curve := out["curve"].(map[string]interface{})
	prices := curve["prices"].([]interface{})
	assert.Len(t, prices, 200)
	assert.NotContains(t, curve, "pnl_today")

	spot := out["spot"].(map[string]interface{})
	assert.Equal(t, 2000.0, spot["pnl_at_expiry"])
	assert.Equal(t, "call", out["policy"])
}

func TestCurve_WithToday(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/curve",
		`{"kind":"put","side":"short","strike":100,"premium":5,"spot":100,"volatility":0.2,"rate":0.05,"days":365}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, true, out["show_today"])
	curve := out["curve"].(map[string]interface{})
	assert.Len(t, curve["pnl_today"].([]interface{}), 500)
}

func TestCurve_ValidationErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"unknown kind", `{"kind":"straddle","strike":100,"premium":5,"spot":100}`},
		{"unknown side", `{"kind":"call","side":"flat","strike":100,"premium":5,"spot":100}`},
		{"negative strike", `{"kind":"call","strike":-100,"premium":5,"spot":100}`},
		{"negative volatility", `{"kind":"call","strike":100,"premium":5,"spot":100,"volatility":-0.2}`},
		{"steps out of range", `{"kind":"call","strike":100,"premium":5,"spot":100,"steps":5}`},
		{"bad policy", `{"kind":"call","strike":100,"premium":5,"spot":100,"policy":"wide"}`},
		{"inverted bounds", `{"kind":"call","strike":100,"premium":5,"spot":100,"price_min":120,"price_max":80}`},
		{"bad expiry", `{"kind":"call","strike":100,"premium":5,"spot":100,"expiry":"next friday"}`},
		{"unknown field", `{"kind":"call","strike":100,"premium":5,"spot":100,"delta":0.5}`},
		{"malformed", `{"kind":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/curve", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestSpread_BullPut(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/spread",
		`{"kind":"put","short_strike":98000,"long_strike":93000,"net_credit":2000,"spot":100000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, 96000.0, out["break_even"])
	assert.Equal(t, true, out["has_break_even"])
	extremes := out["extremes"].(map[string]interface{})
	assert.Equal(t, 2000.0, extremes["max_profit"].(map[string]interface{})["value"])
	assert.Equal(t, 3000.0, extremes["max_loss"].(map[string]interface{})["value"])
}

func TestSpread_SameStrikes(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/spread",
		`{"kind":"put","short_strike":98000,"long_strike":98000,"net_credit":2000,"spot":100000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBreakEven(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/breakeven?kind=put&strike=100000&premium=2000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, 98000.0, out["break_even"])
	assert.Equal(t, "PUT", out["kind"])

	rec = do(t, s, http.MethodGet, "/api/v1/breakeven?kind=CE&strike=100&premium=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 105.0, decode(t, rec)["break_even"])

	rec = do(t, s, http.MethodGet, "/api/v1/breakeven?kind=call&strike=abc&premium=5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/breakeven?kind=call&strike=0&premium=5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/curve", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestLogging(t *testing.T) {
	s, logs := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/curve", `{"kind":"nope"}`)

	assert.Contains(t, logs.String(), `"status":400`)
	assert.Contains(t, logs.String(), `"level":"warn"`)
}
