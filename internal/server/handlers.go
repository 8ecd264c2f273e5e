package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/logging"
	"option-pnl/internal/models"
	"option-pnl/internal/payoff"
)

const maxBodyBytes = 1 << 20

// pricingBody carries the model inputs shared by curve and spread requests.
type pricingBody struct {
	Volatility   *float64 `json:"volatility"`
	RiskFreeRate *float64 `json:"rate"`
	Days         *float64 `json:"days"`
	Expiry       string   `json:"expiry"`
	Valuation    string   `json:"valuation"`
	Spot         float64  `json:"spot"`
	Steps        int      `json:"steps"`
	Policy       string   `json:"policy"`
	ShowToday    *bool    `json:"show_today"`
}

type curveBody struct {
	Kind     string  `json:"kind"`
	Side     string  `json:"side"`
	Strike   float64 `json:"strike"`
	Premium  float64 `json:"premium"`
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
	pricingBody
}

type spreadBody struct {
	Kind        string  `json:"kind"`
	ShortStrike float64 `json:"short_strike"`
	LongStrike  float64 `json:"long_strike"`
	NetCredit   float64 `json:"net_credit"`
	pricingBody
}

type resolvedPricing struct {
	volatility, rate, timeToExpiry float64
	steps                          int
	policy                         models.BoundsPolicy
	showToday                      bool
}

func (s *Server) resolvePricing(b pricingBody) (resolvedPricing, error) {
	p := resolvedPricing{
		volatility: s.cfg.Pricing.DefaultVolatility,
		rate:       s.cfg.Pricing.RiskFreeRate,
		steps:      b.Steps,
	}
	if b.Volatility != nil {
		p.volatility = *b.Volatility
	}
	if b.RiskFreeRate != nil {
		p.rate = *b.RiskFreeRate
	}

	daysPerYear := s.cfg.Pricing.DaysPerYear
	switch {
	case b.Days != nil:
		if *b.Days < 0 {
			return p, apperrors.NewValidationError("days", *b.Days, "must be non-negative")
		}
		p.timeToExpiry = *b.Days / daysPerYear
	case b.Expiry != "":
		expiry, err := time.Parse(s.cfg.UI.DateFormat, b.Expiry)
		if err != nil {
			return p, apperrors.NewValidationError("expiry", b.Expiry, "expected date like "+s.cfg.UI.DateFormat)
		}
		valuation := time.Now()
		if b.Valuation != "" {
			if valuation, err = time.Parse(s.cfg.UI.DateFormat, b.Valuation); err != nil {
				return p, apperrors.NewValidationError("valuation", b.Valuation, "expected date like "+s.cfg.UI.DateFormat)
			}
		}
		p.timeToExpiry = payoff.TimeToExpiry(valuation, expiry, daysPerYear)
	}

	if p.steps == 0 {
		p.steps = s.cfg.Grid.Steps
	}
	if err := s.cfg.CheckSteps(p.steps); err != nil {
		return p, err
	}

	if b.Policy == "" {
		p.policy = s.cfg.BoundsPolicy()
	} else {
		policy, ok := models.ParseBoundsPolicy(b.Policy)
		if !ok {
			return p, apperrors.NewValidationError("policy", b.Policy, "expected auto, put, call, symmetric or spot")
		}
		p.policy = policy
	}

	p.showToday = p.volatility > 0 && p.timeToExpiry > 0
	if b.ShowToday != nil {
		p.showToday = *b.ShowToday
	}
	return p, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	var body curveBody
	if !decodeBody(w, r, &body) {
		return
	}

	kind, ok := models.ParseOptionKind(body.Kind)
	if !ok {
		s.writeError(w, r, apperrors.NewUnsupportedError("kind", body.Kind, "expected call or put"))
		return
	}
	if body.Side == "" {
		body.Side = "long"
	}
	side, ok := models.ParsePositionSide(body.Side)
	if !ok {
		s.writeError(w, r, apperrors.NewUnsupportedError("side", body.Side, "expected long or short"))
		return
	}
	p, err := s.resolvePricing(body.pricingBody)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req := payoff.Request{
		Contract: models.ContractSpec{
			Kind:         kind,
			Side:         side,
			Strike:       body.Strike,
			Premium:      body.Premium,
			Volatility:   p.volatility,
			RiskFreeRate: p.rate,
			TimeToExpiry: p.timeToExpiry,
		},
		Spot:      body.Spot,
		Steps:     p.steps,
		Policy:    p.policy,
		PriceMin:  body.PriceMin,
		PriceMax:  body.PriceMax,
		ShowToday: p.showToday,
	}

	start := time.Now()
	analysis, err := payoff.Analyze(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logging.LogAnalysis(logging.WithContract(logging.FromContext(r.Context()), req.Contract),
		analysis.Policy, analysis.Grid.Len(), analysis.Zones.BreakEven, time.Since(start))

	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleSpread(w http.ResponseWriter, r *http.Request) {
	var body spreadBody
	if !decodeBody(w, r, &body) {
		return
	}

	kind, ok := models.ParseOptionKind(body.Kind)
	if !ok {
		s.writeError(w, r, apperrors.NewUnsupportedError("kind", body.Kind, "expected call or put"))
		return
	}
	p, err := s.resolvePricing(body.pricingBody)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	analysis, err := payoff.AnalyzeSpread(payoff.SpreadRequest{
		Spread: models.VerticalSpread{
			Kind:         kind,
			ShortStrike:  body.ShortStrike,
			LongStrike:   body.LongStrike,
			NetCredit:    body.NetCredit,
			Volatility:   p.volatility,
			RiskFreeRate: p.rate,
			TimeToExpiry: p.timeToExpiry,
		},
		Spot:      body.Spot,
		Steps:     p.steps,
		Policy:    p.policy,
		ShowToday: p.showToday,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

type breakEvenResponse struct {
	Kind      models.OptionKind `json:"kind"`
	Strike    float64           `json:"strike"`
	Premium   float64           `json:"premium"`
	BreakEven float64           `json:"break_even"`
}

func (s *Server) handleBreakEven(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind, ok := models.ParseOptionKind(q.Get("kind"))
	if !ok {
		s.writeError(w, r, apperrors.NewUnsupportedError("kind", q.Get("kind"), "expected call or put"))
		return
	}
	strike, err := strconv.ParseFloat(q.Get("strike"), 64)
	if err != nil {
		s.writeError(w, r, apperrors.NewValidationError("strike", q.Get("strike"), "expected a number"))
		return
	}
	premium, err := strconv.ParseFloat(q.Get("premium"), 64)
	if err != nil {
		s.writeError(w, r, apperrors.NewValidationError("premium", q.Get("premium"), "expected a number"))
		return
	}

	spec := models.ContractSpec{Kind: kind, Side: models.Long, Strike: strike, Premium: premium}
	if err := spec.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, breakEvenResponse{
		Kind:      kind,
		Strike:    strike,
		Premium:   premium,
		BreakEven: payoff.BreakEven(strike, premium, kind),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if apperrors.IsValidation(err) {
		status = http.StatusBadRequest
	} else {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
