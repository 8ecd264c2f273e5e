package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
	"option-pnl/internal/payoff"
)

var errHistoryDisabled = apperrors.Wrap(apperrors.ErrConfigInvalid, "history store is disabled ([store] enabled = false)")

// addTimeFlags registers the volatility, rate and expiry flags shared by
// single-option and spread commands.
func addTimeFlags(flags *pflag.FlagSet) {
	flags.Float64("vol", 0, "annualized volatility, e.g. 0.6 (default from config)")
	flags.Float64("rate", 0, "risk-free rate, e.g. 0.05 (default from config)")
	flags.String("expiry", "", "expiry date (config date_format)")
	flags.String("valuation", "", "valuation date (default today)")
	flags.Float64("days", 0, "days to expiry; overrides --expiry")
	flags.Float64("spot", 0, "current underlying price (required)")
	flags.Int("steps", 0, "price samples (default from config)")
	flags.String("policy", "", "price axis policy: auto, put, call, symmetric, spot")
	flags.Bool("today", false, "include the theoretical curve for today")
}

// addContractFlags registers the single-option contract flags.
func addContractFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("kind", "", "option kind: call|put (CE/PE accepted)")
	flags.String("side", "long", "position side: long|short (buy/sell accepted)")
	flags.Float64("strike", 0, "strike price")
	flags.Float64("premium", 0, "premium paid or received per unit")
	flags.Float64("min", 0, "explicit lower bound of the price axis")
	flags.Float64("max", 0, "explicit upper bound of the price axis")
	addTimeFlags(flags)

	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("strike")
	_ = cmd.MarkFlagRequired("spot")
}

// pricingInputs holds the resolved volatility, rate and time to expiry.
type pricingInputs struct {
	Volatility   float64
	RiskFreeRate float64
	TimeToExpiry float64
	Spot         float64
	Steps        int
	Policy       models.BoundsPolicy
	ShowToday    bool
}

func (a *App) pricingFromFlags(cmd *cobra.Command) (pricingInputs, error) {
	flags := cmd.Flags()
	var in pricingInputs

	in.Volatility, _ = flags.GetFloat64("vol")
	if !flags.Changed("vol") {
		in.Volatility = a.Config.Pricing.DefaultVolatility
	}
	in.RiskFreeRate, _ = flags.GetFloat64("rate")
	if !flags.Changed("rate") {
		in.RiskFreeRate = a.Config.Pricing.RiskFreeRate
	}

	t, err := a.timeToExpiry(cmd)
	if err != nil {
		return in, err
	}
	in.TimeToExpiry = t

	in.Spot, _ = flags.GetFloat64("spot")

	in.Steps, _ = flags.GetInt("steps")
	if in.Steps == 0 {
		in.Steps = a.Config.Grid.Steps
	}
	if err := a.Config.CheckSteps(in.Steps); err != nil {
		return in, err
	}

	policyName, _ := flags.GetString("policy")
	if policyName == "" {
		in.Policy = a.Config.BoundsPolicy()
	} else {
		policy, ok := models.ParseBoundsPolicy(policyName)
		if !ok {
			return in, apperrors.NewValidationError("policy", policyName, "expected auto, put, call, symmetric or spot")
		}
		in.Policy = policy
	}

	in.ShowToday, _ = flags.GetBool("today")
	if !flags.Changed("today") {
		in.ShowToday = in.Volatility > 0 && in.TimeToExpiry > 0
	}
	return in, nil
}

func (a *App) timeToExpiry(cmd *cobra.Command) (float64, error) {
	flags := cmd.Flags()
	daysPerYear := a.Config.Pricing.DaysPerYear

	if flags.Changed("days") {
		days, _ := flags.GetFloat64("days")
		if days < 0 {
			return 0, apperrors.NewValidationError("days", days, "must be non-negative")
		}
		return days / daysPerYear, nil
	}

	expiryStr, _ := flags.GetString("expiry")
	if expiryStr == "" {
		return 0, nil
	}
	layout := a.Config.UI.DateFormat
	expiry, err := time.ParseInLocation(layout, expiryStr, time.Local)
	if err != nil {
		return 0, apperrors.NewValidationError("expiry", expiryStr, fmt.Sprintf("expected date like %s", layout))
	}

	valuation := time.Now()
	if v, _ := flags.GetString("valuation"); v != "" {
		valuation, err = time.ParseInLocation(layout, v, time.Local)
		if err != nil {
			return 0, apperrors.NewValidationError("valuation", v, fmt.Sprintf("expected date like %s", layout))
		}
	}
	return payoff.TimeToExpiry(valuation, expiry, daysPerYear), nil
}

// requestFromFlags builds a validated single-option request.
func (a *App) requestFromFlags(cmd *cobra.Command) (payoff.Request, error) {
	flags := cmd.Flags()

	kindStr, _ := flags.GetString("kind")
	kind, ok := models.ParseOptionKind(kindStr)
	if !ok {
		return payoff.Request{}, apperrors.NewUnsupportedError("kind", kindStr, "expected call or put")
	}
	sideStr, _ := flags.GetString("side")
	side, ok := models.ParsePositionSide(sideStr)
	if !ok {
		return payoff.Request{}, apperrors.NewUnsupportedError("side", sideStr, "expected long or short")
	}

	in, err := a.pricingFromFlags(cmd)
	if err != nil {
		return payoff.Request{}, err
	}

	strike, _ := flags.GetFloat64("strike")
	premium, _ := flags.GetFloat64("premium")
	priceMin, _ := flags.GetFloat64("min")
	priceMax, _ := flags.GetFloat64("max")

	req := payoff.Request{
		Contract: models.ContractSpec{
			Kind:         kind,
			Side:         side,
			Strike:       strike,
			Premium:      premium,
			Volatility:   in.Volatility,
			RiskFreeRate: in.RiskFreeRate,
			TimeToExpiry: in.TimeToExpiry,
		},
		Spot:      in.Spot,
		Steps:     in.Steps,
		Policy:    in.Policy,
		PriceMin:  priceMin,
		PriceMax:  priceMax,
		ShowToday: in.ShowToday,
	}
	return req, req.Validate()
}
