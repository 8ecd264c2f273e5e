package models

import (
	"fmt"
	"math"
	"strings"

	apperrors "option-pnl/internal/errors"
)

// ContractSpec describes one option position.
type ContractSpec struct {
	Kind         OptionKind   `json:"kind" yaml:"kind"`
	Side         PositionSide `json:"side" yaml:"side"`
	Strike       float64      `json:"strike" yaml:"strike"`
	Premium      float64      `json:"premium" yaml:"premium"`               // paid if long, received if short
	Volatility   float64      `json:"volatility" yaml:"volatility"`         // annualized, 0 = intrinsic only
	RiskFreeRate float64      `json:"risk_free_rate" yaml:"risk_free_rate"` // continuously compounded
	TimeToExpiry float64      `json:"time_to_expiry" yaml:"time_to_expiry"` // years
}

// Validate checks the contract invariants.
func (c ContractSpec) Validate() error {
	if !c.Kind.Valid() {
		return apperrors.NewUnsupportedError("kind", int(c.Kind), "option kind must be CALL or PUT")
	}
	if !c.Side.Valid() {
		return apperrors.NewUnsupportedError("side", int(c.Side), "position side must be LONG or SHORT")
	}
	if !finite(c.Strike) || c.Strike <= 0 {
		return apperrors.NewValidationError("strike", c.Strike, "must be positive")
	}
	if !finite(c.Premium) || c.Premium < 0 {
		return apperrors.NewValidationError("premium", c.Premium, "must be non-negative")
	}
	if !finite(c.Volatility) || c.Volatility < 0 {
		return apperrors.NewValidationError("volatility", c.Volatility, "must be non-negative")
	}
	if !finite(c.RiskFreeRate) {
		return apperrors.NewValidationError("risk_free_rate", c.RiskFreeRate, "must be finite")
	}
	if !finite(c.TimeToExpiry) || c.TimeToExpiry < 0 {
		return apperrors.NewValidationError("time_to_expiry", c.TimeToExpiry, "must be non-negative")
	}
	return nil
}

// PriceGrid is an evenly spaced, increasing sample of underlying prices.
type PriceGrid struct {
	Min    float64   `json:"min" yaml:"min"`
	Max    float64   `json:"max" yaml:"max"`
	Prices []float64 `json:"prices" yaml:"prices"`
}

// Len returns the number of samples.
func (g PriceGrid) Len() int {
	return len(g.Prices)
}

// PnLCurve holds signed PnL aligned to a PriceGrid.
type PnLCurve struct {
	Prices   []float64 `json:"prices" yaml:"prices"`
	AtExpiry []float64 `json:"pnl_at_expiry" yaml:"pnl_at_expiry"`
	Today    []float64 `json:"pnl_today,omitempty" yaml:"pnl_today,omitempty"`
}

// HasToday reports whether the pre-expiry curve was computed.
func (c PnLCurve) HasToday() bool {
	return c.Today != nil
}

// Band identifies one of the three positional zone bands.
type Band int

const (
	BandLoss Band = iota
	BandBreakeven
	BandProfit

	NumBands
)

// Bands lists the bands from the bottom of the price axis to the top.
var Bands = [...]Band{BandLoss, BandBreakeven, BandProfit}

var bandNames = [NumBands]string{
	BandLoss:      "LOSS",
	BandBreakeven: "BREAKEVEN",
	BandProfit:    "PROFIT",
}

func (b Band) String() string {
	if b < 0 || b >= NumBands {
		return "UNKNOWN"
	}
	return bandNames[b]
}

// MarshalText implements encoding.TextMarshaler.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Band) UnmarshalText(text []byte) error {
	for _, candidate := range Bands {
		if strings.EqualFold(string(text), bandNames[candidate]) {
			*b = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown band %q", string(text))
}

// Interval is a half-open price range [Lo, Hi).
type Interval struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Width returns Hi - Lo.
func (i Interval) Width() float64 {
	return i.Hi - i.Lo
}

// Empty reports whether the interval contains no prices.
func (i Interval) Empty() bool {
	return i.Hi <= i.Lo
}

// Contains reports whether price lies in [Lo, Hi).
func (i Interval) Contains(price float64) bool {
	return price >= i.Lo && price < i.Hi
}

// ZoneBreakdown partitions [Min, Max] into Loss, Breakeven and Profit bands.
type ZoneBreakdown struct {
	BreakEven float64  `json:"break_even" yaml:"break_even"`
	Min       float64  `json:"min" yaml:"min"`
	Max       float64  `json:"max" yaml:"max"`
	Loss      Interval `json:"loss" yaml:"loss"`
	Breakeven Interval `json:"breakeven" yaml:"breakeven"`
	Profit    Interval `json:"profit" yaml:"profit"`
}

// Interval returns the interval for band b.
func (z ZoneBreakdown) Interval(b Band) Interval {
	switch b {
	case BandLoss:
		return z.Loss
	case BandBreakeven:
		return z.Breakeven
	default:
		return z.Profit
	}
}

// Classify returns the band containing price. The top of the axis belongs to
// the profit band; prices outside [Min, Max] report false.
func (z ZoneBreakdown) Classify(price float64) (Band, bool) {
	if price < z.Min || price > z.Max {
		return 0, false
	}
	for _, b := range Bands {
		if z.Interval(b).Contains(price) {
			return b, true
		}
	}
	return BandProfit, true
}

// Bound is a profit or loss limit that may be unbounded.
type Bound struct {
	Value     float64 `json:"value" yaml:"value"`
	Unbounded bool    `json:"unbounded" yaml:"unbounded"`
}

// Extremes holds the best and worst expiry outcomes of a position.
type Extremes struct {
	MaxProfit Bound `json:"max_profit" yaml:"max_profit"`
	MaxLoss   Bound `json:"max_loss" yaml:"max_loss"`
}

// VerticalSpread is a two-leg position of one kind: one short strike and one
// long strike with a single net premium. NetCredit is negative for a debit.
type VerticalSpread struct {
	Kind         OptionKind `json:"kind" yaml:"kind"`
	ShortStrike  float64    `json:"short_strike" yaml:"short_strike"`
	LongStrike   float64    `json:"long_strike" yaml:"long_strike"`
	NetCredit    float64    `json:"net_credit" yaml:"net_credit"`
	Volatility   float64    `json:"volatility" yaml:"volatility"`
	RiskFreeRate float64    `json:"risk_free_rate" yaml:"risk_free_rate"`
	TimeToExpiry float64    `json:"time_to_expiry" yaml:"time_to_expiry"`
}

// Validate checks the spread invariants.
func (s VerticalSpread) Validate() error {
	if !s.Kind.Valid() {
		return apperrors.NewUnsupportedError("kind", int(s.Kind), "option kind must be CALL or PUT")
	}
	if !finite(s.ShortStrike) || s.ShortStrike <= 0 {
		return apperrors.NewValidationError("short_strike", s.ShortStrike, "must be positive")
	}
	if !finite(s.LongStrike) || s.LongStrike <= 0 {
		return apperrors.NewValidationError("long_strike", s.LongStrike, "must be positive")
	}
	if s.ShortStrike == s.LongStrike {
		return apperrors.NewValidationError("long_strike", s.LongStrike, "must differ from short strike")
	}
	if !finite(s.NetCredit) {
		return apperrors.NewValidationError("net_credit", s.NetCredit, "must be finite")
	}
	if !finite(s.Volatility) || s.Volatility < 0 {
		return apperrors.NewValidationError("volatility", s.Volatility, "must be non-negative")
	}
	if !finite(s.RiskFreeRate) {
		return apperrors.NewValidationError("risk_free_rate", s.RiskFreeRate, "must be finite")
	}
	if !finite(s.TimeToExpiry) || s.TimeToExpiry < 0 {
		return apperrors.NewValidationError("time_to_expiry", s.TimeToExpiry, "must be non-negative")
	}
	return nil
}

// Legs returns the short and long legs as single-option contracts with zero
// premium; the spread premium is carried by NetCredit.
func (s VerticalSpread) Legs() (short, long ContractSpec) {
	short = ContractSpec{
		Kind:         s.Kind,
		Side:         Short,
		Strike:       s.ShortStrike,
		Volatility:   s.Volatility,
		RiskFreeRate: s.RiskFreeRate,
		TimeToExpiry: s.TimeToExpiry,
	}
	long = short
	long.Side = Long
	long.Strike = s.LongStrike
	return short, long
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
