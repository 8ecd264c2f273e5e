// Package utils provides shared number formatting helpers.
package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Grouping selects how integer digits are separated.
type Grouping int

const (
	// GroupThousands separates every three digits: 1,234,567.
	GroupThousands Grouping = iota
	// GroupIndian uses lakh and crore groups: 12,34,567.
	GroupIndian
)

// ParseGrouping parses "thousands" or "indian"; anything else is thousands.
func ParseGrouping(s string) Grouping {
	if strings.EqualFold(strings.TrimSpace(s), "indian") {
		return GroupIndian
	}
	return GroupThousands
}

// Formatter renders prices and PnL amounts with fixed decimal places.
type Formatter struct {
	Decimals int32
	Symbol   string
	Grouping Grouping
}

// NewFormatter creates a formatter for the given precision and currency symbol.
func NewFormatter(decimals int32, symbol string, grouping Grouping) Formatter {
	if decimals < 0 {
		decimals = 0
	}
	return Formatter{Decimals: decimals, Symbol: symbol, Grouping: grouping}
}

// Round rounds v half away from zero to the formatter precision.
func (f Formatter) Round(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(f.Decimals).Float64()
	return r
}

// Price formats a price: symbol, grouped digits, fixed decimals.
func (f Formatter) Price(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	d := decimal.NewFromFloat(v).Round(f.Decimals)
	neg := d.IsNegative()
	body := f.group(d.Abs().StringFixed(f.Decimals))
	if neg {
		return "-" + f.Symbol + body
	}
	return f.Symbol + body
}

// PnL formats a profit or loss with an explicit sign.
func (f Formatter) PnL(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	d := decimal.NewFromFloat(v).Round(f.Decimals)
	if d.IsPositive() {
		return "+" + f.Price(v)
	}
	if d.IsZero() {
		// avoid "-0.00"
		return f.Price(0)
	}
	return f.Price(v)
}

// Percent formats a percentage with sign.
func Percent(value float64) string {
	d := decimal.NewFromFloat(value).Round(2)
	sign := ""
	if d.IsPositive() {
		sign = "+"
	}
	return sign + d.StringFixed(2) + "%"
}

// RoundToTick rounds price to the nearest multiple of tick. A non-positive
// tick returns price unchanged.
func RoundToTick(price, tick float64) float64 {
	if !(tick > 0) || math.IsNaN(price) || math.IsInf(price, 0) {
		return price
	}
	t := decimal.NewFromFloat(tick)
	r, _ := decimal.NewFromFloat(price).Div(t).Round(0).Mul(t).Float64()
	return r
}

func (f Formatter) group(fixed string) string {
	intPart, decPart, hasDec := strings.Cut(fixed, ".")
	switch f.Grouping {
	case GroupIndian:
		intPart = groupIndian(intPart)
	default:
		intPart = groupThousands(intPart)
	}
	if hasDec {
		return intPart + "." + decPart
	}
	return intPart
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// groupIndian formats an integer string in the Indian numbering system.
func groupIndian(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	// First group of 3 from right
	result := s[n-3:]
	s = s[:n-3]

	// Then groups of 2
	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "n/a", true
	case math.IsInf(v, 1):
		return "unbounded", true
	case math.IsInf(v, -1):
		return "-unbounded", true
	}
	return "", false
}
