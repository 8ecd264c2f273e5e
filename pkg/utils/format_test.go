package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatter_Price(t *testing.T) {
	f := NewFormatter(2, "$", GroupThousands)

	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{999.999, "$1,000.00"},
		{104000, "$104,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-2000, "-$2,000.00"},
		{math.Inf(1), "unbounded"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Price(tt.in), "Price(%v)", tt.in)
	}
}

func TestFormatter_IndianGrouping(t *testing.T) {
	f := NewFormatter(2, "", GroupIndian)
	assert.Equal(t, "12,34,567.00", f.Price(1234567))
	assert.Equal(t, "1,00,000.00", f.Price(100000))
	assert.Equal(t, "999.00", f.Price(999))
}

func TestFormatter_ZeroDecimals(t *testing.T) {
	f := NewFormatter(0, "", GroupThousands)
	assert.Equal(t, "102,000", f.Price(101999.6))
	assert.Equal(t, "-3,000", f.PnL(-3000))
}

func TestFormatter_PnL(t *testing.T) {
	f := NewFormatter(2, "", GroupThousands)
	assert.Equal(t, "+2,000.00", f.PnL(2000))
	assert.Equal(t, "-3,000.00", f.PnL(-3000))
	assert.Equal(t, "0.00", f.PnL(-0.001))
	assert.Equal(t, "0.00", f.PnL(0))
}

func TestFormatter_Round(t *testing.T) {
	f := NewFormatter(2, "", GroupThousands)
	assert.Equal(t, 10.45, f.Round(10.450583572185565))
	assert.Equal(t, 5.57, f.Round(5.573526022256971))
	assert.Equal(t, -1.24, f.Round(-1.235))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "+5.25%", Percent(5.25))
	assert.Equal(t, "-1.50%", Percent(-1.5))
	assert.Equal(t, "0.00%", Percent(0))
}

func TestRoundToTick(t *testing.T) {
	assert.Equal(t, 100.05, RoundToTick(100.04, 0.05))
	assert.Equal(t, 104000.0, RoundToTick(103987, 50))
	assert.Equal(t, 7.3, RoundToTick(7.3, 0))
	assert.True(t, math.IsNaN(RoundToTick(math.NaN(), 0.05)))
}

func TestParseGrouping(t *testing.T) {
	assert.Equal(t, GroupIndian, ParseGrouping("Indian"))
	assert.Equal(t, GroupThousands, ParseGrouping("thousands"))
	assert.Equal(t, GroupThousands, ParseGrouping(""))
}
