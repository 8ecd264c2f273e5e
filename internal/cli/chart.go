package cli

import (
	"math"
	"strings"

	"github.com/fatih/color"

	"option-pnl/internal/models"
)

const (
	glyphExpiry = '*'
	glyphToday  = '.'
	glyphAxis   = '-'
)

// chart is an ASCII rendering of one or two PnL series over a price axis.
type chart struct {
	Width  int
	Height int
	Prices []float64
	Expiry []float64
	Today  []float64
	// Outcome classifies a column for shading; nil leaves the chart plain.
	Outcome func(price, pnl float64) models.Band
}

var bandColors = [models.NumBands]*color.Color{
	models.BandLoss:      color.New(color.FgRed),
	models.BandBreakeven: color.New(color.FgYellow),
	models.BandProfit:    color.New(color.FgGreen),
}

// outcomeBySign shades a column by the sign of its expiry PnL.
func outcomeBySign(_, pnl float64) models.Band {
	switch {
	case pnl > 0:
		return models.BandProfit
	case pnl < 0:
		return models.BandLoss
	}
	return models.BandBreakeven
}

// Render writes the chart with y labels on the left and the price range
// underneath.
func (c chart) Render(o *Output, label func(float64) string) {
	n := len(c.Prices)
	if n == 0 || c.Width < 2 || c.Height < 2 {
		return
	}
	cols := c.Width
	if cols > n {
		cols = n
	}
	index := make([]int, cols)
	for j := range index {
		if cols > 1 {
			index[j] = j * (n - 1) / (cols - 1)
		}
	}

	yMin, yMax := 0.0, 0.0
	for _, series := range [][]float64{c.Expiry, c.Today} {
		for _, i := range index {
			if i < len(series) {
				yMin = math.Min(yMin, series[i])
				yMax = math.Max(yMax, series[i])
			}
		}
	}
	if yMax == yMin {
		yMax, yMin = yMax+1, yMin-1
	}
	rowOf := func(v float64) int {
		return int(math.Round((yMax - v) / (yMax - yMin) * float64(c.Height-1)))
	}

	cells := make([][]rune, c.Height)
	for r := range cells {
		cells[r] = []rune(strings.Repeat(" ", cols))
	}
	zeroRow := rowOf(0)
	for j := range cells[zeroRow] {
		cells[zeroRow][j] = glyphAxis
	}
	plot := func(series []float64, glyph rune) {
		for j, i := range index {
			if i < len(series) {
				cells[rowOf(series[i])][j] = glyph
			}
		}
	}
	plot(c.Today, glyphToday)
	plot(c.Expiry, glyphExpiry)

	top, zero, bottom := label(yMax), label(0), label(yMin)
	labelWidth := max(visibleLen(top), visibleLen(zero), visibleLen(bottom))

	for r, row := range cells {
		lbl := ""
		switch r {
		case 0:
			lbl = top
		case zeroRow:
			lbl = zero
		case c.Height - 1:
			lbl = bottom
		}
		o.Printf("%s |%s\n", padLeft(lbl, labelWidth), c.paintRow(o, row, index))
	}

	lo, hi := label(c.Prices[0]), label(c.Prices[n-1])
	gap := cols - visibleLen(lo) - visibleLen(hi)
	if gap < 1 {
		gap = 1
	}
	o.Printf("%s +%s\n", strings.Repeat(" ", labelWidth), strings.Repeat("-", cols))
	o.Printf("%s  %s%s%s\n", strings.Repeat(" ", labelWidth), lo, strings.Repeat(" ", gap), hi)
}

func (c chart) paintRow(o *Output, row []rune, index []int) string {
	if c.Outcome == nil || !o.colorEnabled {
		return string(row)
	}
	var b strings.Builder
	for j, r := range row {
		if r == ' ' || r == glyphAxis {
			b.WriteRune(r)
			continue
		}
		i := index[j]
		pnl := 0.0
		if i < len(c.Expiry) {
			pnl = c.Expiry[i]
		}
		b.WriteString(o.paint(bandColors[c.Outcome(c.Prices[i], pnl)], string(r)))
	}
	return b.String()
}

func padLeft(s string, width int) string {
	if n := visibleLen(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

