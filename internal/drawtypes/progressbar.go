package drawtypes

import (
	"strings"

	"github.com/polybar-go/bard/internal/element"
)

// ProgressBar renders a percentage as a sequence of fill/empty/indicator
// label texts. Output returns plain text with no color tags. When a palette
// is installed, Output picks colors either uniformly (bucketed by
// percentage) or as a gradient stepped across the fill width, but only
// records the choice in Fill.Foreground, which after Output holds the last
// color picked.
type ProgressBar struct {
	Format   string // e.g. "%fill%%indicator%%empty%"
	Width    int
	Gradient bool
	Colors   []element.Color

	Fill      *Label
	Empty     *Label
	Indicator *Label

	colorStep int
}

// NewProgressBar returns a ProgressBar of the given width using format as
// the token template.
func NewProgressBar(width int, format string) *ProgressBar {
	return &ProgressBar{Width: width, Format: format, colorStep: 1}
}

// SetIndicator installs the indicator label. The first indicator set
// reserves one column of Width for it, matching the source's "indicator
// eats a fill/empty slot" behavior.
func (p *ProgressBar) SetIndicator(indicator *Label) {
	if p.Indicator == nil && indicator != nil && indicator.IsSet() {
		p.Width--
	}
	p.Indicator = indicator
}

// SetColors installs the fill color palette and recomputes the gradient
// step width.
func (p *ProgressBar) SetColors(colors []element.Color) {
	p.Colors = colors
	if len(colors) == 0 {
		p.colorStep = 1
		return
	}
	p.colorStep = p.Width / len(colors)
	if p.colorStep == 0 {
		p.colorStep = 1
	}
}

// Output renders the bar for percentage (clamped to [0,100]).
func (p *ProgressBar) Output(percentage float64) string {
	perc := clampPercent(percentage)
	fillWidth := percentageToValue(perc, p.Width)
	emptyWidth := p.Width - fillWidth

	out := p.Format
	out = strings.ReplaceAll(out, "%fill%", p.renderFill(perc, fillWidth))

	indicatorOut := ""
	if p.Indicator != nil {
		indicatorOut = p.Indicator.GetText()
	}
	out = strings.ReplaceAll(out, "%indicator%", indicatorOut)

	emptyOut := ""
	if p.Empty != nil {
		emptyText := p.Empty.GetText()
		emptyOut = strings.Repeat(emptyText, emptyWidth)
	}
	out = strings.ReplaceAll(out, "%empty%", emptyOut)

	return out
}

func (p *ProgressBar) renderFill(perc, fillWidth int) string {
	if p.Fill == nil {
		return ""
	}
	if len(p.Colors) == 0 {
		return strings.Repeat(p.Fill.GetText(), fillWidth)
	}

	var b strings.Builder
	if p.Gradient {
		color := 0
		for i := 0; i < fillWidth; i++ {
			if i%p.colorStep == 0 && color < len(p.Colors) {
				p.Fill.Foreground = p.Colors[color]
				color++
			}
			b.WriteString(p.Fill.GetText())
		}
		return b.String()
	}

	idx := percentageToValue(perc, len(p.Colors)-1)
	p.Fill.Foreground = p.Colors[idx]
	for i := 0; i < fillWidth; i++ {
		b.WriteString(p.Fill.GetText())
	}
	return b.String()
}

func clampPercent(p float64) int {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return int(p)
}

// percentageToValue maps a 0..100 percentage onto the integer range
// [0, max], rounding to the nearest value.
func percentageToValue(percentage, max int) int {
	if max <= 0 {
		return 0
	}
	v := (percentage*max + 50) / 100
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}
