package sink

import (
	"github.com/matzehuels/sliderule/pkg/render/strip"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// Palette for the instrument body.
const (
	statorFill     = "#f4ead5"
	slideFill      = "#fbf5e6"
	bodyStroke     = "#8a7a5a"
	labelColor     = "#3a2a1a"
	cursorFill     = "#dfe8f0"
	cursorStroke   = "#6a7f92"
	hairline       = "#b22222"
	labelFont      = `12px "Times New Roman", Times, serif`
	labelSize      = 12.0
	readoutSize    = 11.0
	labelInset     = 6.0
	secondaryInset = 22.0
	cursorAlpha    = 0.35
)

func componentFill(c sliderule.Component) string {
	if c == sliderule.Slide {
		return slideFill
	}
	return statorFill
}

// offsets returns the top edge of every component.
func offsets(l sliderule.Layout) map[sliderule.Component]float64 {
	return map[sliderule.Component]float64{
		sliderule.UpperStator: 0,
		sliderule.Slide:       l.UpperStatorHeight,
		sliderule.LowerStator: l.UpperStatorHeight + l.SlideHeight,
	}
}

// slideOffset returns the horizontal shift of component c.
func slideOffset(l sliderule.Layout, c sliderule.Component) float64 {
	if c == sliderule.Slide {
		return l.SlidePosition
	}
	return 0
}

// labelBaseline returns the baseline of a scale label inside its component.
func labelBaseline(lb sliderule.Label, slotHeight float64) float64 {
	top := float64(lb.Slot) * slotHeight
	if lb.Orientation == strip.Top {
		return top + labelSize + 2
	}
	return top + slotHeight - 4
}
