package surface

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// metricsFace is the reference face for all text measurement.
var metricsFace = basicfont.Face7x13

// TextWidth returns the advance width of text set at size pixels. Widths are
// taken from the 7x13 bitmap face and scaled linearly, so every backend
// agrees on label placement.
func TextWidth(text string, size float64) float64 {
	adv := font.MeasureString(metricsFace, text)
	return float64(adv) / 64 * size / float64(metricsFace.Height)
}
