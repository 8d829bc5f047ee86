package surface

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"brown":       {165, 42, 42, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor converts a CSS hex colour (#rgb or #rrggbb) or a basic colour
// name to RGBA. Unknown input yields opaque black.
func ParseColor(s string) color.RGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{A: 255}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// hexColor normalizes a colour for SVG attributes.
func hexColor(s string) string {
	c := ParseColor(s)
	if c.A == 0 {
		return "none"
	}
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
