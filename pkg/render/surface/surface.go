package surface

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sliderule/pkg/errors"
)

// Surface is a canvas-like drawing target. Coordinates are in user space and
// pass through the current transform.
type Surface interface {
	// Size returns the logical width and height the surface was created with.
	Size() (width, height float64)

	ClearRect(x, y, w, h float64)
	Save()
	Restore()
	Translate(x, y float64)
	Scale(sx, sy float64)

	SetStrokeColor(color string)
	SetFillColor(color string)
	SetLineWidth(w float64)
	SetFont(font string)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()

	FillText(text string, x, y float64)
	// MeasureText returns the advance width of text in user space.
	MeasureText(text string) float64
}

// Factory creates a surface of the given logical size. The backing store is
// pixelRatio times larger in each dimension; callers apply the matching
// Scale themselves.
type Factory func(width, height, pixelRatio float64) (Surface, error)

// DefaultFont is the font in effect before any SetFont call.
const DefaultFont = `10px sans-serif`

// Font is a parsed CSS font shorthand such as `12px "Times New Roman", serif`.
type Font struct {
	Size   float64
	Family string
}

// ParseFont extracts the pixel size and family list from a CSS font
// shorthand. Unparseable input falls back to DefaultFont.
func ParseFont(s string) Font {
	fields := strings.Fields(s)
	for i, f := range fields {
		if !strings.HasSuffix(f, "px") {
			continue
		}
		size, err := strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64)
		if err != nil || size <= 0 {
			continue
		}
		family := strings.Join(fields[i+1:], " ")
		if family == "" {
			family = "sans-serif"
		}
		return Font{Size: size, Family: family}
	}
	return Font{Size: 10, Family: "sans-serif"}
}

// MaxPixels bounds the device pixel area of a single surface.
const MaxPixels = 16 << 20

func validateSize(width, height, pixelRatio float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return errors.New(errors.ErrCodeMissingSurface, "surface size %gx%g is invalid", width, height)
	}
	if !(pixelRatio > 0) || math.IsInf(pixelRatio, 0) {
		return errors.New(errors.ErrCodeMissingSurface, "pixel ratio %g is invalid", pixelRatio)
	}
	if area := (width * pixelRatio) * (height * pixelRatio); area > MaxPixels {
		return errors.New(errors.ErrCodeInvalidInput, "surface of %.0f pixels exceeds the limit of %d", area, MaxPixels)
	}
	return nil
}
