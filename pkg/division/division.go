package division

import (
	"math"
	"sort"

	"github.com/matzehuels/sliderule/pkg/errors"
)

// Division names.
const (
	Seconds        = "seconds"
	Fifths         = "fifths"
	Tenths         = "tenths"
	Twentieths     = "twentieths"
	Fiftieths      = "fiftieths"
	Hundredths     = "hundredths"
	TwoHundredths  = "twoHundredths"
	FiveHundredths = "fiveHundredths"
)

// Division is a named tick subdivision.
type Division struct {
	Name string `json:"name"`
	// Divisor is the number of intervals per unit of the scale value.
	Divisor int `json:"divisor"`
	// DefaultHeight is the stroke length in pixels.
	DefaultHeight float64 `json:"height"`
	// DefaultWidth is the stroke width in pixels.
	DefaultWidth float64 `json:"width"`
	// MinPixelSpacing is advisory and not enforced by the renderer.
	MinPixelSpacing float64 `json:"min_pixel_spacing"`
}

var registry = map[string]Division{
	Seconds:        {Name: Seconds, Divisor: 2, DefaultHeight: 12, DefaultWidth: 0.5, MinPixelSpacing: 15},
	Fifths:         {Name: Fifths, Divisor: 5, DefaultHeight: 8, DefaultWidth: 0.5, MinPixelSpacing: 8},
	Tenths:         {Name: Tenths, Divisor: 10, DefaultHeight: 10, DefaultWidth: 0.5, MinPixelSpacing: 5},
	Twentieths:     {Name: Twentieths, Divisor: 20, DefaultHeight: 7, DefaultWidth: 0.5, MinPixelSpacing: 3},
	Fiftieths:      {Name: Fiftieths, Divisor: 50, DefaultHeight: 6, DefaultWidth: 0.5, MinPixelSpacing: 2},
	Hundredths:     {Name: Hundredths, Divisor: 100, DefaultHeight: 4, DefaultWidth: 0.5, MinPixelSpacing: 1.5},
	TwoHundredths:  {Name: TwoHundredths, Divisor: 200, DefaultHeight: 3, DefaultWidth: 0.5, MinPixelSpacing: 1},
	FiveHundredths: {Name: FiveHundredths, Divisor: 500, DefaultHeight: 3, DefaultWidth: 0.5, MinPixelSpacing: 0.8},
}

// Lookup returns the registered division with the given name.
func Lookup(name string) (Division, error) {
	d, ok := registry[name]
	if !ok {
		return Division{}, errors.New(errors.ErrCodeUnknownDivision, "unknown division %q", name)
	}
	return d, nil
}

// Names returns the registered division names ordered by divisor.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return registry[names[i]].Divisor < registry[names[j]].Divisor
	})
	return names
}

// All returns every registered division ordered by divisor.
func All() []Division {
	names := Names()
	divs := make([]Division, len(names))
	for i, name := range names {
		divs[i] = registry[name]
	}
	return divs
}

// StepCount returns how many intervals d cuts [start, end] into.
//
// Ranges starting at 10 or above are the second decade of a two-decade scale,
// where "tenths" means unit steps and "seconds" means steps of five. All other
// cases use width × divisor. A result below 1 means the range gets no ticks.
func StepCount(d Division, start, end float64) int {
	return int(steps(d, start, end))
}

// steps is StepCount before the integer conversion, so that callers can
// bound it without overflowing.
func steps(d Division, start, end float64) float64 {
	width := end - start
	if start >= 10 {
		switch d.Name {
		case Tenths:
			return math.Floor(width)
		case Seconds:
			return math.Floor(width / 5)
		}
	}
	return math.Floor(width * float64(d.Divisor))
}
