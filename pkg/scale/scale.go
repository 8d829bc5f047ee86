package scale

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/sliderule/pkg/errors"
)

// Kind identifies the mapping used by a scale.
type Kind int

const (
	// KindUnknown is the zero Kind. Conversions on it fail with UNSUPPORTED_SCALE.
	KindUnknown Kind = iota
	// Logarithmic maps log10(value) linearly onto the axis.
	Logarithmic
	// Linear maps value linearly onto the axis.
	Linear
)

// String returns the configuration spelling of k.
func (k Kind) String() string {
	switch k {
	case Logarithmic:
		return "logarithmic"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a scale type name. An empty name means Logarithmic.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "logarithmic", "log":
		return Logarithmic, nil
	case "linear", "lin":
		return Linear, nil
	}
	return KindUnknown, errors.New(errors.ErrCodeUnsupportedScale, "scale type %q is not supported", s)
}

// Scale is an immutable numeric axis bounded by a left and right index.
type Scale struct {
	kind  Kind
	left  float64
	right float64
}

// New creates a scale of the given kind spanning [left, right].
// It requires left < right, and both bounds positive for logarithmic scales.
func New(kind Kind, left, right float64) (Scale, error) {
	if kind != Logarithmic && kind != Linear {
		return Scale{}, errors.New(errors.ErrCodeInvalidScale, "scale type %s is not supported", kind)
	}
	if math.IsNaN(left) || math.IsNaN(right) || math.IsInf(left, 0) || math.IsInf(right, 0) {
		return Scale{}, errors.New(errors.ErrCodeInvalidScale, "scale bounds must be finite")
	}
	if left >= right {
		return Scale{}, errors.New(errors.ErrCodeInvalidScale, "left index %g must be less than right index %g", left, right)
	}
	if kind == Logarithmic && left <= 0 {
		return Scale{}, errors.New(errors.ErrCodeInvalidScale, "logarithmic scale requires positive bounds, got [%g, %g]", left, right)
	}
	return Scale{kind: kind, left: left, right: right}, nil
}

// MustLog returns a logarithmic scale over [left, right]. It panics on invalid
// bounds and is meant for static definitions.
func MustLog(left, right float64) Scale { return must(New(Logarithmic, left, right)) }

// MustLinear returns a linear scale over [left, right]. It panics on invalid
// bounds and is meant for static definitions.
func MustLinear(left, right float64) Scale { return must(New(Linear, left, right)) }

func must(s Scale, err error) Scale {
	if err != nil {
		panic(err)
	}
	return s
}

// Kind returns the scale's mapping kind.
func (s Scale) Kind() Kind { return s.kind }

// LeftIndex returns the value at normalized position 0.
func (s Scale) LeftIndex() float64 { return s.left }

// RightIndex returns the value at normalized position 1.
func (s Scale) RightIndex() float64 { return s.right }

// Contains reports whether v lies within [LeftIndex, RightIndex].
func (s Scale) Contains(v float64) bool { return v >= s.left && v <= s.right }

// IsSingleDecade reports whether s is a logarithmic scale spanning exactly one decade.
func (s Scale) IsSingleDecade() bool {
	return s.kind == Logarithmic && s.right/s.left == 10
}

// String renders s as "logarithmic[1, 10]".
func (s Scale) String() string {
	return fmt.Sprintf("%s[%g, %g]", s.kind, s.left, s.right)
}

// ToNormalized maps v to its position in [0, 1] along the scale. Values
// outside the bounds map outside [0, 1].
func (s Scale) ToNormalized(v float64) (float64, error) {
	switch s.kind {
	case Logarithmic:
		if v <= 0 {
			return 0, errors.New(errors.ErrCodeOutOfDomain, "value %g is outside the domain of %s", v, s)
		}
		return math.Log10(v/s.left) / math.Log10(s.right/s.left), nil
	case Linear:
		return (v - s.left) / (s.right - s.left), nil
	default:
		return 0, errors.New(errors.ErrCodeUnsupportedScale, "scale type %s is not supported", s.kind)
	}
}

// ToValue maps a normalized position back to a value. n is clamped to [0, 1].
func (s Scale) ToValue(n float64) (float64, error) {
	n = math.Max(0, math.Min(1, n))
	switch s.kind {
	case Logarithmic:
		return s.left * math.Pow(10, n*math.Log10(s.right/s.left)), nil
	case Linear:
		return s.left + n*(s.right-s.left), nil
	default:
		return 0, errors.New(errors.ErrCodeUnsupportedScale, "scale type %s is not supported", s.kind)
	}
}
