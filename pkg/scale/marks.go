package scale

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sliderule/pkg/errors"
)

// Default stroke for special marks that leave Height or Width unset.
const (
	DefaultSpecialHeight = 15.0
	DefaultSpecialWidth  = 1.5
)

// singleDecadeMarks are the labeled values of a one-decade logarithmic scale.
var singleDecadeMarks = []float64{1, 1.5, 2, 2.5, 3, 4, 5, 6, 7, 8, 9, 10}

// linearMarkIntervals is the number of intervals between auto marks on linear scales.
const linearMarkIntervals = 10

// Mark is a labeled tick: a numeral or a named constant.
type Mark struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// SpecialMark is a one-off annotation drawn with its own stroke style.
type SpecialMark struct {
	Value  float64 `json:"value" toml:"value"`
	Label  string  `json:"label,omitempty" toml:"label"`
	Height float64 `json:"height,omitempty" toml:"height"`
	Width  float64 `json:"width,omitempty" toml:"width"`
	Color  string  `json:"color,omitempty" toml:"color"`
}

// StrokeHeight returns the tick length, falling back to DefaultSpecialHeight.
func (m SpecialMark) StrokeHeight() float64 {
	if m.Height > 0 {
		return m.Height
	}
	return DefaultSpecialHeight
}

// StrokeWidth returns the line width, falling back to DefaultSpecialWidth.
func (m SpecialMark) StrokeWidth() float64 {
	if m.Width > 0 {
		return m.Width
	}
	return DefaultSpecialWidth
}

// MarkEntry is one element of an explicit mark list: either a number or the
// name of a constant.
type MarkEntry struct {
	value float64
	name  string
}

// Number returns a numeric mark entry.
func Number(v float64) MarkEntry { return MarkEntry{value: v} }

// Named returns a mark entry that resolves through the constant table.
func Named(name string) MarkEntry { return MarkEntry{name: name} }

// ParseMarkEntry interprets s as a numeral or, failing that, a constant name.
func ParseMarkEntry(s string) (MarkEntry, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(v), nil
	}
	if !IsConstant(s) {
		return MarkEntry{}, errors.New(errors.ErrCodeUnknownConstant, "mark %q is neither a number nor a known constant", s)
	}
	return Named(s), nil
}

// IsNamed reports whether e refers to a constant.
func (e MarkEntry) IsNamed() bool { return e.name != "" }

// String returns the constant name or the numeral.
func (e MarkEntry) String() string {
	if e.name != "" {
		return e.name
	}
	return FormatValue(e.value)
}

// Resolve returns the mark for e.
func (e MarkEntry) Resolve() (Mark, error) {
	if e.name == "" {
		return Mark{Value: e.value, Text: FormatValue(e.value)}, nil
	}
	v, err := Constant(e.name)
	if err != nil {
		return Mark{}, err
	}
	return Mark{Value: v, Text: e.name}, nil
}

// Marks selects the labeled ticks of a scale. The zero value is Auto.
type Marks struct {
	explicit bool
	entries  []MarkEntry
}

// Auto returns marks generated from the scale bounds.
func Auto() Marks { return Marks{} }

// Explicit returns an explicit, ordered mark list.
func Explicit(entries ...MarkEntry) Marks {
	return Marks{explicit: true, entries: append([]MarkEntry(nil), entries...)}
}

// IsAuto reports whether marks are generated from the scale bounds.
func (m Marks) IsAuto() bool { return !m.explicit }

// Entries returns a copy of the explicit entries (nil for Auto).
func (m Marks) Entries() []MarkEntry {
	return append([]MarkEntry(nil), m.entries...)
}

// String renders m as "auto" or a comma separated list.
func (m Marks) String() string {
	if !m.explicit {
		return "auto"
	}
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// Resolve returns the concrete marks for s. Entries naming unknown constants
// are skipped; the returned error reports them and the marks remain usable.
func (m Marks) Resolve(s Scale) ([]Mark, error) {
	if m.explicit {
		return m.resolveExplicit()
	}
	return autoMarks(s)
}

func (m Marks) resolveExplicit() ([]Mark, error) {
	marks := make([]Mark, 0, len(m.entries))
	var errs []error
	for _, e := range m.entries {
		mark, err := e.Resolve()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		marks = append(marks, mark)
	}
	return marks, stderrors.Join(errs...)
}

func autoMarks(s Scale) ([]Mark, error) {
	var marks []Mark
	switch s.kind {
	case Logarithmic:
		if s.IsSingleDecade() {
			for _, v := range singleDecadeMarks {
				if s.Contains(v) {
					marks = append(marks, Mark{Value: v, Text: FormatValue(v)})
				}
			}
			return marks, nil
		}
		first := int(math.Floor(math.Log10(s.left)))
		last := int(math.Ceil(math.Log10(s.right)))
		for d := first; d <= last; d++ {
			for mult := 1; mult <= 9; mult++ {
				v := decadeValue(mult, d)
				if s.Contains(v) {
					marks = append(marks, Mark{Value: v, Text: FormatValue(v)})
				}
			}
		}
		return marks, nil
	case Linear:
		step := (s.right - s.left) / linearMarkIntervals
		for i := 0; i <= linearMarkIntervals; i++ {
			v := s.left + float64(i)*step
			marks = append(marks, Mark{Value: v, Text: FormatValue(v)})
		}
		return marks, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedScale, "scale type %s is not supported", s.kind)
	}
}

// decadeValue returns mult×10^d, dividing for negative decades so that values
// such as 0.3 come out as the nearest float rather than 3×0.1.
func decadeValue(mult, d int) float64 {
	if d < 0 {
		return float64(mult) / math.Pow(10, float64(-d))
	}
	return float64(mult) * math.Pow(10, float64(d))
}

// FormatValue renders v as the shortest decimal, hiding float drift beyond
// nine decimal places.
func FormatValue(v float64) string {
	const p = 1e9
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		r = v
	}
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
