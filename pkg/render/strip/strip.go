package strip

import (
	stderrors "errors"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/division"
	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/scale"
)

// Drawing constants.
const (
	InkColor = "#3a2a1a"
	Font     = `12px "Times New Roman", Times, serif`

	MarkHeight     = 15.0
	MarkWidth      = 1.0
	IndexMarkWidth = 2.0

	// markTolerance is how close a generated tick may come to a mark before
	// it is left to the mark.
	markTolerance = 0.001
)

// Tick is one generated subdivision stroke.
type Tick struct {
	Value    float64
	X        float64
	Division division.Division
}

// Stats counts the strokes a Draw call produced.
type Stats struct {
	Ticks        int `json:"ticks"`
	Marks        int `json:"marks"`
	SpecialMarks int `json:"special_marks"`
}

// Renderer draws one scale. It is immutable and safe for concurrent use.
type Renderer struct {
	cfg    Config
	logger *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used to report skipped elements.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a renderer for cfg.
func New(cfg Config, opts ...Option) *Renderer {
	r := &Renderer{cfg: cfg.withDefaults(), logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the renderer's configuration with defaults applied.
func (r *Renderer) Config() Config { return r.cfg }

// Pixel maps v to an x coordinate inside g.
func (r *Renderer) Pixel(s scale.Scale, g Geometry, v float64) (float64, error) {
	n, err := s.ToNormalized(v)
	if err != nil {
		return 0, err
	}
	return r.normalizedToPixel(g, n), nil
}

func (r *Renderer) normalizedToPixel(g Geometry, n float64) float64 {
	if r.cfg.Reversed {
		n = 1 - n
	}
	return g.BufferSpace + n*g.EffectiveWidth()
}

// Value maps an x coordinate inside g back to a scale value. Positions left
// of the scale read as the left index and right of it as the right index,
// with the sides swapped on reversed scales. When snap is set the exact value
// is replaced by the nearest tick value.
func (r *Renderer) Value(s scale.Scale, g Geometry, x float64, snap bool) (float64, error) {
	n := (x - g.BufferSpace) / g.EffectiveWidth()
	if r.cfg.Reversed {
		n = 1 - n
	}
	if n < 0 {
		return s.LeftIndex(), nil
	}
	if n > 1 {
		return s.RightIndex(), nil
	}
	v, err := s.ToValue(n)
	if err != nil {
		return 0, err
	}
	if snap {
		return Nearest(r.TickValues(s), v), nil
	}
	return v, nil
}

// Marks resolves the labeled marks for s.
func (r *Renderer) Marks(s scale.Scale) ([]scale.Mark, error) {
	return r.cfg.Marks.Resolve(s)
}

// Ticks generates the subdivision ticks for s in g. The returned error joins
// every data error met on the way; the ticks are usable regardless.
func (r *Renderer) Ticks(s scale.Scale, g Geometry) ([]Tick, error) {
	marks, err := r.Marks(s)
	errs := []error{err}

	type key struct {
		x    int64
		name string
	}
	seen := make(map[key]bool)

	var ticks []Tick
	err = r.generate(s, func(v float64, d division.Division) error {
		if r.nearMark(v, marks) {
			return nil
		}
		n, err := s.ToNormalized(v)
		if err != nil {
			return err
		}
		x := math.Round(r.normalizedToPixel(g, n))
		k := key{x: int64(x), name: d.Name}
		if seen[k] {
			return nil
		}
		seen[k] = true
		ticks = append(ticks, Tick{Value: v, X: x, Division: d})
		return nil
	})
	errs = append(errs, err)
	return ticks, stderrors.Join(errs...)
}

// generate calls fn for every in-bounds value produced by the division rules.
// fn errors stop the walk.
func (r *Renderer) generate(s scale.Scale, fn func(v float64, d division.Division) error) error {
	var errs []error
	for _, rule := range r.cfg.Rules {
		divs, err := division.Select(r.cfg.Rules, rule.Range)
		if err != nil {
			errs = append(errs, err)
		}
		start, end := rule.Range.Start, rule.Range.End
		for _, d := range divs {
			steps := division.StepCount(d, start, end)
			if steps < 1 {
				continue
			}
			step := (end - start) / float64(steps)
			for i := 0; i <= steps; i++ {
				v := start + float64(i)*step
				if !s.Contains(v) {
					continue
				}
				if err := fn(v, d); err != nil {
					return stderrors.Join(append(errs, err)...)
				}
			}
		}
	}
	return stderrors.Join(errs...)
}

func (r *Renderer) nearMark(v float64, marks []scale.Mark) bool {
	for _, m := range marks {
		if math.Abs(m.Value-v) < markTolerance {
			return true
		}
	}
	for _, m := range r.cfg.SpecialMarks {
		if math.Abs(m.Value-v) < markTolerance {
			return true
		}
	}
	return false
}

// TickValues returns every value a reading can snap to: generated tick values
// rounded to three decimals, both indexes, every mark and every in-bounds
// special mark, sorted ascending without duplicates.
func (r *Renderer) TickValues(s scale.Scale) []float64 {
	set := map[float64]bool{
		s.LeftIndex():  true,
		s.RightIndex(): true,
	}
	err := r.generate(s, func(v float64, _ division.Division) error {
		set[math.Round(v*1000)/1000] = true
		return nil
	})
	r.warn(err)

	marks, err := r.Marks(s)
	r.warn(err)
	for _, m := range marks {
		set[m.Value] = true
	}
	for _, m := range r.cfg.SpecialMarks {
		if s.Contains(m.Value) {
			set[m.Value] = true
		}
	}

	values := make([]float64, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Float64s(values)
	return values
}

// Nearest returns the element of values closest to v. On a tie the earlier
// element wins, which for ascending values is the lower one. An empty slice
// returns v unchanged.
func Nearest(values []float64, v float64) float64 {
	if len(values) == 0 {
		return v
	}
	best := values[0]
	bestDist := math.Abs(v - best)
	for _, t := range values[1:] {
		if d := math.Abs(v - t); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

func (r *Renderer) warn(err error) {
	if err == nil {
		return
	}
	for _, e := range flatten(err) {
		r.logger.Warn("skipped scale element", "scale", r.cfg.Name, "code", errors.GetCode(e), "err", errors.UserMessage(e))
	}
}

// flatten expands joined errors into their members.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
