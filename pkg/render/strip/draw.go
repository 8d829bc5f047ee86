package strip

import (
	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/render/surface"
	"github.com/matzehuels/sliderule/pkg/scale"
)

// Draw renders s onto dst inside g. Data errors are logged and the offending
// element skipped; only a missing surface is returned as an error.
func (r *Renderer) Draw(dst surface.Surface, s scale.Scale, g Geometry) (Stats, error) {
	if dst == nil {
		return Stats{}, errors.New(errors.ErrCodeMissingSurface, "no surface for scale %s", r.cfg.Name)
	}

	dst.Save()
	defer dst.Restore()

	dst.Translate(0, float64(r.cfg.Slot)*g.SlotHeight)
	dst.SetStrokeColor(InkColor)
	dst.SetFillColor(InkColor)
	dst.SetFont(Font)

	p := painter{dst: dst, g: g, bottom: r.cfg.Orientation == Bottom}

	dst.SetLineWidth(1)
	dst.BeginPath()
	dst.MoveTo(0, p.baseY())
	dst.LineTo(g.Width, p.baseY())
	dst.Stroke()

	if _, err := s.ToNormalized(s.LeftIndex()); err != nil {
		r.warn(err)
		return Stats{}, nil
	}

	var stats Stats

	ticks, err := r.Ticks(s, g)
	r.warn(err)
	for _, t := range ticks {
		if p.tick(t.X, t.Division.DefaultHeight, t.Division.DefaultWidth) {
			stats.Ticks++
		}
	}

	marks, err := r.Marks(s)
	r.warn(err)
	for _, m := range marks {
		x, err := r.Pixel(s, g, m.Value)
		if err != nil {
			r.warn(err)
			continue
		}
		width := MarkWidth
		if m.Value == s.LeftIndex() || m.Value == s.RightIndex() {
			width = IndexMarkWidth
		}
		if p.tick(x, MarkHeight, width) {
			stats.Marks++
		}
		p.label(x, m.Text, MarkHeight)
	}

	for _, m := range r.cfg.SpecialMarks {
		if !s.Contains(m.Value) {
			continue
		}
		x, err := r.Pixel(s, g, m.Value)
		if err != nil {
			r.warn(err)
			continue
		}
		if m.Color != "" {
			dst.Save()
			dst.SetStrokeColor(m.Color)
			dst.SetFillColor(m.Color)
		}
		if p.tick(x, m.StrokeHeight(), m.StrokeWidth()) {
			stats.SpecialMarks++
		}
		if m.Label != "" {
			p.label(x, m.Label, m.StrokeHeight())
		}
		if m.Color != "" {
			dst.Restore()
		}
	}

	r.logger.Debug("drew scale", "scale", r.cfg.Name, "slot", r.cfg.Slot,
		"ticks", stats.Ticks, "marks", stats.Marks, "special", stats.SpecialMarks)
	return stats, nil
}

// painter draws strokes and labels relative to the slot's base edge.
type painter struct {
	dst    surface.Surface
	g      Geometry
	bottom bool
}

func (p painter) baseY() float64 {
	if p.bottom {
		return p.g.SlotHeight
	}
	return 0
}

// tick draws a vertical stroke at x and reports whether it was inside the
// drawable width.
func (p painter) tick(x, height, width float64) bool {
	if x < 0 || x > p.g.Width {
		return false
	}
	base := p.baseY()
	end := base + height
	if p.bottom {
		end = base - height
	}
	p.dst.BeginPath()
	p.dst.MoveTo(x, base)
	p.dst.LineTo(x, end)
	p.dst.SetLineWidth(width)
	p.dst.Stroke()
	return true
}

func (p painter) label(x float64, text string, height float64) {
	w := p.dst.MeasureText(text)
	y := p.baseY() + height + 15
	if p.bottom {
		y = p.baseY() - height - 5
	}
	p.dst.FillText(text, x-w/2, y)
}
