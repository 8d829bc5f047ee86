package surface

import (
	"bytes"
	"fmt"
	"html"
	"math"
)

// SVG is a Surface that collects vector elements. Coordinates are emitted in
// device space, so the current transform is baked into every element.
type SVG struct {
	pen
	width, height float64
	ratio         float64
	elems         []svgElement
}

type svgElement struct {
	markup         string
	x0, y0, x1, y1 float64
}

// NewSVG creates an SVG surface. It implements Factory.
func NewSVG(width, height, pixelRatio float64) (Surface, error) {
	if err := validateSize(width, height, pixelRatio); err != nil {
		return nil, err
	}
	return &SVG{pen: newPen(), width: width, height: height, ratio: pixelRatio}, nil
}

// Size returns the logical size.
func (s *SVG) Size() (float64, float64) { return s.width, s.height }

// PixelRatio returns the ratio between device and logical pixels.
func (s *SVG) PixelRatio() float64 { return s.ratio }

// ClearRect drops every element whose bounds lie inside the cleared area.
func (s *SVG) ClearRect(x, y, w, h float64) {
	x0, y0, x1, y1 := s.deviceRect(x, y, w, h)
	kept := s.elems[:0]
	for _, e := range s.elems {
		if e.x0 >= x0 && e.x1 <= x1 && e.y0 >= y0 && e.y1 <= y1 {
			continue
		}
		kept = append(kept, e)
	}
	s.elems = kept
}

// Stroke emits the current path as one <path> element.
func (s *SVG) Stroke() {
	if len(s.path) == 0 {
		return
	}
	var d bytes.Buffer
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	var prev point
	for i, seg := range s.path {
		if i == 0 || seg.from != prev {
			fmt.Fprintf(&d, "M%s %s", num(seg.from.x), num(seg.from.y))
		}
		fmt.Fprintf(&d, "L%s %s", num(seg.to.x), num(seg.to.y))
		prev = seg.to
		for _, p := range []point{seg.from, seg.to} {
			x0, y0 = math.Min(x0, p.x), math.Min(y0, p.y)
			x1, y1 = math.Max(x1, p.x), math.Max(y1, p.y)
		}
	}
	markup := fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		d.String(), hexColor(s.cur.stroke), num(s.deviceLineWidth()))
	s.elems = append(s.elems, svgElement{markup: markup, x0: x0, y0: y0, x1: x1, y1: y1})
}

// FillText emits a <text> element with its baseline at (x, y).
func (s *SVG) FillText(text string, x, y float64) {
	dx, dy := s.cur.transform.apply(x, y)
	size := s.deviceFontSize()
	w := TextWidth(text, size)
	markup := fmt.Sprintf(`<text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s">%s</text>`,
		num(dx), num(dy), html.EscapeString(s.cur.font.Family), num(size),
		hexColor(s.cur.fill), html.EscapeString(text))
	s.elems = append(s.elems, svgElement{markup: markup, x0: dx, y0: dy - size, x1: dx + w, y1: dy})
}

// Len returns the number of emitted elements.
func (s *SVG) Len() int { return len(s.elems) }

// Fragment returns the elements without an enclosing <svg> tag, one per line.
func (s *SVG) Fragment() []byte {
	var buf bytes.Buffer
	for _, e := range s.elems {
		buf.WriteString("  ")
		buf.WriteString(e.markup)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Markup returns a standalone SVG document at device resolution.
func (s *SVG) Markup() []byte {
	w, h := s.width*s.ratio, s.height*s.ratio
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, s.width, s.height)
	buf.Write(s.Fragment())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return fmt.Sprintf("%g", v)
}
