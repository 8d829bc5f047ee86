package surface

import "math"

// matrix is a 2D affine transform [a c e; b d f; 0 0 1].
type matrix struct {
	a, b, c, d, e, f float64
}

var identity = matrix{a: 1, d: 1}

func (m matrix) translate(x, y float64) matrix {
	m.e += m.a*x + m.c*y
	m.f += m.b*x + m.d*y
	return m
}

func (m matrix) scale(sx, sy float64) matrix {
	m.a *= sx
	m.b *= sx
	m.c *= sy
	m.d *= sy
	return m
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// lineScale converts a user space length to device space.
func (m matrix) lineScale() float64 {
	return math.Sqrt(math.Abs(m.a*m.d - m.b*m.c))
}

type state struct {
	transform matrix
	stroke    string
	fill      string
	lineWidth float64
	font      Font
}

func newState() state {
	return state{
		transform: identity,
		stroke:    "#000000",
		fill:      "#000000",
		lineWidth: 1,
		font:      ParseFont(DefaultFont),
	}
}

type point struct{ x, y float64 }

// segment is a device-space line.
type segment struct{ from, to point }

// pen holds the state stack and the current path, shared by every backend.
type pen struct {
	cur     state
	stack   []state
	path    []segment
	last    point
	hasLast bool
}

func newPen() pen { return pen{cur: newState()} }

func (p *pen) Save() { p.stack = append(p.stack, p.cur) }

func (p *pen) Restore() {
	if len(p.stack) == 0 {
		return
	}
	p.cur = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *pen) Translate(x, y float64) { p.cur.transform = p.cur.transform.translate(x, y) }
func (p *pen) Scale(sx, sy float64)   { p.cur.transform = p.cur.transform.scale(sx, sy) }

func (p *pen) SetStrokeColor(c string) { p.cur.stroke = c }
func (p *pen) SetFillColor(c string)   { p.cur.fill = c }
func (p *pen) SetFont(f string)        { p.cur.font = ParseFont(f) }

func (p *pen) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) {
		p.cur.lineWidth = w
	}
}

func (p *pen) BeginPath() {
	p.path = p.path[:0]
	p.hasLast = false
}

func (p *pen) MoveTo(x, y float64) {
	dx, dy := p.cur.transform.apply(x, y)
	p.last = point{dx, dy}
	p.hasLast = true
}

func (p *pen) LineTo(x, y float64) {
	dx, dy := p.cur.transform.apply(x, y)
	to := point{dx, dy}
	if p.hasLast {
		p.path = append(p.path, segment{from: p.last, to: to})
	}
	p.last = to
	p.hasLast = true
}

// deviceLineWidth is the current line width in device pixels.
func (p *pen) deviceLineWidth() float64 {
	return p.cur.lineWidth * p.cur.transform.lineScale()
}

// deviceFontSize is the current font size in device pixels.
func (p *pen) deviceFontSize() float64 {
	return p.cur.font.Size * p.cur.transform.lineScale()
}

// deviceRect maps a user space rectangle to device space, normalized.
func (p *pen) deviceRect(x, y, w, h float64) (x0, y0, x1, y1 float64) {
	x0, y0 = p.cur.transform.apply(x, y)
	x1, y1 = p.cur.transform.apply(x+w, y+h)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return x0, y0, x1, y1
}

func (p *pen) MeasureText(text string) float64 {
	return TextWidth(text, p.cur.font.Size)
}
