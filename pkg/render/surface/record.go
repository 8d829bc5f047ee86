package surface

import "fmt"

// OpKind identifies a recorded drawing operation.
type OpKind string

const (
	OpClear  OpKind = "clear"
	OpStroke OpKind = "stroke"
	OpText   OpKind = "text"
)

// Line is a device-space line segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Op is one recorded operation, with coordinates in device space and the
// style in effect when it ran.
type Op struct {
	Kind      OpKind
	Lines     []Line
	Text      string
	X, Y      float64
	Color     string
	LineWidth float64
	FontSize  float64
}

func (o Op) String() string {
	switch o.Kind {
	case OpText:
		return fmt.Sprintf("text %q at (%.2f, %.2f)", o.Text, o.X, o.Y)
	case OpStroke:
		return fmt.Sprintf("stroke %d lines w=%.2f %s", len(o.Lines), o.LineWidth, o.Color)
	default:
		return string(o.Kind)
	}
}

// Recorder is a Surface that logs operations instead of drawing them.
type Recorder struct {
	pen
	width, height float64
	ops           []Op
}

// NewRecorder creates a recording surface. It implements Factory.
func NewRecorder(width, height, pixelRatio float64) (Surface, error) {
	if err := validateSize(width, height, pixelRatio); err != nil {
		return nil, err
	}
	return &Recorder{pen: newPen(), width: width, height: height}, nil
}

// Size returns the logical size.
func (r *Recorder) Size() (float64, float64) { return r.width, r.height }

// ClearRect records a clear and discards every earlier operation when the
// whole surface is cleared.
func (r *Recorder) ClearRect(x, y, w, h float64) {
	x0, y0, x1, y1 := r.deviceRect(x, y, w, h)
	dw, dh := r.cur.transform.apply(r.width, r.height)
	ox, oy := r.cur.transform.apply(0, 0)
	if x0 <= ox && y0 <= oy && x1 >= dw && y1 >= dh {
		r.ops = r.ops[:0]
	}
	r.ops = append(r.ops, Op{Kind: OpClear, X: x0, Y: y0})
}

// Stroke records the current path.
func (r *Recorder) Stroke() {
	if len(r.path) == 0 {
		return
	}
	lines := make([]Line, len(r.path))
	for i, s := range r.path {
		lines[i] = Line{X1: s.from.x, Y1: s.from.y, X2: s.to.x, Y2: s.to.y}
	}
	r.ops = append(r.ops, Op{
		Kind:      OpStroke,
		Lines:     lines,
		Color:     r.cur.stroke,
		LineWidth: r.deviceLineWidth(),
	})
}

// FillText records a text draw.
func (r *Recorder) FillText(text string, x, y float64) {
	dx, dy := r.cur.transform.apply(x, y)
	r.ops = append(r.ops, Op{
		Kind:     OpText,
		Text:     text,
		X:        dx,
		Y:        dy,
		Color:    r.cur.fill,
		FontSize: r.deviceFontSize(),
	})
}

// Ops returns the recorded operations.
func (r *Recorder) Ops() []Op { return append([]Op(nil), r.ops...) }

// Strokes returns only the stroke operations.
func (r *Recorder) Strokes() []Op { return r.filter(OpStroke) }

// Texts returns only the text operations.
func (r *Recorder) Texts() []Op { return r.filter(OpText) }

func (r *Recorder) filter(kind OpKind) []Op {
	var out []Op
	for _, o := range r.ops {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// Reset discards all recorded operations.
func (r *Recorder) Reset() { r.ops = r.ops[:0] }
