package surface

import (
	"image/color"
	"strings"
	"testing"

	"github.com/matzehuels/sliderule/pkg/errors"
)

func TestParseFont(t *testing.T) {
	tests := []struct {
		in     string
		size   float64
		family string
	}{
		{`12px "Times New Roman", Times, serif`, 12, `"Times New Roman", Times, serif`},
		{`bold 14px monospace`, 14, `monospace`},
		{`9.5px`, 9.5, `sans-serif`},
		{`garbage`, 10, `sans-serif`},
	}
	for _, tt := range tests {
		got := ParseFont(tt.in)
		if got.Size != tt.size || got.Family != tt.family {
			t.Errorf("ParseFont(%q) = %+v", tt.in, got)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#3a2a1a", color.RGBA{0x3a, 0x2a, 0x1a, 255}},
		{"#A52A2A", color.RGBA{165, 42, 42, 255}},
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"white", color.RGBA{255, 255, 255, 255}},
		{"not-a-colour", color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := ParseColor(tt.in); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTextWidth(t *testing.T) {
	if got := TextWidth("", 12); got != 0 {
		t.Errorf("TextWidth(\"\") = %v", got)
	}
	if got := TextWidth("10", 13); got != 14 {
		t.Errorf("TextWidth(10, 13px) = %v, want 14", got)
	}
	if TextWidth("100", 12) <= TextWidth("10", 12) {
		t.Error("longer text should be wider")
	}
}

func TestFactoriesRejectBadSize(t *testing.T) {
	factories := map[string]Factory{"svg": NewSVG, "raster": NewRaster, "recorder": NewRecorder}
	for name, f := range factories {
		t.Run(name, func(t *testing.T) {
			if _, err := f(0, 10, 1); !errors.Is(err, errors.ErrCodeMissingSurface) {
				t.Errorf("zero width error = %v", err)
			}
			if _, err := f(10, 10, 0); !errors.Is(err, errors.ErrCodeMissingSurface) {
				t.Errorf("zero ratio error = %v", err)
			}
			if _, err := f(1200, 160, 1e6); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("oversized ratio error = %v", err)
			}
			if _, err := f(1e9, 1e9, 1); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("oversized area error = %v", err)
			}
		})
	}
}

func TestRecorderTransform(t *testing.T) {
	s, _ := NewRecorder(100, 80, 2)
	r := s.(*Recorder)

	r.Scale(2, 2)
	r.Translate(0.5, 0.5)
	r.Save()
	r.Translate(0, 40)
	r.SetLineWidth(1.5)
	r.SetStrokeColor("#3a2a1a")
	r.BeginPath()
	r.MoveTo(10, 0)
	r.LineTo(10, 15)
	r.Stroke()
	r.Restore()

	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(1, 0)
	r.Stroke()

	strokes := r.Strokes()
	if len(strokes) != 2 {
		t.Fatalf("len(strokes) = %d, want 2", len(strokes))
	}
	want := Line{X1: 21, Y1: 81, X2: 21, Y2: 111}
	if strokes[0].Lines[0] != want {
		t.Errorf("line = %+v, want %+v", strokes[0].Lines[0], want)
	}
	if strokes[0].LineWidth != 3 {
		t.Errorf("device line width = %v, want 3", strokes[0].LineWidth)
	}
	if strokes[1].LineWidth != 2 || strokes[1].Color != "#000000" {
		t.Errorf("restored state not applied: %+v", strokes[1])
	}
}

func TestRecorderClearDiscards(t *testing.T) {
	s, _ := NewRecorder(50, 50, 1)
	r := s.(*Recorder)
	r.FillText("a", 1, 1)
	r.ClearRect(0, 0, 50, 50)
	r.FillText("b", 1, 1)
	if texts := r.Texts(); len(texts) != 1 || texts[0].Text != "b" {
		t.Errorf("texts after clear = %v", texts)
	}
}

func TestRestoreOnEmptyStack(t *testing.T) {
	s, _ := NewRecorder(10, 10, 1)
	s.Restore()
	s.Translate(1, 1)
	s.FillText("x", 0, 0)
	if op := s.(*Recorder).Texts()[0]; op.X != 1 || op.Y != 1 {
		t.Errorf("text at (%v, %v), want (1, 1)", op.X, op.Y)
	}
}

func TestSVGMarkup(t *testing.T) {
	s, _ := NewSVG(200, 40, 1)
	s.SetStrokeColor("#3a2a1a")
	s.SetFillColor("#3a2a1a")
	s.SetFont(`12px "Times New Roman", Times, serif`)
	s.BeginPath()
	s.MoveTo(0, 40)
	s.LineTo(200, 40)
	s.Stroke()
	s.FillText("π<2", 10, 20)

	out := string(s.(*SVG).Markup())
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`<path d="M0 40L200 40" fill="none" stroke="#3a2a1a" stroke-width="1"/>`,
		`font-family="&#34;Times New Roman&#34;, Times, serif"`,
		`>π&lt;2</text>`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markup missing %q:\n%s", want, out)
		}
	}
}

func TestSVGClearRect(t *testing.T) {
	s, _ := NewSVG(100, 100, 1)
	svg := s.(*SVG)
	s.BeginPath()
	s.MoveTo(10, 10)
	s.LineTo(10, 20)
	s.Stroke()
	s.BeginPath()
	s.MoveTo(60, 10)
	s.LineTo(60, 20)
	s.Stroke()

	s.ClearRect(0, 0, 50, 100)
	if svg.Len() != 1 {
		t.Fatalf("Len() = %d after partial clear, want 1", svg.Len())
	}
	s.ClearRect(0, 0, 100, 100)
	if svg.Len() != 0 {
		t.Errorf("Len() = %d after full clear, want 0", svg.Len())
	}
}

func TestRasterStroke(t *testing.T) {
	s, _ := NewRaster(20, 20, 1)
	r := s.(*Raster)
	r.SetStrokeColor("#ff0000")
	r.SetLineWidth(2)
	r.BeginPath()
	r.MoveTo(10, 0)
	r.LineTo(10, 20)
	r.Stroke()

	if c := r.At(10, 10); c.R < 200 || c.A < 200 {
		t.Errorf("pixel on the line = %v, want red", c)
	}
	if c := r.At(2, 10); c.A != 0 {
		t.Errorf("pixel off the line = %v, want transparent", c)
	}

	r.ClearRect(0, 0, 20, 20)
	if c := r.At(10, 10); c.A != 0 {
		t.Errorf("pixel after clear = %v, want transparent", c)
	}
}

func TestRasterPixelRatio(t *testing.T) {
	s, _ := NewRaster(30, 10, 2)
	b := s.(*Raster).Image().Bounds()
	if b.Dx() != 60 || b.Dy() != 20 {
		t.Errorf("bounds = %v, want 60x20", b)
	}
}

func TestRasterText(t *testing.T) {
	s, _ := NewRaster(40, 20, 1)
	s.SetFillColor("#000000")
	s.FillText("8", 5, 15)
	img := s.(*Raster).Image()
	var inked int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("FillText left no ink")
	}
}
