package scale

import (
	"math"
	"testing"

	"github.com/matzehuels/sliderule/pkg/errors"
)

func markValues(marks []Mark) []float64 {
	vals := make([]float64, len(marks))
	for i, m := range marks {
		vals[i] = m.Value
	}
	return vals
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestAutoMarks(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		want  []float64
	}{
		{
			name:  "single decade",
			scale: MustLog(1, 10),
			want:  []float64{1, 1.5, 2, 2.5, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		{
			name:  "two decades",
			scale: MustLog(1, 100),
			want:  []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		{
			name:  "partial decade",
			scale: MustLog(2, 30),
			want:  []float64{2, 3, 4, 5, 6, 7, 8, 9, 10, 20, 30},
		},
		{
			name:  "sub-unit decades",
			scale: MustLog(0.01, 1),
			want:  []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08, 0.09, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		{
			name:  "linear",
			scale: MustLinear(0, 10),
			want:  []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marks, err := Auto().Resolve(tt.scale)
			if err != nil {
				t.Fatal(err)
			}
			if got := markValues(marks); !equalFloats(got, tt.want) {
				t.Errorf("marks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAutoMarkText(t *testing.T) {
	marks, err := Auto().Resolve(MustLinear(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if marks[3].Text != "0.3" {
		t.Errorf("marks[3].Text = %q, want %q", marks[3].Text, "0.3")
	}
	if marks[10].Text != "1" {
		t.Errorf("marks[10].Text = %q, want %q", marks[10].Text, "1")
	}
}

func TestExplicitMarksWithConstant(t *testing.T) {
	m := Explicit(Number(1), Number(2), Number(3), Named("π"), Number(4), Number(2.5))
	marks, err := m.Resolve(MustLog(1, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(marks) != 6 {
		t.Fatalf("len(marks) = %d, want 6", len(marks))
	}
	pi := marks[3]
	if pi.Text != "π" || pi.Value != math.Pi {
		t.Errorf("pi mark = %+v", pi)
	}
	if marks[5].Text != "2.5" {
		t.Errorf("marks[5].Text = %q, want 2.5", marks[5].Text)
	}
}

func TestExplicitMarksUnknownConstant(t *testing.T) {
	m := Explicit(Number(1), Named("tau"), Number(2))
	marks, err := m.Resolve(MustLog(1, 10))
	if !errors.Is(err, errors.ErrCodeUnknownConstant) {
		t.Fatalf("Resolve() error = %v, want UNKNOWN_CONSTANT", err)
	}
	if got := markValues(marks); !equalFloats(got, []float64{1, 2}) {
		t.Errorf("marks = %v, want [1 2]", got)
	}
}

func TestParseMarkEntry(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		named   bool
		wantErr bool
	}{
		{"2.5", "2.5", false, false},
		{" 10 ", "10", false, false},
		{"pi", "pi", true, false},
		{"√3", "√3", true, false},
		{"tau", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := ParseMarkEntry(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMarkEntry(%q) error = %v", tt.in, err)
			}
			if err != nil {
				return
			}
			if e.String() != tt.want || e.IsNamed() != tt.named {
				t.Errorf("ParseMarkEntry(%q) = %v (named %v)", tt.in, e, e.IsNamed())
			}
		})
	}
}

func TestMarksZeroValueIsAuto(t *testing.T) {
	var m Marks
	if !m.IsAuto() || m.String() != "auto" {
		t.Errorf("zero Marks should be auto, got %q", m.String())
	}
	if Explicit().IsAuto() {
		t.Error("Explicit() with no entries should not be auto")
	}
}

func TestSpecialMarkDefaults(t *testing.T) {
	m := SpecialMark{Value: math.Pi}
	if m.StrokeHeight() != 15 || m.StrokeWidth() != 1.5 {
		t.Errorf("defaults = %v/%v, want 15/1.5", m.StrokeHeight(), m.StrokeWidth())
	}
	m = SpecialMark{Value: math.E, Height: 20, Width: 2}
	if m.StrokeHeight() != 20 || m.StrokeWidth() != 2 {
		t.Errorf("overrides = %v/%v, want 20/2", m.StrokeHeight(), m.StrokeWidth())
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{0.1 + 0.2, "0.3"},
		{100, "100"},
		{-1e-17, "0"},
		{math.Pi, "3.141592654"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
