package division

import (
	"testing"

	"github.com/matzehuels/sliderule/pkg/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		divisor int
		height  float64
	}{
		{Seconds, 2, 12},
		{Fifths, 5, 8},
		{Tenths, 10, 10},
		{Twentieths, 20, 7},
		{Fiftieths, 50, 6},
		{Hundredths, 100, 4},
		{TwoHundredths, 200, 3},
		{FiveHundredths, 500, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Lookup(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if d.Divisor != tt.divisor || d.DefaultHeight != tt.height || d.DefaultWidth != 0.5 {
				t.Errorf("Lookup(%q) = %+v", tt.name, d)
			}
		})
	}

	if _, err := Lookup("thirds"); !errors.Is(err, errors.ErrCodeUnknownDivision) {
		t.Errorf("Lookup(thirds) error = %v, want UNKNOWN_DIVISION", err)
	}
}

func TestNamesOrderedByDivisor(t *testing.T) {
	names := Names()
	if len(names) != 8 {
		t.Fatalf("len(Names()) = %d, want 8", len(names))
	}
	if names[0] != Seconds || names[len(names)-1] != FiveHundredths {
		t.Errorf("Names() = %v", names)
	}
}

func TestStepCount(t *testing.T) {
	seconds, _ := Lookup(Seconds)
	tenths, _ := Lookup(Tenths)
	fiftieths, _ := Lookup(Fiftieths)
	hundredths, _ := Lookup(Hundredths)

	tests := []struct {
		name  string
		div   Division
		start float64
		end   float64
		want  int
	}{
		{"seconds in first decade", seconds, 2, 3, 2},
		{"tenths in first decade", tenths, 1, 1.5, 5},
		{"hundredths half unit", hundredths, 1, 1.5, 50},
		{"fiftieths", fiftieths, 3, 4, 50},
		{"tenths past ten are units", tenths, 10, 15, 5},
		{"seconds past ten are fives", seconds, 20, 30, 2},
		{"fiftieths past ten unchanged", fiftieths, 10, 11, 50},
		{"too narrow", seconds, 1, 1.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepCount(tt.div, tt.start, tt.end); got != tt.want {
				t.Errorf("StepCount(%s, %v, %v) = %d, want %d", tt.div.Name, tt.start, tt.end, got, tt.want)
			}
		})
	}
}
