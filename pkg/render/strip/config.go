package strip

import (
	"strings"

	"github.com/matzehuels/sliderule/pkg/division"
	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/scale"
)

// DefaultName labels scales that were given no name.
const DefaultName = "Scale"

// Orientation selects which slot edge the ticks grow from.
type Orientation int

const (
	// Bottom grows ticks upward from the bottom edge of the slot.
	Bottom Orientation = iota
	// Top grows ticks downward from the top edge of the slot.
	Top
)

func (o Orientation) String() string {
	if o == Top {
		return "top"
	}
	return "bottom"
}

// ParseOrientation parses "top" or "bottom". An empty string means Bottom.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bottom":
		return Bottom, nil
	case "top":
		return Top, nil
	}
	return Bottom, errors.New(errors.ErrCodeInvalidScale, "orientation %q must be top or bottom", s)
}

// Config describes how one scale is drawn.
type Config struct {
	Name           string
	SecondaryLabel string
	Slot           int
	Orientation    Orientation
	Marks          scale.Marks
	SpecialMarks   []scale.SpecialMark
	// Rules defaults to division.SingleDecadeLog.
	Rules    division.RuleSet
	Reversed bool
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Rules == nil {
		c.Rules = division.SingleDecadeLog
	}
	c.SpecialMarks = append([]scale.SpecialMark(nil), c.SpecialMarks...)
	return c
}

// Geometry is the pixel frame a scale is drawn into.
type Geometry struct {
	// Width of the drawable area.
	Width float64
	// Height of the component surface.
	Height float64
	// BufferSpace is the margin on each side of the scale.
	BufferSpace float64
	// SlotHeight is the height of one slot.
	SlotHeight float64
}

// EffectiveWidth is the span between the left and right index.
func (g Geometry) EffectiveWidth() float64 {
	return g.Width - 2*g.BufferSpace
}
