package sliderule

import (
	"github.com/matzehuels/sliderule/pkg/errors"
)

// Component names one of the three horizontal parts of a slide rule.
type Component string

const (
	UpperStator Component = "upperStator"
	Slide       Component = "slide"
	LowerStator Component = "lowerStator"
)

// Components lists the components in visual order, top to bottom.
func Components() []Component {
	return []Component{UpperStator, Slide, LowerStator}
}

// ParseComponent validates a component name.
func ParseComponent(s string) (Component, error) {
	c := Component(s)
	if !c.Valid() {
		return "", errors.New(errors.ErrCodeInvalidComponent, "invalid component: %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the three components.
func (c Component) Valid() bool {
	switch c {
	case UpperStator, Slide, LowerStator:
		return true
	}
	return false
}

func (c Component) String() string { return string(c) }

// Slots is the number of scale slots on each component.
type Slots struct {
	UpperStator int `json:"upper_stator" toml:"upper_stator"`
	Slide       int `json:"slide" toml:"slide"`
	LowerStator int `json:"lower_stator" toml:"lower_stator"`
}

// Of returns the slot count of c.
func (s Slots) Of(c Component) int {
	switch c {
	case UpperStator:
		return s.UpperStator
	case Slide:
		return s.Slide
	case LowerStator:
		return s.LowerStator
	}
	return 0
}
