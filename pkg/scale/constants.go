package scale

import (
	"math"
	"slices"

	"github.com/matzehuels/sliderule/pkg/errors"
)

// constant is one entry of the named-constant table. Every spelling maps to
// the same value.
type constant struct {
	spellings []string
	value     float64
}

var constantTable = []constant{
	{[]string{"pi", "π"}, math.Pi},
	{[]string{"e"}, math.E},
	{[]string{"phi", "φ"}, math.Phi},
	{[]string{"sqrt2", "√2"}, math.Sqrt2},
	{[]string{"sqrt3", "√3"}, math.Sqrt(3)},
}

var constants = func() map[string]float64 {
	m := make(map[string]float64)
	for _, c := range constantTable {
		for _, s := range c.spellings {
			m[s] = c.value
		}
	}
	return m
}()

// Constant returns the value of a named constant such as "π" or "sqrt2".
func Constant(name string) (float64, error) {
	v, ok := constants[name]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownConstant, "constant %q is not defined", name)
	}
	return v, nil
}

// IsConstant reports whether name is a known constant spelling.
func IsConstant(name string) bool {
	_, ok := constants[name]
	return ok
}

// ConstantNames returns every accepted spelling, sorted.
func ConstantNames() []string {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
