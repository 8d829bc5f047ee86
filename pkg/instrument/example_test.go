package instrument_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/instrument"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

func ExampleParse() {
	spec, err := instrument.Parse([]byte(`
name = "Pocket"
width = 600

[[scales]]
component = "slide"
name = "C"
left_index = 1
right_index = 10
marks = [1, 2, 3, "π", 4, 5, 10]

[[scales]]
component = "lowerStator"
name = "D"
orientation = "top"
left_index = 1
right_index = 10
`))
	if err != nil {
		fmt.Println(err)
		return
	}
	rule, err := spec.Build(sliderule.WithLogger(log.New(io.Discard)))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, l := range rule.Labels() {
		fmt.Println(l.Component, l.Name)
	}
	// Output:
	// slide C
	// lowerStator D
}
