package sliderule_test

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/division"
	"github.com/matzehuels/sliderule/pkg/render/strip"
	"github.com/matzehuels/sliderule/pkg/scale"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// Multiplying 2 × 3: the C index goes over 2 on D, the hairline over 3 on C,
// and D shows the product.
func ExampleSlideRule_Readings() {
	rule, err := sliderule.New(sliderule.WithLogger(log.New(io.Discard)))
	if err != nil {
		fmt.Println(err)
		return
	}
	mounts := []sliderule.ScaleConfig{
		{Component: sliderule.Slide, Config: strip.Config{Name: "C", Rules: division.SingleDecadeLog}},
		{Component: sliderule.LowerStator, Config: strip.Config{Name: "D", Orientation: strip.Top, Rules: division.SingleDecadeLog}},
	}
	for _, cfg := range mounts {
		if err := rule.Render(scale.MustLog(1, 10), cfg); err != nil {
			fmt.Println(err)
			return
		}
	}

	l := rule.Layout()
	rule.SetSlidePosition(l.EffectiveWidth * math.Log10(2))
	rule.SetCursorPosition(l.CursorMin + l.EffectiveWidth*math.Log10(6))

	for _, rd := range rule.Readings() {
		fmt.Println(rd)
	}
	// Output:
	// C: 3.00
	// D: 6.00
}
