// Package sliderule assembles scales into a working slide rule.
//
// A [SlideRule] owns three components stacked top to bottom: the upper
// stator, the slide, and the lower stator. Each component has a drawing
// surface of slots×slotHeight pixels and an ordered list of mounted scales.
// The slide moves horizontally; a cursor with a hairline at its centre moves
// across all three and reads the value under the hairline on every scale.
//
// # Usage
//
//	rule, err := sliderule.New(sliderule.WithWidth(1200), sliderule.WithSlots(1, 2, 1))
//	err = rule.Render(scale.MustLog(1, 100), sliderule.ScaleConfig{
//		Component: sliderule.UpperStator,
//		Config:    strip.Config{Name: "A", Rules: division.TwoDecadeLog},
//	})
//	rule.SetSlidePosition(120)
//	rule.SetCursorPosition(400)
//	for _, rd := range rule.Readings() {
//		fmt.Println(rd.Scale, rd.Text)
//	}
//
// # Layout
//
// When any mounted scale has a secondary label the components gain 50 pixels
// of left padding for it, and the scale span shrinks accordingly. Mounting a
// scale recomputes padding, cursor bounds, and redraws every surface.
//
// # Concurrency
//
// A SlideRule guards its state with a mutex, so one instance may be driven
// from several goroutines. Instances share nothing.
package sliderule
