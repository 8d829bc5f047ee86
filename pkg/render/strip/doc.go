// Package strip draws a single scale onto a slide rule component.
//
// A [Renderer] pairs a [Config] (name, slot, orientation, marks, division
// rules) with a [scale.Scale] at draw time. Ticks come from the division rules:
// each rule range is cut into steps by every division selected for it, values
// outside the scale are dropped, values within 0.001 of a labeled mark are
// left to the mark, and at most one tick per pixel column is kept for each
// division.
//
// The same generated values, together with the indexes and marks, form the
// set that cursor readings snap to ([Renderer.TickValues] and [Nearest]).
//
// Drawing order inside a component surface:
//
//	save → translate(0, slot×slotHeight) → border → ticks → marks → special marks → restore
//
// [scale.Scale]: github.com/matzehuels/sliderule/pkg/scale.Scale
package strip
