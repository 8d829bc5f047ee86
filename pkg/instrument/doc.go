// Package instrument reads slide rule descriptions from TOML files and turns
// them into configured [sliderule.SlideRule] instances.
//
// An instrument file names the slide rule geometry and lists the scales to
// mount on it:
//
//	name = "Classic"
//	width = 1200
//
//	[slots]
//	upper_stator = 1
//	slide = 2
//	lower_stator = 1
//
//	[[scales]]
//	component = "lowerStator"
//	name = "D"
//	orientation = "top"
//	left_index = 1
//	right_index = 10
//	marks = [1, 2, 3, "π", 4, 5, 6, 7, 8, 9, 10]
//	rules = "singleDecadeLog"
//
// Marks are either the string "auto" or an array mixing numbers and
// constant names. Rules are either the name of a built-in rule set or a list
// of inline [[scales.rule]] tables with start, end and divisions keys.
//
// Use [Load] or [Decode] to read a file, [Spec.Validate] to check it without
// drawing, and [Spec.Build] to produce a slide rule. [Classic] returns the
// built-in A/B/C/D instrument used when no file is given.
package instrument
