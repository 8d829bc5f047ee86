// Package division defines tick subdivisions and the rules that choose them.
//
// A [Division] describes one family of ticks (seconds, tenths, fiftieths, ...)
// by how many intervals it cuts a unit range into, and how tall and thick its
// strokes are. Divisions live in a static registry looked up by name.
//
// A [RuleSet] maps sub-ranges of a scale to an ordered list of division names.
// [Select] resolves the divisions for one sub-range; [StepCount] decides how
// many intervals a division cuts that sub-range into.
//
//	divs, err := division.Select(division.SingleDecadeLog, division.Range{Start: 2, End: 3})
//	// seconds, tenths, fiftieths
package division
