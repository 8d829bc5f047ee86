// Package scale implements the numeric axes of a slide rule.
//
// A [Scale] maps values on a logarithmic or linear axis to a normalized
// position in [0, 1] and back. Scales are immutable values created with [New]
// (or the [MustLog] and [MustLinear] shorthands) and may be shared freely between
// renderers, for example when the same C/D scale is drawn on two strips.
//
// # Marks
//
// Labeled ticks are described by [Marks], a tagged variant that is either
// [Auto] (generated from the scale's bounds) or [Explicit] (an ordered list of
// numbers and named constants). [Marks.Resolve] turns either form into
// concrete [Mark] values:
//
//	marks := scale.Explicit(
//	    scale.Number(1), scale.Number(2), scale.Number(3),
//	    scale.Named("π"),
//	    scale.Number(4),
//	)
//	resolved, err := marks.Resolve(scale.MustLog(1, 10))
//
// Named constants resolve through a static table in which Latin and symbol
// spellings ("pi" and "π", "sqrt2" and "√2", ...) map to the same value.
// Unknown names are reported with an UNKNOWN_CONSTANT error and skipped.
//
// [SpecialMark] is a one-off annotation (such as π on the C scale) that carries
// its own stroke style and does not need to appear in the scale's mark list.
//
// # Domain
//
// Logarithmic scales are undefined for non-positive values: [Scale.ToNormalized]
// reports an OUT_OF_DOMAIN error instead of returning NaN, and
// [Scale.ToValue] clamps its input into [0, 1] so that any pixel position,
// however far outside the strip, inverts to a value within the scale's bounds.
package scale
