// Package sink provides output format renderers for slide rules.
//
// # Overview
//
// A "sink" composes a configured [sliderule.SlideRule] into a final output
// format. This package provides renderers for:
//
//   - SVG: the three components, scale labels, and the cursor
//   - PNG: native rasterization, or rsvg-convert from the SVG
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: layout, labels, tick values, and readings for external tools
//
// The slide offset is applied to the slide component and its labels; the
// cursor body and hairline are drawn over everything. In developer mode the
// readout is printed on the cursor.
//
//	svg, err := sink.RenderSVG(rule)
//	png, err := sink.RenderPNG(ctx, rule, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(ctx, rule)
//	js, err := sink.RenderJSON(rule)
//
// [sliderule.SlideRule]: github.com/matzehuels/sliderule/pkg/sliderule.SlideRule
package sink
