// Package render provides drawing and output conversion for slide rules.
//
// # Overview
//
// This package contains the rendering pipeline that turns a configured slide
// rule into images. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Drawing surfaces (in [surface] subpackage)
//   - Scale strip rendering (in [strip] subpackage)
//   - Whole-instrument composition (in [sink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := sink.RenderSVG(rule)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [surface]: github.com/matzehuels/sliderule/pkg/render/surface
// [strip]: github.com/matzehuels/sliderule/pkg/render/strip
// [sink]: github.com/matzehuels/sliderule/pkg/render/sink
package render
