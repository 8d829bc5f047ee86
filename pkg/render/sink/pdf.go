package sink

import (
	"context"

	"github.com/matzehuels/sliderule/pkg/render"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders the slide rule as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, rule *sliderule.SlideRule, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	svg, err := RenderSVG(rule, r.svgOpts...)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
