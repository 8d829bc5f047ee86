package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/sliderule/pkg/render/surface"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cursor  bool
	readout bool
}

// WithoutCursor omits the cursor body and hairline.
func WithoutCursor() SVGOption { return func(r *svgRenderer) { r.cursor = false } }

// WithReadout prints the cursor readout even outside developer mode.
func WithReadout() SVGOption { return func(r *svgRenderer) { r.readout = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{cursor: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG composes the slide rule as a standalone SVG document.
func RenderSVG(rule *sliderule.SlideRule, opts ...SVGOption) ([]byte, error) {
	r := newSVGRenderer(opts...)
	l := rule.Layout()
	cfg := rule.Config()
	tops := offsets(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.TotalHeight, l.Width, l.TotalHeight)

	labels := rule.Labels()
	for _, c := range sliderule.Components() {
		frag, ratio, err := fragment(rule, c)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `  <g id="%s" transform="translate(%.2f,%.2f)">`+"\n", c, slideOffset(l, c), tops[c])
		fmt.Fprintf(&buf, `    <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			l.Width, l.Height(c), componentFill(c), bodyStroke)
		fmt.Fprintf(&buf, `    <g transform="translate(%.2f,0) scale(%g)">`+"\n", l.LeftPadding, 1/ratio)
		buf.Write(frag)
		buf.WriteString("    </g>\n")
		renderSVGLabels(&buf, c, labels, cfg.SlotHeight)
		buf.WriteString("  </g>\n")
	}

	if r.cursor {
		renderSVGCursor(&buf, l)
		if r.readout || rule.DeveloperMode() {
			renderSVGReadout(&buf, l, rule.Readings())
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// fragment returns the SVG elements of component c and the pixel ratio they
// were drawn at. The slide rule's own surface is used when it is an SVG
// surface; otherwise the component is redrawn.
func fragment(rule *sliderule.SlideRule, c sliderule.Component) ([]byte, float64, error) {
	s, err := rule.Surface(c)
	if err != nil {
		return nil, 0, err
	}
	if svg, ok := s.(*surface.SVG); ok {
		return svg.Fragment(), svg.PixelRatio(), nil
	}
	s, err = rule.DrawTo(c, surface.NewSVG, 1)
	if err != nil {
		return nil, 0, err
	}
	return s.(*surface.SVG).Fragment(), 1, nil
}

func renderSVGLabels(buf *bytes.Buffer, c sliderule.Component, labels []sliderule.Label, slotHeight float64) {
	family := html.EscapeString(surface.ParseFont(labelFont).Family)
	for _, lb := range labels {
		if lb.Component != c {
			continue
		}
		y := labelBaseline(lb, slotHeight)
		fmt.Fprintf(buf, `    <text class="scale-label" x="%g" y="%.2f" font-family="%s" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			labelInset, y, family, labelSize, labelColor, html.EscapeString(lb.Name))
		if lb.SecondaryLabel != "" {
			fmt.Fprintf(buf, `    <text class="scale-label secondary" x="%g" y="%.2f" font-family="%s" font-size="%.0f" font-style="italic" fill="%s">%s</text>`+"\n",
				labelInset+secondaryInset, y, family, labelSize, labelColor, html.EscapeString(lb.SecondaryLabel))
		}
	}
}

func renderSVGCursor(buf *bytes.Buffer, l sliderule.Layout) {
	hx := l.CursorPosition + l.CursorWidth/2
	fmt.Fprintf(buf, `  <g id="cursor">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="0" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
		l.CursorPosition, l.CursorWidth, l.TotalHeight, cursorFill, cursorAlpha, cursorStroke)
	fmt.Fprintf(buf, `    <line x1="%.2f" y1="0" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
		hx, hx, l.TotalHeight, hairline)
	buf.WriteString("  </g>\n")
}

func renderSVGReadout(buf *bytes.Buffer, l sliderule.Layout, readings []sliderule.Reading) {
	if len(readings) == 0 {
		return
	}
	x := l.CursorPosition + 4
	fmt.Fprintf(buf, `  <g id="readout" font-family="monospace" font-size="%.0f" fill="%s">`+"\n", readoutSize, labelColor)
	for i, rd := range readings {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f">%s</text>`+"\n",
			x, float64(i+1)*(readoutSize+2), html.EscapeString(rd.String()))
	}
	buf.WriteString("  </g>\n")
}
