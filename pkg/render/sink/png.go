package sink

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/render"
	"github.com/matzehuels/sliderule/pkg/render/surface"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts   []SVGOption
	scale     float64
	converter bool
}

// WithPNGSVGOptions passes options through to the SVG renderer. They apply
// only with WithConverter.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithConverter renders the SVG and converts it with rsvg-convert instead of
// rasterizing natively.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func WithConverter() PNGOption {
	return func(r *pngRenderer) { r.converter = true }
}

// RenderPNG renders the slide rule as PNG.
func RenderPNG(ctx context.Context, rule *sliderule.SlideRule, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) || math.IsInf(r.scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", r.scale)
	}
	if r.converter {
		svg, err := RenderSVG(rule, r.svgOpts...)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, r.scale)
	}

	img, err := Rasterize(rule, r.scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// Rasterize composes the slide rule into an RGBA image at the given scale.
func Rasterize(rule *sliderule.SlideRule, scale float64) (*image.RGBA, error) {
	l := rule.Layout()
	cfg := rule.Config()
	tops := offsets(l)

	s, err := surface.NewRaster(l.Width, l.TotalHeight, scale)
	if err != nil {
		return nil, err
	}
	canvas := s.(*surface.Raster)
	img := canvas.Image()
	canvas.Scale(scale, scale)

	px := func(v float64) int { return int(math.Round(v * scale)) }

	labels := rule.Labels()
	for _, c := range sliderule.Components() {
		dx, top := slideOffset(l, c), tops[c]
		body := image.Rect(px(dx), px(top), px(dx+l.Width), px(top+l.Height(c)))
		draw.Draw(img, body, image.NewUniform(surface.ParseColor(componentFill(c))), image.Point{}, draw.Src)

		comp, err := rule.DrawTo(c, surface.NewRaster, scale)
		if err != nil {
			return nil, err
		}
		src := comp.(*surface.Raster).Image()
		at := image.Pt(px(dx+l.LeftPadding), px(top))
		draw.Draw(img, src.Bounds().Add(at), src, image.Point{}, draw.Over)

		canvas.SetLineWidth(1)
		canvas.SetStrokeColor(bodyStroke)
		outline(canvas, dx, top, l.Width, l.Height(c))

		canvas.SetFillColor(labelColor)
		for _, lb := range labels {
			if lb.Component != c {
				continue
			}
			y := top + labelBaseline(lb, cfg.SlotHeight)
			canvas.FillText(lb.Name, dx+labelInset, y)
			if lb.SecondaryLabel != "" {
				canvas.FillText(lb.SecondaryLabel, dx+labelInset+secondaryInset, y)
			}
		}
	}

	cursor := image.Rect(px(l.CursorPosition), 0, px(l.CursorPosition+l.CursorWidth), px(l.TotalHeight))
	fill := surface.ParseColor(cursorFill)
	tint := color.NRGBA{R: fill.R, G: fill.G, B: fill.B, A: uint8(math.Round(cursorAlpha * 255))}
	draw.Draw(img, cursor, image.NewUniform(tint), image.Point{}, draw.Over)

	canvas.SetStrokeColor(cursorStroke)
	outline(canvas, l.CursorPosition, 0, l.CursorWidth, l.TotalHeight)

	hx := l.CursorPosition + l.CursorWidth/2
	canvas.SetStrokeColor(hairline)
	canvas.BeginPath()
	canvas.MoveTo(hx, 0)
	canvas.LineTo(hx, l.TotalHeight)
	canvas.Stroke()

	if rule.DeveloperMode() {
		canvas.SetFillColor(labelColor)
		for i, rd := range rule.Readings() {
			canvas.FillText(rd.String(), l.CursorPosition+4, float64(i+1)*(readoutSize+2))
		}
	}
	return img, nil
}

func outline(s surface.Surface, x, y, w, h float64) {
	s.BeginPath()
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.LineTo(x, y)
	s.Stroke()
}
