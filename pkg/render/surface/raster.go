package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Raster is a Surface backed by an RGBA image. Lines are anti-aliased with
// golang.org/x/image/vector; text is set in the 7x13 bitmap face, which only
// covers Latin-1.
type Raster struct {
	pen
	width, height float64
	img           *image.RGBA
}

// NewRaster creates a transparent raster surface. It implements Factory.
func NewRaster(width, height, pixelRatio float64) (Surface, error) {
	if err := validateSize(width, height, pixelRatio); err != nil {
		return nil, err
	}
	w := int(math.Ceil(width * pixelRatio))
	h := int(math.Ceil(height * pixelRatio))
	return &Raster{
		pen:    newPen(),
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

// Size returns the logical size.
func (r *Raster) Size() (float64, float64) { return r.width, r.height }

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// ClearRect resets the covered pixels to transparent.
func (r *Raster) ClearRect(x, y, w, h float64) {
	x0, y0, x1, y1 := r.deviceRect(x, y, w, h)
	rect := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
	draw.Draw(r.img, rect.Intersect(r.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

// Stroke rasterizes each segment of the current path as a quad of the
// current line width.
func (r *Raster) Stroke() {
	if len(r.path) == 0 {
		return
	}
	b := r.img.Bounds()
	half := r.deviceLineWidth() / 2
	src := image.NewUniform(ParseColor(r.cur.stroke))
	for _, seg := range r.path {
		dx, dy := seg.to.x-seg.from.x, seg.to.y-seg.from.y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half

		z := vector.NewRasterizer(b.Dx(), b.Dy())
		z.MoveTo(float32(seg.from.x+nx), float32(seg.from.y+ny))
		z.LineTo(float32(seg.to.x+nx), float32(seg.to.y+ny))
		z.LineTo(float32(seg.to.x-nx), float32(seg.to.y-ny))
		z.LineTo(float32(seg.from.x-nx), float32(seg.from.y-ny))
		z.ClosePath()
		z.Draw(r.img, b, src, image.Point{})
	}
}

// FillText draws text with its baseline at (x, y). The bitmap face is not
// scaled, so the text size ignores the font size.
func (r *Raster) FillText(text string, x, y float64) {
	dx, dy := r.cur.transform.apply(x, y)
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(ParseColor(r.cur.fill)),
		Face: metricsFace,
		Dot:  fixed.P(int(math.Round(dx)), int(math.Round(dy))),
	}
	d.DrawString(text)
}

// At returns the colour of the device pixel at (x, y).
func (r *Raster) At(x, y int) color.RGBA {
	return r.img.RGBAAt(x, y)
}
