package sliderule

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/render/surface"
)

// Defaults.
const (
	DefaultWidth       = 900.0
	DefaultSlotHeight  = 40.0
	DefaultBufferSpace = 30.0

	// CursorWidth is the width of the cursor body; the hairline sits at its centre.
	CursorWidth = 96.0
	// LabelPadding is the left padding reserved when any scale has a secondary label.
	LabelPadding = 50.0
	// ResetDuration is how long Resetting reports true after ResetSlide.
	ResetDuration = 300 * time.Millisecond
)

// DefaultSlots is the slot layout used when WithSlots is not given.
var DefaultSlots = Slots{UpperStator: 0, Slide: 2, LowerStator: 1}

// Config is the static configuration of a slide rule.
type Config struct {
	Width          float64 `json:"width"`
	SlotHeight     float64 `json:"slot_height"`
	BufferSpace    float64 `json:"buffer_space"`
	Slots          Slots   `json:"slots"`
	SnapToTicks    bool    `json:"snap_to_ticks"`
	ImproveQuality bool    `json:"improve_quality"`
	PixelRatio     float64 `json:"pixel_ratio"`
}

// ReadoutHandler receives the cursor readout whenever it changes in
// developer mode. It runs on the goroutine that moved the cursor or slide,
// after the slide rule's lock is released.
type ReadoutHandler func([]Reading)

// Option configures a SlideRule.
type Option func(*SlideRule)

// WithWidth sets the total pixel width.
func WithWidth(w float64) Option { return func(r *SlideRule) { r.cfg.Width = w } }

// WithSlotHeight sets the height of one slot in pixels.
func WithSlotHeight(h float64) Option { return func(r *SlideRule) { r.cfg.SlotHeight = h } }

// WithBufferSpace sets the margin between the component edge and the scale indexes.
func WithBufferSpace(b float64) Option { return func(r *SlideRule) { r.cfg.BufferSpace = b } }

// WithSlots sets the slot count of each component.
func WithSlots(upper, slide, lower int) Option {
	return func(r *SlideRule) {
		r.cfg.Slots = Slots{UpperStator: upper, Slide: slide, LowerStator: lower}
	}
}

// WithSnapToTicks controls whether readings snap to the nearest tick value.
func WithSnapToTicks(snap bool) Option { return func(r *SlideRule) { r.cfg.SnapToTicks = snap } }

// WithImproveQuality offsets drawing by half a pixel so that one pixel lines
// land on pixel centres.
func WithImproveQuality(on bool) Option { return func(r *SlideRule) { r.cfg.ImproveQuality = on } }

// WithPixelRatio sets the device pixel ratio of the surfaces.
func WithPixelRatio(dpr float64) Option { return func(r *SlideRule) { r.cfg.PixelRatio = dpr } }

// WithSurfaces sets the factory used to create component surfaces.
func WithSurfaces(f surface.Factory) Option { return func(r *SlideRule) { r.factory = f } }

// WithLogger sets the logger for the slide rule and its scale renderers.
func WithLogger(l *log.Logger) Option {
	return func(r *SlideRule) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithReadoutHandler registers a function that receives developer mode readouts.
func WithReadoutHandler(h ReadoutHandler) Option { return func(r *SlideRule) { r.onReadout = h } }

func (c Config) validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case !finite(c.Width) || c.Width <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "width must be positive, got %g", c.Width)
	case !finite(c.SlotHeight) || c.SlotHeight <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "slot height must be positive, got %g", c.SlotHeight)
	case !finite(c.BufferSpace) || c.BufferSpace < 0:
		return errors.New(errors.ErrCodeInvalidInput, "buffer space must not be negative, got %g", c.BufferSpace)
	case c.Width-2*c.BufferSpace-LabelPadding <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "width %g leaves no room for a scale with buffer space %g", c.Width, c.BufferSpace)
	case c.Slots.UpperStator < 0 || c.Slots.Slide < 0 || c.Slots.LowerStator < 0:
		return errors.New(errors.ErrCodeInvalidInput, "slot counts must not be negative: %+v", c.Slots)
	case !finite(c.PixelRatio) || c.PixelRatio <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "pixel ratio must be positive, got %g", c.PixelRatio)
	}
	return nil
}
