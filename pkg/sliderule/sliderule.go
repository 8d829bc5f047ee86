package sliderule

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/render/strip"
	"github.com/matzehuels/sliderule/pkg/render/surface"
	"github.com/matzehuels/sliderule/pkg/scale"
)

// Mounted is a scale placed on a component.
type Mounted struct {
	Component Component
	Scale     scale.Scale
	Renderer  *strip.Renderer
	// Stats is the result of the most recent draw.
	Stats strip.Stats
}

// Layout is the derived geometry of a slide rule.
type Layout struct {
	Width             float64 `json:"width"`
	LeftPadding       float64 `json:"left_padding"`
	EffectiveWidth    float64 `json:"effective_width"`
	UpperStatorHeight float64 `json:"upper_stator_height"`
	SlideHeight       float64 `json:"slide_height"`
	LowerStatorHeight float64 `json:"lower_stator_height"`
	TotalHeight       float64 `json:"total_height"`
	CursorWidth       float64 `json:"cursor_width"`
	CursorMin         float64 `json:"cursor_min"`
	CursorMax         float64 `json:"cursor_max"`
	CursorPosition    float64 `json:"cursor_position"`
	SlidePosition     float64 `json:"slide_position"`
}

// Height returns the height of component c.
func (l Layout) Height(c Component) float64 {
	switch c {
	case UpperStator:
		return l.UpperStatorHeight
	case Slide:
		return l.SlideHeight
	case LowerStator:
		return l.LowerStatorHeight
	}
	return 0
}

// Label is the name tag shown beside a mounted scale.
type Label struct {
	Component      Component         `json:"component"`
	Slot           int               `json:"slot"`
	Name           string            `json:"name"`
	SecondaryLabel string            `json:"secondary_label,omitempty"`
	Orientation    strip.Orientation `json:"-"`
	Position       string            `json:"position"`
}

// SlideRule is an interactive slide rule instance.
type SlideRule struct {
	mu sync.Mutex

	cfg       Config
	factory   surface.Factory
	logger    *log.Logger
	onReadout ReadoutHandler

	surfaces map[Component]surface.Surface
	heights  map[Component]float64
	mounted  map[Component][]*Mounted

	leftPadding    float64
	effectiveWidth float64

	cursorPos  float64
	cursorMin  float64
	cursorMax  float64
	slidePos   float64
	devMode    bool
	display    []Reading
	drag       dragState
	resetting  bool
	resetTimer *time.Timer
	resetDelay time.Duration
}

// New creates a slide rule with one surface per component.
func New(opts ...Option) (*SlideRule, error) {
	r := &SlideRule{
		cfg: Config{
			Width:          DefaultWidth,
			SlotHeight:     DefaultSlotHeight,
			BufferSpace:    DefaultBufferSpace,
			Slots:          DefaultSlots,
			SnapToTicks:    true,
			ImproveQuality: true,
			PixelRatio:     1,
		},
		factory:    surface.NewSVG,
		logger:     log.Default(),
		mounted:    make(map[Component][]*Mounted),
		surfaces:   make(map[Component]surface.Surface),
		heights:    make(map[Component]float64),
		resetDelay: ResetDuration,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.cfg.validate(); err != nil {
		return nil, err
	}
	if r.factory == nil {
		return nil, errors.New(errors.ErrCodeMissingSurface, "no surface factory configured")
	}

	for _, c := range Components() {
		h := float64(r.cfg.Slots.Of(c)) * r.cfg.SlotHeight
		if h == 0 {
			h = r.cfg.SlotHeight
		}
		r.heights[c] = h

		s, err := r.factory(r.cfg.Width, h, r.cfg.PixelRatio)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMissingSurface, err, "create %s surface", c)
		}
		if s == nil {
			return nil, errors.New(errors.ErrCodeMissingSurface, "surface factory returned nothing for %s", c)
		}
		s.Scale(r.cfg.PixelRatio, r.cfg.PixelRatio)
		if r.cfg.ImproveQuality {
			s.Translate(0.5, 0.5)
		}
		r.surfaces[c] = s
	}

	r.cursorPos = r.cfg.BufferSpace - CursorWidth/2
	r.updateLayout()
	return r, nil
}

// Config returns a copy of the configuration.
func (r *SlideRule) Config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Layout returns the current derived geometry.
func (r *SlideRule) Layout() Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layout()
}

func (r *SlideRule) layout() Layout {
	up, sl, lo := r.heights[UpperStator], r.heights[Slide], r.heights[LowerStator]
	return Layout{
		Width:             r.cfg.Width,
		LeftPadding:       r.leftPadding,
		EffectiveWidth:    r.effectiveWidth,
		UpperStatorHeight: up,
		SlideHeight:       sl,
		LowerStatorHeight: lo,
		TotalHeight:       up + sl + lo,
		CursorWidth:       CursorWidth,
		CursorMin:         r.cursorMin,
		CursorMax:         r.cursorMax,
		CursorPosition:    r.cursorPos,
		SlidePosition:     r.slidePos,
	}
}

// Geometry returns the frame scales on component c are drawn into.
func (r *SlideRule) Geometry(c Component) strip.Geometry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geometry(c)
}

func (r *SlideRule) geometry(c Component) strip.Geometry {
	return strip.Geometry{
		Width:       r.cfg.Width - r.leftPadding,
		Height:      r.heights[c],
		BufferSpace: r.cfg.BufferSpace,
		SlotHeight:  r.cfg.SlotHeight,
	}
}

// Surface returns the drawing surface of component c.
func (r *SlideRule) Surface(c Component) (surface.Surface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[c]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidComponent, "invalid component: %q", string(c))
	}
	return s, nil
}

// Scales returns the mounted scales in visual order.
func (r *SlideRule) Scales() []Mounted {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Mounted
	for _, c := range Components() {
		for _, m := range r.mounted[c] {
			out = append(out, *m)
		}
	}
	return out
}

// ScaleConfig places a scale on a component.
type ScaleConfig struct {
	Component Component
	strip.Config
}

// Render mounts s on cfg.Component and redraws the whole instrument.
func (r *SlideRule) Render(s scale.Scale, cfg ScaleConfig) error {
	c := cfg.Component
	if !c.Valid() {
		return errors.New(errors.ErrCodeInvalidComponent, "invalid component: %q", string(c))
	}

	r.mu.Lock()
	renderer := strip.New(cfg.Config, strip.WithLogger(r.logger))
	r.mounted[c] = append(r.mounted[c], &Mounted{Component: c, Scale: s, Renderer: renderer})
	r.updateLayout()
	r.redraw()
	r.logger.Debug("mounted scale", "component", c, "scale", renderer.Config().Name,
		"slot", cfg.Slot, "padding", r.leftPadding)
	readings := r.refreshDisplay()
	r.mu.Unlock()

	r.notify(readings)
	return nil
}

// updateLayout recomputes padding, effective width, and cursor bounds, and
// pulls the cursor back inside them.
func (r *SlideRule) updateLayout() {
	r.leftPadding = 0
	for _, c := range Components() {
		for _, m := range r.mounted[c] {
			if m.Renderer.Config().SecondaryLabel != "" {
				r.leftPadding = LabelPadding
			}
		}
	}
	r.effectiveWidth = r.cfg.Width - 2*r.cfg.BufferSpace - r.leftPadding
	r.cursorMin = r.leftPadding + r.cfg.BufferSpace - CursorWidth/2
	r.cursorMax = r.leftPadding + r.cfg.BufferSpace + r.effectiveWidth - CursorWidth/2
	r.cursorPos = clamp(r.cursorPos, r.cursorMin, r.cursorMax)
}

// redraw clears every surface and draws the mounted scales in order.
func (r *SlideRule) redraw() {
	for _, c := range Components() {
		dst := r.surfaces[c]
		w, h := dst.Size()
		dst.ClearRect(-1, -1, w+2, h+2)
	}
	for _, c := range Components() {
		g := r.geometry(c)
		for _, m := range r.mounted[c] {
			stats, err := m.Renderer.Draw(r.surfaces[c], m.Scale, g)
			if err != nil {
				r.logger.Error("draw scale", "component", c, "scale", m.Renderer.Config().Name, "err", err)
				continue
			}
			m.Stats = stats
		}
	}
}

// Labels returns the scale labels in visual order.
func (r *SlideRule) Labels() []Label {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.labels()
}

func (r *SlideRule) labels() []Label {
	var labels []Label
	for _, c := range Components() {
		for _, m := range r.mounted[c] {
			cfg := m.Renderer.Config()
			labels = append(labels, Label{
				Component:      c,
				Slot:           cfg.Slot,
				Name:           cfg.Name,
				SecondaryLabel: cfg.SecondaryLabel,
				Orientation:    cfg.Orientation,
				Position:       cfg.Orientation.String(),
			})
		}
	}
	return labels
}

// SetSlidePosition moves the slide, clamped to ±EffectiveWidth.
func (r *SlideRule) SetSlidePosition(px float64) {
	r.mu.Lock()
	r.setSlide(px)
	readings := r.refreshDisplay()
	r.mu.Unlock()
	r.notify(readings)
}

func (r *SlideRule) setSlide(px float64) {
	if math.IsNaN(px) {
		return
	}
	r.slidePos = clamp(px, -r.effectiveWidth, r.effectiveWidth)
}

// SetCursorPosition moves the cursor's left edge, clamped to its bounds.
func (r *SlideRule) SetCursorPosition(px float64) {
	r.mu.Lock()
	r.setCursor(px)
	readings := r.refreshDisplay()
	r.mu.Unlock()
	r.notify(readings)
}

func (r *SlideRule) setCursor(px float64) {
	if math.IsNaN(px) {
		return
	}
	r.cursorPos = clamp(px, r.cursorMin, r.cursorMax)
}

// SlidePosition returns the slide offset in pixels.
func (r *SlideRule) SlidePosition() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slidePos
}

// CursorPosition returns the cursor's left edge in pixels.
func (r *SlideRule) CursorPosition() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursorPos
}

// ResetSlide returns the slide to zero. Resetting reports true for
// ResetDuration afterwards.
func (r *SlideRule) ResetSlide() {
	r.mu.Lock()
	r.resetting = true
	if r.resetTimer != nil {
		r.resetTimer.Stop()
	}
	r.resetTimer = time.AfterFunc(r.resetDelay, func() {
		r.mu.Lock()
		r.resetting = false
		r.mu.Unlock()
	})
	r.setSlide(0)
	readings := r.refreshDisplay()
	r.mu.Unlock()
	r.notify(readings)
}

// Resetting reports whether a slide reset transition is in progress.
func (r *SlideRule) Resetting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetting
}

// SetDeveloperMode toggles the live readout.
func (r *SlideRule) SetDeveloperMode(on bool) {
	r.mu.Lock()
	r.devMode = on
	readings := r.refreshDisplay()
	r.mu.Unlock()
	r.notify(readings)
}

// DeveloperMode reports whether the live readout is on.
func (r *SlideRule) DeveloperMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devMode
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// DrawTo draws component c onto a fresh surface from f at the given pixel
// ratio, with the same setup as the slide rule's own surfaces.
func (r *SlideRule) DrawTo(c Component, f surface.Factory, pixelRatio float64) (surface.Surface, error) {
	if !c.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidComponent, "invalid component: %q", string(c))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	dst, err := f(r.cfg.Width, r.heights[c], pixelRatio)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingSurface, err, "create %s surface", c)
	}
	dst.Scale(pixelRatio, pixelRatio)
	if r.cfg.ImproveQuality {
		dst.Translate(0.5, 0.5)
	}
	g := r.geometry(c)
	for _, m := range r.mounted[c] {
		if _, err := m.Renderer.Draw(dst, m.Scale, g); err != nil {
			return nil, err
		}
	}
	return dst, nil
}
