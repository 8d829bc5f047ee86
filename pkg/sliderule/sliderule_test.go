package sliderule

import (
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/division"
	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/render/strip"
	"github.com/matzehuels/sliderule/pkg/render/surface"
	"github.com/matzehuels/sliderule/pkg/scale"
)

func newRule(t *testing.T, opts ...Option) *SlideRule {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard)), WithSurfaces(surface.NewRecorder)}, opts...)
	r, err := New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func mount(t *testing.T, r *SlideRule, c Component, s scale.Scale, cfg strip.Config) {
	t.Helper()
	if err := r.Render(s, ScaleConfig{Component: c, Config: cfg}); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	r := newRule(t)
	cfg := r.Config()
	if cfg.Width != 900 || cfg.SlotHeight != 40 || cfg.BufferSpace != 30 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Slots != (Slots{UpperStator: 0, Slide: 2, LowerStator: 1}) {
		t.Errorf("slots = %+v", cfg.Slots)
	}
	if !cfg.SnapToTicks || !cfg.ImproveQuality {
		t.Error("snapping and quality improvement should default on")
	}

	l := r.Layout()
	if l.UpperStatorHeight != 40 || l.SlideHeight != 80 || l.LowerStatorHeight != 40 || l.TotalHeight != 160 {
		t.Errorf("heights = %+v", l)
	}
	if l.EffectiveWidth != 840 || l.LeftPadding != 0 {
		t.Errorf("effective width = %v, padding = %v", l.EffectiveWidth, l.LeftPadding)
	}
	if l.CursorPosition != -18 || l.CursorMin != -18 || l.CursorMax != 822 {
		t.Errorf("cursor = %v in [%v, %v]", l.CursorPosition, l.CursorMin, l.CursorMax)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero width", WithWidth(0)},
		{"no room", WithWidth(100)},
		{"zero slot height", WithSlotHeight(0)},
		{"negative buffer", WithBufferSpace(-1)},
		{"negative slots", WithSlots(-1, 2, 1)},
		{"zero pixel ratio", WithPixelRatio(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opt); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("New() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestMissingSurface(t *testing.T) {
	failing := func(w, h, dpr float64) (surface.Surface, error) {
		return nil, errors.New(errors.ErrCodeInternal, "no canvas")
	}
	if _, err := New(WithSurfaces(failing)); !errors.Is(err, errors.ErrCodeMissingSurface) {
		t.Errorf("New() error = %v, want MISSING_SURFACE", err)
	}
	empty := func(w, h, dpr float64) (surface.Surface, error) { return nil, nil }
	if _, err := New(WithSurfaces(empty)); !errors.Is(err, errors.ErrCodeMissingSurface) {
		t.Errorf("New() error = %v, want MISSING_SURFACE", err)
	}
	if _, err := New(WithSurfaces(nil)); !errors.Is(err, errors.ErrCodeMissingSurface) {
		t.Errorf("New() error = %v, want MISSING_SURFACE", err)
	}
}

func TestRenderInvalidComponent(t *testing.T) {
	r := newRule(t)
	err := r.Render(scale.MustLog(1, 10), ScaleConfig{Component: "middleStator"})
	if !errors.Is(err, errors.ErrCodeInvalidComponent) {
		t.Errorf("Render() error = %v, want INVALID_COMPONENT", err)
	}
	if len(r.Scales()) != 0 {
		t.Error("invalid render mounted a scale")
	}
	if _, err := r.Surface("middleStator"); !errors.Is(err, errors.ErrCodeInvalidComponent) {
		t.Errorf("Surface() error = %v", err)
	}
}

func TestCursorClamp(t *testing.T) {
	r := newRule(t, WithWidth(578), WithBufferSpace(30))
	l := r.Layout()
	if l.CursorMin != -18 || l.CursorMax != 500 {
		t.Fatalf("cursor bounds = [%v, %v], want [-18, 500]", l.CursorMin, l.CursorMax)
	}

	tests := []struct {
		in, want float64
	}{
		{-100, -18},
		{1000, 500},
		{200, 200},
		{math.Inf(1), 500},
	}
	for _, tt := range tests {
		r.SetCursorPosition(tt.in)
		if got := r.CursorPosition(); got != tt.want {
			t.Errorf("SetCursorPosition(%v) -> %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlideClamp(t *testing.T) {
	r := newRule(t, WithWidth(578), WithBufferSpace(30))
	eff := r.Layout().EffectiveWidth

	r.SetSlidePosition(600)
	if got := r.SlidePosition(); got != eff {
		t.Errorf("slide = %v, want %v", got, eff)
	}
	r.SetSlidePosition(-600)
	if got := r.SlidePosition(); got != -eff {
		t.Errorf("slide = %v, want %v", got, -eff)
	}
	r.SetSlidePosition(math.NaN())
	if got := r.SlidePosition(); got != -eff {
		t.Errorf("NaN moved the slide to %v", got)
	}
}

func TestSecondaryLabelPadding(t *testing.T) {
	r := newRule(t, WithWidth(578), WithBufferSpace(30))
	mount(t, r, Slide, scale.MustLog(1, 10), strip.Config{Name: "C"})
	if l := r.Layout(); l.LeftPadding != 0 {
		t.Fatalf("padding = %v before secondary label", l.LeftPadding)
	}

	mount(t, r, UpperStator, scale.MustLog(1, 100), strip.Config{Name: "A", SecondaryLabel: "x²", Rules: division.TwoDecadeLog})
	l := r.Layout()
	if l.LeftPadding != 50 || l.EffectiveWidth != 468 {
		t.Errorf("padding = %v, effective width = %v", l.LeftPadding, l.EffectiveWidth)
	}
	if l.CursorMin != 32 || l.CursorMax != 500 {
		t.Errorf("cursor bounds = [%v, %v], want [32, 500]", l.CursorMin, l.CursorMax)
	}
	if l.CursorPosition != 32 {
		t.Errorf("cursor = %v, want re-clamped to 32", l.CursorPosition)
	}
	if g := r.Geometry(Slide); g.Width != 528 || g.EffectiveWidth() != l.EffectiveWidth {
		t.Errorf("geometry = %+v", g)
	}
}

func TestRenderRedrawsAll(t *testing.T) {
	r := newRule(t)
	mount(t, r, Slide, scale.MustLog(1, 10), strip.Config{Name: "C"})
	surf, _ := r.Surface(Slide)
	rec := surf.(*surface.Recorder)
	first := len(rec.Strokes())

	mount(t, r, LowerStator, scale.MustLog(1, 10), strip.Config{Name: "D", Orientation: strip.Top})
	if got := len(rec.Strokes()); got != first {
		t.Errorf("slide strokes after second mount = %d, want %d (cleared and redrawn)", got, first)
	}

	scales := r.Scales()
	if len(scales) != 2 || scales[0].Renderer.Config().Name != "C" || scales[1].Component != LowerStator {
		t.Fatalf("scales = %+v", scales)
	}
	for _, m := range scales {
		if m.Stats.Ticks == 0 || m.Stats.Marks != 12 {
			t.Errorf("%s stats = %+v", m.Renderer.Config().Name, m.Stats)
		}
	}
}

func TestSurfaceTransform(t *testing.T) {
	r := newRule(t, WithPixelRatio(2))
	mount(t, r, Slide, scale.MustLog(1, 10), strip.Config{Name: "C", Marks: scale.Explicit(), Rules: division.RuleSet{}})
	surf, _ := r.Surface(Slide)
	border := surf.(*surface.Recorder).Strokes()[0].Lines[0]
	if border.Y1 != 81 || border.X1 != 1 {
		t.Errorf("border at (%v, %v), want (1, 81)", border.X1, border.Y1)
	}
}

func TestLabels(t *testing.T) {
	r := newRule(t, WithSlots(1, 2, 1))
	mount(t, r, LowerStator, scale.MustLog(1, 10), strip.Config{Name: "D", Orientation: strip.Top})
	mount(t, r, UpperStator, scale.MustLog(1, 100), strip.Config{Name: "A", SecondaryLabel: "x²"})
	mount(t, r, Slide, scale.MustLog(1, 100), strip.Config{Name: "B", Orientation: strip.Top})

	labels := r.Labels()
	want := []struct {
		name, position string
	}{{"A", "bottom"}, {"B", "top"}, {"D", "top"}}
	if len(labels) != len(want) {
		t.Fatalf("labels = %+v", labels)
	}
	for i, w := range want {
		if labels[i].Name != w.name || labels[i].Position != w.position {
			t.Errorf("labels[%d] = %+v, want %s/%s", i, labels[i], w.name, w.position)
		}
	}
	if labels[0].SecondaryLabel != "x²" {
		t.Errorf("secondary label = %q", labels[0].SecondaryLabel)
	}
}

// multiply mounts C on the slide and D on the lower stator, sets C's index
// over D=2 and the hairline over C=3.
func multiply(t *testing.T, opts ...Option) *SlideRule {
	t.Helper()
	r := newRule(t, opts...)
	mount(t, r, Slide, scale.MustLog(1, 10), strip.Config{Name: "C"})
	mount(t, r, LowerStator, scale.MustLog(1, 10), strip.Config{Name: "D", Orientation: strip.Top})

	eff := r.Layout().EffectiveWidth
	r.SetSlidePosition(eff * math.Log10(2))
	r.SetCursorPosition(30 + eff*math.Log10(6) - CursorWidth/2)
	return r
}

func TestReadingsMultiply(t *testing.T) {
	r := multiply(t)
	readings := r.Readings()
	if len(readings) != 2 {
		t.Fatalf("readings = %v", readings)
	}
	if c := readings[0]; c.Scale != "C" || c.Component != Slide || c.Value != 3 || c.Text != "3.00" {
		t.Errorf("C reading = %+v", c)
	}
	if d := readings[1]; d.Scale != "D" || d.Value != 6 || d.Text != "6.00" {
		t.Errorf("D reading = %+v", d)
	}

	exact := r.ExactReadings()
	if math.Abs(exact[1].Value-6) > 1e-9 {
		t.Errorf("exact D reading = %v", exact[1].Value)
	}
}

func TestReadingsAtEnds(t *testing.T) {
	r := newRule(t)
	mount(t, r, LowerStator, scale.MustLog(1, 10), strip.Config{Name: "D"})

	r.SetCursorPosition(-1000)
	if v := r.Readings()[0].Value; v != 1 {
		t.Errorf("reading at left stop = %v, want 1", v)
	}
	r.SetCursorPosition(1000)
	if v := r.Readings()[0].Value; v != 10 {
		t.Errorf("reading at right stop = %v, want 10", v)
	}
}

func TestReadingUnsupportedScale(t *testing.T) {
	r := newRule(t)
	mount(t, r, LowerStator, scale.Scale{}, strip.Config{Name: "X"})
	r.SetCursorPosition(300)
	rd := r.Readings()[0]
	if rd.Error == "" || rd.Text != "n/a" || rd.Value != 0 {
		t.Errorf("reading = %+v", rd)
	}
}

func TestDeveloperModeDisplay(t *testing.T) {
	var mu sync.Mutex
	var calls [][]Reading
	handler := func(rds []Reading) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, rds)
	}

	r := multiply(t, WithReadoutHandler(handler))
	if len(r.Display()) != 0 || len(calls) != 0 {
		t.Fatal("display updated outside developer mode")
	}
	if len(r.Readings()) != 2 {
		t.Fatal("readings must be computable with the display off")
	}

	r.SetDeveloperMode(true)
	if !r.DeveloperMode() {
		t.Fatal("developer mode not set")
	}
	display := r.Display()
	if len(display) != 2 || display[1].Text != "6.00" {
		t.Errorf("display = %v", display)
	}

	r.SetCursorPosition(r.CursorPosition() + 5)
	mu.Lock()
	n := len(calls)
	mu.Unlock()
	if n != 2 {
		t.Errorf("handler calls = %d, want 2", n)
	}

	r.SetDeveloperMode(false)
	if len(r.Display()) != 0 {
		t.Error("display should clear when developer mode is turned off")
	}
}

func TestResetSlide(t *testing.T) {
	r := newRule(t)
	r.resetDelay = 10 * time.Millisecond

	r.SetSlidePosition(120)
	r.ResetSlide()
	if r.SlidePosition() != 0 {
		t.Errorf("slide = %v after reset", r.SlidePosition())
	}
	if !r.Resetting() {
		t.Error("Resetting() = false right after reset")
	}

	deadline := time.Now().Add(2 * time.Second)
	for r.Resetting() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if r.Resetting() {
		t.Error("Resetting() still true after the transition")
	}
}

func TestDrag(t *testing.T) {
	r := newRule(t)

	if !r.StartSlideDrag(100) {
		t.Fatal("StartSlideDrag() = false")
	}
	if r.StartCursorDrag(100) {
		t.Error("cursor drag started while slide drag in progress")
	}
	r.DragMove(150)
	if got := r.SlidePosition(); got != 50 {
		t.Errorf("slide = %v, want 50", got)
	}
	r.DragMove(5000)
	if got := r.SlidePosition(); got != 840 {
		t.Errorf("slide = %v, want clamped to 840", got)
	}
	r.DragEnd()
	if r.Dragging() != DragNone {
		t.Error("drag not ended")
	}

	start := r.CursorPosition()
	if !r.StartCursorDrag(start + 10) {
		t.Fatal("StartCursorDrag() = false")
	}
	if r.Dragging() != DragCursor {
		t.Errorf("Dragging() = %v", r.Dragging())
	}
	r.DragMove(start + 110)
	if got := r.CursorPosition(); got != start+100 {
		t.Errorf("cursor = %v, want %v", got, start+100)
	}
	r.DragEnd()

	r.DragMove(0)
	if got := r.CursorPosition(); got != start+100 {
		t.Errorf("move without drag changed cursor to %v", got)
	}
}

func TestConcurrentUse(t *testing.T) {
	r := multiply(t)
	r.SetDeveloperMode(true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				r.SetCursorPosition(float64(i*50 + j))
				r.SetSlidePosition(float64(j))
				_ = r.Readings()
				_ = r.Layout()
			}
		}(i)
	}
	wg.Wait()
}

func TestSnapshotConsistent(t *testing.T) {
	r := multiply(t)
	l := r.Layout()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			r.SetCursorPosition(float64(100 + 300*(i%2)))
		}
	}()

	for i := 0; i < 200; i++ {
		snap := r.Snapshot()
		hairline := snap.Layout.CursorPosition + CursorWidth/2
		want := math.Pow(10, (hairline-l.LeftPadding-30)/l.EffectiveWidth)
		var got float64
		for _, rd := range snap.ExactReadings {
			if rd.Scale == "D" {
				got = rd.Value
			}
		}
		if math.Abs(got-want) > 1e-9 {
			close(stop)
			wg.Wait()
			t.Fatalf("snapshot cursor %v reads D=%v, want %v", snap.Layout.CursorPosition, got, want)
		}
		if len(snap.Readings) != len(snap.ExactReadings) || len(snap.Labels) != 2 {
			t.Fatalf("snapshot = %+v", snap)
		}
	}
	close(stop)
	wg.Wait()
}

func TestParseComponent(t *testing.T) {
	for _, c := range Components() {
		got, err := ParseComponent(string(c))
		if err != nil || got != c {
			t.Errorf("ParseComponent(%q) = %v, %v", c, got, err)
		}
	}
	if _, err := ParseComponent("cursor"); !errors.Is(err, errors.ErrCodeInvalidComponent) {
		t.Errorf("ParseComponent(cursor) error = %v", err)
	}
}

func TestDrawTo(t *testing.T) {
	r := newRule(t)
	mount(t, r, Slide, scale.MustLog(1, 10), strip.Config{Name: "C"})

	own, _ := r.Surface(Slide)
	fresh, err := r.DrawTo(Slide, surface.NewRecorder, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(fresh.(*surface.Recorder).Strokes()), len(own.(*surface.Recorder).Strokes()); got != want {
		t.Errorf("DrawTo strokes = %d, want %d", got, want)
	}
	if _, err := r.DrawTo("cursor", surface.NewRecorder, 1); !errors.Is(err, errors.ErrCodeInvalidComponent) {
		t.Errorf("DrawTo(cursor) error = %v", err)
	}
}

func TestExplicitConstantMark(t *testing.T) {
	r := newRule(t)
	entries := []scale.MarkEntry{scale.Number(1), scale.Number(2), scale.Number(3), scale.Named("π")}
	for v := 4; v <= 10; v++ {
		entries = append(entries, scale.Number(float64(v)))
	}
	mount(t, r, Slide, scale.MustLog(1, 10), strip.Config{Name: "C", Marks: scale.Explicit(entries...), Rules: division.RuleSet{}})

	m := r.Scales()[0]
	marks, err := m.Renderer.Marks(m.Scale)
	if err != nil {
		t.Fatal(err)
	}
	if len(marks) != 11 || marks[3].Text != "π" || marks[3].Value != math.Pi {
		t.Fatalf("marks = %+v, want π resolved at index 3", marks)
	}
	if m.Stats.Marks != 11 {
		t.Errorf("drawn marks = %d, want 11", m.Stats.Marks)
	}

	g := r.Geometry(Slide)
	pixel := func(v float64) float64 {
		x, err := m.Renderer.Pixel(m.Scale, g, v)
		if err != nil {
			t.Fatal(err)
		}
		return x + 0.5
	}
	x3, xPi, x4 := pixel(3), pixel(math.Pi), pixel(4)

	surf, _ := r.Surface(Slide)
	rec := surf.(*surface.Recorder)

	var strokes []float64
	for _, op := range rec.Strokes() {
		ln := op.Lines[0]
		if ln.X1 == ln.X2 && math.Abs(ln.Y1-ln.Y2) == strip.MarkHeight {
			strokes = append(strokes, ln.X1)
		}
	}
	if len(strokes) != 11 {
		t.Fatalf("mark strokes = %v, want 11", strokes)
	}
	if math.Abs(strokes[2]-x3) > 1e-9 || math.Abs(strokes[3]-xPi) > 1e-9 || math.Abs(strokes[4]-x4) > 1e-9 {
		t.Errorf("strokes 3, π, 4 at %v %v %v, want %v %v %v", strokes[2], strokes[3], strokes[4], x3, xPi, x4)
	}
	if !(strokes[2] < strokes[3] && strokes[3] < strokes[4]) {
		t.Errorf("π stroke %v should lie between 3 (%v) and 4 (%v)", strokes[3], strokes[2], strokes[4])
	}

	var found bool
	for _, op := range rec.Texts() {
		if op.Text != "π" {
			continue
		}
		found = true
		w := surface.TextWidth("π", op.FontSize)
		if center := op.X + w/2; math.Abs(center-xPi) > 1e-6 {
			t.Errorf("π label centred at %v, want %v", center, xPi)
		}
		if !(op.X > x3 && op.X+w < x4) {
			t.Errorf("π label spans [%v, %v], want inside (%v, %v)", op.X, op.X+w, x3, x4)
		}
	}
	if !found {
		t.Error("no π label drawn")
	}
}
