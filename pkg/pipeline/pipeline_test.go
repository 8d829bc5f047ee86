package pipeline

import (
	"bytes"
	"context"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/instrument"
)

// memCache is an in-memory cache.Cache that counts lookups.
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	hits   int
	misses int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietRunner(c *memCache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func ptr[T any](v T) *T { return &v }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" SVG, json ,svg,,png")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "svg,json,png" {
		t.Errorf("formats = %v", got)
	}
	if _, err := ParseFormats(" , "); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("empty list err = %v", err)
	}
	if _, err := ParseFormats("svg,gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("gif err = %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Instrument == nil || opts.Instrument.Name != instrument.ClassicName {
		t.Errorf("instrument = %+v, want Classic", opts.Instrument)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("formats = %v, want [svg]", opts.Formats)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("png scale = %v", opts.PNGScale)
	}

	// Second call is a no-op.
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should not re-validate: %v", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{name: "format", opts: Options{Formats: []string{"gif"}}, code: errors.ErrCodeInvalidFormat},
		{name: "png scale", opts: Options{PNGScale: -1}, code: errors.ErrCodeInvalidInput},
		{name: "png scale too large", opts: Options{PNGScale: 1e6}, code: errors.ErrCodeInvalidInput},
		{name: "png scale infinite", opts: Options{PNGScale: math.Inf(1)}, code: errors.ErrCodeInvalidInput},
		{name: "nan slide", opts: Options{Slide: ptr(math.NaN())}, code: errors.ErrCodeInvalidInput},
		{name: "inf cursor", opts: Options{Cursor: ptr(math.Inf(1))}, code: errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteCachesArtifacts(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	runner := quietRunner(c)
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}
	if !bytes.HasPrefix(first.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact = %.40q", first.Artifacts[FormatSVG])
	}
	if !bytes.Contains(first.Artifacts[FormatJSON], []byte(`"name": "Classic"`)) {
		t.Error("json artifact should carry the instrument name")
	}
	if len(c.data) != 2 {
		t.Errorf("cached %d entries, want 2", len(c.data))
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if second.InstrumentHash != first.InstrumentHash {
		t.Error("instrument hash changed between runs")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecutePositionsRule(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	runner := quietRunner(c)

	res, err := runner.Execute(ctx, Options{Cursor: ptr(300.0), Slide: ptr(40.0), DeveloperMode: ptr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Rule.CursorPosition(); got != 300 {
		t.Errorf("cursor = %v, want 300", got)
	}
	if got := res.Rule.SlidePosition(); got != 40 {
		t.Errorf("slide = %v, want 40", got)
	}
	if res.Rule.DeveloperMode() {
		t.Error("developer mode override was not applied")
	}

	moved, err := runner.Execute(ctx, Options{Cursor: ptr(310.0), Slide: ptr(40.0), DeveloperMode: ptr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if moved.CacheHit {
		t.Error("a different cursor position must not reuse the cached artifact")
	}
}

func TestExecuteInvalidInstrument(t *testing.T) {
	spec := &instrument.Spec{Scales: []instrument.ScaleSpec{{Component: "cursor", LeftIndex: 1, RightIndex: 10}}}
	_, err := quietRunner(newMemCache()).Execute(context.Background(), Options{Instrument: spec})
	if !errors.Is(err, errors.ErrCodeInvalidInstrument) {
		t.Fatalf("err = %v", err)
	}
}

func TestInstrumentHash(t *testing.T) {
	a, err := InstrumentHash(instrument.Classic())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := InstrumentHash(instrument.Classic())
	if a != b {
		t.Error("hash should be deterministic")
	}
	wide := instrument.Classic()
	wide.Width = 1600
	c, _ := InstrumentHash(wide)
	if a == c {
		t.Error("different instruments should hash differently")
	}
}

func TestRenderRuleKeysByFormat(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	runner := quietRunner(c)

	opts := Options{Formats: []string{FormatSVG}}
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts = Options{Formats: []string{FormatSVG, FormatJSON}}
	_, hit, err := runner.RenderRule(ctx, res.Rule, res.InstrumentHash, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("json was never rendered, so the request cannot be a full hit")
	}
}
