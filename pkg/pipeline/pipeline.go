// Package pipeline provides the build → position → render pipeline shared by
// the CLI and the HTTP service.
//
// A [Runner] turns an instrument description into a slide rule, moves the
// slide and cursor, and renders the requested formats. Rendered artifacts are
// cached under a key derived from the instrument's canonical encoding and the
// render inputs, so repeated renders of an unchanged instrument are served
// from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Instrument: instrument.Classic(),
//	    Formats:    []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Render an existing slide rule, e.g. one held by a session:
//
//	artifacts, hit, err := runner.RenderRule(ctx, rule, instrumentHash, opts)
package pipeline

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/cache"
	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/instrument"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultPNGScale is the PNG resolution multiplier; MaxPNGScale bounds it.
const (
	DefaultPNGScale = 2.0
	MaxPNGScale     = 8.0
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options configures one pipeline run.
type Options struct {
	// Instrument is the slide rule to build. Nil means instrument.Classic().
	Instrument *instrument.Spec `json:"-"`

	// Slide and Cursor, when set, move the slide and cursor before rendering.
	Slide  *float64 `json:"slide,omitempty"`
	Cursor *float64 `json:"cursor,omitempty"`
	// DeveloperMode, when set, overrides the instrument's developer mode.
	DeveloperMode *bool `json:"developer_mode,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`
	// Convert renders PNG through rsvg-convert instead of the native rasterizer.
	Convert  bool `json:"convert,omitempty"`
	NoCursor bool `json:"no_cursor,omitempty"`
	// Exact adds unsnapped readings to JSON output.
	Exact bool `json:"exact,omitempty"`
	// Refresh skips cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Extra slide rule options applied after the instrument's own.
	RuleOptions []sliderule.Option `json:"-"`
	Logger      *log.Logger        `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Rule is the built slide rule, positioned as requested.
	Rule *sliderule.SlideRule
	// InstrumentHash is the content hash of the instrument's canonical form.
	InstrumentHash string
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte
	Stats     Stats
	// CacheHit reports whether every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Scales     int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated format list and validates it.
func ParseFormats(s string) ([]string, error) {
	var formats []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return formats, ValidateFormats(formats)
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Instrument == nil {
		o.Instrument = instrument.Classic()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if !(o.PNGScale > 0 && o.PNGScale <= MaxPNGScale) {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be in (0, %g], got %g", MaxPNGScale, o.PNGScale)
	}
	for name, p := range map[string]*float64{"slide": o.Slide, "cursor": o.Cursor} {
		if p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
			return errors.New(errors.ErrCodeInvalidInput, "%s position must be finite", name)
		}
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format of rule.
func (o *Options) ArtifactKeyOpts(format string, rule *sliderule.SlideRule) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:        format,
		Slide:         rule.SlidePosition(),
		Cursor:        rule.CursorPosition(),
		DeveloperMode: rule.DeveloperMode(),
		NoCursor:      o.NoCursor,
	}
	switch format {
	case FormatPNG:
		opts.Scale = o.PNGScale
		opts.Convert = o.Convert
	case FormatJSON:
		opts.Exact = o.Exact
	}
	return opts
}
