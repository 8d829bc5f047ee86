package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/cache"
	"github.com/matzehuels/sliderule/pkg/instrument"
	"github.com/matzehuels/sliderule/pkg/observability"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute builds the instrument, positions slide and cursor, and renders
// every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	buildStart := time.Now()
	rule, hash, err := r.Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result := &Result{
		Rule:           rule,
		InstrumentHash: hash,
		Stats: Stats{
			Scales:    len(opts.Instrument.Scales),
			BuildTime: time.Since(buildStart),
		},
	}
	r.Logger.Info("built instrument",
		"name", opts.Instrument.Name,
		"scales", result.Stats.Scales,
		"duration", result.Stats.BuildTime)

	Position(rule, opts)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderRule(ctx, rule, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build turns opts.Instrument into a slide rule and returns it with the
// instrument's content hash.
func (r *Runner) Build(ctx context.Context, opts Options) (*sliderule.SlideRule, string, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", err
	}
	r.applyLogger(&opts)
	spec := opts.Instrument

	hooks := observability.Render()
	hooks.OnBuildStart(ctx, spec.Name, len(spec.Scales))
	start := time.Now()

	hash, err := InstrumentHash(spec)
	if err != nil {
		hooks.OnBuildComplete(ctx, spec.Name, time.Since(start), err)
		return nil, "", err
	}
	ruleOpts := append([]sliderule.Option{sliderule.WithLogger(opts.Logger)}, opts.RuleOptions...)
	rule, err := spec.Build(ruleOpts...)
	hooks.OnBuildComplete(ctx, spec.Name, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	return rule, hash, nil
}

// InstrumentHash returns the content hash of spec's canonical encoding.
func InstrumentHash(spec *instrument.Spec) (string, error) {
	data, err := spec.Canonical()
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// Position applies the slide, cursor, and developer mode overrides of opts.
func Position(rule *sliderule.SlideRule, opts Options) {
	if opts.DeveloperMode != nil {
		rule.SetDeveloperMode(*opts.DeveloperMode)
	}
	if opts.Slide != nil {
		rule.SetSlidePosition(*opts.Slide)
	}
	if opts.Cursor != nil {
		rule.SetCursorPosition(*opts.Cursor)
	}
}

// RenderRule renders rule in its current position with caching and reports
// whether every artifact came from the cache. instrumentHash identifies the
// instrument the rule was built from.
func (r *Runner) RenderRule(ctx context.Context, rule *sliderule.SlideRule, instrumentHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(instrumentHash, opts.ArtifactKeyOpts(format, rule))
	}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, opts.Formats, keys); ok {
			return artifacts, true, nil
		}
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, rule, opts.Instrument.Name, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		if err := r.Cache.Set(ctx, keys[format], data, cache.ArtifactTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
	}
	return rendered, false, nil
}

// cached returns the artifacts for every format, or false if any is missing.
func (r *Runner) cached(ctx context.Context, formats []string, keys map[string]string) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, hit, err := r.Cache.Get(ctx, keys[format])
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, artifactKeyType)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, artifactKeyType)
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
