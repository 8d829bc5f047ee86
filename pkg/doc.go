// Package pkg provides the libraries behind sliderule, a virtual slide rule.
//
// # Overview
//
// A slide rule is built from three strips: the upper stator, the slide and
// the lower stator. Each strip carries one or more scales. The slide moves
// horizontally between the stators and a cursor hairline reads the value
// under it on every scale.
//
// The packages are layered leaf to root:
//
//  1. [scale] - Scale math (logarithmic and linear), constants and marks
//  2. [division] - Tick subdivisions, rule sets and the tick selector
//  3. [render/surface] - Drawing surfaces (SVG, raster, recording)
//  4. [render/strip] - Draws one scale onto a surface and resolves ticks
//  5. [sliderule] - The controller: layout, slide, cursor, drag and readout
//  6. [render/sink] - Composes a rule into SVG, PNG, PDF or JSON
//  7. [instrument] - TOML instrument files and the built-in Classic rule
//  8. [pipeline] - Build, position and render with caching
//
// Service packages sit on top: [cache] (file, Redis and null backends),
// [session] (in-memory TTL store of rules), [server] (chi HTTP API) and
// [observability] (hooks for logging and metrics).
//
// # Architecture
//
//	instrument.toml
//	      ↓
//	[instrument] package (decode + validate)
//	      ↓
//	[sliderule] package (mount scales, layout, positions)
//	      ↓
//	[render/sink] package (compose component surfaces)
//	      ↓
//	SVG/PNG/PDF/JSON output
//
// # Quick Start
//
//	rule, err := instrument.Classic().Build()
//	if err != nil {
//	    return err
//	}
//	rule.SetSlidePosition(120)
//	rule.SetCursorPosition(300)
//	for _, rd := range rule.Readings() {
//	    fmt.Println(rd)
//	}
//	svg, err := sink.RenderSVG(rule)
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/scale/...    # Specific package
//	go test -run Example       # Examples only
//
// [scale]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/scale
// [division]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/division
// [render/surface]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/render/surface
// [render/strip]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/render/strip
// [sliderule]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/sliderule
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/render/sink
// [instrument]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/instrument
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/sliderule/pkg/observability
package pkg
