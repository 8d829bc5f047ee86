package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/sliderule/pkg/render/sink"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// Render generates output artifacts of rule in the requested formats. name
// is recorded in JSON output.
func Render(ctx context.Context, rule *sliderule.SlideRule, name string, opts Options) (map[string][]byte, error) {
	var svgOpts []sink.SVGOption
	if opts.NoCursor {
		svgOpts = append(svgOpts, sink.WithoutCursor())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data, err = sink.RenderSVG(rule, svgOpts...)
		case FormatPNG:
			pngOpts := []sink.PNGOption{sink.WithScale(opts.PNGScale)}
			if opts.Convert {
				pngOpts = append(pngOpts, sink.WithConverter(), sink.WithPNGSVGOptions(svgOpts...))
			}
			data, err = sink.RenderPNG(ctx, rule, pngOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, rule, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONName(name), sink.WithJSONTickValues()}
			if opts.Exact {
				jsonOpts = append(jsonOpts, sink.WithJSONExact())
			}
			data, err = sink.RenderJSON(rule, jsonOpts...)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
