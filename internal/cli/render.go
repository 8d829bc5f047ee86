package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sliderule/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	formats  string
	output   string
	slide    float64
	cursor   float64
	devMode  bool
	noCursor bool
	exact    bool
	convert  bool
	pngScale float64
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [instrument.toml]",
		Short: "Render an instrument to SVG, PNG, PDF or JSON",
		Long: `Render an instrument to SVG, PNG, PDF or JSON.

Without an instrument file the classic A/B/C/D rule is rendered. The slide
and cursor can be positioned before rendering; positions are in pixels and
are clamped to the instrument's travel.

Results are cached locally for faster subsequent runs.`,
		Example: `  sliderule render -f svg,png
  sliderule render examples/mannheim.toml --slide 120 --cursor 300 -o mannheim.svg
  sliderule render -f json --exact -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), instrumentArg(args), flags.output, flags.noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&flags.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format, - for stdout) or base path (multiple)")
	cmd.Flags().Float64Var(&flags.slide, "slide", 0, "slide offset in pixels")
	cmd.Flags().Float64Var(&flags.cursor, "cursor", 0, "cursor position in pixels")
	cmd.Flags().BoolVar(&flags.devMode, "developer-mode", false, "print the cursor readout on the rule")
	cmd.Flags().BoolVar(&flags.noCursor, "no-cursor", false, "omit the cursor")
	cmd.Flags().BoolVar(&flags.exact, "exact", false, "add unsnapped readings to JSON output")
	cmd.Flags().BoolVar(&flags.convert, "convert", false, "rasterize PNG with rsvg-convert")
	cmd.Flags().Float64Var(&flags.pngScale, "png-scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached renders")

	return cmd
}

// options converts the flags into pipeline options. Positions and developer
// mode only override the instrument when given explicitly.
func (f *renderFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	formats, err := pipeline.ParseFormats(f.formats)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Formats:  formats,
		PNGScale: f.pngScale,
		Convert:  f.convert,
		NoCursor: f.noCursor,
		Exact:    f.exact,
		Refresh:  f.refresh,
	}
	if cmd.Flags().Changed("slide") {
		opts.Slide = &f.slide
	}
	if cmd.Flags().Changed("cursor") {
		opts.Cursor = &f.cursor
	}
	if cmd.Flags().Changed("developer-mode") {
		opts.DeveloperMode = &f.devMode
	}
	return opts, nil
}

// runRender loads the instrument, renders it and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	spec, err := loadInstrument(input)
	if err != nil {
		return err
	}
	opts.Instrument = spec
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", spec.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		name:      spec.Name,
	})
	if err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printSuccess("Rendered %s", spec.Name)
	printRenderStats(result.Stats.Scales, result.Stats.BuildTime+result.Stats.RenderTime, result.CacheHit)
	printReadout(result.Rule)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
