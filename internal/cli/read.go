package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sliderule/pkg/pipeline"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// readCommand creates the read command, which prints the cursor readout.
func (c *CLI) readCommand() *cobra.Command {
	var (
		slide, cursor float64
		exact         bool
	)

	cmd := &cobra.Command{
		Use:   "read [instrument.toml]",
		Short: "Print the scale values under the cursor hairline",
		Long: `Print the scale values under the cursor hairline.

Readings snap to the nearest drawn tick unless the instrument disables
snapping. With --exact the unsnapped value is shown alongside.`,
		Example: `  sliderule read --cursor 300
  sliderule read examples/mannheim.toml --slide 120 --cursor 300 --exact`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadInstrument(instrumentArg(args))
			if err != nil {
				return err
			}
			opts := pipeline.Options{Instrument: spec, Logger: c.Logger}
			if cmd.Flags().Changed("slide") {
				opts.Slide = &slide
			}
			if cmd.Flags().Changed("cursor") {
				opts.Cursor = &cursor
			}

			prog := newProgress(c.Logger)
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			rule, _, err := runner.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			pipeline.Position(rule, opts)
			prog.done("built "+spec.Name, "scales", len(spec.Scales))
			return printReadings(stdout, rule, exact)
		},
	}

	cmd.Flags().Float64Var(&slide, "slide", 0, "slide offset in pixels")
	cmd.Flags().Float64Var(&cursor, "cursor", 0, "cursor position in pixels")
	cmd.Flags().BoolVar(&exact, "exact", false, "show unsnapped values")

	return cmd
}

// printReadings writes the readout of rule as a table.
func printReadings(w io.Writer, rule *sliderule.SlideRule, exact bool) error {
	readings := rule.Readings()
	var exactReadings []sliderule.Reading
	headers := []string{"Component", "Scale", "Value"}
	if exact {
		exactReadings = rule.ExactReadings()
		headers = append(headers, "Exact")
	}

	rows := make([][]string, len(readings))
	for i, rd := range readings {
		value := rd.Text
		if rd.Error != "" {
			value = rd.Error
		}
		row := []string{string(rd.Component), rd.Scale, value}
		if exact && i < len(exactReadings) {
			row = append(row, strconv.FormatFloat(exactReadings[i].Value, 'f', 4, 64))
		}
		rows[i] = row
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row >= 0 && row < len(readings) && readings[row].Error != "" {
				return base.Inherit(StyleError)
			}
			switch col {
			case 1:
				return base.Bold(true)
			case 2, 3:
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorGray)
		})

	fmt.Fprintf(w, "%s  %s\n",
		StyleTitle.Render("Cursor"),
		StyleDim.Render(fmt.Sprintf("hairline %.1f px · slide %.1f px", rule.Hairline(), rule.SlidePosition())))
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
