package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sliderule/pkg/division"
)

// scalesCommand creates the scales command, which lists the tick
// subdivisions and named rule sets instruments can refer to.
func (c *CLI) scalesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scales",
		Short: "List tick divisions and named rule sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printScales(stdout)
		},
	}
}

func printScales(w io.Writer) error {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	var rows [][]string
	for _, d := range division.All() {
		rows = append(rows, []string{
			d.Name,
			fmt.Sprintf("%d", d.Divisor),
			fmt.Sprintf("%g", d.DefaultHeight),
			fmt.Sprintf("%g", d.DefaultWidth),
		})
	}
	divs := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Division", "Divisor", "Height", "Width").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return cell.Foreground(colorCyan)
			}
			return cell.Foreground(colorGray)
		})

	fmt.Fprintln(w, StyleTitle.Render("Divisions"))
	fmt.Fprintln(w, divs.Render())

	for _, name := range division.RuleSetNames() {
		rs, err := division.RuleSetByName(name)
		if err != nil {
			return err
		}
		rows = rows[:0]
		for _, r := range rs {
			rows = append(rows, []string{r.Range.String(), strings.Join(r.Divisions, ", ")})
		}
		rules := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Range", "Divisions").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				return cell.Foreground(colorWhite)
			})
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render(name))
		fmt.Fprintln(w, rules.Render())
	}
	return nil
}
