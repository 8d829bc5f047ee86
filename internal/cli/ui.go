package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// stdout receives all status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// Palette. The wood and brass tones follow the rendered instrument.
var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("179")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings and instrument names.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders addresses and other emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleError renders readings that failed.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)

	StyleDim   = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleScale renders scale names such as "C" or "A".
	StyleScale = lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

func printStatus(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(stdout, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	printStatus(iconSuccess, styleIconSuccess, format, args...)
}

func printError(format string, args ...any) {
	printStatus(iconError, styleIconError, format, args...)
}

func printInfo(format string, args ...any) {
	printStatus(iconInfo, styleIconInfo, format, args...)
}

// printDetail prints an indented, muted line under a status message.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an artifact path written by a command.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printRenderStats prints "4 scales · 12ms · fresh" style summaries.
func printRenderStats(scales int, elapsed time.Duration, cached bool) {
	parts := []string{fmt.Sprintf("%d scales", scales)}
	if elapsed > 0 {
		parts = append(parts, elapsed.Round(time.Millisecond).String())
	}
	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · "))+sep+status)
}

// printReadout prints the hairline position and the value under it on each
// scale on a single line.
func printReadout(rule *sliderule.SlideRule) {
	readings := rule.Readings()
	if len(readings) == 0 {
		return
	}
	parts := make([]string, len(readings))
	for i, rd := range readings {
		text := StyleValue.Render(rd.Text)
		if rd.Error != "" {
			text = StyleError.Render("-")
		}
		parts[i] = StyleScale.Render(rd.Scale) + " " + text
	}
	fmt.Fprintf(stdout, "  %s %s\n",
		StyleDim.Render(fmt.Sprintf("hairline %.1f px", rule.Hairline())),
		strings.Join(parts, "  "))
}
