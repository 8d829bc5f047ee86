package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sliderule/pkg/pipeline"
	"github.com/matzehuels/sliderule/pkg/scale"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// Rule styles
var (
	tuiLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiStatorStyle   = lipgloss.NewStyle().Foreground(colorGray)
	tuiSlideStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	tuiHairlineStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	tuiDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// tuiLabelCols is the width of the scale name column.
	tuiLabelCols = 6
	// tuiHeaderLines is the number of lines above the first scale row.
	tuiHeaderLines = 3
	// tuiDefaultCols is the rule width before the terminal reports its size.
	tuiDefaultCols = 100
	// tuiFineStep is the keyboard step in pixels with shift held.
	tuiFineStep = 1.0
)

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [instrument.toml]",
		Short: "Operate a slide rule in the terminal",
		Long: `Operate a slide rule in the terminal.

  ←/→          move the cursor        shift+←/→  fine cursor steps
  h/l          move the slide         H/L        fine slide steps
  r            reset the slide        d          toggle the live readout
  mouse drag   drag the slide or the cursor
  q            quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadInstrument(instrumentArg(args))
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			rule, _, err := runner.Build(cmd.Context(), pipeline.Options{Instrument: spec, Logger: c.Logger})
			if err != nil {
				return err
			}
			prog.done("built "+spec.Name, "scales", len(spec.Scales))
			p := tea.NewProgram(newRuleModel(rule, spec.Name),
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// RuleModel - Interactive slide rule
// =============================================================================

// resetDoneMsg arrives when the slide reset transition has finished.
type resetDoneMsg struct{}

// RuleModel is the bubbletea model for the interactive slide rule. Terminal
// columns map linearly onto the rule's pixel width.
type RuleModel struct {
	Rule *sliderule.SlideRule
	Name string
	Cols int
}

// newRuleModel creates a rule model.
func newRuleModel(rule *sliderule.SlideRule, name string) RuleModel {
	return RuleModel{Rule: rule, Name: name, Cols: tuiDefaultCols}
}

func (m RuleModel) Init() tea.Cmd {
	return nil
}

func (m RuleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		step := m.pxPerCol()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left":
			m.Rule.SetCursorPosition(m.Rule.CursorPosition() - step)
		case "right":
			m.Rule.SetCursorPosition(m.Rule.CursorPosition() + step)
		case "shift+left":
			m.Rule.SetCursorPosition(m.Rule.CursorPosition() - tuiFineStep)
		case "shift+right":
			m.Rule.SetCursorPosition(m.Rule.CursorPosition() + tuiFineStep)
		case "h":
			m.Rule.SetSlidePosition(m.Rule.SlidePosition() - step)
		case "l":
			m.Rule.SetSlidePosition(m.Rule.SlidePosition() + step)
		case "H":
			m.Rule.SetSlidePosition(m.Rule.SlidePosition() - tuiFineStep)
		case "L":
			m.Rule.SetSlidePosition(m.Rule.SlidePosition() + tuiFineStep)
		case "r":
			m.Rule.ResetSlide()
			return m, tea.Tick(sliderule.ResetDuration, func(time.Time) tea.Msg { return resetDoneMsg{} })
		case "d":
			m.Rule.SetDeveloperMode(!m.Rule.DeveloperMode())
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.Cols = msg.Width - tuiLabelCols - 2
		if m.Cols < 20 {
			m.Cols = 20
		}
	case resetDoneMsg:
		// Redraw so the status line drops the reset notice.
	}
	return m, nil
}

// handleMouse feeds pointer events into the rule's drag state machine.
// Presses on slide rows drag the slide; anywhere else drags the cursor.
func (m RuleModel) handleMouse(msg tea.MouseMsg) {
	x := m.colToPx(msg.X - tuiLabelCols)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.componentAt(msg.Y) == sliderule.Slide {
			m.Rule.StartSlideDrag(x)
		} else {
			m.Rule.StartCursorDrag(x)
		}
	case tea.MouseActionMotion:
		m.Rule.DragMove(x)
	case tea.MouseActionRelease:
		m.Rule.DragEnd()
	}
}

func (m RuleModel) pxPerCol() float64 {
	return m.Rule.Layout().Width / float64(m.Cols)
}

func (m RuleModel) colToPx(col int) float64 {
	return (float64(col) + 0.5) * m.pxPerCol()
}

func (m RuleModel) pxToCol(px float64) int {
	return int(math.Floor(px / m.pxPerCol()))
}

// componentAt returns the component drawn on terminal line y, or "" when y
// is outside the rule.
func (m RuleModel) componentAt(y int) sliderule.Component {
	line := tuiHeaderLines
	for _, sc := range m.Rule.Scales() {
		if y == line || y == line+1 {
			return sc.Component
		}
		line += 2
	}
	return ""
}

func (m RuleModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("←/→ cursor  h/l slide  r reset  d readout  q quit"))
	b.WriteString("\n\n")

	layout := m.Rule.Layout()
	hair := m.pxToCol(m.Rule.Hairline())
	for _, sc := range m.Rule.Scales() {
		offset := layout.LeftPadding
		if sc.Component == sliderule.Slide {
			offset += layout.SlidePosition
		}
		labels, ticks := m.scaleRows(sc, offset)
		style := tuiStatorStyle
		if sc.Component == sliderule.Slide {
			style = tuiSlideStyle
		}
		name := sc.Renderer.Config().Name
		b.WriteString(strings.Repeat(" ", tuiLabelCols))
		b.WriteString(overlayHairline(labels, hair, style))
		b.WriteString("\n")
		b.WriteString(tuiLabelStyle.Render(fmt.Sprintf("%-*s", tuiLabelCols, name)))
		b.WriteString(overlayHairline(ticks, hair, style))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

// scaleRows draws one scale as a line of mark labels above a line of ticks.
func (m RuleModel) scaleRows(sc sliderule.Mounted, offset float64) (labels, ticks []rune) {
	labels = []rune(strings.Repeat(" ", m.Cols))
	ticks = []rune(strings.Repeat("─", m.Cols))
	g := m.Rule.Geometry(sc.Component)

	for _, v := range sc.Renderer.TickValues(sc.Scale) {
		px, err := sc.Renderer.Pixel(sc.Scale, g, v)
		if err != nil {
			continue
		}
		if col := m.pxToCol(px + offset); col >= 0 && col < m.Cols && ticks[col] == '─' {
			ticks[col] = '┴'
		}
	}

	marks, _ := sc.Renderer.Marks(sc.Scale)
	for _, mk := range marks {
		px, err := sc.Renderer.Pixel(sc.Scale, g, mk.Value)
		if err != nil {
			continue
		}
		col := m.pxToCol(px + offset)
		if col < 0 || col >= m.Cols {
			continue
		}
		ticks[col] = '┃'
		placeLabel(labels, col, mk.Text)
	}
	for _, sm := range sc.Renderer.Config().SpecialMarks {
		px, err := sc.Renderer.Pixel(sc.Scale, g, sm.Value)
		if err != nil {
			continue
		}
		if col := m.pxToCol(px + offset); col >= 0 && col < m.Cols {
			ticks[col] = '╿'
			placeLabel(labels, col, sm.Label)
		}
	}
	return labels, ticks
}

// placeLabel centers text on col when the cells it needs are free.
func placeLabel(row []rune, col int, text string) {
	r := []rune(text)
	start := col - len(r)/2
	if start < 0 || start+len(r) > len(row) {
		return
	}
	for i := start - 1; i <= start+len(r); i++ {
		if i >= 0 && i < len(row) && row[i] != ' ' {
			return
		}
	}
	copy(row[start:], r)
}

// overlayHairline styles row and draws the cursor hairline at col.
func overlayHairline(row []rune, col int, style lipgloss.Style) string {
	if col < 0 || col >= len(row) {
		return style.Render(string(row))
	}
	return style.Render(string(row[:col])) +
		tuiHairlineStyle.Render("│") +
		style.Render(string(row[col+1:]))
}

func (m RuleModel) status() string {
	layout := m.Rule.Layout()
	line := tuiDimStyle.Render(fmt.Sprintf("cursor %.1f px · slide %.1f px",
		layout.CursorPosition, layout.SlidePosition))
	if d := m.Rule.Dragging(); d != sliderule.DragNone {
		line += tuiDimStyle.Render(" · dragging " + d.String())
	}
	if m.Rule.Resetting() {
		line += tuiDimStyle.Render(" · resetting")
	}

	display := m.Rule.Display()
	if len(display) == 0 {
		return line
	}
	parts := make([]string, len(display))
	for i, rd := range display {
		text := rd.Text
		if rd.Error == "" {
			text = scale.FormatValue(rd.Value)
		}
		parts[i] = StyleScale.Render(rd.Scale) + " " + StyleValue.Render(text)
	}
	return line + "\n" + strings.Join(parts, "   ")
}
