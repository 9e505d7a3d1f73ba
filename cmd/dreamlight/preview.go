package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spektr-org/dreamlight/views"
)

// ============================================================================
// TERMINAL PREVIEW — draw commands summarised as styled text
// ============================================================================

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9aa3ff"))
	tabStyle    = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#dbe7ff"))
	activeTab   = tabStyle.Bold(true).Foreground(lipgloss.Color("#0d0d16")).Background(lipgloss.Color("#9ad7ff"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7089"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6a6a"))
	tooltipBox  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6b6fe3")).Padding(0, 1)
	faintCutoff = 0.5
)

func swatch(color string, opacity float64, s string) string {
	st := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	if opacity < faintCutoff {
		st = st.Faint(true)
	}
	return st.Render(s)
}

// preview renders one view's draw commands. width is the bar budget in
// cells.
func preview(name string, cmds []views.DrawCommand, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")

	if views.IsNoData(cmds) {
		b.WriteString(mutedStyle.Render("  " + cmds[0].Text))
		b.WriteString("\n")
		return b.String()
	}

	width = max(width, 4)
	maxHeight := 0.0
	for _, c := range cmds {
		if c.Shape == views.ShapeRect && strings.HasPrefix(c.ID, "bar-") {
			maxHeight = math.Max(maxHeight, c.Height)
		}
	}

	var tooltip []string
	for _, c := range cmds {
		switch {
		case c.Shape == views.ShapePath && strings.HasPrefix(c.ID, "area-"):
			fmt.Fprintf(&b, "  %s %s\n", swatch(c.Style.Fill, c.Style.Opacity, "▇▇"), strings.TrimPrefix(c.ID, "area-"))
		case c.Shape == views.ShapePath && strings.HasPrefix(c.ID, "region-"):
			fmt.Fprintf(&b, "  %s %s %s\n", swatch(c.Style.Fill, c.Style.Opacity, "████"), strings.TrimPrefix(c.ID, "region-"), mutedStyle.Render(c.Style.Fill))
		case c.Shape == views.ShapeRect && strings.HasPrefix(c.ID, "bar-"):
			n := 0
			if maxHeight > 0 {
				n = int(math.Round(c.Height / maxHeight * float64(width)))
			}
			fmt.Fprintf(&b, "  %-12s %s\n", strings.TrimPrefix(c.ID, "bar-"), swatch(c.Style.Fill, c.Style.Opacity, strings.Repeat("█", n)+strings.Repeat("░", width-n)))
		case c.Shape == views.ShapeArc && strings.HasPrefix(c.ID, "slice-"):
			share := (c.End - c.Start) / (2 * math.Pi)
			fmt.Fprintf(&b, "  %-18s %s %5.1f%%\n", strings.TrimPrefix(c.ID, "slice-"), swatch(c.Style.Fill, c.Style.Opacity, "●"), share*100)
		case c.Shape == views.ShapeArc && c.ID == "halo":
			fmt.Fprintf(&b, "  halo %s %.2f\n", swatch(c.Style.Fill, 1, "◯"), c.Style.Opacity)
		case c.Shape == views.ShapeLine && c.ID == "guide":
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(fmt.Sprintf("guide at x=%.0f", c.X)))
		case c.Shape == views.ShapeCircle && c.ID == "handle":
			b.WriteString("  " + sliderTrack(cmds, c.X) + "\n")
		case c.Shape == views.ShapeText && strings.HasPrefix(c.ID, "tooltip-line-"):
			tooltip = append(tooltip, c.Text)
		case c.Shape == views.ShapeText && (c.ID == "month-label" || c.ID == "subtitle" || c.ID == "city" || c.ID == "month" || c.ID == "empty" || strings.HasPrefix(c.ID, "title-")):
			fmt.Fprintf(&b, "  %s\n", c.Text)
		}
	}
	if len(tooltip) > 0 {
		b.WriteString(tooltipBox.Render(strings.Join(tooltip, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

// sliderTrack draws twelve cells with the handle's month filled.
func sliderTrack(cmds []views.DrawCommand, handleX float64) string {
	track, ok := views.Find(cmds, "track")
	if !ok || track.X2 == track.X {
		return ""
	}
	idx := int(math.Round((handleX - track.X) / (track.X2 - track.X) * 11))
	cells := make([]string, 12)
	for i := range cells {
		cells[i] = mutedStyle.Render("─")
		if i == idx {
			cells[i] = swatch("#9ad7ff", 1, "●")
		}
	}
	return strings.Join(cells, "")
}
