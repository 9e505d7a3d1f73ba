package views

import (
	"fmt"
	"strings"
)

// ============================================================================
// LEGEND BUILDER — swatch rows and gradient bars
// ============================================================================

// LegendItem is one row of a categorical legend.
type LegendItem struct {
	Label string
	Color string
}

// LegendLayout positions a categorical legend.
type LegendLayout struct {
	X, Y     float64
	Title    string
	RowGap   float64 // distance between rows; 22 when zero
	Swatch   float64 // swatch size; 14 when zero
	Upper    bool    // upper-case labels
	FontSize float64
}

// Legend builds swatch + label rows top to bottom.
func Legend(id string, items []LegendItem, l LegendLayout) []DrawCommand {
	if l.RowGap == 0 {
		l.RowGap = 22
	}
	if l.Swatch == 0 {
		l.Swatch = 14
	}
	if l.FontSize == 0 {
		l.FontSize = 13
	}

	cmds := make([]DrawCommand, 0, 2*len(items)+1)
	top := l.Y
	if l.Title != "" {
		cmds = append(cmds, Text(id+"-title", l.X, l.Y, l.Title, Style{Fill: inkColor, Opacity: 1, FontSize: 14, Anchor: "start"}))
		top += 18
	}
	for i, item := range items {
		y := top + float64(i)*l.RowGap
		text := item.Label
		if l.Upper {
			text = strings.ToUpper(text)
		}
		cmds = append(cmds,
			Rect(fmt.Sprintf("%s-swatch-%d", id, i), l.X, y, l.Swatch, l.Swatch, Style{Fill: item.Color, Opacity: 1}),
			Text(fmt.Sprintf("%s-label-%d", id, i), l.X+l.Swatch+6, y+l.Swatch-2, text, label(l.FontSize, "start")),
		)
	}
	return cmds
}

// GradientLegend builds a horizontal bar of equal colour stops with a label
// under each end.
func GradientLegend(id string, x, y, width, height float64, stops []string, low, high string) []DrawCommand {
	if len(stops) == 0 {
		return nil
	}
	step := width / float64(len(stops))
	cmds := make([]DrawCommand, 0, len(stops)+2)
	for i, c := range stops {
		cmds = append(cmds, Rect(fmt.Sprintf("%s-stop-%d", id, i), x+float64(i)*step, y, step, height, Style{Fill: c, Opacity: 1}))
	}
	return append(cmds,
		Text(id+"-low", x, y+height+18, low, label(12, "start")),
		Text(id+"-high", x+width, y+height+18, high, label(12, "end")),
	)
}
