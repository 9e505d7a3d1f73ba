package views

import (
	"fmt"
	"strings"

	"github.com/spektr-org/dreamlight/engine"
)

// ============================================================================
// TOOLTIP BUILDER — short text summaries for a hovered shape
// ============================================================================

// Tooltip is a title plus detail lines.
type Tooltip struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// String joins the tooltip into plain text.
func (t Tooltip) String() string {
	return strings.Join(append([]string{t.Title}, t.Lines...), "\n")
}

// Commands lays the tooltip out as a dark box with one text row per line,
// anchored at its top-left corner.
func (t Tooltip) Commands(id string, x, y float64) []DrawCommand {
	rows := append([]string{t.Title}, t.Lines...)
	width := 0
	for _, r := range rows {
		width = max(width, len([]rune(r)))
	}
	cmds := []DrawCommand{
		Rect(id+"-box", x, y, float64(width)*7+20, float64(len(rows))*16+12, Style{Fill: "#111111", Opacity: 0.9}),
	}
	for i, r := range rows {
		s := Style{Fill: "#ffffff", Opacity: 1, FontSize: 12, Anchor: "start"}
		if i > 0 {
			s.Opacity = 0.8
		}
		cmds = append(cmds, Text(fmt.Sprintf("%s-line-%d", id, i), x+10, y+20+float64(i)*16, r, s))
	}
	return cmds
}

// CityTooltip describes one emotion of a city-month: its count and its share
// of all dreams recorded that month.
func CityTooltip(lc engine.LabelCount, totalRecords int) Tooltip {
	share := 0.0
	if totalRecords > 0 {
		share = float64(lc.Count) / float64(totalRecords)
	}
	return Tooltip{
		Title: lc.Label,
		Lines: []string{
			"Dreams: " + engine.FormatInt(lc.Count),
			"Share: " + engine.FormatPercent(share),
		},
	}
}

// LightGroupTooltip describes one emotion within a light group.
func LightGroupTooltip(emotion string, share engine.Number, group string) Tooltip {
	pct := "n/a"
	if v, ok := share.Get(); ok {
		pct = engine.FormatPercent(v)
	}
	return Tooltip{
		Title: emotion,
		Lines: []string{
			pct + " of dreams",
			fmt.Sprintf("(within %s light)", strings.ToLower(group)),
		},
	}
}

// BarTooltip describes one emotion family in a month.
func BarTooltip(agg engine.CategoryAggregate, month int) Tooltip {
	pct := "n/a"
	if v, ok := agg.Sum.Get(); ok {
		pct = engine.FormatPercent(v)
	}
	return Tooltip{
		Title: agg.Category,
		Lines: []string{pct + " of dreams in " + engine.MonthName(month)},
	}
}
