package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/scales"
	"github.com/spektr-org/dreamlight/selection"
)

// ============================================================================
// CITY RADIAL — top emotions of one city-month inside a brightness halo
// ============================================================================

const (
	cityRadius = 230
	cityInnerR = 110
)

// PreferredCity is shown first when the data has it.
const PreferredCity = "Toronto"

// MonthOption is one entry of the month dropdown.
type MonthOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// CityRadial draws the top emotions of the selected (city, month) as a donut
// with a halo whose opacity encodes the month's mean radiance.
type CityRadial struct {
	cfg    config
	table  *engine.CityTable
	halo   scales.Sequential
	colors scales.Ordinal
}

// NewCityRadial builds the chart from dream records of the configured year.
func NewCityRadial(dreams engine.RecordView, opts ...Option) *CityRadial {
	cfg := applyOptions(config{width: 650, height: 650, palette: EmotionPalette}, opts)
	table := engine.BuildCityTable(dreams, engine.WithYear(cfg.year))

	domain, ok := scales.Extent(table.Radiance())
	if !ok {
		domain = [2]float64{0, 1}
	}
	colors := ordinal(cfg.palette, cfg.diag)

	var labels []string
	for _, city := range table.Cities() {
		for _, agg := range table.Months(city) {
			for _, lc := range agg.TopEmotions {
				labels = append(labels, lc.Label)
			}
		}
	}
	checkLabels(colors, labels)

	return &CityRadial{
		cfg:   cfg,
		table: table,
		halo: scales.HaloOpacity(domain,
			scales.WithOpacityRange(cfg.halo[0], cfg.halo[1]),
			scales.WithDiagnostics(cfg.diag),
		),
		colors: colors,
	}
}

// Table returns the (city, month) aggregates. It satisfies
// selection.Catalog.
func (c *CityRadial) Table() *engine.CityTable { return c.table }

// InitialCity is PreferredCity when present, else the first city, else "".
func (c *CityRadial) InitialCity() string {
	cities := c.table.Cities()
	if lo.Contains(cities, PreferredCity) {
		return PreferredCity
	}
	if len(cities) > 0 {
		return cities[0]
	}
	return ""
}

// MonthOptions lists city's months labelled "MAR 2025".
func (c *CityRadial) MonthOptions(city string) []MonthOption {
	return lo.Map(c.table.MonthNumbers(city), func(m int, _ int) MonthOption {
		return MonthOption{Value: m, Label: fmt.Sprintf("%s %d", engine.MonthAbbrev(m), c.cfg.year)}
	})
}

// Render draws the selected city-month.
func (c *CityRadial) Render(snap selection.Snapshot) []DrawCommand {
	cx, cy := c.cfg.width/2, c.cfg.height/2
	agg, err := c.table.Lookup(snap.City, snap.Month)
	if err != nil {
		msg := "No data"
		if snap.City != "" {
			msg = fmt.Sprintf("No dreams for %s in %s", snap.City, engine.MonthName(snap.Month))
		}
		return NoData(cx, cy, msg)
	}

	glow := c.halo.Map(agg.MeanRadiance)
	cmds := []DrawCommand{
		Arc("halo", cx, cy, cityRadius+10, cityRadius+40, 0, 2*math.Pi, Style{Fill: "#ffe9a6", Opacity: glow.Opacity}),
	}
	if len(agg.TopEmotions) == 0 {
		return append(cmds, Text("empty", cx, cy, "No emotion tags for this month", Style{Fill: inkColor, Opacity: 1, FontSize: 16, Anchor: "middle"}))
	}

	counts := lo.Map(agg.TopEmotions, func(lc engine.LabelCount, _ int) float64 { return float64(lc.Count) })
	for i, s := range scales.Pie(counts) {
		lc := agg.TopEmotions[i]
		cmds = append(cmds, Arc("slice-"+lc.Label, cx, cy, cityInnerR, cityRadius, s.Start, s.End, Style{
			Fill:        colorOf(c.colors, lc.Label),
			Stroke:      "#000000",
			StrokeWidth: 1.5,
			Opacity:     emphasis(snap.Highlight, lc.Label, 1),
		}))
	}

	cmds = append(cmds,
		Circle("center", cx, cy, cityInnerR-15, Style{Fill: "#0d0d16", Opacity: 1}),
		Text("city", cx, cy-8, strings.ToUpper(agg.City), Style{Fill: inkColor, Opacity: 1, FontSize: 28, Anchor: "middle"}),
		Text("month", cx, cy+24, fmt.Sprintf("%s %d", engine.MonthAbbrev(agg.Month), c.cfg.year), Style{Fill: inkColor, Opacity: 1, FontSize: 20, Anchor: "middle"}),
	)

	items := lo.Map(agg.TopEmotions, func(lc engine.LabelCount, _ int) LegendItem {
		return LegendItem{Label: lc.Label, Color: colorOf(c.colors, lc.Label)}
	})
	cmds = append(cmds, Legend("legend", items, LegendLayout{X: 40, Y: 40, Title: "Top emotions", RowGap: 20, Upper: true, FontSize: 12})...)

	if lc, ok := lo.Find(agg.TopEmotions, func(lc engine.LabelCount) bool { return lc.Label == snap.Highlight }); ok {
		cmds = append(cmds, CityTooltip(lc, agg.TotalRecords).Commands("tooltip", cx+cityRadius/2, cy-cityRadius/2)...)
	}
	return cmds
}

// emphasis is 1 for the highlighted label, the faint opacity for every
// other label, and base when nothing is highlighted.
func emphasis(highlight, label string, base float64) float64 {
	switch highlight {
	case "":
		return base
	case label:
		return 1
	default:
		return scales.MissingOpacity
	}
}

// ============================================================================
// LIGHT GROUPS — one emotion donut per light level
// ============================================================================

const (
	groupRadius  = 90
	groupInnerR  = 40
	groupSpacing = 260
)

// LightGroups draws one donut per light group, side by side. Hovering an
// emotion emphasises it in every donut.
type LightGroups struct {
	cfg    config
	groups []string
	slices map[string][]engine.CategoryAggregate
	colors scales.Ordinal
	labels []string
}

// NewLightGroups builds the chart from light-group radial records.
func NewLightGroups(view engine.RecordView, opts ...Option) *LightGroups {
	cfg := applyOptions(config{width: 1100, height: 300}, opts)

	slices := make(map[string][]engine.CategoryAggregate)
	var seen []string
	for _, agg := range engine.CategorySums(view, engine.ByGroup) {
		if _, ok := slices[agg.Group]; !ok {
			seen = append(seen, agg.Group)
		}
		slices[agg.Group] = append(slices[agg.Group], agg)
	}
	known := lo.Filter(LightGroupOrder, func(g string, _ int) bool { return lo.Contains(seen, g) })
	groups := append(known, lo.Without(seen, LightGroupOrder...)...)

	emotions := engine.Categories(view)
	var colors scales.Ordinal
	if len(cfg.palette) > 0 {
		colors = ordinal(cfg.palette, cfg.diag)
		checkLabels(colors, emotions)
	} else {
		colors = scales.NewOrdinal(emotions, LightGroupColors, scales.WithDiagnostics(cfg.diag))
	}

	return &LightGroups{cfg: cfg, groups: groups, slices: slices, colors: colors, labels: emotions}
}

// Groups returns the light groups left to right.
func (c *LightGroups) Groups() []string { return append([]string(nil), c.groups...) }

// Render draws every donut under the current highlight.
func (c *LightGroups) Render(snap selection.Snapshot) []DrawCommand {
	w, h := c.cfg.width, c.cfg.height
	if len(c.groups) == 0 {
		return NoData(w/2, h/2, "No data")
	}

	var cmds []DrawCommand
	mid := float64(len(c.groups)-1) / 2
	for i, group := range c.groups {
		cx := w/2 + (float64(i)-mid)*groupSpacing
		cy := h / 2
		aggs := c.slices[group]

		halo, ok := LightGroupHalo[group]
		if !ok {
			halo = scales.MissingOpacity
		}
		props := lo.Map(aggs, func(a engine.CategoryAggregate, _ int) float64 { return a.Sum.Or(0) })
		arcs := scales.Pie(props)

		for j, s := range arcs {
			cmds = append(cmds, Arc(fmt.Sprintf("halo-%s-%d", group, j), cx, cy, groupRadius-1, groupRadius+8, s.Start, s.End, Style{Fill: "#ffffff", Opacity: halo}))
		}
		for j, s := range arcs {
			a := aggs[j]
			cmds = append(cmds, Arc("slice-"+group+"-"+a.Category, cx, cy, groupInnerR, groupRadius, s.Start, s.End, Style{
				Fill:    colorOf(c.colors, a.Category),
				Opacity: emphasis(snap.Highlight, a.Category, 0.95),
			}))
		}
		cmds = append(cmds, Text("title-"+group, cx, cy-groupRadius-32, strings.ToUpper(group)+" LIGHT", Style{Fill: textColor, Opacity: 1, FontSize: 14, Anchor: "middle"}))

		if snap.HighlightGroup == group {
			if a, ok := lo.Find(aggs, func(a engine.CategoryAggregate) bool { return a.Category == snap.Highlight }); ok {
				cmds = append(cmds, LightGroupTooltip(a.Category, a.Sum, group).Commands("tooltip", cx+groupRadius/2, cy+groupRadius/2)...)
			}
		}
	}

	items := lo.Map(c.labels, func(l string, _ int) LegendItem {
		return LegendItem{Label: l, Color: colorOf(c.colors, l)}
	})
	return append(cmds, Legend("legend", items, LegendLayout{X: 20, Y: 20, RowGap: 20, FontSize: 12})...)
}

// ============================================================================
// MONTH SLIDER — drag a handle over the twelve months
// ============================================================================

const (
	sliderWidth  = 300
	sliderHeight = 50
	sliderMargin = 20
)

// MonthSlider draws a track with a handle at the committed month. Dragging
// is Click on a selection built with Axis.
type MonthSlider struct {
	axis selection.Axis
}

// NewMonthSlider returns the slider.
func NewMonthSlider() *MonthSlider {
	return &MonthSlider{axis: selection.IndexAxis(sliderMargin, sliderWidth-sliderMargin)}
}

// Axis maps the pointer to a month on the track.
func (s *MonthSlider) Axis() selection.Axis { return s.axis }

// Render draws the track and the handle. Month 0 puts the handle on
// January.
func (s *MonthSlider) Render(snap selection.Snapshot) []DrawCommand {
	month := max(1, snap.Month)
	y := float64(sliderHeight) / 2
	return []DrawCommand{
		Line("track", s.axis.Position(1), y, s.axis.Position(12), y, Style{Stroke: "#cccccc", StrokeWidth: 4, Opacity: 1}),
		Circle("handle", s.axis.Position(month), y, 8, Style{Fill: "#9ad7ff", Opacity: 1}),
		Text("label", sliderWidth/2, sliderHeight-2, engine.MonthName(month), label(11, "middle")),
	}
}
