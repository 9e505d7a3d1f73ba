package views

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/scales"
	"github.com/spektr-org/dreamlight/schema"
	"github.com/spektr-org/dreamlight/selection"
)

// ============================================================================
// STACKED AREA — emotion family shares across the year
// ============================================================================

// StackedArea stacks one band per emotion family over the months. A month
// without a value for a family adds no thickness to the stack.
type StackedArea struct {
	cfg    config
	keys   []string
	series []engine.Series
	months []int
	axis   selection.Axis
	x      scales.Linear
	y      scales.Linear
	colors scales.Ordinal
}

// NewStackedArea builds the chart from wide monthly records.
func NewStackedArea(view engine.RecordView, opts ...Option) *StackedArea {
	cfg := applyOptions(config{
		width:   530,
		height:  410,
		keys:    schema.WideEmotionKeys,
		palette: WidePalette,
	}, opts)

	colors := ordinal(cfg.palette, cfg.diag)
	checkLabels(colors, cfg.keys)

	return &StackedArea{
		cfg:    cfg,
		keys:   cfg.keys,
		series: engine.MonthlySeries(view, cfg.keys),
		months: engine.Months(view),
		axis:   selection.MonthAxis(cfg.width),
		x:      scales.NewLinear([2]float64{1, 12}, [2]float64{0, cfg.width}, scales.WithDiagnostics(cfg.diag)),
		y:      scales.NewLinear([2]float64{0, 1}, [2]float64{cfg.height, 0}, scales.WithDiagnostics(cfg.diag)),
		colors: colors,
	}
}

// Axis is the pointer axis the chart's selection should use.
func (c *StackedArea) Axis() selection.Axis { return c.axis }

// Keys returns the stacking order.
func (c *StackedArea) Keys() []string { return append([]string(nil), c.keys...) }

// Layers returns the stacked [y0, y1] of every key at every month, in key
// order.
func (c *StackedArea) Layers() [][][2]float64 {
	layers := make([][][2]float64, len(c.series))
	for i := range layers {
		layers[i] = make([][2]float64, len(c.months))
	}
	for j := range c.months {
		base := 0.0
		for i, s := range c.series {
			top := base + s.Points[j].Value.Or(0)
			layers[i][j] = [2]float64{base, top}
			base = top
		}
	}
	return layers
}

// Render draws the areas, axes, legend and the guide line.
func (c *StackedArea) Render(snap selection.Snapshot) []DrawCommand {
	w, h := c.cfg.width, c.cfg.height
	if len(c.months) == 0 {
		return NoData(w/2, h/2, "No data")
	}

	var cmds []DrawCommand
	for i, layer := range c.Layers() {
		ring := make([]Point, 0, 2*len(layer))
		for j, m := range c.months {
			ring = append(ring, Point{X: c.x.Map(float64(m)), Y: c.y.Map(layer[j][1])})
		}
		for j := len(c.months) - 1; j >= 0; j-- {
			ring = append(ring, Point{X: c.x.Map(float64(c.months[j])), Y: c.y.Map(layer[j][0])})
		}
		cmd := Path("area-"+c.keys[i], [][]Point{ring}, Style{Fill: colorOf(c.colors, c.keys[i]), Opacity: 0.9})
		cmd.Curve = "monotoneX"
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, Line("baseline", 0, c.y.Map(0), w, c.y.Map(0), Style{Stroke: textColor, StrokeWidth: 1, Opacity: 0.3}))
	for m := 1; m <= 12; m++ {
		cmds = append(cmds, Text("x-tick-"+strconv.Itoa(m), c.x.Map(float64(m)), h+20, strconv.Itoa(m), label(12, "middle")))
	}
	for _, t := range c.y.Ticks(5) {
		cmds = append(cmds, Text(fmt.Sprintf("y-tick-%g", t), -8, c.y.Map(t)+4, fmt.Sprintf("%.0f%%", t*100), label(12, "end")))
	}
	cmds = append(cmds,
		Text("x-title", w/2, h+41, fmt.Sprintf("Month (%d)", c.cfg.year), Style{Fill: titleColor, Opacity: 1, FontSize: 12, Anchor: "middle"}),
		Text("y-title", 0, -15, "Share of dreams in each emotional category (%)", Style{Fill: titleColor, Opacity: 1, FontSize: 12, Anchor: "start"}),
	)

	if m := snap.GuideMonth(); m != 0 {
		opacity := 0.9
		if snap.Locked {
			opacity = 1
		}
		x := c.x.Map(float64(m))
		cmds = append(cmds, Line("guide", x, 0, x, h, Style{Stroke: "#6b6fe3", StrokeWidth: 4, Dash: "6,4", Opacity: opacity}))
	}

	items := lo.Map(c.keys, func(k string, _ int) LegendItem {
		return LegendItem{Label: k, Color: colorOf(c.colors, k)}
	})
	return append(cmds, Legend("legend", items, LegendLayout{X: w + 20, Y: 20})...)
}

// ============================================================================
// BAR — emotion family shares of the committed month
// ============================================================================

// Bar shows the summed share of every category in the committed month.
type Bar struct {
	cfg     config
	byMonth map[int][]engine.CategoryAggregate
	y       scales.Linear
	colors  scales.Ordinal
}

// NewBar builds the chart from long monthly records.
func NewBar(view engine.RecordView, opts ...Option) *Bar {
	cfg := applyOptions(config{width: 280, height: 400, palette: WidePalette}, opts)

	byMonth := make(map[int][]engine.CategoryAggregate)
	for _, agg := range engine.CategorySums(view, engine.ByMonth) {
		m, err := strconv.Atoi(agg.Group)
		if err != nil || !engine.ValidMonth(m) {
			continue
		}
		byMonth[m] = append(byMonth[m], agg)
	}

	colors := ordinal(cfg.palette, cfg.diag)
	checkLabels(colors, engine.Categories(view))

	return &Bar{
		cfg:     cfg,
		byMonth: byMonth,
		y:       scales.NewLinear([2]float64{0, 1}, [2]float64{cfg.height, 0}, scales.WithDiagnostics(cfg.diag)),
		colors:  colors,
	}
}

// Month returns the aggregates of month in first-seen category order.
func (c *Bar) Month(m int) ([]engine.CategoryAggregate, bool) {
	aggs, ok := c.byMonth[m]
	return append([]engine.CategoryAggregate(nil), aggs...), ok
}

// Render draws one bar per category of the committed month.
func (c *Bar) Render(snap selection.Snapshot) []DrawCommand {
	w, h := c.cfg.width, c.cfg.height
	if snap.Month == 0 {
		return NoData(w/2, h/2, "Click a month to see its emotions")
	}
	aggs, ok := c.Month(snap.Month)
	if !ok {
		return NoData(w/2, h/2, fmt.Sprintf("No data for %s", engine.MonthName(snap.Month)))
	}

	band := scales.NewBand(
		lo.Map(aggs, func(a engine.CategoryAggregate, _ int) string { return a.Category }),
		[2]float64{0, w},
		scales.WithPadding(0.3),
		scales.WithDiagnostics(c.cfg.diag),
	)

	cmds := []DrawCommand{
		Text("subtitle", 0, -6, fmt.Sprintf("Emotion breakdown — Month %d", snap.Month), Style{Fill: titleColor, Opacity: 1, FontSize: 13, Anchor: "start"}),
		Line("baseline", 0, h, w, h, Style{Stroke: textColor, StrokeWidth: 1, Opacity: 0.3}),
	}
	for _, a := range aggs {
		x, _ := band.Position(a.Category)
		style := Style{Fill: colorOf(c.colors, a.Category), Opacity: 1}
		top := h
		if v, ok := a.Sum.Get(); ok {
			top = c.y.Map(v)
		} else {
			style.Opacity = scales.MissingOpacity
		}
		cmds = append(cmds,
			Rect("bar-"+a.Category, x, top, band.Bandwidth(), h-top, style),
			Text("x-tick-"+a.Category, x+band.Bandwidth()/2, h+16, a.Category, label(11, "middle")),
		)
		if snap.Highlight == a.Category {
			cmds = append(cmds, BarTooltip(a, snap.Month).Commands("tooltip", x, top-60)...)
		}
	}
	return cmds
}
