package views

import (
	"fmt"
	"math"

	geojson "github.com/paulmach/go.geojson"

	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/helpers"
	"github.com/spektr-org/dreamlight/scales"
	"github.com/spektr-org/dreamlight/selection"
)

// ============================================================================
// CHOROPLETH — boundary filled by the month's night brightness
// ============================================================================

// Choropleth fills a boundary with the viridis colour of the selected
// month's mean radiance. The boundary is projected once (Mercator, fitted
// to the chart size) when the controller is built.
type Choropleth struct {
	cfg      config
	shapes   [][][]Point
	names    []string
	radiance *engine.Groups[int, engine.Number]
	color    scales.Sequential
}

// NewChoropleth builds the map from a boundary and monthly radiance records.
// boundary may be nil; the chart then renders its empty state.
func NewChoropleth(boundary *geojson.FeatureCollection, radiance engine.RecordView, opts ...Option) *Choropleth {
	cfg := applyOptions(config{width: 500, height: 700}, opts)

	monthly := engine.GroupAndReduce(radiance,
		func(r engine.Record) int { return r.Month },
		engine.Mean(engine.ValueField),
	)
	domain, ok := scales.Extent(monthly.Values())
	if !ok {
		domain = [2]float64{0, 1}
	}

	c := &Choropleth{
		cfg:      cfg,
		radiance: monthly,
		color:    scales.NewSequential(domain, scales.WithDiagnostics(cfg.diag)),
	}
	if boundary != nil {
		proj := fitMercator(boundary, cfg.width, cfg.height)
		for i, f := range boundary.Features {
			rings := helpers.Rings(f)
			if len(rings) == 0 {
				continue
			}
			shape := make([][]Point, len(rings))
			for j, ring := range rings {
				shape[j] = make([]Point, 0, len(ring))
				for _, p := range ring {
					if len(p) >= 2 {
						shape[j] = append(shape[j], proj.point(p[0], p[1]))
					}
				}
			}
			c.shapes = append(c.shapes, shape)
			c.names = append(c.names, f.PropertyMustString("name", fmt.Sprintf("feature-%d", i)))
		}
	}
	return c
}

// Radiance returns the mean radiance of month.
func (c *Choropleth) Radiance(month int) engine.Number {
	v, ok := c.radiance.Lookup(month)
	if !ok {
		return engine.Missing
	}
	return v
}

// Render fills the boundary for the committed month. Month 0 shows January.
func (c *Choropleth) Render(snap selection.Snapshot) []DrawCommand {
	w, h := c.cfg.width, c.cfg.height
	if len(c.shapes) == 0 {
		return NoData(w/2, h/2, "No boundary")
	}
	month := snap.Month
	if month == 0 {
		month = 1
	}

	enc := c.color.Map(c.Radiance(month))
	var cmds []DrawCommand
	for i, shape := range c.shapes {
		cmds = append(cmds, Path("region-"+c.names[i], shape, Style{
			Fill:        enc.Color,
			Opacity:     enc.Opacity,
			Stroke:      "#9ad7ff",
			StrokeWidth: 2,
		}))
	}
	cmds = append(cmds, Text("month-label", w/2, h-16, engine.MonthName(month), Style{Fill: inkColor, Opacity: 1, FontSize: 20, Anchor: "middle"}))
	return append(cmds, GradientLegend("legend", 20, 20, 200, 12, c.color.Stops(20), "Low light", "High light")...)
}

// ── Projection ───────────────────────────────────────────────────────────────

type mercator struct {
	k, tx, ty float64
}

const maxLatitude = 85.05112878

func mercatorXY(lon, lat float64) (float64, float64) {
	lat = math.Max(-maxLatitude, math.Min(maxLatitude, lat))
	phi := lat * math.Pi / 180
	return lon * math.Pi / 180, -math.Log(math.Tan(math.Pi/4 + phi/2))
}

// fitMercator scales and centres the boundary's projected bounds inside a
// width × height box.
func fitMercator(fc *geojson.FeatureCollection, width, height float64) mercator {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, f := range fc.Features {
		for _, ring := range helpers.Rings(f) {
			for _, p := range ring {
				if len(p) < 2 {
					continue
				}
				x, y := mercatorXY(p[0], p[1])
				x0, x1 = math.Min(x0, x), math.Max(x1, x)
				y0, y1 = math.Min(y0, y), math.Max(y1, y)
			}
		}
	}
	if math.IsInf(x0, 0) {
		return mercator{k: 1}
	}
	k := math.Inf(1)
	if x1 > x0 {
		k = width / (x1 - x0)
	}
	if y1 > y0 {
		k = math.Min(k, height/(y1-y0))
	}
	if math.IsInf(k, 0) {
		k = 1
	}
	return mercator{
		k:  k,
		tx: (width - k*(x0+x1)) / 2,
		ty: (height - k*(y0+y1)) / 2,
	}
}

func (m mercator) point(lon, lat float64) Point {
	x, y := mercatorXY(lon, lat)
	return Point{X: m.k*x + m.tx, Y: m.k*y + m.ty}
}
