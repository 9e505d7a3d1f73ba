package views

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/helpers"
	"github.com/spektr-org/dreamlight/scales"
	"github.com/spektr-org/dreamlight/selection"
)

// ============================================================================
// VIEW TESTS
// ============================================================================
// Tests cover:
//   1. Rendering is a pure function of the snapshot
//   2. Empty states
//   3. Stacked area layers and the guide line
//   4. Bar layout, missing values and tooltips
//   5. Choropleth projection and colour
//   6. City radial and light-group donuts
//   7. Draw command details (opacity, legends, slider)
// ============================================================================

// --- Test Fixtures ---

func some(v float64) engine.Number { return engine.Some(v) }

func wideStore() *engine.RecordStore {
	rows := map[int][]float64{
		1: {0.30, 0.20, 0.25, 0.15, 0.10},
		2: {0.35, 0.20, 0.20, 0.15, 0.10},
		3: {0.40, 0.10, 0.20, 0.20, 0.10},
	}
	var records []engine.Record
	for m := 1; m <= 3; m++ {
		for i, k := range []string{"Joy", "Cognitive", "Fear", "Anger", "Sadness"} {
			records = append(records, engine.Record{Month: m, Category: k, Value: some(rows[m][i])})
		}
	}
	return engine.NewRecordStore(engine.WideMonthly, records, nil)
}

func longStore() *engine.RecordStore {
	return engine.NewRecordStore(engine.LongMonthly, []engine.Record{
		{Month: 3, Category: "Joy", Value: some(0.4)},
		{Month: 3, Category: "Fear", Value: some(0.35)},
		{Month: 3, Category: "Anger", Value: some(0.25)},
		{Month: 3, Category: "Sadness", Value: engine.Missing},
		{Month: 5, Category: "Joy", Value: some(1)},
	}, nil)
}

func emotions(names ...string) []engine.Label {
	out := make([]engine.Label, len(names))
	for i, n := range names {
		out[i] = engine.Label{Name: n, Weight: engine.Some(0.5)}
	}
	return out
}

func dreamStore() *engine.RecordStore {
	return engine.NewRecordStore(engine.DreamsWithLight, []engine.Record{
		{City: "Toronto", Year: 2025, Month: 3, Value: some(65.7), TopEmotions: emotions("joy", "fear", "anger")},
		{City: "Toronto", Year: 2025, Month: 3, Value: some(65.7), TopEmotions: emotions("joy")},
		{City: "Toronto", Year: 2025, Month: 5, Value: some(40), TopEmotions: emotions("sadness")},
		{City: "Ottawa", Year: 2025, Month: 4, Value: some(12.1), TopEmotions: emotions("wonder")},
		{City: "Montreal", Year: 2025, Month: 6, Value: engine.Missing},
		{City: "Toronto", Year: 2024, Month: 1, Value: some(900), TopEmotions: emotions("grief")},
	}, nil)
}

func lightStore() *engine.RecordStore {
	return engine.NewRecordStore(engine.LightRadial, []engine.Record{
		{Group: "High", Category: "joy", Value: some(0.2)},
		{Group: "High", Category: "fear", Value: some(0.8)},
		{Group: "Low", Category: "joy", Value: some(0.5)},
		{Group: "Low", Category: "fear", Value: some(0.5)},
		{Group: "Medium", Category: "joy", Value: some(0.6)},
		{Group: "Medium", Category: "fear", Value: some(0.4)},
	}, nil)
}

const boundaryJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Mississauga"},
     "geometry": {"type": "Polygon", "coordinates": [[[-79.7,43.5],[-79.5,43.5],[-79.5,43.7],[-79.7,43.7],[-79.7,43.5]]]}}
  ]
}`

func radianceStore() *engine.RecordStore {
	return engine.NewRecordStore(engine.MonthlyRadiance, []engine.Record{
		{Month: 1, Value: some(10)},
		{Month: 2, Value: some(25)},
		{Month: 2, Value: some(35)},
	}, nil)
}

func quiet() Option {
	return WithDiagnostics(scales.DiagnosticsFunc(func(error) {}))
}

func mustFind(t *testing.T, cmds []DrawCommand, id string) DrawCommand {
	t.Helper()
	c, ok := Find(cmds, id)
	if !ok {
		t.Fatalf("no draw command %q", id)
	}
	return c
}

func assertEqual[T comparable](t *testing.T, got, want T, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func assertNear(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

// ============================================================================
// 1. PURITY
// ============================================================================

func TestRenderIsIdempotent(t *testing.T) {
	boundary, err := helpers.ParseBoundary([]byte(boundaryJSON))
	if err != nil {
		t.Fatal(err)
	}
	controllers := map[string]Controller{
		"stacked":    NewStackedArea(wideStore(), quiet()),
		"bar":        NewBar(longStore(), quiet()),
		"choropleth": NewChoropleth(boundary, radianceStore(), quiet()),
		"city":       NewCityRadial(dreamStore(), quiet()),
		"groups":     NewLightGroups(lightStore(), quiet()),
		"slider":     NewMonthSlider(),
	}
	snap := selection.Snapshot{City: "Toronto", Month: 3, Locked: true, Preview: 3, Highlight: "joy", HighlightGroup: "Low"}
	for name, c := range controllers {
		first, second := c.Render(snap), c.Render(snap)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: two renders of the same snapshot differ", name)
		}
		if len(first) == 0 {
			t.Errorf("%s: rendered nothing", name)
		}
	}
}

// ============================================================================
// 2. EMPTY STATES
// ============================================================================

func TestEmptyDatasetsRenderNoData(t *testing.T) {
	empty := engine.NewRecordStore(engine.LongMonthly, nil, nil)
	snap := selection.Snapshot{Month: 3, Locked: true}

	for name, c := range map[string]Controller{
		"stacked":    NewStackedArea(empty, quiet()),
		"choropleth": NewChoropleth(nil, empty, quiet()),
		"city":       NewCityRadial(empty, quiet()),
		"groups":     NewLightGroups(empty, quiet()),
	} {
		if cmds := c.Render(snap); !IsNoData(cmds) {
			t.Errorf("%s: expected the no-data state, got %d commands", name, len(cmds))
		}
	}
}

func TestBarWaitsForACommittedMonth(t *testing.T) {
	bar := NewBar(longStore(), quiet())

	cmds := bar.Render(selection.Snapshot{})
	if !IsNoData(cmds) {
		t.Fatal("expected the no-data state before any click")
	}
	assertEqual(t, cmds[0].Text, "Click a month to see its emotions", "prompt")

	cmds = bar.Render(selection.Snapshot{Month: 4, Locked: true})
	if !IsNoData(cmds) {
		t.Fatal("expected the no-data state for a month without rows")
	}
	assertEqual(t, cmds[0].Text, "No data for April", "message")
}

// ============================================================================
// 3. STACKED AREA
// ============================================================================

func TestStackedAreaLayers(t *testing.T) {
	c := NewStackedArea(wideStore(), quiet())
	layers := c.Layers()

	assertEqual(t, len(layers), 5, "layers")
	assertEqual(t, len(layers[0]), 3, "months per layer")
	assertNear(t, layers[0][0][0], 0, "Joy starts at the baseline")
	assertNear(t, layers[0][0][1], 0.30, "Joy top in January")
	assertNear(t, layers[1][0][0], 0.30, "Cognitive stacks on Joy")
	assertNear(t, layers[4][2][1], 1.0, "March stack reaches 1")
}

func TestStackedAreaMissingValueAddsNoThickness(t *testing.T) {
	store := engine.NewRecordStore(engine.WideMonthly, []engine.Record{
		{Month: 1, Category: "Joy", Value: some(0.5)},
		{Month: 1, Category: "Cognitive", Value: engine.Missing},
		{Month: 1, Category: "Fear", Value: some(0.5)},
	}, nil)
	layers := NewStackedArea(store, quiet(), WithKeys("Joy", "Cognitive", "Fear")).Layers()

	assertNear(t, layers[1][0][0], layers[1][0][1], "missing Cognitive is flat")
	assertNear(t, layers[2][0][1], 1.0, "Fear sits on Joy")
}

func TestStackedAreaShapes(t *testing.T) {
	c := NewStackedArea(wideStore(), quiet())
	cmds := c.Render(selection.Snapshot{})

	for _, k := range []string{"Joy", "Cognitive", "Fear", "Anger", "Sadness"} {
		area := mustFind(t, cmds, "area-"+k)
		assertEqual(t, area.Shape, ShapePath, k+" shape")
		assertEqual(t, area.Curve, "monotoneX", k+" curve")
		assertEqual(t, len(area.Rings[0]), 6, k+" ring points")
	}
	assertEqual(t, mustFind(t, cmds, "area-Joy").Style.Fill, "#F0E442", "Joy colour")
	assertEqual(t, mustFind(t, cmds, "x-title").Text, "Month (2025)", "x title")
	assertEqual(t, mustFind(t, cmds, "x-tick-12").Text, "12", "last tick")
	if _, ok := Find(cmds, "guide"); ok {
		t.Error("no guide expected without preview or lock")
	}
}

func TestGuideLineFollowsPreviewAndLock(t *testing.T) {
	c := NewStackedArea(wideStore(), quiet())

	hover := mustFind(t, c.Render(selection.Snapshot{Preview: 3}), "guide")
	assertNear(t, hover.X, 2.0/11*530, "preview x")
	assertNear(t, hover.Style.Opacity, 0.9, "preview opacity")
	assertEqual(t, hover.Style.Dash, "6,4", "dash")
	assertEqual(t, hover.Style.StrokeWidth, 4.0, "stroke width")

	locked := mustFind(t, c.Render(selection.Snapshot{Month: 5, Preview: 5, Locked: true}), "guide")
	assertNear(t, locked.X, 4.0/11*530, "locked x")
	assertNear(t, locked.Style.Opacity, 1, "locked opacity")
}

func TestStackedAreaAxisDrivesSelection(t *testing.T) {
	c := NewStackedArea(wideStore(), quiet())
	s := selection.New(selection.WithAxis(c.Axis()))

	s.Click(9000)
	snap := s.Snapshot()
	assertEqual(t, snap.Month, 12, "click beyond the plot clamps")
	assertNear(t, mustFind(t, c.Render(snap), "guide").X, 530, "guide at the right edge")
}

// ============================================================================
// 4. BAR
// ============================================================================

func TestBarBandLayout(t *testing.T) {
	bar := NewBar(longStore(), quiet(), WithSize(300, 400))
	cmds := bar.Render(selection.Snapshot{Month: 3, Locked: true})

	step := 300 / 4.3
	start := (300 - step*3.7) / 2
	for i, cat := range []string{"Joy", "Fear", "Anger", "Sadness"} {
		r := mustFind(t, cmds, "bar-"+cat)
		assertNear(t, r.X, start+float64(i)*step, cat+" x")
		assertNear(t, r.Width, step*0.7, cat+" width")
	}

	joy := mustFind(t, cmds, "bar-Joy")
	assertNear(t, joy.Y, 240, "Joy top")
	assertNear(t, joy.Height, 160, "Joy height")
	assertEqual(t, mustFind(t, cmds, "subtitle").Text, "Emotion breakdown — Month 3", "subtitle")
}

func TestBarMissingValueIsFaint(t *testing.T) {
	bar := NewBar(longStore(), quiet(), WithSize(300, 400))
	sad := mustFind(t, bar.Render(selection.Snapshot{Month: 3, Locked: true}), "bar-Sadness")

	assertNear(t, sad.Height, 0, "missing height")
	assertNear(t, sad.Style.Opacity, scales.MissingOpacity, "missing opacity")
}

func TestBarTooltipOnHighlight(t *testing.T) {
	bar := NewBar(longStore(), quiet())

	cmds := bar.Render(selection.Snapshot{Month: 3, Locked: true})
	if _, ok := Find(cmds, "tooltip-box"); ok {
		t.Error("no tooltip expected without highlight")
	}

	cmds = bar.Render(selection.Snapshot{Month: 3, Locked: true, Highlight: "Fear"})
	assertEqual(t, mustFind(t, cmds, "tooltip-line-0").Text, "Fear", "tooltip title")
	assertEqual(t, mustFind(t, cmds, "tooltip-line-1").Text, "35.0% of dreams in March", "tooltip line")
}

// ============================================================================
// 5. CHOROPLETH
// ============================================================================

func TestChoroplethProjectionFitsTheChart(t *testing.T) {
	boundary, err := helpers.ParseBoundary([]byte(boundaryJSON))
	if err != nil {
		t.Fatal(err)
	}
	c := NewChoropleth(boundary, radianceStore(), quiet())
	region := mustFind(t, c.Render(selection.Snapshot{Month: 1}), "region-Mississauga")

	const eps = 1e-6
	for _, p := range region.Rings[0] {
		if p.X < -eps || p.X > 500+eps || p.Y < -eps || p.Y > 700+eps {
			t.Errorf("point %+v outside the 500x700 chart", p)
		}
	}
	// North is up.
	assertEqual(t, region.Rings[0][2].Y < region.Rings[0][0].Y, true, "northern edge above southern edge")
}

func TestChoroplethColoursByMonth(t *testing.T) {
	boundary, _ := helpers.ParseBoundary([]byte(boundaryJSON))
	c := NewChoropleth(boundary, radianceStore(), quiet())

	assertNear(t, c.Radiance(2).Or(0), 30, "February mean")

	jan := mustFind(t, c.Render(selection.Snapshot{Month: 1}), "region-Mississauga")
	feb := mustFind(t, c.Render(selection.Snapshot{Month: 2}), "region-Mississauga")
	assertEqual(t, jan.Style.Fill, "#440154", "darkest month")
	assertEqual(t, feb.Style.Fill, "#fde725", "brightest month")
	assertEqual(t, feb.Style.Stroke, "#9ad7ff", "outline")

	missing := mustFind(t, c.Render(selection.Snapshot{Month: 7}), "region-Mississauga")
	assertNear(t, missing.Style.Opacity, scales.MissingOpacity, "month without radiance")

	unset := c.Render(selection.Snapshot{})
	assertEqual(t, mustFind(t, unset, "month-label").Text, "January", "month 0 shows January")
	assertEqual(t, mustFind(t, unset, "legend-low").Text, "Low light", "legend")
}

// ============================================================================
// 6. RADIAL CHARTS
// ============================================================================

func TestCityRadialCatalog(t *testing.T) {
	c := NewCityRadial(dreamStore(), quiet())

	assertEqual(t, c.InitialCity(), "Toronto", "initial city")
	opts := c.MonthOptions("Toronto")
	assertEqual(t, len(opts), 2, "Toronto months in 2025")
	assertEqual(t, opts[0], MonthOption{Value: 3, Label: "MAR 2025"}, "first option")

	s := selection.New(selection.WithCatalog(c.Table()))
	if err := s.SelectCity("Ottawa"); err != nil {
		t.Fatal(err)
	}
	assertEqual(t, s.Snapshot().Month, 4, "Ottawa first month")
}

func TestCityRadialSlices(t *testing.T) {
	c := NewCityRadial(dreamStore(), quiet())
	cmds := c.Render(selection.Snapshot{City: "Toronto", Month: 3})

	joy := mustFind(t, cmds, "slice-joy")
	fear := mustFind(t, cmds, "slice-fear")
	assertNear(t, joy.Start, 0, "joy start")
	assertNear(t, joy.End, math.Pi, "joy covers half the ring")
	assertNear(t, fear.End, 1.5*math.Pi, "fear end")
	assertEqual(t, joy.Style.Fill, "#ffd37a", "joy colour")
	assertEqual(t, joy.Inner, 110.0, "inner radius")
	assertEqual(t, joy.Outer, 230.0, "outer radius")

	assertEqual(t, mustFind(t, cmds, "city").Text, "TORONTO", "city label")
	assertEqual(t, mustFind(t, cmds, "month").Text, "MAR 2025", "month label")
	assertEqual(t, mustFind(t, cmds, "legend-title").Text, "Top emotions", "legend title")
	assertEqual(t, mustFind(t, cmds, "legend-label-0").Text, "JOY", "legend rows are upper-cased")
}

func TestCityRadialHaloTracksRadiance(t *testing.T) {
	c := NewCityRadial(dreamStore(), quiet())

	bright := mustFind(t, c.Render(selection.Snapshot{City: "Toronto", Month: 3}), "halo")
	dim := mustFind(t, c.Render(selection.Snapshot{City: "Ottawa", Month: 4}), "halo")
	missing := mustFind(t, c.Render(selection.Snapshot{City: "Montreal", Month: 6}), "halo")

	assertNear(t, bright.Style.Opacity, 1, "brightest month clamps to 1")
	assertNear(t, dim.Style.Opacity, 0.15, "darkest month")
	assertNear(t, missing.Style.Opacity, scales.MissingOpacity, "missing radiance")
	assertEqual(t, bright.Style.Fill, "#ffe9a6", "halo colour")
}

func TestCityRadialEmptyStates(t *testing.T) {
	c := NewCityRadial(dreamStore(), quiet())

	cmds := c.Render(selection.Snapshot{City: "Montreal", Month: 6})
	assertEqual(t, mustFind(t, cmds, "empty").Text, "No emotion tags for this month", "no emotions")

	cmds = c.Render(selection.Snapshot{City: "Toronto", Month: 1})
	if !IsNoData(cmds) {
		t.Fatal("2024 rows must not leak into the 2025 chart")
	}
	assertEqual(t, cmds[0].Text, "No dreams for Toronto in January", "message")
}

func TestCityRadialHighlight(t *testing.T) {
	c := NewCityRadial(dreamStore(), quiet())
	cmds := c.Render(selection.Snapshot{City: "Toronto", Month: 3, Highlight: "fear"})

	assertNear(t, mustFind(t, cmds, "slice-fear").Style.Opacity, 1, "highlighted slice")
	assertNear(t, mustFind(t, cmds, "slice-joy").Style.Opacity, 0.15, "other slice")
	assertEqual(t, mustFind(t, cmds, "tooltip-line-0").Text, "fear", "tooltip title")
	assertEqual(t, mustFind(t, cmds, "tooltip-line-1").Text, "Dreams: 1", "tooltip count")
	assertEqual(t, mustFind(t, cmds, "tooltip-line-2").Text, "Share: 50.0%", "tooltip share")
}

func TestCityRadialReportsUnknownEmotionsOnce(t *testing.T) {
	diag := &scales.Collector{}
	c := NewCityRadial(dreamStore(), WithDiagnostics(diag))
	c.Render(selection.Snapshot{City: "Ottawa", Month: 4})
	c.Render(selection.Snapshot{City: "Ottawa", Month: 4})

	assertEqual(t, len(diag.Errors), 1, "reports")
	if !errors.Is(diag.Errors[0], scales.ErrUnknownCategory) {
		t.Errorf("err = %v, want ErrUnknownCategory", diag.Errors[0])
	}
	slice := mustFind(t, c.Render(selection.Snapshot{City: "Ottawa", Month: 4}), "slice-wonder")
	assertEqual(t, slice.Style.Fill, scales.FallbackColor, "fallback colour")
}

func TestLightGroupsLayout(t *testing.T) {
	c := NewLightGroups(lightStore(), quiet())

	groups := c.Groups()
	assertEqual(t, len(groups), 3, "groups")
	assertEqual(t, groups[0], "Low", "leftmost")
	assertEqual(t, groups[2], "High", "rightmost")

	cmds := c.Render(selection.Snapshot{})
	for i, g := range groups {
		title := mustFind(t, cmds, "title-"+g)
		assertNear(t, title.X, 550+float64(i-1)*260, g+" centre")
		assertNear(t, title.Y, 150-90-32, g+" title y")
	}
	assertEqual(t, mustFind(t, cmds, "title-Low").Text, "LOW LIGHT", "title text")
	assertNear(t, mustFind(t, cmds, "halo-High-0").Style.Opacity, 0.45, "high halo")
	assertNear(t, mustFind(t, cmds, "slice-High-joy").Style.Opacity, 0.95, "resting opacity")
	assertNear(t, mustFind(t, cmds, "slice-High-fear").End, 2*math.Pi, "donut closes")
}

func TestLightGroupsHighlightAcrossDonuts(t *testing.T) {
	c := NewLightGroups(lightStore(), quiet())
	cmds := c.Render(selection.Snapshot{Highlight: "joy", HighlightGroup: "Low"})

	assertNear(t, mustFind(t, cmds, "slice-Low-joy").Style.Opacity, 1, "hovered slice")
	assertNear(t, mustFind(t, cmds, "slice-High-joy").Style.Opacity, 1, "same emotion elsewhere")
	assertNear(t, mustFind(t, cmds, "slice-Low-fear").Style.Opacity, 0.15, "other emotion")
	assertEqual(t, mustFind(t, cmds, "tooltip-line-1").Text, "50.0% of dreams", "share")
	assertEqual(t, mustFind(t, cmds, "tooltip-line-2").Text, "(within low light)", "group")
}

// ============================================================================
// 7. DRAW COMMANDS
// ============================================================================

func TestOpacityIsClampedAtTheBoundary(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.05, 1},
		{-0.2, 0},
		{0.5, 0.5},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assertNear(t, Rect("r", 0, 0, 1, 1, Style{Opacity: tt.in}).Style.Opacity, tt.want, "opacity")
	}
	assertNear(t, Rect("r", 0, 0, -3, 1, Style{}).Width, 0, "negative width")
}

func TestLegendIDs(t *testing.T) {
	cmds := Legend("key", []LegendItem{{"Joy", "#F0E442"}, {"Fear", "#CC79A7"}}, LegendLayout{X: 10, Y: 10, Title: "Emotions"})

	assertEqual(t, len(cmds), 5, "commands")
	assertEqual(t, mustFind(t, cmds, "key-swatch-1").Style.Fill, "#CC79A7", "second swatch")
	assertNear(t, mustFind(t, cmds, "key-swatch-1").Y, 10+18+22, "row gap")
	assertEqual(t, mustFind(t, cmds, "key-label-0").Text, "Joy", "label")
}

func TestTooltipString(t *testing.T) {
	tip := CityTooltip(engine.LabelCount{Label: "joy", Count: 1200}, 4800)
	assertEqual(t, tip.String(), "joy\nDreams: 1,200\nShare: 25.0%", "text")

	none := LightGroupTooltip("fear", engine.Missing, "High")
	assertEqual(t, none.Lines[0], "n/a of dreams", "missing share")
}

func TestMonthSlider(t *testing.T) {
	s := NewMonthSlider()

	jan := mustFind(t, s.Render(selection.Snapshot{}), "handle")
	dec := mustFind(t, s.Render(selection.Snapshot{Month: 12}), "handle")
	assertNear(t, jan.X, 20, "January at the left margin")
	assertNear(t, dec.X, 280, "December at the right margin")
	assertEqual(t, jan.Style.Fill, "#9ad7ff", "handle colour")

	state := selection.New(selection.WithAxis(s.Axis()))
	state.Click(s.Axis().Position(7) + 3)
	assertEqual(t, state.Snapshot().Month, 7, "drag snaps to the nearest month")
}
