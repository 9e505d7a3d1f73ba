package views

import (
	"github.com/samber/lo"

	"github.com/spektr-org/dreamlight/scales"
)

// Swatch pairs a category with its colour.
type Swatch struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
}

// WidePalette colours the five emotion families.
var WidePalette = []Swatch{
	{"Joy", "#F0E442"},
	{"Cognitive", "#E69F00"},
	{"Fear", "#CC79A7"},
	{"Anger", "#D55E00"},
	{"Sadness", "#0072B2"},
}

// EmotionPalette colours the fine-grained dream emotions.
var EmotionPalette = []Swatch{
	{"joy", "#ffd37a"},
	{"excitement", "#ff9c6a"},
	{"surprise", "#8cd5ff"},
	{"nervousness", "#ff6a6a"},
	{"confusion", "#c5a3ff"},
	{"curiosity", "#7dffb5"},
	{"anger", "#ff5b5b"},
	{"sadness", "#7aa2ff"},
	{"grief", "#c47aa3"},
	{"remorse", "#f0a2b2"},
	{"fear", "#ff9bd1"},
	{"annoyance", "#ffc47a"},
	{"desire", "#f2c879"},
	{"embarrassment", "#ffb3c6"},
	{"relief", "#9ee6b8"},
	{"caring", "#ffe0a6"},
	{"disappointment", "#e4a37e"},
	{"disapproval", "#f19999"},
	{"realization", "#e0e0ff"},
}

// LightGroupColors cycle over the emotions of the light-group donuts in
// first-seen order.
var LightGroupColors = []string{"#0072B2", "#E69F00", "#009E73", "#CC79A7"}

// LightGroupOrder is the left-to-right order of the light-group donuts.
// Other groups follow in first-seen order.
var LightGroupOrder = []string{"Low", "Medium", "High"}

// LightGroupHalo is the halo opacity of each light group.
var LightGroupHalo = map[string]float64{
	"Low":    0.15,
	"Medium": 0.29,
	"High":   0.45,
}

func ordinal(p []Swatch, diag scales.Diagnostics) scales.Ordinal {
	return scales.NewOrdinal(
		lo.Map(p, func(s Swatch, _ int) string { return s.Label }),
		lo.Map(p, func(s Swatch, _ int) string { return s.Color }),
		scales.WithDiagnostics(diag),
	)
}

// colorOf returns the colour of label without reporting unknown labels;
// those are reported once when the controller is built.
func colorOf(o scales.Ordinal, label string) string {
	if c, ok := o.Lookup(label); ok {
		return c
	}
	return scales.FallbackColor
}

// checkLabels reports every label o does not know, once each.
func checkLabels(o scales.Ordinal, labels []string) {
	for _, l := range lo.Uniq(labels) {
		if _, ok := o.Lookup(l); !ok {
			o.Color(l)
		}
	}
}
