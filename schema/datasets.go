package schema

import (
	"fmt"

	"github.com/spektr-org/dreamlight/engine"
)

// ============================================================================
// DATASETS — the built-in column contracts
// ============================================================================

// WideEmotionKeys are the emotion families of the wide monthly table, in
// stacking order.
var WideEmotionKeys = []string{"Joy", "Cognitive", "Fear", "Anger", "Sadness"}

// WideMonthly is month,Joy,Cognitive,Fear,Anger,Sadness: one row per month,
// one proportion column per emotion family.
func WideMonthly(keys ...string) Config {
	if len(keys) == 0 {
		keys = WideEmotionKeys
	}
	c := Config{
		Name:        "Dream emotions by month (wide)",
		Kind:        engine.WideMonthly,
		Description: "Share of dreams in each emotion family per month",
		Dimensions:  []DimensionMeta{DefaultDimension("month", "Month", FieldMonth)},
	}
	for _, k := range keys {
		c.Measures = append(c.Measures, DefaultMeasure(ColumnKey(k), k, FieldPivot))
	}
	return c
}

// LongMonthly is month,category,prop.
func LongMonthly() Config {
	return Config{
		Name:        "Dream emotions by month (long)",
		Kind:        engine.LongMonthly,
		Description: "Share of dreams per month and emotion family",
		Dimensions: []DimensionMeta{
			DefaultDimension("month", "Month", FieldMonth),
			DefaultDimension("category", "Category", FieldCategory),
		},
		Measures: []MeasureMeta{DefaultMeasure("prop", "Share", FieldValue)},
	}
}

// DreamsWithLight is one dream per row joined with its city's monthly
// radiance. mean_rad is optional.
func DreamsWithLight() Config {
	return Config{
		Name:        "Dreams with night light",
		Kind:        engine.DreamsWithLight,
		Description: "Dream reports with top emotions and the city's mean night radiance",
		Dimensions: []DimensionMeta{
			DefaultDimension("city", "City", FieldCity),
			DefaultDimension("year", "Year", FieldYear),
			DefaultDimension("month", "Month", FieldMonth),
			{Key: "emotions_top3", DisplayName: "Top emotions", Field: FieldTopEmotions},
		},
		Measures: []MeasureMeta{
			{Key: "mean_rad", DisplayName: "Mean radiance", Field: FieldValue, Unit: "nW/cm²/sr", Format: "0.00"},
		},
	}
}

// LightRadial is light_group,emotion,prop.
func LightRadial() Config {
	return Config{
		Name:        "Emotions by light level",
		Kind:        engine.LightRadial,
		Description: "Share of dreams per emotion within each light group",
		Dimensions: []DimensionMeta{
			DefaultDimension("light_group", "Light group", FieldGroup),
			DefaultDimension("emotion", "Emotion", FieldCategory),
		},
		Measures: []MeasureMeta{DefaultMeasure("prop", "Share", FieldValue)},
	}
}

// MonthlyRadiance is month,mean_rad.
func MonthlyRadiance() Config {
	return Config{
		Name:        "Monthly night radiance",
		Kind:        engine.MonthlyRadiance,
		Description: "Mean night radiance over the boundary per month",
		Dimensions:  []DimensionMeta{DefaultDimension("month", "Month", FieldMonth)},
		Measures: []MeasureMeta{
			{Key: "mean_rad", DisplayName: "Mean radiance", Field: FieldValue, Required: true, Unit: "nW/cm²/sr", Format: "0.00"},
		},
	}
}

// For returns the built-in contract of a tabular dataset kind.
func For(kind engine.DatasetKind) (Config, error) {
	switch kind {
	case engine.WideMonthly:
		return WideMonthly(), nil
	case engine.LongMonthly:
		return LongMonthly(), nil
	case engine.DreamsWithLight:
		return DreamsWithLight(), nil
	case engine.LightRadial:
		return LightRadial(), nil
	case engine.MonthlyRadiance:
		return MonthlyRadiance(), nil
	}
	return Config{}, fmt.Errorf("no tabular schema for dataset kind %q", kind)
}
