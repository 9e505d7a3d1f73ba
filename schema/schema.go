package schema

import (
	"strings"

	"github.com/samber/lo"

	"github.com/spektr-org/dreamlight/engine"
)

// ============================================================================
// SCHEMA — Describes the columns of each input dataset
// ============================================================================
// One Config per dataset kind. The CSV helpers use it to check headers and
// to bind columns to Record fields; the dashboard uses it to label legends.
// ============================================================================

// Field names the Record field a column is decoded into.
type Field string

const (
	FieldCity        Field = "city"
	FieldYear        Field = "year"
	FieldMonth       Field = "month"
	FieldCategory    Field = "category"
	FieldGroup       Field = "group"
	FieldValue       Field = "value"
	FieldTopEmotions Field = "topEmotions"
	// FieldPivot marks a wide column: each one becomes its own record with
	// the column's display name as Category and the cell as Value.
	FieldPivot Field = "pivot"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string             `json:"name"`
	Kind        engine.DatasetKind `json:"kind"`
	Description string             `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a string or calendar column.
type DimensionMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Field       Field  `json:"field"`
	Required    bool   `json:"required"`
	IsTemporal  bool   `json:"isTemporal,omitempty"`
}

// MeasureMeta describes a numeric column.
//
// A required measure that fails to parse rejects the row. An optional one
// decodes to engine.Missing.
type MeasureMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Field       Field  `json:"field"`
	Required    bool   `json:"required"`
	Unit        string `json:"unit,omitempty"` // "proportion", "nW/cm²/sr"
	Format      string `json:"format,omitempty"`
}

// DefaultDimension creates a required DimensionMeta.
func DefaultDimension(key, displayName string, field Field) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Field:       field,
		Required:    true,
		IsTemporal:  field == FieldYear || field == FieldMonth,
	}
}

// DefaultMeasure creates a required proportion MeasureMeta.
func DefaultMeasure(key, displayName string, field Field) MeasureMeta {
	return MeasureMeta{
		Key:         key,
		DisplayName: displayName,
		Field:       field,
		Required:    true,
		Unit:        "proportion",
		Format:      "0.0%",
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	return lo.Map(c.Dimensions, func(d DimensionMeta, _ int) string { return d.Key })
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	return lo.Map(c.Measures, func(m MeasureMeta, _ int) string { return m.Key })
}

// RequiredColumns returns the keys every header must carry, dimensions first.
func (c Config) RequiredColumns() []string {
	var out []string
	for _, d := range c.Dimensions {
		if d.Required {
			out = append(out, d.Key)
		}
	}
	for _, m := range c.Measures {
		if m.Required {
			out = append(out, m.Key)
		}
	}
	return out
}

// MissingColumns returns the required keys absent from headers. Headers are
// normalized with ColumnKey first.
func (c Config) MissingColumns(headers []string) []string {
	present := lo.SliceToMap(headers, func(h string) (string, bool) { return ColumnKey(h), true })
	return lo.Filter(c.RequiredColumns(), func(k string, _ int) bool { return !present[k] })
}

// PivotLabels returns the display names of the wide columns, in order.
func (c Config) PivotLabels() []string {
	return lo.FilterMap(c.Measures, func(m MeasureMeta, _ int) (string, bool) {
		return m.DisplayName, m.Field == FieldPivot
	})
}

// ColumnKey converts "Mean Rad" → "mean_rad".
func ColumnKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
