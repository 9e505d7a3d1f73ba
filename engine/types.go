package engine

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================================
// DREAMLIGHT ENGINE TYPES — Records, optional numbers, derived aggregates
// ============================================================================
// Rows enter the engine already validated (see helpers). Every numeric field
// that can be absent is a Number, never a NaN sentinel.
// ============================================================================

// ErrNoSuchKey tags a lookup that found no group for the requested key.
var ErrNoSuchKey = errors.New("no such key")

// ============================================================================
// NUMBER — explicit optional float
// ============================================================================

// Number is a float64 that may be missing.
// The zero value is Missing.
type Number struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Missing is the absent Number.
var Missing = Number{}

// Some wraps v. NaN and ±Inf are treated as missing.
func Some(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return Number{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (n Number) Get() (float64, bool) { return n.Value, n.Valid }

// Or returns the value, or def when missing.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

func (n Number) String() string {
	if !n.Valid {
		return "missing"
	}
	return fmt.Sprintf("%g", n.Value)
}

// ============================================================================
// RECORD — one validated observation
// ============================================================================

// Label is one entry of a multi-valued label field, e.g. "joy:0.42". Weight
// is Missing when absent or unparseable; rankings count labels and ignore it.
type Label struct {
	Name   string `json:"name"`
	Weight Number `json:"weight"`
}

// Record is one observation.
//
// Category holds the emotion or emotion family of proportion datasets. Group
// is the light group of the radial light dataset. Value is the proportion or
// the radiance.
type Record struct {
	City        string  `json:"city,omitempty"`
	Year        int     `json:"year,omitempty"`
	Month       int     `json:"month,omitempty"`
	Category    string  `json:"category,omitempty"`
	Group       string  `json:"group,omitempty"`
	Value       Number  `json:"value"`
	TopEmotions []Label `json:"topEmotions,omitempty"`
}

// ValidMonth reports whether m is a calendar month number.
func ValidMonth(m int) bool { return m >= 1 && m <= 12 }

// ============================================================================
// AGGREGATES — derived, immutable projections
// ============================================================================

// CityMonth keys the per-city monthly table.
type CityMonth struct {
	City  string
	Month int
}

// LabelCount is one entry of a top-N ranking.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthlyAggregate summarises all records of one city in one month.
type MonthlyAggregate struct {
	City         string       `json:"city"`
	Month        int          `json:"month"`
	MeanRadiance Number       `json:"meanRadiance"`
	TopEmotions  []LabelCount `json:"topEmotions"`
	TotalRecords int          `json:"totalRecords"`
}

// CategoryAggregate is the summed proportion of one category within a group
// (a month or a light group).
type CategoryAggregate struct {
	Group    string `json:"group"`
	Category string `json:"category"`
	Sum      Number `json:"sum"`
}

// Filters select records. Fields are AND-combined; values within a field are
// OR-combined. An empty field means no restriction.
type Filters struct {
	Cities     []string `json:"cities,omitempty"`
	Years      []int    `json:"years,omitempty"`
	Months     []int    `json:"months,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Groups     []string `json:"groups,omitempty"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	return len(f.Cities) == 0 && len(f.Years) == 0 && len(f.Months) == 0 &&
		len(f.Categories) == 0 && len(f.Groups) == 0
}
