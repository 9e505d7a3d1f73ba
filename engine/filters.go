package engine

import (
	"strings"

	"github.com/samber/lo"
)

// ============================================================================
// FILTERS — Field-based filtering via RecordView
// ============================================================================
// Single pass: checks every constraint per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all filters.
// String comparisons are case-insensitive. Empty filter returns view itself.
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	cities := toLowerSet(filters.Cities)
	categories := toLowerSet(filters.Categories)
	groups := toLowerSet(filters.Groups)
	years := lo.SliceToMap(filters.Years, func(y int) (int, bool) { return y, true })
	months := lo.SliceToMap(filters.Months, func(m int) (int, bool) { return m, true })

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		r := view.At(i)
		if len(cities) > 0 && !cities[strings.ToLower(r.City)] {
			continue
		}
		if len(categories) > 0 && !categories[strings.ToLower(r.Category)] {
			continue
		}
		if len(groups) > 0 && !groups[strings.ToLower(r.Group)] {
			continue
		}
		if len(years) > 0 && !years[r.Year] {
			continue
		}
		if len(months) > 0 && !months[r.Month] {
			continue
		}
		indices = append(indices, i)
	}

	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
