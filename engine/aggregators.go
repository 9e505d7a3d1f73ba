package engine

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/samber/lo"
)

// ============================================================================
// AGGREGATORS — Grouping, Reduction, and Ranking via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view). Group order is
// first-seen key order; nothing here ever depends on map iteration order.
// ============================================================================

// Field extracts an optional numeric field from a record.
type Field func(Record) Number

// LabelField extracts the labels a record contributes to a ranking.
type LabelField func(Record) []string

// ValueField reads Record.Value.
func ValueField(r Record) Number { return r.Value }

// EmotionLabels reads the names of Record.TopEmotions.
func EmotionLabels(r Record) []string {
	return lo.Map(r.TopEmotions, func(l Label, _ int) string { return l.Name })
}

// CategoryLabel reads Record.Category as a single label.
func CategoryLabel(r Record) []string {
	if r.Category == "" {
		return nil
	}
	return []string{r.Category}
}

// ============================================================================
// GROUPING
// ============================================================================

// Groups is an insertion-ordered mapping from group key to reduced value.
// It is never mutated after GroupAndReduce returns it.
type Groups[K comparable, V any] struct {
	order  []K
	values map[K]V
}

// GroupAndReduce groups view by key and reduces each group with reduce.
// Keys keep first-seen order.
func GroupAndReduce[K comparable, V any](view RecordView, key func(Record) K, reduce func(RecordView) V) *Groups[K, V] {
	grouped := make(map[K][]int)
	order := make([]K, 0)

	for i := 0; i < view.Len(); i++ {
		k := key(view.At(i))
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], i)
	}

	g := &Groups[K, V]{order: order, values: make(map[K]V, len(order))}
	for _, k := range order {
		g.values[k] = reduce(newSubView(view, grouped[k]))
	}
	return g
}

// Len returns the number of groups.
func (g *Groups[K, V]) Len() int { return len(g.order) }

// Keys returns group keys in iteration order.
func (g *Groups[K, V]) Keys() []K {
	out := make([]K, len(g.order))
	copy(out, g.order)
	return out
}

// Values returns reduced values in key order.
func (g *Groups[K, V]) Values() []V {
	return lo.Map(g.order, func(k K, _ int) V { return g.values[k] })
}

// Lookup returns the value for key. The boolean is false when no group has
// that key; Lookup never substitutes another group.
func (g *Groups[K, V]) Lookup(key K) (V, bool) {
	v, ok := g.values[key]
	return v, ok
}

// Sorted returns a copy whose keys are stably sorted by less.
func (g *Groups[K, V]) Sorted(less func(a, b K) bool) *Groups[K, V] {
	order := g.Keys()
	sort.SliceStable(order, func(i, j int) bool { return less(order[i], order[j]) })
	return &Groups[K, V]{order: order, values: g.values}
}

// ============================================================================
// REDUCTION
// ============================================================================

// values collects the present values of field across view.
func values(view RecordView, field Field) []float64 {
	out := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v, ok := field(view.At(i)).Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Sum returns a reducer summing field. Missing values are skipped; a group
// with no present value sums to Missing.
func Sum(field Field) func(RecordView) Number {
	return func(view RecordView) Number {
		xs := values(view, field)
		if len(xs) == 0 {
			return Missing
		}
		return Some(lo.Sum(xs))
	}
}

// Mean returns a reducer averaging field, ignoring missing values.
func Mean(field Field) func(RecordView) Number {
	return func(view RecordView) Number {
		xs := values(view, field)
		if len(xs) == 0 {
			return Missing
		}
		return Some(stats.Mean(xs))
	}
}

// Count returns the number of records in a group.
func Count(view RecordView) int { return view.Len() }

// TieBreak orders labels whose counts are equal.
type TieBreak int

const (
	// FirstSeen keeps the order in which labels first appeared.
	FirstSeen TieBreak = iota
	// Alphabetical orders equal counts by label.
	Alphabetical
)

// TopN returns a reducer ranking the n most frequent labels. Multi-label
// fields are exploded first: a record carrying three labels counts once
// toward each of them.
func TopN(labels LabelField, n int, tie TieBreak) func(RecordView) []LabelCount {
	return func(view RecordView) []LabelCount {
		var all []string
		for i := 0; i < view.Len(); i++ {
			all = append(all, labels(view.At(i))...)
		}
		return RankLabels(all, n, tie)
	}
}

// RankLabels counts labels and returns the n most frequent, count descending.
// n <= 0 returns every label.
func RankLabels(labels []string, n int, tie TieBreak) []LabelCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}

	ranked := lo.Map(order, func(l string, _ int) LabelCount {
		return LabelCount{Label: l, Count: counts[l]}
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		if tie == Alphabetical {
			return ranked[i].Label < ranked[j].Label
		}
		return false
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ============================================================================
// PROJECTIONS — per-chart aggregate tables
// ============================================================================

// CityTable is the (city, month) table behind the city radial chart.
// Cities are sorted; each city's months ascend.
type CityTable struct {
	cities []string
	months map[string][]MonthlyAggregate
}

// BuildCityTable aggregates dream records by (city, month).
// Rows without a city or with an invalid month are skipped.
func BuildCityTable(view RecordView, opts ...Option) *CityTable {
	cfg := applyOptions(opts)

	filters := Filters{}
	if cfg.Year != 0 {
		filters.Years = []int{cfg.Year}
	}
	scoped := ApplyFilters(view, filters)

	valid := make([]int, 0, scoped.Len())
	for i := 0; i < scoped.Len(); i++ {
		r := scoped.At(i)
		if r.City != "" && ValidMonth(r.Month) {
			valid = append(valid, i)
		}
	}
	scoped = newSubView(scoped, valid)

	mean := Mean(cfg.Radiance)
	top := TopN(cfg.Labels, cfg.TopN, cfg.TieBreak)
	groups := GroupAndReduce(scoped,
		func(r Record) CityMonth { return CityMonth{City: r.City, Month: r.Month} },
		func(v RecordView) MonthlyAggregate {
			return MonthlyAggregate{
				MeanRadiance: mean(v),
				TopEmotions:  top(v),
				TotalRecords: Count(v),
			}
		},
	).Sorted(func(a, b CityMonth) bool {
		if a.City != b.City {
			return a.City < b.City
		}
		return a.Month < b.Month
	})

	t := &CityTable{months: make(map[string][]MonthlyAggregate)}
	for _, key := range groups.Keys() {
		agg, _ := groups.Lookup(key)
		agg.City = key.City
		agg.Month = key.Month
		if _, seen := t.months[key.City]; !seen {
			t.cities = append(t.cities, key.City)
		}
		t.months[key.City] = append(t.months[key.City], agg)
	}

	log.Printf("📊 Dreamlight: city table built — %d cities from %d records", len(t.cities), scoped.Len())
	return t
}

// Cities returns city names in ascending order.
func (t *CityTable) Cities() []string {
	out := make([]string, len(t.cities))
	copy(out, t.cities)
	return out
}

// HasCity reports whether city has at least one aggregate.
func (t *CityTable) HasCity(city string) bool {
	return len(t.months[city]) > 0
}

// Months returns the city's aggregates in ascending month order.
func (t *CityTable) Months(city string) []MonthlyAggregate {
	src := t.months[city]
	out := make([]MonthlyAggregate, len(src))
	copy(out, src)
	return out
}

// MonthNumbers returns the months that have an aggregate for city.
func (t *CityTable) MonthNumbers(city string) []int {
	return lo.Map(t.months[city], func(a MonthlyAggregate, _ int) int { return a.Month })
}

// Lookup returns the aggregate for (city, month) or an ErrNoSuchKey error.
func (t *CityTable) Lookup(city string, month int) (MonthlyAggregate, error) {
	for _, agg := range t.months[city] {
		if agg.Month == month {
			return agg, nil
		}
	}
	return MonthlyAggregate{}, fmt.Errorf("city %q month %d: %w", city, month, ErrNoSuchKey)
}

// Radiance returns every aggregate's mean radiance, for scale domains.
func (t *CityTable) Radiance() []Number {
	var out []Number
	for _, city := range t.cities {
		for _, agg := range t.months[city] {
			out = append(out, agg.MeanRadiance)
		}
	}
	return out
}

// CategorySums sums Record.Value per (group, category), in first-seen order.
func CategorySums(view RecordView, group func(Record) string) []CategoryAggregate {
	type key struct{ group, category string }
	groups := GroupAndReduce(view,
		func(r Record) key { return key{group: group(r), category: r.Category} },
		Sum(ValueField),
	)
	return lo.Map(groups.Keys(), func(k key, _ int) CategoryAggregate {
		sum, _ := groups.Lookup(k)
		return CategoryAggregate{Group: k.group, Category: k.category, Sum: sum}
	})
}

// ByMonth groups by month number.
func ByMonth(r Record) string { return strconv.Itoa(r.Month) }

// ByGroup groups by Record.Group.
func ByGroup(r Record) string { return r.Group }

// SeriesPoint is one month of a category series.
type SeriesPoint struct {
	Month int    `json:"month"`
	Value Number `json:"value"`
}

// Series is one category's values across months.
type Series struct {
	Category string        `json:"category"`
	Points   []SeriesPoint `json:"points"`
}

// MonthlySeries pivots records into one series per key, aligned on the
// ascending union of months. A month without a value for a key is Missing.
func MonthlySeries(view RecordView, keys []string) []Series {
	type key struct {
		category string
		month    int
	}
	months := Months(view)
	sums := GroupAndReduce(view,
		func(r Record) key { return key{category: r.Category, month: r.Month} },
		Sum(ValueField),
	)

	return lo.Map(keys, func(k string, _ int) Series {
		s := Series{Category: k, Points: make([]SeriesPoint, 0, len(months))}
		for _, m := range months {
			v, ok := sums.Lookup(key{category: k, month: m})
			if !ok {
				v = Missing
			}
			s.Points = append(s.Points, SeriesPoint{Month: m, Value: v})
		}
		return s
	})
}

// Months returns the distinct valid months of view in ascending order.
func Months(view RecordView) []int {
	var all []int
	Each(view, func(r Record) {
		if ValidMonth(r.Month) {
			all = append(all, r.Month)
		}
	})
	out := lo.Uniq(all)
	sort.Ints(out)
	return out
}

// Categories returns the distinct categories of view in first-seen order.
func Categories(view RecordView) []string {
	var all []string
	Each(view, func(r Record) { all = append(all, r.Category) })
	return lo.Compact(lo.Uniq(all))
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

var monthAbbrevs = [...]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthAbbrev returns "MAR" for 3, or "" outside 1–12.
func MonthAbbrev(m int) string {
	if !ValidMonth(m) {
		return ""
	}
	return monthAbbrevs[m-1]
}

// MonthName returns "March" for 3, or "" outside 1–12.
func MonthName(m int) string {
	if !ValidMonth(m) {
		return ""
	}
	return monthNames[m-1]
}

// FormatPercent formats a fraction as "42.0%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForCategory returns a capitalized label: "joy" → "Joy".
func LabelForCategory(category string) string {
	if len(category) == 0 {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
