package engine

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// ============================================================================
// TREND — first-to-last month change of a series
// ============================================================================

// Trend directions.
const (
	Increased    = "increased"
	Decreased    = "decreased"
	Unchanged    = "unchanged"
	Insufficient = "insufficient data"
)

// trendDeadband is the relative change, in percent, below which a series
// counts as unchanged.
const trendDeadband = 0.5

// TrendData compares the earliest and latest months that carry a value.
type TrendData struct {
	Category      string  `json:"category"`
	Value         string  `json:"value"`
	EarliestMonth int     `json:"earliestMonth,omitempty"`
	LatestMonth   int     `json:"latestMonth,omitempty"`
	EarliestValue float64 `json:"earliestValue"`
	LatestValue   float64 `json:"latestValue"`
	ChangeAmount  float64 `json:"changeAmount"`
	ChangePercent float64 `json:"changePercent"`
	Direction     string  `json:"direction"`
	Period        string  `json:"period"`
	PresentMonths int     `json:"presentMonths"`
}

// Trend summarises s. Missing months are skipped; fewer than two present
// months give the Insufficient direction. A series starting at 0 has no
// percent change and reads "↑ new" or "↓ new".
func Trend(s Series) TrendData {
	present := lo.Filter(s.Points, func(p SeriesPoint, _ int) bool { return p.Value.Valid })
	out := TrendData{
		Category:      LabelForCategory(s.Category),
		Direction:     Insufficient,
		Value:         "No data",
		Period:        "No data",
		PresentMonths: len(present),
	}
	if len(present) == 0 {
		return out
	}

	first, last := present[0], present[len(present)-1]
	out.EarliestMonth, out.LatestMonth = first.Month, last.Month
	out.EarliestValue, out.LatestValue = first.Value.Value, last.Value.Value
	out.Period = PeriodLabel(first.Month, last.Month)
	if len(present) < 2 {
		out.Value = "→ " + FormatPercent(first.Value.Value)
		return out
	}

	base := first.Value.Value
	out.ChangeAmount = RoundTo2(last.Value.Value - base)
	if base == 0 {
		switch {
		case out.ChangeAmount > 0:
			out.Direction, out.Value = Increased, "↑ new"
		case out.ChangeAmount < 0:
			out.Direction, out.Value = Decreased, "↓ new"
		default:
			out.Direction, out.Value = Unchanged, "→ No change"
		}
		return out
	}

	// Percent change is taken over |base|; its sign is the sign of the change.
	out.ChangePercent = RoundTo2((last.Value.Value - base) / math.Abs(base) * 100)
	switch {
	case out.ChangePercent > trendDeadband:
		out.Direction = Increased
		out.Value = fmt.Sprintf("↑ %.1f%%", out.ChangePercent)
	case out.ChangePercent < -trendDeadband:
		out.Direction = Decreased
		out.Value = fmt.Sprintf("↓ %.1f%%", math.Abs(out.ChangePercent))
	default:
		out.Direction = Unchanged
		out.Value = "→ No change"
	}
	return out
}

// Trends summarises every series of view for keys, in key order.
func Trends(view RecordView, keys []string) []TrendData {
	return lo.Map(MonthlySeries(view, keys), func(s Series, _ int) TrendData { return Trend(s) })
}

// PeriodLabel renders "March" for a single month and "January – May" for a
// range.
func PeriodLabel(from, to int) string {
	if from == to {
		return MonthName(from)
	}
	return fmt.Sprintf("%s – %s", MonthName(from), MonthName(to))
}
