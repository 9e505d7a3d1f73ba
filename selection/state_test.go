package selection

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/scales"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func assertEqual[T comparable](t *testing.T, got, want T, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

// catalog is a fixed city → months table.
type catalog map[string][]int

func (c catalog) MonthNumbers(city string) []int { return c[city] }

const width = 550.0

// px returns the pointer position of month m on an unclamped width-wide
// month axis, so months outside 1–12 are reachable.
func px(m float64) float64 { return (m - 1) / 11 * width }

func unclampedAxis() Axis {
	return NewAxis(scales.NewLinear([2]float64{1, 12}, [2]float64{0, width}), 0)
}

func record(s *State) *[]Change {
	var got []Change
	s.Subscribe(func(c Change) { got = append(got, c) })
	return &got
}

// ============================================================================
// 1. HOVER / LEAVE / CLICK
// ============================================================================

func TestClickOutOfRangeClampsAndLocks(t *testing.T) {
	s := New(WithAxis(unclampedAxis()))
	changes := record(s)

	s.Click(px(14))

	snap := s.Snapshot()
	assertEqual(t, snap.Month, 12, "committed month")
	assertEqual(t, snap.Locked, true, "locked")
	assertEqual(t, len(*changes), 1, "notifications")
	assertEqual(t, (*changes)[0].Kind, MonthCommitted, "change kind")
	assertEqual(t, (*changes)[0].Snapshot.Month, 12, "notified month")
}

func TestHoverPreviewsWithoutCommitting(t *testing.T) {
	s := New(WithAxis(MonthAxis(width)))
	changes := record(s)

	s.Hover(px(4.2))
	snap := s.Snapshot()
	assertEqual(t, snap.Preview, 4, "preview")
	assertEqual(t, snap.Month, 0, "committed month untouched")
	assertEqual(t, snap.GuideMonth(), 4, "guide follows preview")

	s.Hover(px(3.9))
	assertEqual(t, len(*changes), 1, "same month hover does not notify")

	s.Leave()
	assertEqual(t, s.Snapshot().Preview, 0, "preview cleared")
	assertEqual(t, s.Snapshot().GuideMonth(), 0, "guide hidden")
	assertEqual(t, len(*changes), 2, "leave notifies")
}

func TestHoverAndLeaveIgnoredWhileLocked(t *testing.T) {
	s := New(WithAxis(MonthAxis(width)))
	s.Click(px(3))
	changes := record(s)

	s.Hover(px(9))
	s.Leave()

	snap := s.Snapshot()
	assertEqual(t, snap.Month, 3, "month")
	assertEqual(t, snap.Preview, 3, "preview follows the committed month")
	assertEqual(t, snap.GuideMonth(), 3, "guide")
	assertEqual(t, len(*changes), 0, "no notifications while locked")
}

func TestClickWhileLockedRecommits(t *testing.T) {
	s := New(WithAxis(MonthAxis(width)))
	s.Click(px(3))
	s.Click(px(7))
	snap := s.Snapshot()
	assertEqual(t, snap.Month, 7, "re-committed month")
	assertEqual(t, snap.Locked, true, "still locked")
}

func TestClampedAxisInversion(t *testing.T) {
	a := MonthAxis(width)
	tests := []struct {
		px   float64
		want int
	}{
		{-100, 1},
		{0, 1},
		{px(6.49), 6},
		{px(6.51), 7},
		{width, 12},
		{width * 3, 12},
	}
	for _, tt := range tests {
		assertEqual(t, a.Month(tt.px), tt.want, "Month")
	}
}

func TestIndexAxis(t *testing.T) {
	a := IndexAxis(20, 280)
	assertEqual(t, a.Month(20), 1, "track start is January")
	assertEqual(t, a.Month(280), 12, "track end is December")
	assertEqual(t, a.Month(500), 12, "drag past the end")
	assertEqual(t, a.Position(1), 20.0, "January position")
}

func TestUnclampedAxisStillClampsMonths(t *testing.T) {
	a := NewAxis(scales.NewLinear([2]float64{1, 12}, [2]float64{0, 110}), 0)
	assertEqual(t, a.Month(1e30), 12, "huge pixel is December")
	assertEqual(t, a.Month(-1e30), 1, "huge negative pixel is January")
	assertEqual(t, a.Month(math.Inf(1)), 12, "infinite pixel is December")

	s := New(WithAxis(a))
	s.Click(1e30)
	snap := s.Snapshot()
	assertEqual(t, snap.Month, 12, "committed month")
	assertEqual(t, snap.Locked, true, "locked")
}

// ============================================================================
// 2. CITY / MONTH
// ============================================================================

func TestSelectCityPicksFirstAvailableMonth(t *testing.T) {
	s := New(WithCatalog(catalog{
		"Toronto": {1, 3, 4},
		"Ottawa":  {5, 6},
	}))
	if err := s.SelectCity("Toronto"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectMonth(4); err != nil {
		t.Fatal(err)
	}
	changes := record(s)

	if err := s.SelectCity("Ottawa"); err != nil {
		t.Fatalf("SelectCity: %v", err)
	}
	snap := s.Snapshot()
	assertEqual(t, snap.City, "Ottawa", "city")
	assertEqual(t, snap.Month, 5, "first available month")
	if !slices.Equal(snap.MonthOptions, []int{5, 6}) {
		t.Errorf("month options = %v", snap.MonthOptions)
	}
	assertEqual(t, len(*changes), 1, "notifications")
	assertEqual(t, (*changes)[0].Kind, CityChanged, "change kind")
}

func TestSelectCityWorksWithCityTable(t *testing.T) {
	view := engine.NewRecordStore(engine.DreamsWithLight, []engine.Record{
		{City: "Toronto", Year: 2025, Month: 3},
		{City: "Toronto", Year: 2025, Month: 1},
	}, nil)
	s := New(WithCatalog(engine.BuildCityTable(view)))
	if err := s.SelectCity("Toronto"); err != nil {
		t.Fatal(err)
	}
	assertEqual(t, s.Snapshot().Month, 1, "first month ascends")
}

func TestSelectUnknownCityLeavesStateUnchanged(t *testing.T) {
	s := New(WithCatalog(catalog{"Toronto": {2}}))
	_ = s.SelectCity("Toronto")
	before := s.Snapshot()
	changes := record(s)

	err := s.SelectCity("Atlantis")
	if !errors.Is(err, ErrUnknownCity) {
		t.Fatalf("err = %v, want ErrUnknownCity", err)
	}
	after := s.Snapshot()
	assertEqual(t, after.City, before.City, "city")
	assertEqual(t, after.Month, before.Month, "month")
	assertEqual(t, len(*changes), 0, "no notification")
}

func TestSelectMonthKeepsCity(t *testing.T) {
	s := New(WithCatalog(catalog{"Toronto": {1, 3}}))
	_ = s.SelectCity("Toronto")

	if err := s.SelectMonth(3); err != nil {
		t.Fatal(err)
	}
	assertEqual(t, s.Snapshot().City, "Toronto", "city")
	assertEqual(t, s.Snapshot().Month, 3, "month")

	if err := s.SelectMonth(2); !errors.Is(err, ErrUnknownMonth) {
		t.Errorf("month outside options: err = %v", err)
	}
	if err := s.SelectMonth(13); !errors.Is(err, ErrUnknownMonth) {
		t.Errorf("month 13: err = %v", err)
	}
	assertEqual(t, s.Snapshot().Month, 3, "month unchanged after rejection")
}

// ============================================================================
// 3. HIGHLIGHT / PROPAGATION
// ============================================================================

func TestHighlight(t *testing.T) {
	s := New()
	changes := record(s)
	s.Highlight("joy", "Low")
	s.Highlight("joy", "Low")
	assertEqual(t, s.Snapshot().Highlight, "joy", "highlight")
	assertEqual(t, s.Snapshot().HighlightGroup, "Low", "highlight group")
	s.ClearHighlight()
	s.ClearHighlight()
	assertEqual(t, s.Snapshot().Highlight, "", "cleared")
	assertEqual(t, len(*changes), 2, "duplicate transitions do not notify")
}

func TestNestedTransitionsAreDeliveredInOrder(t *testing.T) {
	s := New(WithAxis(MonthAxis(width)))
	var order []string
	s.Subscribe(func(c Change) {
		order = append(order, "a:"+c.Kind.String())
		if c.Kind == MonthCommitted {
			s.Highlight("fear", "")
		}
	})
	s.Subscribe(func(c Change) { order = append(order, "b:"+c.Kind.String()) })

	s.Click(px(2))

	want := []string{"a:month", "b:month", "a:highlight", "b:highlight"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(WithCatalog(catalog{"Toronto": {1, 2}}))
	_ = s.SelectCity("Toronto")
	snap := s.Snapshot()
	snap.MonthOptions[0] = 99
	assertEqual(t, s.Snapshot().MonthOptions[0], 1, "state month options")
}

func TestUnsubscribe(t *testing.T) {
	s := New(WithAxis(MonthAxis(width)))
	calls := 0
	stop := s.Subscribe(func(Change) { calls++ })
	s.Click(px(1))
	stop()
	s.Click(px(2))
	assertEqual(t, calls, 1, "calls")
}
