// Package selection holds the interaction state shared by a widget pair:
// the committed city and month, the lock flag, the hover preview and the
// highlighted category.
//
// A State is driven by one event loop and is not safe for concurrent use.
// Every transition that changes something is broadcast to subscribers as a
// Change carrying a value Snapshot, synchronously and in event order.
package selection

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/scales"
)

var (
	// ErrUnknownCity reports a city with no months in the catalog.
	ErrUnknownCity = errors.New("unknown city")
	// ErrUnknownMonth reports a month outside 1–12 or outside the current
	// city's month options.
	ErrUnknownMonth = errors.New("unknown month")
)

// ============================================================================
// AXIS — pointer position → month
// ============================================================================

// Axis converts chart-local pointer positions into months.
type Axis struct {
	scale  scales.Linear
	offset int
}

// NewAxis wraps a scale whose domain is month numbers minus offset. A scale
// over month indexes 0–11 uses offset 1.
func NewAxis(s scales.Linear, offset int) Axis {
	return Axis{scale: s, offset: offset}
}

// MonthAxis is the time axis of the monthly charts: months 1–12 spread over
// [0, width], clamped.
func MonthAxis(width float64) Axis {
	return NewAxis(scales.NewLinear([2]float64{1, 12}, [2]float64{0, width}, scales.WithClamp()), 0)
}

// IndexAxis is the month slider track: indexes 0–11 spread over [start, end],
// clamped.
func IndexAxis(start, end float64) Axis {
	return NewAxis(scales.NewLinear([2]float64{0, 11}, [2]float64{start, end}, scales.WithClamp()), 1)
}

// Month returns the month nearest to px, clamped to 1–12.
func (a Axis) Month(px float64) int {
	v := a.scale.Invert(px)
	if math.IsNaN(v) {
		return 1
	}
	// Pinned before the int conversion so huge pixels cannot overflow.
	v = max(-12, min(24, math.Round(v)))
	return ClampMonth(int(v) + a.offset)
}

// Position returns the pointer position of month.
func (a Axis) Position(month int) float64 {
	return a.scale.Map(float64(month - a.offset))
}

// ClampMonth pins m to 1–12.
func ClampMonth(m int) int {
	return max(1, min(12, m))
}

// ============================================================================
// SNAPSHOT & CHANGE
// ============================================================================

// Snapshot is a value copy of a State.
type Snapshot struct {
	City           string `json:"city,omitempty"`
	Month          int    `json:"month"`
	Locked         bool   `json:"locked"`
	Preview        int    `json:"preview,omitempty"`
	Highlight      string `json:"highlight,omitempty"`
	HighlightGroup string `json:"highlightGroup,omitempty"`
	MonthOptions   []int  `json:"monthOptions,omitempty"`
}

// GuideMonth is the month a guide indicator should mark: the hover preview
// while unlocked, the committed month otherwise. 0 means no guide.
func (s Snapshot) GuideMonth() int {
	if !s.Locked && s.Preview != 0 {
		return s.Preview
	}
	if s.Locked {
		return s.Month
	}
	return 0
}

// ChangeKind names what a transition changed.
type ChangeKind int

const (
	PreviewChanged ChangeKind = iota + 1
	MonthCommitted
	CityChanged
	HighlightChanged
)

func (k ChangeKind) String() string {
	switch k {
	case PreviewChanged:
		return "preview"
	case MonthCommitted:
		return "month"
	case CityChanged:
		return "city"
	case HighlightChanged:
		return "highlight"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is one notification.
type Change struct {
	Kind     ChangeKind
	Snapshot Snapshot
}

// Catalog lists the months with data for each city. *engine.CityTable
// satisfies it.
type Catalog interface {
	MonthNumbers(city string) []int
}

// ============================================================================
// STATE
// ============================================================================

// State is the mutable selection of one widget pair.
type State struct {
	city      string
	month     int
	locked    bool
	preview   int
	highlight string
	group     string
	options   []int

	axis    Axis
	catalog Catalog

	subs        []subscriber
	nextID      int
	queue       []Change
	dispatching bool
}

type subscriber struct {
	id int
	fn func(Change)
}

// Option configures a State.
type Option func(*State)

// WithAxis sets the pointer axis used by Hover and Click.
func WithAxis(a Axis) Option {
	return func(s *State) { s.axis = a }
}

// WithCatalog sets the city → months catalog used by SelectCity.
func WithCatalog(c Catalog) Option {
	return func(s *State) { s.catalog = c }
}

// WithMonth sets the initial committed month without locking.
func WithMonth(m int) Option {
	return func(s *State) {
		if engine.ValidMonth(m) {
			s.month = m
		}
	}
}

// New returns an unlocked State with no selection. The default axis spans
// [0, 1].
func New(opts ...Option) *State {
	s := &State{axis: MonthAxis(1)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a value copy of the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		City:           s.city,
		Month:          s.month,
		Locked:         s.locked,
		Preview:        s.preview,
		Highlight:      s.highlight,
		HighlightGroup: s.group,
		MonthOptions:   slices.Clone(s.options),
	}
}

// Axis returns the pointer axis.
func (s *State) Axis() Axis { return s.axis }

// Subscribe registers fn for every change and returns a function that
// removes it.
func (s *State) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

// notify delivers in event order. A transition triggered from inside a
// subscriber is queued until the current change reached every subscriber.
func (s *State) notify(kind ChangeKind) {
	s.queue = append(s.queue, Change{Kind: kind, Snapshot: s.Snapshot()})
	if s.dispatching {
		return
	}
	s.dispatching = true
	defer func() { s.dispatching = false }()
	for len(s.queue) > 0 {
		c := s.queue[0]
		s.queue = s.queue[1:]
		for _, sub := range slices.Clone(s.subs) {
			sub.fn(c)
		}
	}
}

// ── Transitions ──────────────────────────────────────────────────────────────

// Hover previews the month under px. Ignored while locked.
func (s *State) Hover(px float64) {
	if s.locked {
		return
	}
	m := s.axis.Month(px)
	if m == s.preview {
		return
	}
	s.preview = m
	s.notify(PreviewChanged)
}

// Leave clears the preview. Ignored while locked.
func (s *State) Leave() {
	if s.locked || s.preview == 0 {
		return
	}
	s.preview = 0
	s.notify(PreviewChanged)
}

// Click locks the state and commits the month under px. Clicking while
// locked re-commits; there is no unlock.
func (s *State) Click(px float64) {
	s.commit(s.axis.Month(px))
}

func (s *State) commit(m int) {
	s.locked = true
	s.month = m
	s.preview = m
	s.notify(MonthCommitted)
}

// SelectCity switches to city and commits its first available month.
// An unknown city leaves the state unchanged.
func (s *State) SelectCity(city string) error {
	var months []int
	if s.catalog != nil {
		months = s.catalog.MonthNumbers(city)
	}
	if len(months) == 0 {
		return fmt.Errorf("select %q: %w", city, ErrUnknownCity)
	}
	s.city = city
	s.options = slices.Clone(months)
	s.month = months[0]
	if s.locked {
		s.preview = s.month
	}
	s.notify(CityChanged)
	return nil
}

// SelectMonth commits month without touching the city. When the state has
// month options, month must be one of them.
func (s *State) SelectMonth(month int) error {
	if !engine.ValidMonth(month) {
		return fmt.Errorf("select month %d: %w", month, ErrUnknownMonth)
	}
	if len(s.options) > 0 && !slices.Contains(s.options, month) {
		return fmt.Errorf("select month %d for %q: %w", month, s.city, ErrUnknownMonth)
	}
	s.month = month
	if s.locked {
		s.preview = month
	}
	s.notify(MonthCommitted)
	return nil
}

// Highlight emphasises category, optionally scoped to the group the pointer
// is in, in every linked view.
func (s *State) Highlight(category, group string) {
	if category == s.highlight && group == s.group {
		return
	}
	s.highlight, s.group = category, group
	s.notify(HighlightChanged)
}

// ClearHighlight removes the emphasis.
func (s *State) ClearHighlight() {
	if s.highlight == "" && s.group == "" {
		return
	}
	s.highlight, s.group = "", ""
	s.notify(HighlightChanged)
}
