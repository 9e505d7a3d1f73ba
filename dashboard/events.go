package dashboard

import (
	"fmt"

	"github.com/spektr-org/dreamlight/selection"
)

// ============================================================================
// EVENTS — normalized input, already in chart-local coordinates
// ============================================================================

// EventKind names an input event.
type EventKind int

const (
	EventHover EventKind = iota + 1
	EventLeave
	EventClick
	EventSelectCity
	EventSelectMonth
	EventHighlight
	EventClearHighlight
)

func (k EventKind) String() string {
	switch k {
	case EventHover:
		return "hover"
	case EventLeave:
		return "leave"
	case EventClick:
		return "click"
	case EventSelectCity:
		return "select-city"
	case EventSelectMonth:
		return "select-month"
	case EventHighlight:
		return "highlight"
	case EventClearHighlight:
		return "clear-highlight"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one input event. Only the fields of its kind are read.
type Event struct {
	Kind     EventKind `json:"kind"`
	X        float64   `json:"x,omitempty"`
	City     string    `json:"city,omitempty"`
	Month    int       `json:"month,omitempty"`
	Category string    `json:"category,omitempty"`
	Group    string    `json:"group,omitempty"`
}

// Hover previews the month under pointer position px.
func Hover(px float64) Event { return Event{Kind: EventHover, X: px} }

// Leave is the pointer leaving the chart.
func Leave() Event { return Event{Kind: EventLeave} }

// Click commits the month under px and locks the selection.
func Click(px float64) Event { return Event{Kind: EventClick, X: px} }

// SelectCity switches the city and resets its month.
func SelectCity(name string) Event { return Event{Kind: EventSelectCity, City: name} }

// SelectMonth commits month for the current city.
func SelectMonth(month int) Event { return Event{Kind: EventSelectMonth, Month: month} }

// ClearHighlight removes category emphasis.
func ClearHighlight() Event { return Event{Kind: EventClearHighlight} }

// HighlightCategory emphasises category in every linked donut. group names
// the donut the pointer is over and may be empty.
func HighlightCategory(category, group string) Event {
	return Event{Kind: EventHighlight, Category: category, Group: group}
}

// apply runs ev against s.
func apply(s *selection.State, ev Event) error {
	switch ev.Kind {
	case EventHover:
		s.Hover(ev.X)
	case EventLeave:
		s.Leave()
	case EventClick:
		s.Click(ev.X)
	case EventSelectCity:
		return s.SelectCity(ev.City)
	case EventSelectMonth:
		return s.SelectMonth(ev.Month)
	case EventHighlight:
		s.Highlight(ev.Category, ev.Group)
	case EventClearHighlight:
		s.ClearHighlight()
	default:
		return fmt.Errorf("dispatch %v: %w", ev.Kind, ErrUnknownEvent)
	}
	return nil
}
