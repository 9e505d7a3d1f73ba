// Package dashboard wires the charts of the page together: each widget pair
// owns one selection.State, dispatches input events to it and re-renders its
// dependent views on every change. Datasets are loaded concurrently; a widget
// whose data failed to load stays uninitialized without affecting the others.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/spektr-org/dreamlight/selection"
	"github.com/spektr-org/dreamlight/views"
)

var (
	// ErrNotLoaded is returned for events sent to a widget whose data did
	// not load.
	ErrNotLoaded = errors.New("widget not loaded")
	// ErrUnknownEvent reports an event kind the dashboard cannot apply.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrUnknownWidget reports a widget name the page does not have.
	ErrUnknownWidget = errors.New("unknown widget")
)

// View is one named chart of a widget.
type View struct {
	Name       string
	Controller views.Controller
}

// Widget is a selection plus the charts that depend on it.
type Widget struct {
	Name string
	// Err is the load failure that left the widget uninitialized.
	Err error

	state  *selection.State
	views  []View
	frames map[string][]views.DrawCommand
	unsub  func()
}

// NewWidget renders every view once and re-renders them on each change of
// state.
func NewWidget(name string, state *selection.State, vs ...View) *Widget {
	w := &Widget{Name: name, state: state, views: vs}
	w.render(state.Snapshot())
	w.unsub = state.Subscribe(func(c selection.Change) { w.render(c.Snapshot) })
	return w
}

// failedWidget is a widget that never got its data.
func failedWidget(name string, err error) *Widget {
	return &Widget{Name: name, Err: err}
}

func (w *Widget) render(snap selection.Snapshot) {
	frames := make(map[string][]views.DrawCommand, len(w.views))
	for _, v := range w.views {
		frames[v.Name] = v.Controller.Render(snap)
	}
	w.frames = frames
}

// Loaded reports whether the widget has its data.
func (w *Widget) Loaded() bool { return w.Err == nil && w.state != nil }

// Dispatch applies ev to the widget's selection. Dependent views are
// re-rendered before Dispatch returns.
func (w *Widget) Dispatch(ev Event) error {
	if !w.Loaded() {
		return fmt.Errorf("%s: %w", w.Name, ErrNotLoaded)
	}
	return apply(w.state, ev)
}

// Snapshot returns the current selection. It is the zero Snapshot for a
// widget that did not load.
func (w *Widget) Snapshot() selection.Snapshot {
	if w.state == nil {
		return selection.Snapshot{}
	}
	return w.state.Snapshot()
}

// Axis is the pointer axis events of this widget are measured on.
func (w *Widget) Axis() selection.Axis {
	if w.state == nil {
		return selection.MonthAxis(1)
	}
	return w.state.Axis()
}

// ViewNames lists the widget's charts in order.
func (w *Widget) ViewNames() []string {
	names := make([]string, len(w.views))
	for i, v := range w.views {
		names[i] = v.Name
	}
	return names
}

// Controller returns the chart called view.
func (w *Widget) Controller(view string) (views.Controller, bool) {
	for _, v := range w.views {
		if v.Name == view {
			return v.Controller, true
		}
	}
	return nil, false
}

// Frame returns the latest draw commands of view.
func (w *Widget) Frame(view string) ([]views.DrawCommand, bool) {
	cmds, ok := w.frames[view]
	return cmds, ok
}

// Close stops re-rendering on changes.
func (w *Widget) Close() {
	if w.unsub != nil {
		w.unsub()
		w.unsub = nil
	}
}
