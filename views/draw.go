// Package views turns aggregates, scales and a selection snapshot into draw
// commands: an ordered list of shapes with fully resolved geometry and style.
//
// Every controller is built once per dataset load and is immutable after
// that. Render is pure: the same snapshot always yields the same commands.
// Painting, transitions and pointer capture belong to the renderer.
package views

import (
	"math"

	"github.com/spektr-org/dreamlight/selection"
)

// ============================================================================
// DRAW COMMANDS
// ============================================================================

// Shape names a primitive.
type Shape string

const (
	ShapeArc    Shape = "arc"
	ShapePath   Shape = "path"
	ShapeRect   Shape = "rect"
	ShapeLine   Shape = "line"
	ShapeText   Shape = "text"
	ShapeCircle Shape = "circle"
)

// Point is a position in chart-local pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style is the resolved paint of a command.
type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Dash        string  `json:"dash,omitempty"`
	Opacity     float64 `json:"opacity"`
	FontSize    float64 `json:"fontSize,omitempty"`
	Anchor      string  `json:"anchor,omitempty"` // start, middle, end
}

// DrawCommand is one shape.
//
// Geometry by shape:
//   - rect: X, Y, Width, Height
//   - line: X, Y → X2, Y2
//   - text: X, Y, Text
//   - circle: X, Y, R
//   - arc: X, Y centre; Inner, Outer radii; Start, End angles in radians,
//     clockwise from 12 o'clock
//   - path: Rings, closed unless Open is set
type DrawCommand struct {
	Shape  Shape     `json:"shape"`
	ID     string    `json:"id"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	X2     float64   `json:"x2,omitempty"`
	Y2     float64   `json:"y2,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	R      float64   `json:"r,omitempty"`
	Inner  float64   `json:"inner,omitempty"`
	Outer  float64   `json:"outer,omitempty"`
	Start  float64   `json:"start,omitempty"`
	End    float64   `json:"end,omitempty"`
	Rings  [][]Point `json:"rings,omitempty"`
	Open   bool      `json:"open,omitempty"`
	Curve  string    `json:"curve,omitempty"`
	Text   string    `json:"text,omitempty"`
	Style  Style     `json:"style"`
}

// Controller renders one chart.
type Controller interface {
	Render(snap selection.Snapshot) []DrawCommand
}

// ── Constructors ─────────────────────────────────────────────────────────────
// Opacity is clamped to [0, 1] here so encodings that overshoot (the halo
// policy reaches 1.05) stay valid paint.

func resolve(s Style) Style {
	if math.IsNaN(s.Opacity) {
		s.Opacity = 0
	}
	s.Opacity = math.Max(0, math.Min(1, s.Opacity))
	return s
}

// Rect is an axis-aligned box; negative sizes collapse to 0.
func Rect(id string, x, y, w, h float64, s Style) DrawCommand {
	return DrawCommand{Shape: ShapeRect, ID: id, X: x, Y: y, Width: math.Max(0, w), Height: math.Max(0, h), Style: resolve(s)}
}

// Line runs from (x1, y1) to (x2, y2).
func Line(id string, x1, y1, x2, y2 float64, s Style) DrawCommand {
	return DrawCommand{Shape: ShapeLine, ID: id, X: x1, Y: y1, X2: x2, Y2: y2, Style: resolve(s)}
}

// Text is a label anchored at (x, y).
func Text(id string, x, y float64, text string, s Style) DrawCommand {
	return DrawCommand{Shape: ShapeText, ID: id, X: x, Y: y, Text: text, Style: resolve(s)}
}

// Circle is centred on (cx, cy).
func Circle(id string, cx, cy, r float64, s Style) DrawCommand {
	return DrawCommand{Shape: ShapeCircle, ID: id, X: cx, Y: cy, R: r, Style: resolve(s)}
}

// Arc is an annular sector between inner and outer radius.
func Arc(id string, cx, cy, inner, outer, start, end float64, s Style) DrawCommand {
	return DrawCommand{Shape: ShapeArc, ID: id, X: cx, Y: cy, Inner: inner, Outer: outer, Start: start, End: end, Style: resolve(s)}
}

// Path is a set of closed rings, as drawn for a boundary polygon.
func Path(id string, rings [][]Point, s Style) DrawCommand {
	return DrawCommand{Shape: ShapePath, ID: id, Rings: rings, Style: resolve(s)}
}

// ── Shared pieces ────────────────────────────────────────────────────────────

const (
	textColor  = "#dbe7ff"
	titleColor = "#9aa3ff"
	inkColor   = "#f5f0dd"
)

func label(size float64, anchor string) Style {
	return Style{Fill: textColor, Opacity: 1, FontSize: size, Anchor: anchor}
}

// NoData is the explicit empty state of a chart.
func NoData(x, y float64, message string) []DrawCommand {
	return []DrawCommand{Text("no-data", x, y, message, Style{Fill: inkColor, Opacity: 1, FontSize: 16, Anchor: "middle"})}
}

// IsNoData reports whether cmds is the empty state.
func IsNoData(cmds []DrawCommand) bool {
	return len(cmds) == 1 && cmds[0].ID == "no-data"
}

// Find returns the first command with id.
func Find(cmds []DrawCommand, id string) (DrawCommand, bool) {
	for _, c := range cmds {
		if c.ID == id {
			return c, true
		}
	}
	return DrawCommand{}, false
}
