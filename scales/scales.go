// Package scales maps data domains onto visual ranges: pixel offsets,
// opacities, colours and angles.
//
// Every scale is an immutable value built once per dataset load from the
// observed extent of a field. Construction never fails: an invalid domain or
// an unknown category falls back to a deterministic mapping and is reported
// to a Diagnostics sink instead.
package scales

import (
	"errors"
	"log"
	"math"

	"github.com/aclements/go-gg/palette"

	"github.com/spektr-org/dreamlight/engine"
)

var (
	// ErrInvalidDomain reports a domain with min > max or non-finite bounds.
	ErrInvalidDomain = errors.New("invalid scale domain")
	// ErrUnknownCategory reports a label absent from a fixed mapping.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidColor reports a colour string that does not parse.
	ErrInvalidColor = errors.New("invalid colour")
)

// ============================================================================
// DIAGNOSTICS
// ============================================================================

// Diagnostics receives configuration problems that were recovered locally.
type Diagnostics interface {
	Report(err error)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(err error)

func (f DiagnosticsFunc) Report(err error) { f(err) }

// LogDiagnostics writes each report to the standard logger.
var LogDiagnostics Diagnostics = DiagnosticsFunc(func(err error) {
	log.Printf("⚠️ Dreamlight scale: %v", err)
})

// Collector records reports in order. Useful to surface them in a UI.
type Collector struct {
	Errors []error
}

func (c *Collector) Report(err error) { c.Errors = append(c.Errors, err) }

// ============================================================================
// EASING
// ============================================================================

// Easing reshapes the normalized position t before it is spread over the
// range.
type Easing int

const (
	// EaseLinear maps t unchanged.
	EaseLinear Easing = iota
	// EaseQuadratic maps t to t². Used for halo brightness so differences
	// at the bright end read larger than at the dim end.
	EaseQuadratic
)

func (e Easing) apply(t float64) float64 {
	if e == EaseQuadratic {
		return t * math.Abs(t)
	}
	return t
}

func (e Easing) invert(t float64) float64 {
	if e == EaseQuadratic {
		if t < 0 {
			return -math.Sqrt(-t)
		}
		return math.Sqrt(t)
	}
	return t
}

// ============================================================================
// OPTIONS
// ============================================================================

// Option configures a scale via functional options pattern.
type Option func(*options)

type options struct {
	clamp    bool
	easing   Easing
	padding  float64
	diag     Diagnostics
	ramp     palette.Continuous
	opacity  [2]float64
	missing  Encoding
	fallback string
}

// WithClamp pins out-of-domain input to the range edges.
func WithClamp() Option {
	return func(o *options) { o.clamp = true }
}

// WithEasing selects the easing policy.
func WithEasing(e Easing) Option {
	return func(o *options) { o.easing = e }
}

// WithPadding sets the band padding fraction, in [0, 1].
func WithPadding(p float64) Option {
	return func(o *options) { o.padding = p }
}

// WithDiagnostics routes configuration reports to d.
func WithDiagnostics(d Diagnostics) Option {
	return func(o *options) {
		if d != nil {
			o.diag = d
		}
	}
}

// WithPalette sets the continuous colour ramp of a sequential scale.
func WithPalette(p palette.Continuous) Option {
	return func(o *options) {
		if p != nil {
			o.ramp = p
		}
	}
}

// WithOpacityRange sets the opacity a sequential scale spreads its domain over.
func WithOpacityRange(low, high float64) Option {
	return func(o *options) { o.opacity = [2]float64{low, high} }
}

// WithMissing sets the encoding used for missing input.
func WithMissing(color string, opacity float64) Option {
	return func(o *options) { o.missing = Encoding{Color: color, Opacity: opacity} }
}

// WithFallback sets the colour used for unknown categories.
func WithFallback(color string) Option {
	return func(o *options) { o.fallback = color }
}

// MissingOpacity is the opacity of a missing value: faint, never zero.
const MissingOpacity = 0.15

// FallbackColor is used for categories absent from a colour mapping.
const FallbackColor = "#aaaaaa"

func applyOptions(opts []Option) *options {
	o := &options{
		diag:     LogDiagnostics,
		ramp:     Viridis,
		opacity:  [2]float64{1, 1},
		missing:  Encoding{Color: "#3a3a4a", Opacity: MissingOpacity},
		fallback: FallbackColor,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ============================================================================
// DOMAIN HELPERS
// ============================================================================

// Extent returns [min, max] of the present values. ok is false when no value
// is present.
func Extent(values []engine.Number) (ext [2]float64, ok bool) {
	for _, n := range values {
		v, valid := n.Get()
		if !valid {
			continue
		}
		if !ok {
			ext = [2]float64{v, v}
			ok = true
			continue
		}
		ext[0] = math.Min(ext[0], v)
		ext[1] = math.Max(ext[1], v)
	}
	return ext, ok
}

func validDomain(d [2]float64) bool {
	for _, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return d[0] <= d[1]
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
