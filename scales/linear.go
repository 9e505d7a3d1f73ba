package scales

import (
	"fmt"

	"github.com/aclements/go-moremath/scale"
)

// Linear maps a real domain onto a real range.
//
// A domain with min == max maps every input to the range midpoint. An invalid
// domain (min > max, NaN, ±Inf) is reported and the scale becomes the
// identity.
type Linear struct {
	domain   [2]float64
	rng      [2]float64
	clamp    bool
	easing   Easing
	norm     scale.Linear
	identity bool
}

// NewLinear builds a linear scale from domain to rng.
func NewLinear(domain, rng [2]float64, opts ...Option) Linear {
	o := applyOptions(opts)
	l := Linear{
		domain: domain,
		rng:    rng,
		clamp:  o.clamp,
		easing: o.easing,
		norm:   scale.Linear{Min: domain[0], Max: domain[1], Base: 10, Clamp: o.clamp},
	}
	if !validDomain(domain) {
		o.diag.Report(fmt.Errorf("linear domain [%g, %g]: %w", domain[0], domain[1], ErrInvalidDomain))
		l.identity = true
	}
	return l
}

// Domain returns the input interval.
func (l Linear) Domain() [2]float64 { return l.domain }

// Range returns the output interval.
func (l Linear) Range() [2]float64 { return l.rng }

// Identity reports whether the scale fell back to the identity mapping.
func (l Linear) Identity() bool { return l.identity }

// Map converts a domain value to the range.
func (l Linear) Map(x float64) float64 {
	if l.identity {
		return x
	}
	t := 0.5
	if l.domain[0] != l.domain[1] {
		t = l.norm.Map(x)
	}
	t = l.easing.apply(t)
	return l.rng[0] + t*(l.rng[1]-l.rng[0])
}

// Invert converts a range value back to the domain. With clamping enabled
// the result stays inside the domain.
func (l Linear) Invert(y float64) float64 {
	if l.identity {
		return y
	}
	if l.rng[0] == l.rng[1] {
		return l.domain[0]
	}
	t := l.easing.invert((y - l.rng[0]) / (l.rng[1] - l.rng[0]))
	if l.clamp {
		t = clamp01(t)
	}
	return l.norm.Unmap(t)
}

// Ticks returns up to max evenly spaced, rounded domain values.
func (l Linear) Ticks(max int) []float64 {
	if l.identity || l.domain[0] == l.domain[1] || max < 1 {
		return []float64{l.domain[0]}
	}
	major, _ := l.norm.Ticks(scale.TickOptions{Max: max})
	return major
}
