package scales

import (
	"image/color"

	"github.com/aclements/go-gg/palette"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/spektr-org/dreamlight/engine"
)

// Viridis is the perceptually uniform ramp used for night brightness.
var Viridis = palette.RGBGradient{Colors: []color.RGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x48, 0x28, 0x78, 0xff},
	{0x3e, 0x49, 0x89, 0xff},
	{0x31, 0x68, 0x8e, 0xff},
	{0x26, 0x82, 0x8e, 0xff},
	{0x1f, 0x9e, 0x89, 0xff},
	{0x35, 0xb7, 0x79, 0xff},
	{0x6e, 0xce, 0x58, 0xff},
	{0xb5, 0xde, 0x2b, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}}

// Encoding is a resolved colour and opacity.
type Encoding struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Sequential maps a continuous domain onto a colour ramp and an opacity
// range. Missing input always maps to the missing encoding.
type Sequential struct {
	position Linear
	opacity  Linear
	ramp     palette.Continuous
	missing  Encoding
}

// NewSequential builds a sequential scale over domain. Input outside the
// domain is clamped.
func NewSequential(domain [2]float64, opts ...Option) Sequential {
	o := applyOptions(opts)
	// Only the opacity honours the easing policy; colour stays linear.
	positionOpts := append(append([]Option(nil), opts...), WithClamp(), WithEasing(EaseLinear))
	opacityOpts := append(append([]Option(nil), opts...), WithClamp(), WithDiagnostics(DiagnosticsFunc(func(error) {})))
	return Sequential{
		position: NewLinear(domain, [2]float64{0, 1}, positionOpts...),
		opacity:  NewLinear(domain, o.opacity, opacityOpts...),
		ramp:     o.ramp,
		missing:  o.missing,
	}
}

// Missing returns the encoding used for missing input.
func (s Sequential) Missing() Encoding { return s.missing }

// Map encodes n.
func (s Sequential) Map(n engine.Number) Encoding {
	v, ok := n.Get()
	if !ok || s.position.Identity() {
		return s.missing
	}
	return Encoding{
		Color:   s.ColorAt(s.position.Map(v)),
		Opacity: s.opacity.Map(v),
	}
}

// ColorAt returns the ramp colour at normalized position t in [0, 1].
func (s Sequential) ColorAt(t float64) string {
	c, ok := colorful.MakeColor(s.ramp.Map(clamp01(t)))
	if !ok {
		return s.missing.Color
	}
	return c.Hex()
}

// Stops samples the ramp n times from low to high, for legends.
func (s Sequential) Stops(n int) []string {
	if n < 2 {
		n = 2
	}
	out := make([]string, n)
	for i := range out {
		out[i] = s.ColorAt(float64(i) / float64(n-1))
	}
	return out
}

// HaloOpacity is the brightness policy of the radial halo: missing radiance
// is faint, and the observed extent spreads quadratically over
// [MissingOpacity, MissingOpacity+0.9].
func HaloOpacity(domain [2]float64, opts ...Option) Sequential {
	base := []Option{
		WithOpacityRange(MissingOpacity, MissingOpacity+0.9),
		WithEasing(EaseQuadratic),
		WithMissing("#ffe9a6", MissingOpacity),
	}
	return NewSequential(domain, append(base, opts...)...)
}
