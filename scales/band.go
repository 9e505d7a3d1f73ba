package scales

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
)

// ============================================================================
// BAND — ordered labels → equal bands
// ============================================================================

// Band divides a range into equal bands, one per label, with the same padding
// fraction between bands and at both ends. Bands are centred in the range.
type Band struct {
	labels    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
	reverse   bool
	n         int
}

// NewBand builds a band scale. Duplicate labels keep their first position.
func NewBand(labels []string, rng [2]float64, opts ...Option) Band {
	o := applyOptions(opts)
	labels = lo.Uniq(labels)

	p := o.padding
	if p < 0 || p > 1 || math.IsNaN(p) {
		o.diag.Report(fmt.Errorf("band padding %g: %w", p, ErrInvalidDomain))
		p = clamp01(p)
		if math.IsNaN(o.padding) {
			p = 0
		}
	}

	b := Band{labels: labels, index: make(map[string]int, len(labels)), n: len(labels)}
	for i, l := range labels {
		b.index[l] = i
	}

	start, stop := rng[0], rng[1]
	if stop < start {
		start, stop = stop, start
		b.reverse = true
	}
	n := float64(len(labels))
	b.step = (stop - start) / math.Max(1, n-p+p*2)
	b.start = start + (stop-start-b.step*(n-p))*0.5
	b.bandwidth = b.step * (1 - p)
	return b
}

// Labels returns the ordered domain.
func (b Band) Labels() []string {
	out := make([]string, len(b.labels))
	copy(out, b.labels)
	return out
}

// Bandwidth returns the width of every band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return b.step }

// Position returns the start of label's band. ok is false for labels outside
// the domain.
func (b Band) Position(label string) (float64, bool) {
	i, ok := b.index[label]
	if !ok {
		return 0, false
	}
	if b.reverse {
		i = b.n - 1 - i
	}
	return b.start + b.step*float64(i), true
}

// ============================================================================
// ORDINAL — labels → colours
// ============================================================================

// Ordinal assigns a fixed colour to each label. Labels beyond the colour list
// cycle through it; labels outside the domain get the fallback colour.
type Ordinal struct {
	colors   map[string]string
	labels   []string
	fallback string
	diag     Diagnostics
}

// NewOrdinal pairs labels with colors. Matching is case-insensitive.
// Colours that do not parse are reported and replaced by the fallback.
func NewOrdinal(labels, colors []string, opts ...Option) Ordinal {
	o := applyOptions(opts)
	ord := Ordinal{
		colors:   make(map[string]string, len(labels)),
		fallback: o.fallback,
		diag:     o.diag,
	}
	if len(colors) == 0 {
		o.diag.Report(fmt.Errorf("ordinal with %d labels and no colours: %w", len(labels), ErrInvalidDomain))
	}
	for i, label := range lo.Uniq(labels) {
		key := strings.ToLower(label)
		ord.labels = append(ord.labels, label)
		if len(colors) == 0 {
			ord.colors[key] = ord.fallback
			continue
		}
		c := colors[i%len(colors)]
		if _, err := colorful.Hex(c); err != nil {
			o.diag.Report(fmt.Errorf("colour %q for %q: %w", c, label, ErrInvalidColor))
			c = ord.fallback
		}
		ord.colors[key] = c
	}
	return ord
}

// Labels returns the ordered domain.
func (o Ordinal) Labels() []string {
	out := make([]string, len(o.labels))
	copy(out, o.labels)
	return out
}

// Lookup returns label's colour, or ok=false for labels outside the domain.
func (o Ordinal) Lookup(label string) (string, bool) {
	c, ok := o.colors[strings.ToLower(label)]
	return c, ok
}

// Color returns label's colour. Unknown labels are reported and get the
// fallback colour.
func (o Ordinal) Color(label string) string {
	if c, ok := o.Lookup(label); ok {
		return c
	}
	if o.diag != nil {
		o.diag.Report(fmt.Errorf("colour for %q: %w", label, ErrUnknownCategory))
	}
	return o.fallback
}

// ============================================================================
// PIE — proportions → angles
// ============================================================================

// Slice is an angular interval in radians, clockwise from 12 o'clock.
type Slice struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Pie lays values out around a full circle in input order. Angles are
// proportional to values; negative and NaN values get an empty slice. When
// nothing is positive every slice is empty.
func Pie(values []float64) []Slice {
	total := lo.SumBy(values, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
	out := make([]Slice, len(values))
	k := 0.0
	if total > 0 {
		k = 2 * math.Pi / total
	}
	angle := 0.0
	for i, v := range values {
		if !(v > 0) {
			v = 0
		}
		out[i] = Slice{Start: angle, End: angle + v*k}
		angle = out[i].End
	}
	return out
}
