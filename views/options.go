package views

import (
	"github.com/spektr-org/dreamlight/scales"
)

// Option configures a controller via functional options pattern.
type Option func(*config)

type config struct {
	width, height float64
	year          int
	keys          []string
	palette       []Swatch
	halo          [2]float64
	diag          scales.Diagnostics
}

// WithSize sets the plot area in pixels.
func WithSize(width, height float64) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// WithYear sets the year the dream charts are restricted to and labelled
// with.
func WithYear(year int) Option {
	return func(c *config) { c.year = year }
}

// WithKeys sets the stacking order of the wide monthly chart.
func WithKeys(keys ...string) Option {
	return func(c *config) {
		if len(keys) > 0 {
			c.keys = keys
		}
	}
}

// WithPalette replaces the category colours.
func WithPalette(p []Swatch) Option {
	return func(c *config) {
		if len(p) > 0 {
			c.palette = p
		}
	}
}

// WithHaloRange sets the halo opacity range of the city radial chart.
func WithHaloRange(low, high float64) Option {
	return func(c *config) { c.halo = [2]float64{low, high} }
}

// WithDiagnostics routes scale configuration reports to d.
func WithDiagnostics(d scales.Diagnostics) Option {
	return func(c *config) {
		if d != nil {
			c.diag = d
		}
	}
}

func applyOptions(defaults config, opts []Option) config {
	c := defaults
	if c.year == 0 {
		c.year = DefaultYear
	}
	if c.diag == nil {
		c.diag = scales.LogDiagnostics
	}
	if c.halo == [2]float64{} {
		c.halo = [2]float64{scales.MissingOpacity, scales.MissingOpacity + 0.9}
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DefaultYear is the year of the dream collection.
const DefaultYear = 2025
