package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for BuildCityTable()
// ============================================================================

// Option configures aggregation behavior via functional options pattern.
type Option func(*config)

type config struct {
	Year     int      // 0 = all years
	TopN     int      // ranking length for top emotions
	TieBreak TieBreak // ordering of equal counts
	Radiance Field    // numeric field averaged per (city, month)
	Labels   LabelField
}

// WithYear restricts the table to one calendar year.
func WithYear(year int) Option {
	return func(c *config) {
		c.Year = year
	}
}

// WithTopN sets how many top emotions are kept per (city, month).
func WithTopN(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.TopN = n
		}
	}
}

// WithTieBreak selects how equal label counts are ordered.
func WithTieBreak(t TieBreak) Option {
	return func(c *config) {
		c.TieBreak = t
	}
}

// WithRadianceField overrides which numeric field is averaged.
func WithRadianceField(f Field) Option {
	return func(c *config) {
		if f != nil {
			c.Radiance = f
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		TopN:     3,
		TieBreak: FirstSeen,
		Radiance: ValueField,
		Labels:   EmotionLabels,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
