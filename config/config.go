// Package config loads the dashboard settings file: where the datasets live,
// the emotion key order and colours, chart sizes and the halo policy.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/schema"
	"github.com/spektr-org/dreamlight/views"
)

// Chart names used as keys of Config.Charts.
const (
	StackedArea = "stacked_area"
	Bar         = "bar"
	Choropleth  = "choropleth"
	CityRadial  = "city_radial"
	LightGroups = "light_groups"
)

// DatasetsConfig names each dataset file, relative to DataDir.
type DatasetsConfig struct {
	WideMonthly     string `yaml:"wide_monthly"`
	LongMonthly     string `yaml:"long_monthly"`
	Dreams          string `yaml:"dreams"`
	LightRadial     string `yaml:"light_radial"`
	MonthlyRadiance string `yaml:"monthly_radiance"`
	Boundary        string `yaml:"boundary"`
}

// ChartSize overrides a chart's default pixel size.
type ChartSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// HaloConfig is the opacity range of the city radial halo.
type HaloConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Config is the settings file.
type Config struct {
	DataDir       string               `yaml:"data_dir"`
	Datasets      DatasetsConfig       `yaml:"datasets"`
	Year          int                  `yaml:"year"`
	EmotionKeys   []string             `yaml:"emotion_keys"`
	FamilyColors  []views.Swatch       `yaml:"family_colors"`
	EmotionColors []views.Swatch       `yaml:"emotion_colors"`
	Charts        map[string]ChartSize `yaml:"charts"`
	Halo          HaloConfig           `yaml:"halo"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() Config {
	return Config{
		DataDir: "data/cleaned",
		Datasets: DatasetsConfig{
			WideMonthly:     "dream_emotion_month_wide.csv",
			LongMonthly:     "dream_emotion_long.csv",
			Dreams:          "dreams_with_light.csv",
			LightRadial:     "light_emotion_radial.csv",
			MonthlyRadiance: "mississauga_monthsum.csv",
			Boundary:        "missi.geojson",
		},
		Year:        views.DefaultYear,
		EmotionKeys: append([]string(nil), schema.WideEmotionKeys...),
		Charts:      map[string]ChartSize{},
		Halo:        HaloConfig{Low: 0.15, High: 1.05},
	}
}

// LoadFrom reads path over the defaults. A missing file yields the defaults;
// invalid values fall back to their default one by one.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Year <= 0 {
		cfg.Year = views.DefaultYear
	}
	if len(cfg.EmotionKeys) == 0 {
		cfg.EmotionKeys = DefaultConfig().EmotionKeys
	}
	if cfg.Halo.Low < 0 || cfg.Halo.High <= cfg.Halo.Low {
		cfg.Halo = DefaultConfig().Halo
	}
	if cfg.Charts == nil {
		cfg.Charts = map[string]ChartSize{}
	}
	if !filepath.IsAbs(cfg.DataDir) && cfg.DataDir != "" {
		cfg.DataDir = filepath.Join(filepath.Dir(path), cfg.DataDir)
	}

	return cfg, nil
}

// Path resolves a dataset file against DataDir. Empty names stay empty.
func (c Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// DatasetPath returns the resolved file of a dataset kind.
func (c Config) DatasetPath(kind engine.DatasetKind) (string, error) {
	var name string
	switch kind {
	case engine.WideMonthly:
		name = c.Datasets.WideMonthly
	case engine.LongMonthly:
		name = c.Datasets.LongMonthly
	case engine.DreamsWithLight:
		name = c.Datasets.Dreams
	case engine.LightRadial:
		name = c.Datasets.LightRadial
	case engine.MonthlyRadiance:
		name = c.Datasets.MonthlyRadiance
	case engine.Boundary:
		name = c.Datasets.Boundary
	default:
		return "", fmt.Errorf("unknown dataset kind %q", kind)
	}
	if name == "" {
		return "", fmt.Errorf("no file configured for dataset %q", kind)
	}
	return c.Path(name), nil
}

// ViewOptions turns the settings into controller options for chart.
func (c Config) ViewOptions(chart string) []views.Option {
	opts := []views.Option{views.WithYear(c.Year)}
	if size, ok := c.Charts[chart]; ok {
		opts = append(opts, views.WithSize(size.Width, size.Height))
	}
	switch chart {
	case StackedArea:
		opts = append(opts, views.WithKeys(c.EmotionKeys...), views.WithPalette(c.FamilyColors))
	case Bar:
		opts = append(opts, views.WithPalette(c.FamilyColors))
	case CityRadial:
		opts = append(opts, views.WithPalette(c.EmotionColors), views.WithHaloRange(c.Halo.Low, c.Halo.High))
	case LightGroups:
		opts = append(opts, views.WithPalette(c.EmotionColors))
	}
	return opts
}
