package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spektr-org/dreamlight/engine"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Year != 2025 {
		t.Errorf("default year = %d, want 2025", cfg.Year)
	}
	if len(cfg.EmotionKeys) != 5 || cfg.EmotionKeys[0] != "Joy" {
		t.Errorf("default keys = %v", cfg.EmotionKeys)
	}
	if cfg.Halo.Low != 0.15 || cfg.Halo.High != 1.05 {
		t.Errorf("default halo = %+v", cfg.Halo)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Datasets.Boundary != "missi.geojson" {
		t.Error("should return defaults for missing file")
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dreamlight.yaml")

	content := `
data_dir: data
year: 2024
emotion_keys: [Fear, Joy]
family_colors:
  - label: Fear
    color: "#CC79A7"
charts:
  bar:
    width: 320
    height: 420
halo:
  low: 0.2
  high: 0.9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Year != 2024 {
		t.Errorf("year = %d, want 2024", cfg.Year)
	}
	if len(cfg.EmotionKeys) != 2 || cfg.EmotionKeys[0] != "Fear" {
		t.Errorf("keys = %v", cfg.EmotionKeys)
	}
	if len(cfg.FamilyColors) != 1 || cfg.FamilyColors[0].Color != "#CC79A7" {
		t.Errorf("family colours = %+v", cfg.FamilyColors)
	}
	if cfg.Charts[Bar].Width != 320 {
		t.Errorf("bar width = %v, want 320", cfg.Charts[Bar].Width)
	}
	if cfg.Halo.High != 0.9 {
		t.Errorf("halo high = %v, want 0.9", cfg.Halo.High)
	}
	if cfg.Datasets.Dreams != "dreams_with_light.csv" {
		t.Error("unset datasets should keep their defaults")
	}

	got, err := cfg.DatasetPath(engine.DreamsWithLight)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "data", "dreams_with_light.csv"); got != want {
		t.Errorf("dreams path = %s, want %s", got, want)
	}
}

func TestLoadFrom_InvalidHaloFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dreamlight.yaml")
	if err := os.WriteFile(path, []byte("halo: {low: 0.9, high: 0.1}\nyear: -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Halo != DefaultConfig().Halo {
		t.Errorf("halo = %+v, want default", cfg.Halo)
	}
	if cfg.Year != 2025 {
		t.Errorf("year = %d, want 2025", cfg.Year)
	}
}

func TestLoadFrom_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dreamlight.yaml")
	if err := os.WriteFile(path, []byte("year: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestDatasetPath_Unknown(t *testing.T) {
	if _, err := DefaultConfig().DatasetPath("sqlite"); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestViewOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Charts[CityRadial] = ChartSize{Width: 400, Height: 400}

	if n := len(cfg.ViewOptions(CityRadial)); n != 4 {
		t.Errorf("city radial options = %d, want 4", n)
	}
	if n := len(cfg.ViewOptions(Choropleth)); n != 1 {
		t.Errorf("choropleth options = %d, want 1", n)
	}
}
