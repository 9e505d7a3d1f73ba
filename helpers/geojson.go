package helpers

import (
	"errors"
	"fmt"
	"log"

	geojson "github.com/paulmach/go.geojson"
)

// ErrNoPolygons reports a boundary without any polygon geometry.
var ErrNoPolygons = errors.New("boundary has no polygons")

// ParseBoundary decodes a GeoJSON FeatureCollection and keeps only its
// Polygon and MultiPolygon features. The geometry is otherwise untouched.
func ParseBoundary(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode boundary: %w", err)
	}

	kept := fc.Features[:0]
	for _, f := range fc.Features {
		if f.Geometry != nil && (f.Geometry.IsPolygon() || f.Geometry.IsMultiPolygon()) {
			kept = append(kept, f)
		}
	}
	if dropped := len(fc.Features) - len(kept); dropped > 0 {
		log.Printf("⚠️ Dreamlight: boundary dropped %d non-polygon features", dropped)
	}
	fc.Features = kept

	if len(fc.Features) == 0 {
		return nil, ErrNoPolygons
	}
	return fc, nil
}

// Rings returns every outer and inner ring of f as [lon, lat] pairs.
func Rings(f *geojson.Feature) [][][]float64 {
	if f == nil || f.Geometry == nil {
		return nil
	}
	switch {
	case f.Geometry.IsPolygon():
		return f.Geometry.Polygon
	case f.Geometry.IsMultiPolygon():
		var out [][][]float64
		for _, poly := range f.Geometry.MultiPolygon {
			out = append(out, poly...)
		}
		return out
	}
	return nil
}
