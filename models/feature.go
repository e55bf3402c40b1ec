package models

import (
	"encoding/json"
	"math"
)

// Feature is a GeoJSON feature. Properties is mutated in place when scaled
// companion fields are added.
type Feature struct {
	ID         any             `json:"id,omitempty"`
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
	Properties map[string]any  `json:"properties"`
}

// MarshalJSON encodes NaN and ±Inf property values as null, which is what
// browsers do when they serialize the same collection.
func (f Feature) MarshalJSON() ([]byte, error) {
	type feature Feature
	out := feature(f)
	if out.Type == "" {
		out.Type = "Feature"
	}
	out.Properties = make(map[string]any, len(f.Properties))
	for k, v := range f.Properties {
		if n, ok := v.(float64); ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
			v = nil
		}
		out.Properties[k] = v
	}
	return json.Marshal(out)
}

type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
	// Computed lists the source fields that already carry a scaled companion.
	Computed []string `json:"computed,omitempty"`
}

func NewFeatureCollection(features ...*Feature) *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}

// NewPointFeature is a convenience used by callers building collections by hand.
func NewPointFeature(lon, lat float64, properties map[string]any) *Feature {
	geom, _ := json.Marshal(map[string]any{
		"type":        "Point",
		"coordinates": []float64{lon, lat},
	})
	if properties == nil {
		properties = map[string]any{}
	}
	return &Feature{Type: "Feature", Geometry: geom, Properties: properties}
}
