package models

type VectorTileStyle struct {
	Version int                     `json:"version"`
	Sources map[string]VectorSource `json:"sources"`
	Sprite  string                  `json:"sprite,omitempty"`
	Layers  []any                   `json:"layers"`
}

type VectorSource struct {
	Type  string             `json:"type"`
	Tiles []string           `json:"tiles,omitempty"`
	Data  *FeatureCollection `json:"data,omitempty"`
}

// Paint values are either literals or data-driven expressions, and a null
// value clears the property on the client, so none of them are omitempty.

// Fill layer struct
type FillLayer struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      string         `json:"source"`
	SourceLayer string         `json:"source-layer,omitempty"`
	Paint       FillLayerPaint `json:"paint"`
}

type FillLayerPaint struct {
	FillColor   any `json:"fill-color"`
	FillOpacity any `json:"fill-opacity"`
}

// Line layer struct
type LineLayer struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      string         `json:"source"`
	SourceLayer string         `json:"source-layer,omitempty"`
	Paint       LineLayerPaint `json:"paint"`
}

type LineLayerPaint struct {
	LineColor   any `json:"line-color"`
	LineOpacity any `json:"line-opacity"`
	LineWidth   any `json:"line-width"`
}

// Circle layer struct for point features
type CircleLayer struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Source      string           `json:"source"`
	SourceLayer string           `json:"source-layer,omitempty"`
	Paint       CircleLayerPaint `json:"paint"`
}

type CircleLayerPaint struct {
	CircleColor         any `json:"circle-color"`
	CircleOpacity       any `json:"circle-opacity"`
	CircleStrokeColor   any `json:"circle-stroke-color"`
	CircleStrokeOpacity any `json:"circle-stroke-opacity"`
	CircleStrokeWidth   any `json:"circle-stroke-width"`
	CircleRadius        any `json:"circle-radius"`
}

type SpriteMeta struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Width      int `json:"width"`
	Height     int `json:"height"`
	PixelRatio int `json:"pixelRatio"`
}
