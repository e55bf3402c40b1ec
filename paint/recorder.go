// Package paint collects paint property writes and turns them into style layers
// that can be shipped to a map client as JSON.
package paint

import (
	"github.com/khankhulgun/khanstyle/models"
)

type Write struct {
	LayerID  string `json:"layer_id"`
	Property string `json:"property"`
	Value    any    `json:"value"`
}

// Recorder stores every SetPaintProperty call in order. A later write of the
// same property wins when the paint is folded.
type Recorder struct {
	Writes []Write
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetPaintProperty(layerID, property string, value any) {
	r.Writes = append(r.Writes, Write{LayerID: layerID, Property: property, Value: value})
}

// Paint returns the folded paint of one layer. Cleared properties are kept with a nil value.
func (r *Recorder) Paint(layerID string) map[string]any {
	paint := map[string]any{}
	for _, w := range r.Writes {
		if w.LayerID == layerID {
			paint[w.Property] = w.Value
		}
	}
	return paint
}

// Reset drops recorded writes so the recorder can be reused for another style.
func (r *Recorder) Reset() {
	r.Writes = r.Writes[:0]
}

// Source identifies the data a set of layers draws from.
type Source struct {
	ID          string
	SourceLayer string
}

// FillLayer builds a fill layer from the writes recorded for layerID.
func (r *Recorder) FillLayer(layerID string, src Source) models.FillLayer {
	p := r.Paint(layerID)
	return models.FillLayer{
		ID:          layerID,
		Type:        "fill",
		Source:      src.ID,
		SourceLayer: src.SourceLayer,
		Paint: models.FillLayerPaint{
			FillColor:   p["fill-color"],
			FillOpacity: p["fill-opacity"],
		},
	}
}

func (r *Recorder) LineLayer(layerID string, src Source) models.LineLayer {
	p := r.Paint(layerID)
	return models.LineLayer{
		ID:          layerID,
		Type:        "line",
		Source:      src.ID,
		SourceLayer: src.SourceLayer,
		Paint: models.LineLayerPaint{
			LineColor:   p["line-color"],
			LineOpacity: p["line-opacity"],
			LineWidth:   p["line-width"],
		},
	}
}

func (r *Recorder) CircleLayer(layerID string, src Source) models.CircleLayer {
	p := r.Paint(layerID)
	return models.CircleLayer{
		ID:          layerID,
		Type:        "circle",
		Source:      src.ID,
		SourceLayer: src.SourceLayer,
		Paint: models.CircleLayerPaint{
			CircleColor:         p["circle-color"],
			CircleOpacity:       p["circle-opacity"],
			CircleStrokeColor:   p["circle-stroke-color"],
			CircleStrokeOpacity: p["circle-stroke-opacity"],
			CircleStrokeWidth:   p["circle-stroke-width"],
			CircleRadius:        p["circle-radius"],
		},
	}
}
