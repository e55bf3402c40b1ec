package paint

import (
	"encoding/json"
	"testing"

	"github.com/khankhulgun/khanstyle/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderFoldsPolygonPaint(t *testing.T) {
	s := style.New(style.CreateDescriptor(style.Properties{
		FillColor: style.StaticColor("#336699"),
		LineWidth: style.StaticSize(1.5),
	}))
	r := NewRecorder()
	require.NoError(t, s.ApplyPaintForPolygonsAndLines(r, "parcels-fill", "parcels-line", false))

	src := Source{ID: "parcels", SourceLayer: "public.parcels"}
	fill := r.FillLayer("parcels-fill", src)
	assert.Equal(t, "fill", fill.Type)
	assert.Equal(t, "#336699", fill.Paint.FillColor)
	assert.Equal(t, 0.5, fill.Paint.FillOpacity)

	line := r.LineLayer("parcels-line", src)
	assert.Nil(t, line.Paint.LineColor)
	assert.Equal(t, 0.0, line.Paint.LineOpacity)
	assert.Equal(t, 1.5, line.Paint.LineWidth)

	data, err := json.Marshal(line)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"parcels-line","type":"line","source":"parcels","source-layer":"public.parcels","paint":{"line-color":null,"line-opacity":0,"line-width":1.5}}`, string(data))
}

func TestRecorderLastWriteWins(t *testing.T) {
	r := NewRecorder()
	r.SetPaintProperty("pts", "circle-radius", 4.0)
	r.SetPaintProperty("pts", "circle-radius", 0.0)
	r.SetPaintProperty("other", "circle-radius", 9.0)

	assert.Equal(t, map[string]any{"circle-radius": 0.0}, r.Paint("pts"))
	assert.Len(t, r.Writes, 3)

	r.Reset()
	assert.Empty(t, r.Writes)
	assert.Empty(t, r.Paint("pts"))
}

func TestRecorderCircleLayer(t *testing.T) {
	s := style.New(style.CreateDescriptor(style.Properties{
		FillColor: style.DynamicColor("mag", "Reds"),
		IconSize:  style.DynamicSize("mag", 2, 12),
	}))
	r := NewRecorder()
	require.NoError(t, s.ApplyPaintForPoints(r, "quakes", true))

	c := r.CircleLayer("quakes", Source{ID: "quakes"})
	assert.Equal(t, "circle", c.Type)
	assert.IsType(t, style.Expression{}, c.Paint.CircleColor)
	assert.IsType(t, style.Expression{}, c.Paint.CircleRadius)
	assert.InDelta(t, 0.4, c.Paint.CircleOpacity, 1e-12)
	assert.Equal(t, 0.0, c.Paint.CircleStrokeWidth)
}
