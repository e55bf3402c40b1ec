package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/khankhulgun/khanstyle/maplayer"
	"github.com/khankhulgun/khanstyle/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	styles map[string]*style.VectorStyle
}

func (m *memStore) Style(_ context.Context, layerID string) (*style.VectorStyle, error) {
	s, ok := m.styles[layerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", maplayer.ErrStyleNotFound, layerID)
	}
	return s, nil
}

func (m *memStore) Save(_ context.Context, layerID string, d style.Descriptor) (*style.VectorStyle, error) {
	s, err := style.FromDescriptor(d)
	if err != nil {
		return nil, err
	}
	m.styles[layerID] = s
	return s, nil
}

func (m *memStore) UpdateProperty(ctx context.Context, layerID string, name style.PropertyName, spec *style.PropertySpec) (*style.VectorStyle, error) {
	s, err := m.Style(ctx, layerID)
	if err != nil {
		return nil, err
	}
	d, err := s.WithProperty(name, spec)
	if err != nil {
		return nil, err
	}
	return m.Save(ctx, layerID, d)
}

func newApp(store *memStore) *fiber.App {
	app := fiber.New()
	sc := NewStyleController(store)
	a := app.Group("/style")
	a.Post("/validate", sc.Validate)
	a.Post("/paint", sc.Paint)
	a.Post("/icon.svg", sc.IconSVG)
	a.Post("/icon.png", sc.IconPNG)
	a.Post("/sprite", sc.Sprite)
	a.Get("/layer/:layer", sc.GetLayerStyle)
	a.Get("/layer/:layer/icon.svg", sc.LayerIcon)
	a.Put("/layer/:layer", sc.SaveLayerStyle)
	a.Patch("/layer/:layer/property/:property", sc.UpdateLayerProperty)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

const choropleth = `{"type":"VECTOR","properties":{"fillColor":{"type":"DYNAMIC","options":{"field":{"name":"pop"},"color":"Blues"}},"lineColor":{"type":"STATIC","options":{"color":"#333333"}},"lineWidth":{"type":"STATIC","options":{"size":1}}}}`

func TestValidate(t *testing.T) {
	app := newApp(&memStore{styles: map[string]*style.VectorStyle{}})

	resp, body := do(t, app, http.MethodPost, "/style/validate", choropleth)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Status        string   `json:"status"`
		DynamicFields []string `json:"dynamic_fields"`
		ColorRamp     []string `json:"color_ramp"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, []string{"pop"}, out.DynamicFields)
	assert.Len(t, out.ColorRamp, style.GradientSteps)

	resp, body = do(t, app, http.MethodPost, "/style/validate", `{"type":"VECTOR","properties":{"fillColor":{"type":"STATIC","options":{"color":"blue"}}}}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"problems"`)

	resp, _ = do(t, app, http.MethodPost, "/style/validate", `{"type":"VECTOR","properties":{"fillColor":{"type":"RANDOM"}}}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPaintPolygons(t *testing.T) {
	app := newApp(&memStore{styles: map[string]*style.VectorStyle{}})

	req := `{"style":` + choropleth + `,"geometry_type":"Polygon","layer_id":"soum","data":{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"pop":100}},
		{"type":"Feature","properties":{"pop":300}}]}}`
	resp, body := do(t, app, http.MethodPost, "/style/paint", req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Scaled bool `json:"scaled"`
		Style  struct {
			Sources map[string]struct {
				Data struct {
					Features []struct {
						Properties map[string]any `json:"properties"`
					} `json:"features"`
					Computed []string `json:"computed"`
				} `json:"data"`
			} `json:"sources"`
			Layers []map[string]any `json:"layers"`
		} `json:"style"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Scaled)

	data := out.Style.Sources["soum"].Data
	assert.Equal(t, []string{"pop"}, data.Computed)
	assert.Equal(t, 0.0, data.Features[0].Properties["scaled(pop)"])
	assert.Equal(t, 1.0, data.Features[1].Properties["scaled(pop)"])

	require.Len(t, out.Style.Layers, 2)
	assert.Equal(t, "soum-fill", out.Style.Layers[0]["id"])
	fillPaint := out.Style.Layers[0]["paint"].(map[string]any)
	assert.Equal(t, "interpolate", fillPaint["fill-color"].([]any)[0])
	assert.Equal(t, 0.5, fillPaint["fill-opacity"])
	linePaint := out.Style.Layers[1]["paint"].(map[string]any)
	assert.Equal(t, "#333333", linePaint["line-color"])
	assert.Equal(t, 1.0, linePaint["line-width"])
}

func TestPaintPointsWithConstantField(t *testing.T) {
	app := newApp(&memStore{styles: map[string]*style.VectorStyle{}})

	req := `{"style":{"type":"VECTOR","properties":{"iconSize":{"type":"DYNAMIC","options":{"field":{"name":"n"},"minSize":2,"maxSize":8}}}},
		"geometry_type":"Point","layer_id":"wells","transient":true,
		"data":{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"n":5}},{"type":"Feature","properties":{"n":5}}]}}`
	resp, body := do(t, app, http.MethodPost, "/style/paint", req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	// NaN scaled values travel as null
	assert.Contains(t, string(body), `"scaled(n)":null`)
	assert.Contains(t, string(body), `"circle-color":null`)
	assert.Contains(t, string(body), `"circle-radius":["interpolate"`)
}

func TestPaintRejectsBadInput(t *testing.T) {
	app := newApp(&memStore{styles: map[string]*style.VectorStyle{}})

	resp, _ := do(t, app, http.MethodPost, "/style/paint", `{"style":`+choropleth+`}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/style/paint", `{"style":`+choropleth+`,"layer_id":"x","geometry_type":"Raster"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/style/paint", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIcons(t *testing.T) {
	app := newApp(&memStore{styles: map[string]*style.VectorStyle{}})
	descriptor := `{"type":"VECTOR","properties":{"fillColor":{"type":"STATIC","options":{"color":"#00aa00"}}}}`

	resp, body := do(t, app, http.MethodPost, "/style/icon.svg?points=true", descriptor)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), `<circle`)
	assert.Contains(t, string(body), `fill="#00aa00"`)

	resp, body = do(t, app, http.MethodPost, "/style/icon.png?scale=3", descriptor)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())
}

func TestIconScaleOutOfRange(t *testing.T) {
	app := newApp(&memStore{styles: map[string]*style.VectorStyle{}})
	descriptor := `{"type":"VECTOR","properties":{}}`

	for _, scale := range []string{"0", "9", "1073741824"} {
		resp, body := do(t, app, http.MethodPost, "/style/icon.png?scale="+scale, descriptor)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, scale)
		assert.Contains(t, string(body), `"status":"error"`)
	}

	resp, _ := do(t, app, http.MethodPost, "/style/icon.png?scale=8", descriptor)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLayerStyleLifecycle(t *testing.T) {
	store := &memStore{styles: map[string]*style.VectorStyle{}}
	app := newApp(store)

	resp, _ := do(t, app, http.MethodGet, "/style/layer/roads", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPut, "/style/layer/roads", choropleth)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, app, http.MethodPatch, "/style/layer/roads/property/fillColor", `{"type":"STATIC","options":{"color":"#ff8800"}}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, app, http.MethodGet, "/style/layer/roads", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var d style.Descriptor
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, "#ff8800", d.Properties.FillColor.Options.Color)
	assert.Equal(t, "#333333", d.Properties.LineColor.Options.Color)

	resp, _ = do(t, app, http.MethodPatch, "/style/layer/roads/property/lineColor", "null")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, store.styles["roads"].Properties().LineColor)

	resp, _ = do(t, app, http.MethodPatch, "/style/layer/roads/property/shadow", `{"type":"STATIC"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, "/style/layer/roads/icon.svg", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `stroke="grey"`)
}

func TestSprite(t *testing.T) {
	store := &memStore{styles: map[string]*style.VectorStyle{
		"a": style.New(style.CreateDescriptor(style.Properties{FillColor: style.StaticColor("#ff0000")})),
		"b": style.New(style.CreateDescriptor(style.Properties{FillColor: style.StaticColor("#0000ff")})),
	}}
	app := newApp(store)

	resp, body := do(t, app, http.MethodPost, "/style/sprite?meta=true", `{"layers":["a","b"],"points":true,"pixel_ratio":2}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var meta map[string]struct {
		X     int `json:"x"`
		Width int `json:"width"`
	}
	require.NoError(t, json.Unmarshal(body, &meta))
	assert.Equal(t, 0, meta["a"].X)
	assert.Equal(t, 32, meta["b"].X)

	resp, body = do(t, app, http.MethodPost, "/style/sprite", `{"layers":["a","b"]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	resp, _ = do(t, app, http.MethodPost, "/style/sprite", `{"layers":["missing"]}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/style/sprite", `{"layers":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	for _, ratio := range []string{"-1", "9", "1073741824"} {
		resp, body = do(t, app, http.MethodPost, "/style/sprite", `{"layers":["a"],"pixel_ratio":`+ratio+`}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, ratio)
		assert.Contains(t, string(body), "pixel_ratio must be between 1 and 8")
	}
}
