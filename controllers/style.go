package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khankhulgun/khanstyle/maplayer"
	"github.com/khankhulgun/khanstyle/models"
	"github.com/khankhulgun/khanstyle/paint"
	"github.com/khankhulgun/khanstyle/sprite"
	"github.com/khankhulgun/khanstyle/style"
)

// StyleStore is the persistence the layer endpoints need.
type StyleStore interface {
	Style(ctx context.Context, layerID string) (*style.VectorStyle, error)
	Save(ctx context.Context, layerID string, d style.Descriptor) (*style.VectorStyle, error)
	UpdateProperty(ctx context.Context, layerID string, name style.PropertyName, spec *style.PropertySpec) (*style.VectorStyle, error)
}

type StyleController struct {
	Styles StyleStore
}

func NewStyleController(styles StyleStore) *StyleController {
	return &StyleController{Styles: styles}
}

func (sc *StyleController) Validate(c *fiber.Ctx) error {
	s, err := style.Parse(c.Body())
	if err != nil {
		return invalidStyle(c, err)
	}
	return c.JSON(fiber.Map{
		"status":         "success",
		"display_name":   s.DisplayName(),
		"dynamic_fields": s.DynamicFieldNames(),
		"color_ramp":     s.ColorRamp(),
	})
}

type paintInput struct {
	Style        json.RawMessage           `json:"style"`
	GeometryType string                    `json:"geometry_type"`
	LayerID      string                    `json:"layer_id"`
	Transient    bool                      `json:"transient"`
	Data         *models.FeatureCollection `json:"data"`
}

// Paint scales the posted features and answers with a style document whose
// layers carry the resolved paint properties.
func (sc *StyleController) Paint(c *fiber.Ctx) error {
	var input paintInput
	if err := json.Unmarshal(c.Body(), &input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid input",
			"error":   err.Error(),
		})
	}
	if input.LayerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "layer_id is required",
		})
	}

	s, err := style.Parse(input.Style)
	if err != nil {
		return invalidStyle(c, err)
	}

	scaled := s.AddScaledPropertiesBasedOnStyle(input.Data)

	vts, err := paintStyle(s, input.LayerID, input.GeometryType, input.Transient, input.Data)
	if err != nil {
		return invalidStyle(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"scaled": scaled,
		"style":  vts,
	})
}

var errUnsupportedGeometry = errors.New("unsupported geometry type")

func paintStyle(s *style.VectorStyle, layerID, geometryType string, transient bool, data *models.FeatureCollection) (models.VectorTileStyle, error) {
	vts := models.VectorTileStyle{
		Version: 8,
		Sources: map[string]models.VectorSource{},
	}
	if data != nil {
		vts.Sources[layerID] = models.VectorSource{Type: "geojson", Data: data}
	}
	src := paint.Source{ID: layerID}
	rec := paint.NewRecorder()

	switch geometryType {
	case "Point", "MultiPoint":
		if err := s.ApplyPaintForPoints(rec, layerID, transient); err != nil {
			return vts, err
		}
		vts.Layers = append(vts.Layers, rec.CircleLayer(layerID, src))
	case "", "Polygon", "MultiPolygon", "LineString", "MultiLineString":
		fillID, lineID := layerID+"-fill", layerID+"-line"
		if err := s.ApplyPaintForPolygonsAndLines(rec, fillID, lineID, transient); err != nil {
			return vts, err
		}
		if !strings.Contains(geometryType, "LineString") {
			vts.Layers = append(vts.Layers, rec.FillLayer(fillID, src))
		}
		vts.Layers = append(vts.Layers, rec.LineLayer(lineID, src))
	default:
		return vts, errUnsupportedGeometry
	}
	return vts, nil
}

func (sc *StyleController) IconSVG(c *fiber.Ctx) error {
	s, err := style.Parse(c.Body())
	if err != nil {
		return invalidStyle(c, err)
	}
	c.Type("svg")
	return c.SendString(s.Icon(c.QueryBool("points")).SVG())
}

func (sc *StyleController) IconPNG(c *fiber.Ctx) error {
	s, err := style.Parse(c.Body())
	if err != nil {
		return invalidStyle(c, err)
	}
	scale := c.QueryInt("scale", 2)
	if scale < 1 || scale > sprite.MaxScale {
		return scaleOutOfRange(c, "scale")
	}
	data, err := sprite.SVGToPNG(s.Icon(c.QueryBool("points")).SVG(), scale)
	if err != nil {
		log.Printf("Icon rendering failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Error rendering icon",
		})
	}
	c.Type("png")
	return c.Send(data)
}

func (sc *StyleController) GetLayerStyle(c *fiber.Ctx) error {
	s, err := sc.Styles.Style(c.UserContext(), c.Params("layer"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(s.Descriptor())
}

func (sc *StyleController) SaveLayerStyle(c *fiber.Ctx) error {
	var d style.Descriptor
	if err := json.Unmarshal(c.Body(), &d); err != nil {
		return invalidStyle(c, err)
	}
	s, err := sc.Styles.Save(c.UserContext(), c.Params("layer"), d)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(s.Descriptor())
}

// UpdateLayerProperty overrides one property of a stored style. A null body
// removes the property.
func (sc *StyleController) UpdateLayerProperty(c *fiber.Ctx) error {
	var spec *style.PropertySpec
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &spec); err != nil {
			return invalidStyle(c, err)
		}
	}
	name := style.PropertyName(c.Params("property"))
	s, err := sc.Styles.UpdateProperty(c.UserContext(), c.Params("layer"), name, spec)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(s.Descriptor())
}

func (sc *StyleController) LayerIcon(c *fiber.Ctx) error {
	s, err := sc.Styles.Style(c.UserContext(), c.Params("layer"))
	if err != nil {
		return storeError(c, err)
	}
	c.Type("svg")
	return c.SendString(s.Icon(c.QueryBool("points")).SVG())
}

type spriteInput struct {
	Layers     []string `json:"layers"`
	Points     bool     `json:"points"`
	PixelRatio int      `json:"pixel_ratio"`
}

// Sprite packs the icons of stored layer styles into one sheet. With ?meta=true
// the sheet metadata is returned instead of the image.
func (sc *StyleController) Sprite(c *fiber.Ctx) error {
	var input spriteInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid input",
			"error":   err.Error(),
		})
	}
	if len(input.Layers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "At least one layer is required",
		})
	}
	if input.PixelRatio == 0 {
		input.PixelRatio = 1
	}
	if input.PixelRatio < 1 || input.PixelRatio > sprite.MaxScale {
		return scaleOutOfRange(c, "pixel_ratio")
	}

	icons := make(map[string]image.Image, len(input.Layers))
	for _, layerID := range input.Layers {
		s, err := sc.Styles.Style(c.UserContext(), layerID)
		if err != nil {
			return storeError(c, err)
		}
		img, err := sprite.Rasterize(s.Icon(input.Points).SVG(), input.PixelRatio)
		if err != nil {
			log.Printf("Icon rendering failed for layer %s: %v", layerID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Error rendering icon",
			})
		}
		icons[layerID] = img
	}

	sheet := sprite.MakeSprite(icons, input.PixelRatio)
	if c.QueryBool("meta") {
		return c.JSON(sheet.Meta)
	}
	data, err := sheet.PNG()
	if err != nil {
		log.Printf("Sprite encoding failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Error encoding sprite",
		})
	}
	c.Type("png")
	return c.Send(data)
}

func scaleOutOfRange(c *fiber.Ctx, param string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": fmt.Sprintf("%s must be between 1 and %d", param, sprite.MaxScale),
	})
}

func invalidStyle(c *fiber.Ctx, err error) error {
	resp := fiber.Map{
		"status":  "error",
		"message": "Invalid style",
		"error":   err.Error(),
	}
	var verr *style.ValidationError
	if errors.As(err, &verr) {
		resp["problems"] = verr.Problems
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

func storeError(c *fiber.Ctx, err error) error {
	var verr *style.ValidationError
	switch {
	case errors.Is(err, maplayer.ErrStyleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "Layer style not found",
		})
	case errors.As(err, &verr), errors.Is(err, style.ErrUnknownProperty), errors.Is(err, style.ErrUnrecognizedStyleType):
		return invalidStyle(c, err)
	}
	log.Printf("Style store error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "error",
		"message": "Error retrieving layer style",
		"error":   err.Error(),
	})
}
