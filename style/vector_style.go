// Package style turns vector style descriptors into renderer paint properties and
// min-max scales the feature attributes that data-driven properties read.
package style

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/khankhulgun/khanstyle/models"
)

const (
	DefaultColor   = "#e6194b"
	DefaultOpacity = 0.5
	// TransientOpacityFactor dims layers drawn for a provisional render pass.
	TransientOpacityFactor = 0.8
)

// Renderer receives paint property writes. A nil value clears the property.
type Renderer interface {
	SetPaintProperty(layerID, property string, value any)
}

// Expression is a renderer style expression encoded as nested arrays.
type Expression []any

// VectorStyle resolves one immutable descriptor. Derive a new descriptor with
// WithProperty and build a new VectorStyle rather than mutating this one.
type VectorStyle struct {
	descriptor Descriptor
	icons      [2]iconSlot
}

type iconSlot struct {
	once sync.Once
	icon Icon
}

// New wraps d without validating it. Problems surface when properties are resolved.
func New(d Descriptor) *VectorStyle {
	return &VectorStyle{descriptor: d.clone()}
}

// FromDescriptor validates d and wraps it.
func FromDescriptor(d Descriptor) (*VectorStyle, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	return New(d), nil
}

// Parse decodes a JSON descriptor and validates it.
func Parse(data []byte) (*VectorStyle, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode vector style: %w", err)
	}
	return FromDescriptor(d)
}

func (s *VectorStyle) DisplayName() string {
	return "Vector style"
}

// CanEdit reports whether v is a style this package knows how to edit.
func CanEdit(v any) bool {
	_, ok := v.(*VectorStyle)
	return ok
}

func (s *VectorStyle) Descriptor() Descriptor {
	return s.descriptor.clone()
}

func (s *VectorStyle) Properties() Properties {
	return s.descriptor.Properties.clone()
}

// WithProperty returns a new descriptor with name overridden and every other
// property preserved.
func (s *VectorStyle) WithProperty(name PropertyName, spec *PropertySpec) (Descriptor, error) {
	props, err := s.descriptor.Properties.With(name, spec)
	if err != nil {
		return Descriptor{}, err
	}
	d := s.descriptor.clone()
	d.Properties = props
	return d, nil
}

// DynamicFieldNames returns the source field of every DYNAMIC property that names one.
func (s *VectorStyle) DynamicFieldNames() []string {
	var names []string
	for _, name := range PropertyNames {
		if !s.isDynamic(name) {
			continue
		}
		if field := s.descriptor.Properties.Get(name).Options.fieldName(); field != "" {
			names = append(names, field)
		}
	}
	return names
}

func (s *VectorStyle) isDynamic(name PropertyName) bool {
	spec := s.descriptor.Properties.Get(name)
	return spec != nil && spec.Type == Dynamic
}

// HexColor returns the color option of name, or "" when unset.
func (s *VectorStyle) HexColor(name PropertyName) string {
	spec := s.descriptor.Properties.Get(name)
	if spec == nil || spec.Options == nil {
		return ""
	}
	return spec.Options.Color
}

// AddScaledPropertiesBasedOnStyle scales every field read by a DYNAMIC property.
// Fields already listed in fc.Computed are scaled again.
func (s *VectorStyle) AddScaledPropertiesBasedOnStyle(fc *models.FeatureCollection) bool {
	fields := s.DynamicFieldNames()
	if len(fields) == 0 || fc == nil {
		return false
	}
	updated := false
	for _, field := range fields {
		if ComputeScaledValues(fc, field) {
			updated = true
		}
	}
	return updated
}

// ColorRamp returns the gradient of a DYNAMIC fill color, or nil.
func (s *VectorStyle) ColorRamp() []string {
	color := s.HexColor(FillColor)
	if color == "" || !s.isDynamic(FillColor) {
		return nil
	}
	ramp, err := HexColorRange(color, GradientSteps)
	if err != nil {
		return nil
	}
	return ramp
}

// ResolveColor returns a hex string, a data-driven Expression, or nil.
func (s *VectorStyle) ResolveColor(name PropertyName) (any, error) {
	spec := s.descriptor.Properties.Get(name)
	if spec == nil {
		return nil, nil
	}
	switch spec.Type {
	case Static:
		if c := s.HexColor(name); c != "" {
			return c, nil
		}
		return DefaultColor, nil
	case Dynamic:
		return dataDrivenColor(spec.Options)
	}
	return nil, &UnrecognizedStyleTypeError{Property: name, Value: spec.Type.String()}
}

func dataDrivenColor(o *Options) (any, error) {
	field := o.fieldName()
	if field == "" || o.Color == "" {
		return nil, nil
	}
	colors, err := HexColorRange(o.Color, GradientSteps)
	if err != nil {
		return nil, err
	}
	expr := Expression{"interpolate", []any{"linear"}, []any{"get", ComputedFieldName(field)}}
	for i, c := range colors {
		expr = append(expr, float64(i)/float64(len(colors)), c)
	}
	return expr, nil
}

// ResolveSize returns a number, a data-driven Expression, or nil.
func (s *VectorStyle) ResolveSize(name PropertyName) (any, error) {
	spec := s.descriptor.Properties.Get(name)
	if spec == nil {
		return nil, nil
	}
	o := spec.Options
	switch spec.Type {
	case Static:
		if o == nil || o.Size == nil {
			return nil, nil
		}
		return *o.Size, nil
	case Dynamic:
		field := o.fieldName()
		if field == "" || o.MinSize == nil || o.MaxSize == nil {
			return nil, nil
		}
		return Expression{
			"interpolate",
			[]any{"linear"},
			[]any{"get", ComputedFieldName(field)},
			0.0, *o.MinSize,
			1.0, *o.MaxSize,
		}, nil
	}
	return nil, &UnrecognizedStyleTypeError{Property: name, Value: spec.Type.String()}
}

func (s *VectorStyle) ResolveOpacity(transient bool) float64 {
	opacity := DefaultOpacity
	if a := s.descriptor.Properties.AlphaValue; a != nil {
		opacity = *a
	}
	if transient {
		return opacity * TransientOpacityFactor
	}
	return opacity
}

type paintWrite struct {
	layerID  string
	property string
	value    any
}

// ApplyPaintForPolygonsAndLines writes fill and line paint. Channels without a
// property are cleared so paint from a previous style does not linger.
func (s *VectorStyle) ApplyPaintForPolygonsAndLines(r Renderer, fillLayerID, lineLayerID string, transient bool) error {
	opacity := s.ResolveOpacity(transient)
	fillColor, fillOpacity, err := s.colorChannel(FillColor, opacity)
	if err != nil {
		return err
	}
	lineColor, lineOpacity, err := s.colorChannel(LineColor, opacity)
	if err != nil {
		return err
	}
	lineWidth, err := s.sizeChannel(LineWidth)
	if err != nil {
		return err
	}
	apply(r,
		paintWrite{fillLayerID, "fill-color", fillColor},
		paintWrite{fillLayerID, "fill-opacity", fillOpacity},
		paintWrite{lineLayerID, "line-color", lineColor},
		paintWrite{lineLayerID, "line-opacity", lineOpacity},
		paintWrite{lineLayerID, "line-width", lineWidth},
	)
	return nil
}

// ApplyPaintForPoints writes circle paint for point layers.
func (s *VectorStyle) ApplyPaintForPoints(r Renderer, pointLayerID string, transient bool) error {
	opacity := s.ResolveOpacity(transient)
	fillColor, fillOpacity, err := s.colorChannel(FillColor, opacity)
	if err != nil {
		return err
	}
	strokeColor, strokeOpacity, err := s.colorChannel(LineColor, opacity)
	if err != nil {
		return err
	}
	strokeWidth, err := s.sizeChannel(LineWidth)
	if err != nil {
		return err
	}
	radius, err := s.sizeChannel(IconSize)
	if err != nil {
		return err
	}
	apply(r,
		paintWrite{pointLayerID, "circle-color", fillColor},
		paintWrite{pointLayerID, "circle-opacity", fillOpacity},
		paintWrite{pointLayerID, "circle-stroke-color", strokeColor},
		paintWrite{pointLayerID, "circle-stroke-opacity", strokeOpacity},
		paintWrite{pointLayerID, "circle-stroke-width", strokeWidth},
		paintWrite{pointLayerID, "circle-radius", radius},
	)
	return nil
}

func (s *VectorStyle) colorChannel(name PropertyName, opacity float64) (any, float64, error) {
	if s.descriptor.Properties.Get(name) == nil {
		return nil, 0, nil
	}
	color, err := s.ResolveColor(name)
	if err != nil {
		return nil, 0, err
	}
	return color, opacity, nil
}

// sizeChannel yields 0 when the property or its options are missing.
func (s *VectorStyle) sizeChannel(name PropertyName) (any, error) {
	spec := s.descriptor.Properties.Get(name)
	if spec == nil || spec.Options == nil {
		return 0.0, nil
	}
	return s.ResolveSize(name)
}

func apply(r Renderer, writes ...paintWrite) {
	for _, w := range writes {
		r.SetPaintProperty(w.layerID, w.property, w.value)
	}
}
