package style

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DescriptorType is the type tag carried by every vector style descriptor.
const DescriptorType = "VECTOR"

// StyleType tells whether a property is a fixed value or derived from feature data.
type StyleType int

const (
	Static StyleType = iota + 1
	Dynamic
)

func (t StyleType) String() string {
	switch t {
	case Static:
		return "STATIC"
	case Dynamic:
		return "DYNAMIC"
	}
	return fmt.Sprintf("StyleType(%d)", int(t))
}

func (t StyleType) MarshalJSON() ([]byte, error) {
	switch t {
	case Static, Dynamic:
		return json.Marshal(t.String())
	}
	return nil, &UnrecognizedStyleTypeError{Value: t.String()}
}

func (t *StyleType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("style type: %w", err)
	}
	switch s {
	case "STATIC":
		*t = Static
	case "DYNAMIC":
		*t = Dynamic
	default:
		return &UnrecognizedStyleTypeError{Value: s}
	}
	return nil
}

// PropertyName names a styleable channel.
type PropertyName string

const (
	FillColor  PropertyName = "fillColor"
	LineColor  PropertyName = "lineColor"
	LineWidth  PropertyName = "lineWidth"
	IconSize   PropertyName = "iconSize"
	AlphaValue PropertyName = "alphaValue"
)

// Label is the human readable name shown by style editors.
func (n PropertyName) Label() string {
	switch n {
	case FillColor:
		return "Fill color"
	case LineColor:
		return "Line color"
	case LineWidth:
		return "Line width"
	case IconSize:
		return "Icon size"
	case AlphaValue:
		return "Opacity"
	}
	return string(n)
}

// IsColor reports whether the property takes color options.
func (n PropertyName) IsColor() bool {
	return n == FillColor || n == LineColor
}

// PropertyNames lists the properties backed by a PropertySpec, in iteration order.
var PropertyNames = []PropertyName{FillColor, LineColor, LineWidth, IconSize}

type Field struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Extra Extra  `json:"-"`
}

// Options holds the union of static and dynamic property options.
// Which members are meaningful depends on the property and its StyleType.
type Options struct {
	Color   string   `json:"color,omitempty"`
	Size    *float64 `json:"size,omitempty"`
	Field   *Field   `json:"field,omitempty"`
	MinSize *float64 `json:"minSize,omitempty"`
	MaxSize *float64 `json:"maxSize,omitempty"`
	Extra   Extra    `json:"-"`
}

func (o *Options) fieldName() string {
	if o == nil || o.Field == nil {
		return ""
	}
	return o.Field.Name
}

func (o *Options) clone() *Options {
	if o == nil {
		return nil
	}
	c := *o
	c.Size = cloneFloat(o.Size)
	c.MinSize = cloneFloat(o.MinSize)
	c.MaxSize = cloneFloat(o.MaxSize)
	c.Extra = o.Extra.clone()
	if o.Field != nil {
		f := *o.Field
		f.Extra = o.Field.Extra.clone()
		c.Field = &f
	}
	return &c
}

type PropertySpec struct {
	Type    StyleType `json:"type"`
	Options *Options  `json:"options,omitempty"`
	Extra   Extra     `json:"-"`
}

func (p *PropertySpec) clone() *PropertySpec {
	if p == nil {
		return nil
	}
	return &PropertySpec{Type: p.Type, Options: p.Options.clone(), Extra: p.Extra.clone()}
}

// StaticColor builds a STATIC color property.
func StaticColor(hex string) *PropertySpec {
	return &PropertySpec{Type: Static, Options: &Options{Color: hex}}
}

// StaticSize builds a STATIC size property.
func StaticSize(size float64) *PropertySpec {
	return &PropertySpec{Type: Static, Options: &Options{Size: &size}}
}

// DynamicColor builds a DYNAMIC color property driven by field.
func DynamicColor(field, color string) *PropertySpec {
	return &PropertySpec{Type: Dynamic, Options: &Options{Field: &Field{Name: field}, Color: color}}
}

// DynamicSize builds a DYNAMIC size property driven by field.
func DynamicSize(field string, minSize, maxSize float64) *PropertySpec {
	return &PropertySpec{Type: Dynamic, Options: &Options{Field: &Field{Name: field}, MinSize: &minSize, MaxSize: &maxSize}}
}

// Properties is the property map of a descriptor.
type Properties struct {
	FillColor  *PropertySpec `json:"fillColor,omitempty"`
	LineColor  *PropertySpec `json:"lineColor,omitempty"`
	LineWidth  *PropertySpec `json:"lineWidth,omitempty"`
	IconSize   *PropertySpec `json:"iconSize,omitempty"`
	AlphaValue *float64      `json:"alphaValue,omitempty"`
	Extra      Extra         `json:"-"`
}

// Get returns the PropertySpec stored under name, or nil.
func (p Properties) Get(name PropertyName) *PropertySpec {
	switch name {
	case FillColor:
		return p.FillColor
	case LineColor:
		return p.LineColor
	case LineWidth:
		return p.LineWidth
	case IconSize:
		return p.IconSize
	}
	return nil
}

// With returns a copy of p with name set to spec. A nil spec removes the property.
func (p Properties) With(name PropertyName, spec *PropertySpec) (Properties, error) {
	c := p.clone()
	spec = spec.clone()
	switch name {
	case FillColor:
		c.FillColor = spec
	case LineColor:
		c.LineColor = spec
	case LineWidth:
		c.LineWidth = spec
	case IconSize:
		c.IconSize = spec
	default:
		return p, fmt.Errorf("%w %q", ErrUnknownProperty, name)
	}
	return c, nil
}

// WithAlpha returns a copy of p with the base opacity set.
func (p Properties) WithAlpha(alpha float64) Properties {
	c := p.clone()
	c.AlphaValue = &alpha
	return c
}

func (p Properties) clone() Properties {
	return Properties{
		FillColor:  p.FillColor.clone(),
		LineColor:  p.LineColor.clone(),
		LineWidth:  p.LineWidth.clone(),
		IconSize:   p.IconSize.clone(),
		AlphaValue: cloneFloat(p.AlphaValue),
		Extra:      p.Extra.clone(),
	}
}

type Descriptor struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Extra      Extra      `json:"-"`
}

func (d Descriptor) clone() Descriptor {
	return Descriptor{Type: d.Type, Properties: d.Properties.clone(), Extra: d.Extra.clone()}
}

// CreateDescriptor wraps properties into a VECTOR descriptor.
func CreateDescriptor(properties Properties) Descriptor {
	return Descriptor{Type: DescriptorType, Properties: properties.clone()}
}

// Validate checks a descriptor in a single pass and reports every problem found.
func Validate(d Descriptor) error {
	var problems []string
	if d.Type != DescriptorType {
		problems = append(problems, fmt.Sprintf("type: expected %q, got %q", DescriptorType, d.Type))
	}
	for _, name := range PropertyNames {
		spec := d.Properties.Get(name)
		if spec == nil {
			continue
		}
		problems = append(problems, validateProperty(name, spec)...)
	}
	if a := d.Properties.AlphaValue; a != nil && (*a < 0 || *a > 1) {
		problems = append(problems, fmt.Sprintf("%s: %v is outside [0,1]", AlphaValue, *a))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateProperty(name PropertyName, spec *PropertySpec) []string {
	var problems []string
	switch spec.Type {
	case Static, Dynamic:
	default:
		err := &UnrecognizedStyleTypeError{Property: name, Value: spec.Type.String()}
		return []string{err.Error()}
	}
	o := spec.Options
	if o == nil {
		return nil
	}
	if name.IsColor() && o.Color != "" {
		if spec.Type == Static && !isHexColor(o.Color) {
			problems = append(problems, fmt.Sprintf("%s: %q is not a hex color", name, o.Color))
		}
		if spec.Type == Dynamic && !isHexColor(o.Color) && !isRampName(o.Color) {
			problems = append(problems, fmt.Sprintf("%s: %q is neither a hex color nor a color ramp", name, o.Color))
		}
	}
	if !name.IsColor() && spec.Type == Dynamic && o.MinSize != nil && o.MaxSize != nil && *o.MinSize > *o.MaxSize {
		problems = append(problems, fmt.Sprintf("%s: minSize %v is greater than maxSize %v", name, *o.MinSize, *o.MaxSize))
	}
	return problems
}

func isHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	_, err := parseHex(s)
	return err == nil
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
