package style

import (
	"fmt"
	"strings"
)

type Shape int

const (
	ShapeVector Shape = iota
	ShapeCircle
)

const neutralStroke = "grey"

// Icon is a small preview swatch of a style. Only static colors show up in it.
type Icon struct {
	Shape       Shape
	Stroke      string
	StrokeWidth float64
	Fill        string
}

// Icon returns the preview for point layers when pointsOnly is set, and for
// polygon and line layers otherwise. The result is computed once per argument.
func (s *VectorStyle) Icon(pointsOnly bool) Icon {
	i := 0
	if pointsOnly {
		i = 1
	}
	slot := &s.icons[i]
	slot.once.Do(func() {
		slot.icon = s.buildIcon(pointsOnly)
	})
	return slot.icon
}

func (s *VectorStyle) buildIcon(pointsOnly bool) Icon {
	icon := Icon{Shape: ShapeVector, Stroke: neutralStroke, StrokeWidth: 1, Fill: "none"}
	if pointsOnly {
		icon.Shape = ShapeCircle
	}
	if s.isDynamic(FillColor) {
		return icon
	}
	if stroke := s.HexColor(LineColor); stroke != "" {
		icon.Stroke = stroke
	}
	if fill := s.HexColor(FillColor); fill != "" {
		icon.Fill = fill
	}
	return icon
}

// SVG renders the icon as a 16x16 SVG document.
func (i Icon) SVG() string {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 16 16">`)
	attrs := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%g"`, i.Fill, i.Stroke, i.StrokeWidth)
	switch i.Shape {
	case ShapeCircle:
		fmt.Fprintf(&b, `<circle cx="8" cy="8" r="6" %s/>`, attrs)
	default:
		fmt.Fprintf(&b, `<path d="M2 4 L9 2 L14 7 L11 14 L3 12 Z" %s/>`, attrs)
		fmt.Fprintf(&b, `<path d="M1 15 L6 9 L10 11 L15 6" fill="none" stroke="%s" stroke-width="%g"/>`, i.Stroke, i.StrokeWidth)
	}
	b.WriteString(`</svg>`)
	return b.String()
}
