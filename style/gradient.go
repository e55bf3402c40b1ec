package style

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientSteps is the number of color stops in a data-driven color expression.
const GradientSteps = 8

// colorRamps are the named ramps a DYNAMIC color may reference instead of a base color.
var colorRamps = map[string][]string{
	"Blues":         {"#f7fbff", "#6baed6", "#08306b"},
	"Greens":        {"#f7fcf5", "#74c476", "#00441b"},
	"Greys":         {"#ffffff", "#969696", "#000000"},
	"Reds":          {"#fff5f0", "#fb6a4a", "#67000d"},
	"Yellow to Red": {"#ffffcc", "#fd8d3c", "#800026"},
	"Green to Red":  {"#006837", "#ffffbf", "#a50026"},
}

// tint is how far toward white the light end of a single-color gradient sits.
const tint = 0.85

func isRampName(s string) bool {
	_, ok := colorRamps[s]
	return ok
}

func parseHex(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, s, err)
	}
	return c, nil
}

// HexColorRange returns n hex colors running from light to dark. color is either
// the name of a color ramp or a hex base color, in which case the range runs from
// a pale tint of the base color to the base color itself.
func HexColorRange(color string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	var anchors []colorful.Color
	if ramp, ok := colorRamps[color]; ok {
		for _, h := range ramp {
			c, err := parseHex(h)
			if err != nil {
				return nil, err
			}
			anchors = append(anchors, c)
		}
	} else {
		base, err := parseHex(color)
		if err != nil {
			return nil, err
		}
		white := colorful.Color{R: 1, G: 1, B: 1}
		anchors = []colorful.Color{base.BlendLab(white, tint), base}
	}

	out := make([]string, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = sample(anchors, t).Clamped().Hex()
	}
	return out, nil
}

// sample interpolates piecewise in Lab space along anchors at t in [0,1].
func sample(anchors []colorful.Color, t float64) colorful.Color {
	if len(anchors) == 1 {
		return anchors[0]
	}
	segments := float64(len(anchors) - 1)
	pos := t * segments
	i := int(pos)
	if i >= len(anchors)-1 {
		return anchors[len(anchors)-1]
	}
	frac := pos - float64(i)
	if frac == 0 {
		return anchors[i]
	}
	return anchors[i].BlendLab(anchors[i+1], frac)
}
