package sprite

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	// MaxScale bounds the scale factor Rasterize accepts.
	MaxScale   = 8
	maxViewBox = 512
)

var ErrScaleOutOfRange = fmt.Errorf("scale must be between 1 and %d", MaxScale)

// Rasterize draws an SVG document onto a transparent image scale times its view box.
func Rasterize(svg string, scale int) (*image.RGBA, error) {
	if scale < 1 || scale > MaxScale {
		return nil, fmt.Errorf("%w: got %d", ErrScaleOutOfRange, scale)
	}

	// Parse the SVG
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw < 1 || vh < 1 {
		return nil, fmt.Errorf("svg has an empty view box")
	}
	if vw > maxViewBox || vh > maxViewBox {
		return nil, fmt.Errorf("svg view box %gx%g exceeds %d", vw, vh, maxViewBox)
	}
	w := int(vw) * scale
	h := int(vh) * scale
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))

	// Configure the Dasher and Scanner
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)

	icon.Draw(dasher, 1)
	return img, nil
}

// SVGToPNG rasterizes an SVG document and encodes it as PNG.
func SVGToPNG(svg string, scale int) ([]byte, error) {
	img, err := Rasterize(svg, scale)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
