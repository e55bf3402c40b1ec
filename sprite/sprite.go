package sprite

import (
	"image"
	"image/draw"
	"sort"

	"github.com/khankhulgun/khanstyle/models"
)

// Sheet is a sprite image with the position of every icon on it.
type Sheet struct {
	Image *image.RGBA
	Meta  map[string]models.SpriteMeta
}

// MakeSprite lays images out left to right in name order.
func MakeSprite(images map[string]image.Image, pixelRatio int) Sheet {
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)

	var spriteWidth, maxHeight int
	meta := make(map[string]models.SpriteMeta, len(images))
	for _, name := range names {
		bounds := images[name].Bounds()
		width, height := bounds.Dx(), bounds.Dy()
		meta[name] = models.SpriteMeta{
			X:          spriteWidth,
			Y:          0,
			Width:      width,
			Height:     height,
			PixelRatio: pixelRatio,
		}
		spriteWidth += width
		if height > maxHeight {
			maxHeight = height
		}
	}

	sheet := image.NewRGBA(image.Rect(0, 0, spriteWidth, maxHeight))
	for _, name := range names {
		img := images[name]
		m := meta[name]
		draw.Draw(sheet, image.Rect(m.X, 0, m.X+m.Width, m.Height), img, img.Bounds().Min, draw.Over)
	}
	return Sheet{Image: sheet, Meta: meta}
}

// PNG encodes the sheet image.
func (s Sheet) PNG() ([]byte, error) {
	return encodePNG(s.Image)
}
