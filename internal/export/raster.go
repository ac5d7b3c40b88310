package export

import (
	"image"
	"image/color"

	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/render/raster"
	"DigitalWhiteboard/internal/scene"
)

// Raster paints items on a fresh canvas and flattens it over white. The
// image is always returned; the error lists items that could not be drawn.
func Raster(items []scene.Item, width, height int) (*image.RGBA, error) {
	c := raster.New(width, height)
	err := render.Paint(c, items)
	return c.Flatten(color.White), err
}
