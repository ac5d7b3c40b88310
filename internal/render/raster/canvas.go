// Package raster is a software implementation of render.Canvas backed by an
// in-memory RGBA bitmap. The fyne board displays it and PNG export encodes it.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"sync"

	"fyne.io/fyne/v2/theme"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"DigitalWhiteboard/internal/render"
)

// TextSize is the pixel size of text items.
const TextSize = 13

type point struct{ x, y float64 }

// themeFont is the Unicode text font the rest of the window uses.
var themeFont = sync.OnceValue(func() *opentype.Font {
	f, err := opentype.Parse(theme.DefaultTextFont().Content())
	if err != nil {
		slog.Warn("theme font unusable, text falls back to ASCII", "err", err)
		return nil
	}
	return f
})

func newFace() font.Face {
	f := themeFont()
	if f == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    TextSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		slog.Warn("theme font face", "err", err)
		return basicfont.Face7x13
	}
	return face
}

// Canvas is a transparent bitmap with a current path.
type Canvas struct {
	img     *image.RGBA
	dasher  *rasterx.Dasher
	path    [][]point
	face    font.Face
	textSrc image.Image
}

var _ render.Canvas = (*Canvas)(nil)

func New(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &Canvas{
		img:     img,
		dasher:  rasterx.NewDasher(width, height, scanner),
		face:    newFace(),
		textSrc: image.NewUniform(color.Black),
	}
}

// Image exposes the live bitmap. Callers must not keep drawing on it.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c *Canvas) ClearRect(x, y, w, h float64) {
	r := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

func (c *Canvas) BeginPath() {
	c.path = c.path[:0]
}

func (c *Canvas) MoveTo(x, y float64) {
	c.path = append(c.path, []point{{x, y}})
}

func (c *Canvas) LineTo(x, y float64) {
	if len(c.path) == 0 {
		c.MoveTo(x, y)
		return
	}
	last := len(c.path) - 1
	c.path[last] = append(c.path[last], point{x, y})
}

// Stroke paints every subpath of the current path with round caps and joins.
// The path itself is kept, as in a 2D graphics context.
func (c *Canvas) Stroke(col color.Color, width float64) {
	drawn := false
	for _, sub := range c.path {
		if len(sub) < 2 {
			continue
		}
		if !drawn {
			c.dasher.Clear()
			c.dasher.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64),
				rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
			drawn = true
		}
		c.dasher.Start(rasterx.ToFixedP(sub[0].x, sub[0].y))
		for _, p := range sub[1:] {
			c.dasher.Line(rasterx.ToFixedP(p.x, p.y))
		}
		c.dasher.Stop(false)
	}
	if !drawn {
		return
	}
	c.dasher.SetColor(col)
	c.dasher.Draw()
	c.dasher.Clear()
}

// FillText draws s with its baseline starting at (x, y).
func (c *Canvas) FillText(s string, x, y float64) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  c.textSrc,
		Face: c.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(s)
}

// DrawImage blits img at native size with its top-left corner at (x, y).
func (c *Canvas) DrawImage(img image.Image, x, y float64) {
	b := img.Bounds()
	dst := image.Rect(0, 0, b.Dx(), b.Dy()).Add(image.Pt(int(math.Round(x)), int(math.Round(y))))
	draw.Draw(c.img, dst, img, b.Min, draw.Over)
}

// Blank reports whether every pixel is fully transparent.
func (c *Canvas) Blank() bool {
	for i := 3; i < len(c.img.Pix); i += 4 {
		if c.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// Flatten composites the bitmap over bg, as it appears in the window.
func (c *Canvas) Flatten(bg color.Color) *image.RGBA {
	out := image.NewRGBA(c.img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), c.img, c.img.Bounds().Min, draw.Over)
	return out
}
