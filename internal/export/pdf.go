// Package export writes a scene log to PDF or PNG without a window.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"

	"fyne.io/fyne/v2/theme"
	"github.com/jung-kurt/gofpdf"

	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/scene"
)

const pdfFont = "NotoSans"

// pdfCanvas adapts a gofpdf page to render.Canvas. One canvas pixel maps to
// one PDF point.
type pdfCanvas struct {
	pdf    *gofpdf.Fpdf
	w, h   float64
	path   [][][2]float64
	images int
}

var _ render.Canvas = (*pdfCanvas)(nil)

func (c *pdfCanvas) ClearRect(x, y, w, h float64) {}

func (c *pdfCanvas) BeginPath() { c.path = c.path[:0] }

func (c *pdfCanvas) MoveTo(x, y float64) {
	c.path = append(c.path, [][2]float64{{x, y}})
}

func (c *pdfCanvas) LineTo(x, y float64) {
	if len(c.path) == 0 {
		c.MoveTo(x, y)
		return
	}
	last := len(c.path) - 1
	c.path[last] = append(c.path[last], [2]float64{x, y})
}

func (c *pdfCanvas) Stroke(col color.Color, width float64) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	c.pdf.SetDrawColor(int(n.R), int(n.G), int(n.B))
	c.pdf.SetAlpha(float64(n.A)/255, "Normal")
	c.pdf.SetLineWidth(width)
	for _, sub := range c.path {
		for i := 1; i < len(sub); i++ {
			c.pdf.Line(sub[i-1][0], sub[i-1][1], sub[i][0], sub[i][1])
		}
	}
	c.pdf.SetAlpha(1, "Normal")
}

func (c *pdfCanvas) FillText(s string, x, y float64) {
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.Text(x, y, s)
}

func (c *pdfCanvas) DrawImage(img image.Image, x, y float64) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		c.pdf.SetError(err)
		return
	}
	c.images++
	name := fmt.Sprintf("img%d", c.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	c.pdf.RegisterImageOptionsReader(name, opts, &buf)
	b := img.Bounds()
	c.pdf.ImageOptions(name, x, y, float64(b.Dx()), float64(b.Dy()), false, opts, 0, "")
}

func (c *pdfCanvas) Size() (float64, float64) { return c.w, c.h }

// mediaPlaceholder outlines where a media control sits in the window.
func (c *pdfCanvas) mediaPlaceholder(it scene.Item) {
	x, y := render.ReplayAudioX, render.ReplayAudioY
	w, h := 120.0, 40.0
	label := "Audio: " + scene.SourceName(it.Source)
	if it.Kind == scene.KindVideo {
		x, y = it.X, it.Y
		w, h = render.ReplayVideoFit.W, render.ReplayVideoFit.H
		label = "Video: " + scene.SourceName(it.Source)
	}
	c.pdf.SetDrawColor(128, 128, 128)
	c.pdf.SetLineWidth(1)
	c.pdf.Rect(x, y, w, h, "D")
	c.pdf.SetTextColor(80, 80, 80)
	c.pdf.Text(x+4, y+14, label)
}

// PDF renders items onto a single page of width x height points. Images that
// cannot be decoded are skipped with a warning.
func PDF(w io.Writer, items []scene.Item, width, height float64) error {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	// the window's own font, so text is not limited to Latin-1
	p.AddUTF8FontFromBytes(pdfFont, "", theme.DefaultTextFont().Content())
	p.SetFont(pdfFont, "", 12)
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	c := &pdfCanvas{pdf: p, w: width, h: height}
	if err := render.Paint(c, items); err != nil {
		slog.Warn("pdf export skipped items", "err", err)
	}
	for _, it := range items {
		if it.Kind.IsMedia() {
			c.mediaPlaceholder(it)
		}
	}
	if p.Err() {
		return p.Error()
	}
	return p.Output(w)
}

// PNG renders items onto a width x height raster over white.
func PNG(w io.Writer, items []scene.Item, width, height int) error {
	img, err := Raster(items, width, height)
	if err != nil {
		slog.Warn("png export skipped items", "err", err)
	}
	return png.Encode(w, img)
}
