package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"DigitalWhiteboard/internal/board"
	"DigitalWhiteboard/internal/render/raster"
)

var backdropColor = color.NRGBA{R: 245, G: 246, B: 248, A: 255}

// BoardWidget shows the raster canvas with the media surface on top and
// forwards primary-button gestures to the binder.
type BoardWidget struct {
	widget.BaseWidget
	raster  *raster.Canvas
	image   *canvas.Image
	surface *Surface
	binder  *board.Binder
	drawing bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(rc *raster.Canvas, surface *Surface) *BoardWidget {
	img := canvas.NewImageFromImage(rc.Image())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	b := &BoardWidget{raster: rc, image: img, surface: surface}
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) SetBinder(bd *board.Binder) { b.binder = bd }

// Redraw uploads the canvas bitmap again after it was painted on.
func (b *BoardWidget) Redraw() {
	b.image.Refresh()
}

func (b *BoardWidget) canvasSize() fyne.Size {
	w, h := b.raster.Size()
	return fyne.NewSize(float32(w), float32(h))
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || b.binder == nil {
		return
	}
	b.drawing = true
	b.binder.Press(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.drawing {
		return
	}
	b.binder.Drag(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.release()
}

func (b *BoardWidget) DragEnd() {
	b.release()
}

func (b *BoardWidget) release() {
	if !b.drawing {
		return
	}
	b.drawing = false
	b.binder.Release()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut() {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{
		board:    b,
		backdrop: canvas.NewRectangle(backdropColor),
		paper:    canvas.NewRectangle(color.White),
	}
}

type boardWidgetRenderer struct {
	board    *BoardWidget
	backdrop *canvas.Rectangle
	paper    *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.backdrop, r.paper, r.board.image, r.board.surface.Container()}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.backdrop.Resize(size)
	cs := r.board.canvasSize()
	r.paper.Resize(cs)
	r.board.image.Resize(cs)
	r.board.surface.Container().Resize(cs)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return r.board.canvasSize()
}

func (r *boardWidgetRenderer) Refresh() {
	r.backdrop.Refresh()
	r.board.image.Refresh()
	r.board.surface.Container().Refresh()
}

func (r *boardWidgetRenderer) Destroy() {}
