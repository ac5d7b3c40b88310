package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"DigitalWhiteboard/internal/board"
	"DigitalWhiteboard/internal/scene"
)

var palette = []color.Color{
	scene.Black,
	scene.Red,
	color.NRGBA{G: 255, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 255, A: 255},
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// toolState mirrors the binder's tool in the toolbar widgets.
type toolState struct {
	binder  *board.Binder
	current *canvas.Rectangle
	width   *widget.Label
}

func (t *toolState) setColor(c color.Color) {
	t.binder.SetColor(c)
	t.current.FillColor = t.binder.Log().Tool().Color()
	t.current.Refresh()
}

func (t *toolState) setWidth(w float64) {
	t.binder.SetLineWidth(w)
	t.width.SetText(fmt.Sprintf("%.0f", t.binder.Log().Tool().Width()))
}

// NewToolbar builds the color, width and command rows.
func NewToolbar(b *board.Binder, win fyne.Window) fyne.CanvasObject {
	tool := b.Log().Tool()
	ts := &toolState{
		binder:  b,
		current: canvas.NewRectangle(tool.Color()),
		width:   widget.NewLabel(fmt.Sprintf("%.0f", tool.Width())),
	}
	ts.current.SetMinSize(fyne.NewSize(28, 28))

	// --- Color Palette ---
	colorBox := container.NewHBox()
	for _, c := range palette {
		colorBox.Add(newColorSwatch(c, ts.setColor))
	}
	pick := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
		picker := dialog.NewColorPicker("Pick a Color", "Stroke color", ts.setColor, win)
		picker.Advanced = true
		picker.SetColor(b.Log().Tool().Color())
		picker.Show()
	})

	// --- Stroke Width Slider ---
	slider := widget.NewSlider(scene.MinLineWidth, scene.MaxLineWidth)
	slider.Step = 1
	slider.SetValue(tool.Width())
	slider.OnChanged = ts.setWidth
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), slider)

	tools := container.NewHBox(
		widget.NewLabel("Color:"),
		ts.current,
		colorBox,
		pick,
		widget.NewSeparator(),
		widget.NewLabel("Width:"),
		sliderBox,
		ts.width,
		layout.NewSpacer(),
	)

	commands := container.NewHBox(
		widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), b.Clear),
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), b.Save),
		widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), b.Open),
		widget.NewSeparator(),
		widget.NewButtonWithIcon("Load Image", theme.MediaPhotoIcon(), b.LoadImage),
		widget.NewButtonWithIcon("Load Audio", theme.MediaMusicIcon(), b.LoadAudio),
		widget.NewButtonWithIcon("Load Video", theme.MediaVideoIcon(), b.LoadVideo),
		widget.NewButtonWithIcon("Add Text", theme.DocumentCreateIcon(), b.AddText),
		widget.NewSeparator(),
		widget.NewButtonWithIcon("Export PDF", theme.DocumentPrintIcon(), b.ExportPDF),
		widget.NewButtonWithIcon("Export PNG", theme.FileImageIcon(), b.ExportPNG),
		layout.NewSpacer(),
	)

	return container.NewVBox(tools, commands)
}
