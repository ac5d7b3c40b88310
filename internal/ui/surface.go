package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/scene"
)

// Surface holds media control widgets at absolute positions over the canvas.
type Surface struct {
	box      *fyne.Container
	children map[string]fyne.CanvasObject
	order    []string
}

var _ render.Surface = (*Surface)(nil)

func NewSurface() *Surface {
	return &Surface{
		box:      container.NewWithoutLayout(),
		children: make(map[string]fyne.CanvasObject),
	}
}

func (s *Surface) Container() *fyne.Container { return s.box }

// posterSource is implemented by players that can show a still of their
// video once it has been extracted.
type posterSource interface {
	OnPoster(fn func(image.Image))
}

func (s *Surface) Place(c *render.Control) {
	btn := widget.NewButton(c.ButtonLabel(), c.Toggle)
	c.BindButton(btn.SetText)

	var view fyne.CanvasObject
	if c.Kind == scene.KindVideo {
		view = videoView(c)
	} else {
		view = widget.NewLabel(c.Label)
	}
	obj := container.NewVBox(view, btn)
	obj.Move(fyne.NewPos(float32(c.X), float32(c.Y)))
	obj.Resize(obj.MinSize())

	if old, ok := s.children[c.ID]; ok {
		s.box.Remove(old)
	} else {
		s.order = append(s.order, c.ID)
	}
	s.children[c.ID] = obj
	s.box.Add(obj)
}

func videoView(c *render.Control) fyne.CanvasObject {
	size := fyne.NewSize(float32(c.Fit.W), float32(c.Fit.H))
	frame := canvas.NewRectangle(color.Black)
	frame.SetMinSize(size)
	name := canvas.NewText(c.Label, color.White)
	view := container.NewStack(frame, container.NewCenter(name))

	if p, ok := c.Player.(posterSource); ok {
		p.OnPoster(func(img image.Image) {
			still := canvas.NewImageFromImage(img)
			still.FillMode = canvas.ImageFillContain
			still.SetMinSize(size)
			view.Objects = []fyne.CanvasObject{frame, still}
			view.Refresh()
		})
	}
	return view
}

func (s *Surface) ChildIDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *Surface) Remove(id string) {
	obj, ok := s.children[id]
	if !ok {
		return
	}
	delete(s.children, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.box.Remove(obj)
}
