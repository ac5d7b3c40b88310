// Package render replays a scene log onto a host canvas and surface.
//
// The host toolkit is reached only through the small capability set below,
// so the same replay drives the fyne window, the software raster used for
// PNG export and the PDF writer.
package render

import (
	"errors"
	"image"
	"image/color"
	"time"

	"DigitalWhiteboard/internal/scene"
)

// ErrMediaUnavailable marks a media or image source that could not be opened
// or decoded. The owning item is skipped; other items still render.
var ErrMediaUnavailable = errors.New("media unavailable")

// Canvas is a bitmap with path-based stroking, modelled on a 2D graphics
// context. LineTo on an empty path behaves as MoveTo.
type Canvas interface {
	ClearRect(x, y, w, h float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke(c color.Color, width float64)
	FillText(s string, x, y float64)
	DrawImage(img image.Image, x, y float64)
	Size() (w, h float64)
}

// Surface is the layered container above the canvas that holds absolutely
// positioned control widgets.
type Surface interface {
	// Place composes and adds the widget for c at (c.X, c.Y).
	Place(c *Control)
	// ChildIDs lists the ids of every child currently on the surface.
	ChildIDs() []string
	// Remove drops the child with the given id, if present.
	Remove(id string)
}

// Status is the playback state reported by a Player.
type Status int

const (
	StatusUnknown Status = iota
	StatusPlaying
	StatusPaused
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "PLAYING"
	case StatusPaused:
		return "PAUSED"
	case StatusStopped:
		return "STOPPED"
	}
	return "UNKNOWN"
}

// Player is a live playback binding for one media source.
type Player interface {
	Play()
	Pause()
	Seek(d time.Duration)
	Status() Status
	// OnEndOfMedia registers fn to run on the UI thread when playback ends.
	OnEndOfMedia(fn func())
	Close() error
}

// Media opens players. kind is scene.KindAudio or scene.KindVideo.
type Media interface {
	Open(source string, kind scene.Kind) (Player, error)
}

// Size is a width/height pair in pixels.
type Size struct {
	W, H float64
}
