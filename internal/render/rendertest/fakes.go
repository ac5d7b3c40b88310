// Package rendertest provides in-memory host capabilities for tests.
package rendertest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"
	"time"

	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/scene"
)

// Surface records placed controls by id.
type Surface struct {
	Children map[string]*render.Control
	// Buttons holds the last label each control pushed through BindButton.
	Buttons map[string]string
}

func NewSurface() *Surface {
	return &Surface{
		Children: make(map[string]*render.Control),
		Buttons:  make(map[string]string),
	}
}

func (s *Surface) Place(c *render.Control) {
	s.Children[c.ID] = c
	id := c.ID
	c.BindButton(func(label string) { s.Buttons[id] = label })
}

func (s *Surface) ChildIDs() []string {
	ids := make([]string, 0, len(s.Children))
	for id := range s.Children {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Surface) Remove(id string) {
	delete(s.Children, id)
	delete(s.Buttons, id)
}

// CountPrefix counts children whose id starts with prefix.
func (s *Surface) CountPrefix(prefix string) int {
	n := 0
	for id := range s.Children {
		if strings.HasPrefix(id, prefix) {
			n++
		}
	}
	return n
}

// Player is a scripted render.Player.
type Player struct {
	Source   string
	Kind     scene.Kind
	State    render.Status
	Position time.Duration
	Closed   bool
	// FailPlay makes Play leave the player stopped.
	FailPlay bool
	onEnd    func()
}

func (p *Player) Play() {
	if p.FailPlay {
		p.State = render.StatusStopped
		return
	}
	p.State = render.StatusPlaying
}
func (p *Player) Pause() { p.State = render.StatusPaused }
func (p *Player) Seek(d time.Duration) { p.Position = d }
func (p *Player) Status() render.Status { return p.State }
func (p *Player) OnEndOfMedia(fn func()) { p.onEnd = fn }
func (p *Player) Close() error { p.Closed = true; p.State = render.StatusStopped; return nil }

// Finish simulates the media reaching its end.
func (p *Player) Finish() {
	p.Position = time.Minute
	if p.onEnd != nil {
		p.onEnd()
	}
}

// Media hands out Players and fails for sources listed in Missing.
type Media struct {
	Missing map[string]bool
	Opened  []*Player
}

func NewMedia() *Media {
	return &Media{Missing: make(map[string]bool)}
}

func (m *Media) Open(source string, kind scene.Kind) (render.Player, error) {
	if m.Missing[source] {
		return nil, fmt.Errorf("%w: %s", render.ErrMediaUnavailable, source)
	}
	p := &Player{Source: source, Kind: kind, State: render.StatusPaused}
	m.Opened = append(m.Opened, p)
	return p, nil
}

// Last returns the most recently opened player.
func (m *Media) Last() *Player {
	if len(m.Opened) == 0 {
		return nil
	}
	return m.Opened[len(m.Opened)-1]
}

// Op is one recorded canvas call.
type Op struct {
	Name  string
	X, Y  float64
	Color color.Color
	Width float64
	Text  string
}

func (o Op) String() string {
	switch o.Name {
	case "moveTo", "lineTo", "drawImage":
		return fmt.Sprintf("%s(%g,%g)", o.Name, o.X, o.Y)
	case "stroke":
		return fmt.Sprintf("stroke(%g)", o.Width)
	case "fillText":
		return fmt.Sprintf("fillText(%q,%g,%g)", o.Text, o.X, o.Y)
	}
	return o.Name
}

// Recorder is a render.Canvas that only logs calls.
type Recorder struct {
	W, H float64
	Ops  []Op
}

func NewRecorder(w, h float64) *Recorder { return &Recorder{W: w, H: h} }

func (r *Recorder) ClearRect(x, y, w, h float64) { r.Ops = append(r.Ops, Op{Name: "clearRect"}) }
func (r *Recorder) BeginPath() { r.Ops = append(r.Ops, Op{Name: "beginPath"}) }
func (r *Recorder) MoveTo(x, y float64) { r.Ops = append(r.Ops, Op{Name: "moveTo", X: x, Y: y}) }
func (r *Recorder) LineTo(x, y float64) { r.Ops = append(r.Ops, Op{Name: "lineTo", X: x, Y: y}) }
func (r *Recorder) Stroke(c color.Color, w float64) {
	r.Ops = append(r.Ops, Op{Name: "stroke", Color: c, Width: w})
}
func (r *Recorder) FillText(s string, x, y float64) {
	r.Ops = append(r.Ops, Op{Name: "fillText", Text: s, X: x, Y: y})
}
func (r *Recorder) DrawImage(img image.Image, x, y float64) {
	r.Ops = append(r.Ops, Op{Name: "drawImage", X: x, Y: y})
}
func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

// Trace renders the recorded calls as a compact string.
func (r *Recorder) Trace() string {
	parts := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() { r.Ops = nil }

var errNotImplemented = errors.New("not implemented")

// FailingMedia rejects every source.
type FailingMedia struct{}

func (FailingMedia) Open(source string, kind scene.Kind) (render.Player, error) {
	return nil, errNotImplemented
}
