package render

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"DigitalWhiteboard/internal/scene"
)

const (
	AudioControlPrefix = "audioControl-"
	VideoControlPrefix = "videoControl-"

	PlayLabel  = "▶"
	PauseLabel = "⏸"
)

// IsControlID reports whether id belongs to a media control widget.
func IsControlID(id string) bool {
	return strings.HasPrefix(id, AudioControlPrefix) || strings.HasPrefix(id, VideoControlPrefix)
}

// IDClock hands out millisecond timestamps that never repeat, even when two
// widgets are created within the same millisecond.
type IDClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDClock() *IDClock {
	return &IDClock{now: time.Now}
}

// Tick returns max(now, last+1).
func (c *IDClock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := c.now().UnixMilli()
	if ts <= c.last {
		ts = c.last + 1
	}
	c.last = ts
	return ts
}

func (c *IDClock) controlID(kind scene.Kind) string {
	prefix := AudioControlPrefix
	if kind == scene.KindVideo {
		prefix = VideoControlPrefix
	}
	return fmt.Sprintf("%s%d", prefix, c.Tick())
}

// Control is a media control widget: a filename label (audio) or video view
// (video) above a play/pause button. The toolkit surface draws it; the
// button logic lives here.
type Control struct {
	ID     string
	Kind   scene.Kind
	Source string
	// Label is the file name shown by audio controls.
	Label string
	// Fit is the rectangle the video view is fitted into.
	Fit    Size
	X, Y   float64
	Player Player

	button   string
	onButton func(string)
}

func newControl(id string, it scene.Item, p Player, x, y float64, fit Size) *Control {
	c := &Control{
		ID:     id,
		Kind:   it.Kind,
		Source: it.Source,
		Label:  scene.SourceName(it.Source),
		Fit:    fit,
		X:      x,
		Y:      y,
		Player: p,
		button: PlayLabel,
	}
	p.OnEndOfMedia(c.endOfMedia)
	return c
}

// ButtonLabel is the current text of the play/pause button.
func (c *Control) ButtonLabel() string { return c.button }

// BindButton registers fn to receive button label changes. It is called once
// immediately with the current label.
func (c *Control) BindButton(fn func(label string)) {
	c.onButton = fn
	if fn != nil {
		fn(c.button)
	}
}

// Toggle is the play/pause button action.
func (c *Control) Toggle() {
	if c.Player.Status() == StatusPlaying {
		c.Player.Pause()
		c.setButton(PlayLabel)
		return
	}
	c.Player.Play()
	c.syncButton()
}

func (c *Control) play() {
	c.Player.Play()
	c.syncButton()
}

// syncButton shows the pause label only while the player reports playing.
func (c *Control) syncButton() {
	if c.Player.Status() == StatusPlaying {
		c.setButton(PauseLabel)
		return
	}
	c.setButton(PlayLabel)
}

func (c *Control) endOfMedia() {
	c.Player.Seek(0)
	c.Player.Pause()
	c.setButton(PlayLabel)
}

func (c *Control) setButton(label string) {
	c.button = label
	if c.onButton != nil {
		c.onButton(label)
	}
}
