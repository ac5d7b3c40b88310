package render

import (
	"errors"
	"fmt"
	"log/slog"

	"DigitalWhiteboard/internal/scene"
)

// Placement of media controls. Interactive loads and replays deliberately
// use different video fits and audio positions.
var (
	LiveVideoFit   = Size{W: 500, H: 500}
	ReplayVideoFit = Size{W: 200, H: 150}

	LiveAudioX, LiveAudioY     = 100.0, 100.0
	ReplayAudioX, ReplayAudioY = 50.0, 50.0
)

// Replayer reconstructs canvas and surface state from a scene log. It owns
// every control widget it creates, keyed by the log index of the media item.
type Replayer struct {
	canvas  Canvas
	surface Surface
	media   Media
	clock   *IDClock
	logger  *slog.Logger

	controls map[int]*Control
}

func NewReplayer(canvas Canvas, surface Surface, media Media, logger *slog.Logger) *Replayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replayer{
		canvas:   canvas,
		surface:  surface,
		media:    media,
		clock:    NewIDClock(),
		logger:   logger,
		controls: make(map[int]*Control),
	}
}

// Canvas returns the canvas the replayer paints on.
func (r *Replayer) Canvas() Canvas { return r.canvas }

// Reset erases the canvas and removes every media control from the surface,
// closing the players they own.
func (r *Replayer) Reset() {
	w, h := r.canvas.Size()
	r.canvas.ClearRect(0, 0, w, h)
	r.canvas.BeginPath()

	removed := 0
	for _, id := range r.surface.ChildIDs() {
		if IsControlID(id) {
			r.surface.Remove(id)
			removed++
		}
	}
	for idx, c := range r.controls {
		if err := c.Player.Close(); err != nil {
			r.logger.Warn("closing media player", "id", c.ID, "err", err)
		}
		delete(r.controls, idx)
	}
	if removed > 0 {
		r.logger.Debug("pruned media controls", "count", removed)
	}
}

// Replay resets the canvas and surface, then rebuilds them from items.
// Media items get controls but are not started. Failing items are skipped;
// their errors are joined into the result.
func (r *Replayer) Replay(items []scene.Item) error {
	r.Reset()
	p := &painter{c: r.canvas}
	var errs []error
	for i, it := range items {
		if it.Kind.IsMedia() {
			p.inRun = false
			if _, err := r.attach(i, it, false); err != nil {
				errs = append(errs, fmt.Errorf("item %d: %w", i, err))
			}
			continue
		}
		if err := p.paint(it); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
	}
	r.canvas.BeginPath()

	err := errors.Join(errs...)
	r.logger.Info("replayed scene", "items", len(items), "controls", len(r.controls), "failed", len(errs))
	return err
}

// Embed creates and starts the control for a media item that was just
// appended interactively at log index idx.
func (r *Replayer) Embed(idx int, it scene.Item) (*Control, error) {
	return r.attach(idx, it, true)
}

// Control returns the control created for the media item at idx.
func (r *Replayer) Control(idx int) (*Control, bool) {
	c, ok := r.controls[idx]
	return c, ok
}

// Controls is the number of live controls owned by the replayer.
func (r *Replayer) Controls() int { return len(r.controls) }

func (r *Replayer) attach(idx int, it scene.Item, live bool) (*Control, error) {
	if !it.Kind.IsMedia() {
		return nil, fmt.Errorf("item %d is %s, not media", idx, it.Kind)
	}
	p, err := r.media.Open(it.Source, it.Kind)
	if err != nil {
		if errors.Is(err, ErrMediaUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrMediaUnavailable, it.Source, err)
	}

	var (
		x, y float64
		fit  Size
	)
	switch it.Kind {
	case scene.KindAudio:
		x, y = ReplayAudioX, ReplayAudioY
		if live {
			x, y = LiveAudioX, LiveAudioY
		}
	case scene.KindVideo:
		x, y = it.X, it.Y
		fit = ReplayVideoFit
		if live {
			fit = LiveVideoFit
		}
	}

	c := newControl(r.clock.controlID(it.Kind), it, p, x, y, fit)
	r.surface.Place(c)
	r.controls[idx] = c
	if live {
		c.play()
	}
	r.logger.Debug("placed media control", "id", c.ID, "source", it.Source, "live", live)
	return c, nil
}
