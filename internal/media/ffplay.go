// Package media plays audio and video through external ffplay processes.
package media

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/scene"
)

const posterTimeout = 10 * time.Second

type Config struct {
	FFplay string
	FFmpeg string
	// Dispatch runs fn on the UI thread. Defaults to calling fn directly.
	Dispatch func(fn func())
	Logger   *slog.Logger
}

// Facility opens ffplay-backed players.
type Facility struct {
	cfg Config
}

var _ render.Media = (*Facility)(nil)

func New(cfg Config) *Facility {
	if cfg.FFplay == "" {
		cfg.FFplay = "ffplay"
	}
	if cfg.FFmpeg == "" {
		cfg.FFmpeg = "ffmpeg"
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = func(fn func()) { fn() }
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Facility{cfg: cfg}
}

func unavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", render.ErrMediaUnavailable, source, err)
}

// Open checks that source resolves to a readable file and that ffplay is
// installed. Nothing is started until Play.
func (f *Facility) Open(source string, kind scene.Kind) (render.Player, error) {
	path, err := scene.SourcePath(source)
	if err != nil {
		return nil, unavailable(source, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, unavailable(source, err)
	}
	bin, err := exec.LookPath(f.cfg.FFplay)
	if err != nil {
		return nil, unavailable(source, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		bin:      bin,
		path:     path,
		video:    kind == scene.KindVideo,
		status:   render.StatusPaused,
		dispatch: f.cfg.Dispatch,
		logger:   f.cfg.Logger.With("source", scene.SourceName(source)),
		cancel:   cancel,
	}
	if p.video {
		if ffmpeg, err := exec.LookPath(f.cfg.FFmpeg); err != nil {
			p.logger.Debug("no ffmpeg for poster frames", "err", err)
		} else {
			go p.loadPoster(ctx, ffmpeg)
		}
	}
	return p, nil
}

// loadPoster extracts the first video frame in the background and hands it
// to the UI thread. Failure only means the control shows no preview.
func (p *Player) loadPoster(ctx context.Context, ffmpeg string) {
	img, err := grabPoster(ctx, ffmpeg, p.path)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("poster frame extraction failed", "err", err)
		}
		return
	}
	p.dispatch(func() {
		p.mu.Lock()
		if ctx.Err() != nil {
			p.mu.Unlock()
			return
		}
		p.poster = img
		fn := p.onPoster
		p.mu.Unlock()
		if fn != nil {
			fn(img)
		}
	})
}

func grabPoster(ctx context.Context, ffmpeg, path string) (image.Image, error) {
	out := filepath.Join(os.TempDir(), "wb-poster-"+uuid.NewString()+".png")
	defer os.Remove(out)

	ctx, cancel := context.WithTimeout(ctx, posterTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, ffmpeg, "-y", "-loglevel", "error", "-i", path, "-frames:v", "1", out)
	if msg, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, msg)
	}
	file, err := os.Open(out)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode poster: %w", err)
	}
	return img, nil
}

// Player drives one ffplay process. Pausing suspends the process where the
// platform allows it; otherwise the process is stopped and restarted at the
// elapsed position.
type Player struct {
	bin      string
	path     string
	video    bool
	dispatch func(func())
	logger   *slog.Logger
	cancel   context.CancelFunc

	mu        sync.Mutex
	poster    image.Image
	onPoster  func(image.Image)
	cmd       *exec.Cmd
	status    render.Status
	suspended bool
	offset    time.Duration
	startedAt time.Time
	onEnd     func()
}

var _ render.Player = (*Player)(nil)

// Poster is the preview frame of a video, or nil while it is not known.
func (p *Player) Poster() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.poster
}

// OnPoster registers fn to receive the preview frame on the UI thread. fn
// runs at once when the frame is already known.
func (p *Player) OnPoster(fn func(image.Image)) {
	p.mu.Lock()
	p.onPoster = fn
	img := p.poster
	p.mu.Unlock()
	if img != nil && fn != nil {
		fn(img)
	}
}

func (p *Player) args() []string {
	args := []string{"-autoexit", "-loglevel", "quiet"}
	if !p.video {
		args = append(args, "-nodisp")
	}
	if p.offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(p.offset.Seconds(), 'f', 3, 64))
	}
	return append(args, p.path)
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil && p.suspended {
		if err := resume(p.cmd.Process); err != nil {
			p.logger.Warn("resume failed", "err", err)
			return
		}
		p.suspended = false
		p.startedAt = time.Now()
		p.status = render.StatusPlaying
		return
	}
	if p.cmd != nil {
		return
	}
	p.startLocked()
}

func (p *Player) startLocked() {
	cmd := exec.Command(p.bin, p.args()...)
	if err := cmd.Start(); err != nil {
		p.logger.Error("ffplay start failed", "err", err)
		p.status = render.StatusStopped
		return
	}
	p.cmd = cmd
	p.suspended = false
	p.startedAt = time.Now()
	p.status = render.StatusPlaying
	go p.wait(cmd)
}

// wait reaps cmd. An exit nobody asked for is the end of the media.
func (p *Player) wait(cmd *exec.Cmd) {
	err := cmd.Wait()

	p.mu.Lock()
	if p.cmd != cmd {
		p.mu.Unlock()
		return
	}
	p.cmd = nil
	p.suspended = false
	p.status = render.StatusStopped
	fn := p.onEnd
	p.mu.Unlock()

	if err != nil {
		p.logger.Debug("ffplay exited", "err", err)
	}
	if fn != nil {
		p.dispatch(fn)
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil && !p.suspended {
		if err := suspend(p.cmd.Process); err != nil {
			p.offset += time.Since(p.startedAt)
			p.killLocked()
		} else {
			p.suspended = true
		}
	}
	p.status = render.StatusPaused
}

// Seek moves the start position of the next playback. A running process is
// restarted at d.
func (p *Player) Seek(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.offset = d
	if p.cmd == nil {
		return
	}
	playing := p.status == render.StatusPlaying
	p.killLocked()
	if playing {
		p.startLocked()
	}
}

func (p *Player) Status() render.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Player) OnEndOfMedia(fn func()) {
	p.mu.Lock()
	p.onEnd = fn
	p.mu.Unlock()
}

// Close stops playback for good. No end-of-media or poster callback follows.
func (p *Player) Close() error {
	p.cancel()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killLocked()
	p.status = render.StatusStopped
	p.onEnd = nil
	p.onPoster = nil
	return nil
}

func (p *Player) killLocked() {
	if p.cmd == nil {
		return
	}
	if err := p.cmd.Process.Kill(); err != nil {
		p.logger.Debug("ffplay kill", "err", err)
	}
	// the wait goroutine sees a different cmd and stays quiet
	p.cmd = nil
	p.suspended = false
}
