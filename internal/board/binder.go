// Package board maps pointer events and toolbar commands onto the scene log
// and keeps the visible canvas in step with it.
package board

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"

	"DigitalWhiteboard/internal/export"
	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/scene"
	"DigitalWhiteboard/internal/session"
)

// Fixed placement of interactively added content.
const (
	TextX, TextY   = 100.0, 100.0
	ImageX, ImageY = 0.0, 0.0
	VideoX, VideoY = 100.0, 100.0
)

// FileFilter restricts a file chooser to a set of extensions.
type FileFilter struct {
	Description string
	Extensions  []string
}

var (
	SessionFilter = FileFilter{"Whiteboard Files", []string{session.Extension}}
	ImageFilter   = FileFilter{"Image Files", []string{".png", ".jpg", ".jpeg", ".gif"}}
	AudioFilter   = FileFilter{"Audio Files", []string{".mp3", ".wav"}}
	VideoFilter   = FileFilter{"Video Files", []string{".mp4", ".avi"}}
	PDFFilter     = FileFilter{"PDF Documents", []string{".pdf"}}
	PNGFilter     = FileFilter{"PNG Images", []string{".png"}}
)

// Dialogs are the modal prompts of the host toolkit. Each call returns at
// once and invokes fn later on the UI thread. A dismissed dialog passes a nil
// reader/writer or ok=false.
type Dialogs interface {
	Open(title string, filter FileFilter, fn func(r io.ReadCloser, uri string))
	Save(title string, filter FileFilter, fn func(w io.WriteCloser, uri string))
	Prompt(title, initial string, fn func(text string, ok bool))
}

// Notifier shows a short non-blocking message to the user.
type Notifier interface {
	Notify(msg string)
}

type Options struct {
	// RecordAnchors appends a BeginPath item for the press point of every
	// stroke run, so replay reproduces the first segment of the run.
	RecordAnchors bool
	Logger        *slog.Logger
}

// Binder is the input side of the whiteboard. All methods must be called on
// the UI thread.
type Binder struct {
	log      *scene.Log
	canvas   render.Canvas
	replayer *render.Replayer
	dialogs  Dialogs
	notifier Notifier
	logger   *slog.Logger

	recordAnchors bool
	pending       bool
	anchorX       float64
	anchorY       float64

	// OnChange runs after the canvas bitmap was modified.
	OnChange func()
}

func New(log *scene.Log, replayer *render.Replayer, dialogs Dialogs, notifier Notifier, opts Options) *Binder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{
		log:           log,
		canvas:        replayer.Canvas(),
		replayer:      replayer,
		dialogs:       dialogs,
		notifier:      notifier,
		logger:        logger,
		recordAnchors: opts.RecordAnchors,
	}
}

func (b *Binder) Log() *scene.Log { return b.log }

func (b *Binder) changed() {
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *Binder) status(msg string) {
	if b.notifier != nil {
		b.notifier.Notify(msg)
	}
}

func (b *Binder) report(action string, err error) {
	b.logger.Error(action+" failed", "err", err)
	switch {
	case errors.Is(err, session.ErrCorruptSession):
		b.status(fmt.Sprintf("%s failed: file is not a valid whiteboard session", action))
	case errors.Is(err, render.ErrMediaUnavailable):
		b.status(fmt.Sprintf("%s: some media could not be opened", action))
	default:
		b.status(fmt.Sprintf("%s failed: %v", action, err))
	}
}

// Press starts a fresh visible path at (x, y). No item is appended yet.
func (b *Binder) Press(x, y float64) {
	b.canvas.BeginPath()
	b.canvas.MoveTo(x, y)
	if b.recordAnchors {
		b.pending = true
		b.anchorX, b.anchorY = x, y
	}
}

// Drag appends a Stroke with the current tool state and draws the segment
// from the previous point to (x, y).
func (b *Binder) Drag(x, y float64) {
	if b.pending {
		b.log.Append(scene.BeginPath(b.anchorX, b.anchorY))
		b.pending = false
	}
	it := b.log.Tool().Stroke(x, y)
	b.log.Append(it)
	render.Segment(b.canvas, it)
	b.changed()
}

// Release ends the gesture. A press without drags leaves no trace.
func (b *Binder) Release() {
	b.pending = false
}

func (b *Binder) SetColor(c color.Color) {
	b.log.Tool().SetColor(c)
}

// SetLineWidth clamps w into the supported range.
func (b *Binder) SetLineWidth(w float64) {
	b.log.Tool().SetWidth(w)
}

// Clear empties the log, erases the canvas and removes every media control.
func (b *Binder) Clear() {
	b.log.Clear()
	b.replayer.Reset()
	b.pending = false
	b.changed()
	b.logger.Info("board cleared")
	b.status("Cleared")
}

// Save asks for a destination and writes the session to it.
func (b *Binder) Save() {
	b.dialogs.Save("Save Session", SessionFilter, func(w io.WriteCloser, uri string) {
		if w == nil {
			return
		}
		b.SaveTo(w, uri)
	})
}

// SaveTo encodes the current log into w and closes it.
func (b *Binder) SaveTo(w io.WriteCloser, name string) error {
	items := b.log.Snapshot()
	err := session.Encode(w, items)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		b.report("Save", err)
		return err
	}
	b.logger.Info("session saved", "path", name, "items", len(items))
	b.status(fmt.Sprintf("Saved %d items", len(items)))
	return nil
}

// Open asks for a session file and replaces the board with it.
func (b *Binder) Open() {
	b.dialogs.Open("Open Session", SessionFilter, func(r io.ReadCloser, uri string) {
		if r == nil {
			return
		}
		defer r.Close()
		b.LoadSession(r, uri)
	})
}

// LoadSession decodes a session from r, replaces the log and replays it. On
// a read or decode error the current log and canvas are left untouched.
// Media that cannot be opened during replay are reported but do not fail
// the load.
func (b *Binder) LoadSession(r io.Reader, name string) error {
	items, err := session.Decode(r)
	if err != nil {
		b.report("Load", err)
		return err
	}
	b.log.Replace(items)
	b.pending = false
	replayErr := b.replayer.Replay(b.log.Snapshot())
	b.changed()
	if replayErr != nil {
		b.report("Load", replayErr)
		return nil
	}
	b.logger.Info("session loaded", "path", name, "items", len(items))
	b.status(fmt.Sprintf("Loaded %d items", len(items)))
	return nil
}

// LoadSessionFile loads path if it exists. A missing file is not an error.
func (b *Binder) LoadSessionFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			b.logger.Debug("no session to restore", "path", path)
			return nil
		}
		b.report("Load", err)
		return err
	}
	defer f.Close()
	return b.LoadSession(f, path)
}

// LoadImage stamps a chosen image at the top-left corner.
func (b *Binder) LoadImage() {
	b.dialogs.Open("Load Image", ImageFilter, func(r io.ReadCloser, uri string) {
		if r == nil {
			return
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			b.report("Load image", err)
			return
		}
		b.AddImage(uri, data)
	})
}

// AddImage decodes data, appends an Image item and blits it.
func (b *Binder) AddImage(uri string, data []byte) error {
	it := scene.Image(uri, data, ImageX, ImageY)
	img, err := render.DecodeImage(it)
	if err != nil {
		b.report("Load image", err)
		return err
	}
	b.log.Append(it)
	b.canvas.DrawImage(img, it.X, it.Y)
	b.changed()
	return nil
}

func (b *Binder) LoadAudio() {
	b.dialogs.Open("Load Audio", AudioFilter, func(r io.ReadCloser, uri string) {
		if r == nil {
			return
		}
		r.Close()
		b.AddMedia(scene.Audio(uri))
	})
}

func (b *Binder) LoadVideo() {
	b.dialogs.Open("Load Video", VideoFilter, func(r io.ReadCloser, uri string) {
		if r == nil {
			return
		}
		r.Close()
		b.AddMedia(scene.Video(uri, VideoX, VideoY))
	})
}

// AddMedia opens a player for it, places its control and starts playback.
// The item is appended only when the player could be opened.
func (b *Binder) AddMedia(it scene.Item) error {
	idx := b.log.Len()
	c, err := b.replayer.Embed(idx, it)
	if err != nil {
		b.report("Load "+it.Kind.String(), err)
		return err
	}
	b.log.Append(it)
	b.logger.Info("media embedded", "id", c.ID, "source", it.Source)
	return nil
}

// AddText prompts for a label and fills it at the fixed text position.
func (b *Binder) AddText() {
	b.dialogs.Prompt("Add Text", "Enter Text", func(text string, ok bool) {
		if !ok {
			return
		}
		b.PlaceText(text)
	})
}

func (b *Binder) PlaceText(text string) {
	b.canvas.FillText(text, TextX, TextY)
	b.log.Append(scene.Text(text, TextX, TextY))
	b.changed()
}

// ExportPDF writes the scene as a PDF page sized like the canvas.
func (b *Binder) ExportPDF() {
	b.dialogs.Save("Export PDF", PDFFilter, func(w io.WriteCloser, uri string) {
		if w == nil {
			return
		}
		defer w.Close()
		wd, ht := b.canvas.Size()
		if err := export.PDF(w, b.log.Snapshot(), wd, ht); err != nil {
			b.report("Export PDF", err)
			return
		}
		b.status("Exported PDF")
	})
}

// ExportPNG writes the scene flattened over white.
func (b *Binder) ExportPNG() {
	b.dialogs.Save("Export PNG", PNGFilter, func(w io.WriteCloser, uri string) {
		if w == nil {
			return
		}
		defer w.Close()
		wd, ht := b.canvas.Size()
		if err := export.PNG(w, b.log.Snapshot(), int(wd), int(ht)); err != nil {
			b.report("Export PNG", err)
			return
		}
		b.status("Exported PNG")
	})
}
