package render_test

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/render/raster"
	"DigitalWhiteboard/internal/render/rendertest"
	"DigitalWhiteboard/internal/scene"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newReplayer(canvas render.Canvas) (*render.Replayer, *rendertest.Surface, *rendertest.Media) {
	surface := rendertest.NewSurface()
	media := rendertest.NewMedia()
	return render.NewReplayer(canvas, surface, media, nil), surface, media
}

func TestPaintStrokeRunWithoutAnchor(t *testing.T) {
	rec := rendertest.NewRecorder(800, 600)
	err := render.Paint(rec, []scene.Item{
		scene.Stroke(20, 20, scene.Black, 2),
		scene.Stroke(30, 25, scene.Black, 2),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"beginPath lineTo(20,20) stroke(2) beginPath moveTo(20,20) "+
			"lineTo(30,25) stroke(2) beginPath moveTo(30,25) beginPath",
		rec.Trace())
}

func TestPaintStrokeRunWithAnchor(t *testing.T) {
	rec := rendertest.NewRecorder(800, 600)
	err := render.Paint(rec, []scene.Item{
		scene.BeginPath(10, 10),
		scene.Stroke(20, 20, scene.Black, 2),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"beginPath moveTo(10,10) lineTo(20,20) stroke(2) beginPath moveTo(20,20) beginPath",
		rec.Trace())
}

func TestPaintSingleStrokeRunIsInvisible(t *testing.T) {
	c := raster.New(100, 100)
	require.NoError(t, render.Paint(c, []scene.Item{scene.Stroke(50, 50, scene.Black, 10)}))
	assert.True(t, c.Blank())
}

func TestPaintRunRestartsAfterText(t *testing.T) {
	c := raster.New(200, 200)
	items := []scene.Item{
		scene.Stroke(10, 150, scene.Black, 2),
		scene.Stroke(20, 150, scene.Black, 2),
		scene.Text("x", 150, 20),
		scene.Stroke(190, 190, scene.Black, 2),
	}
	require.NoError(t, render.Paint(c, items))
	// the second run has one sample, so nothing joins (20,150) to (190,190)
	assert.Zero(t, c.Image().RGBAAt(105, 170).A)
	assert.NotZero(t, c.Image().RGBAAt(15, 150).A)
}

func TestPaintTextAndImage(t *testing.T) {
	rec := rendertest.NewRecorder(800, 600)
	items := []scene.Item{
		scene.Image("file:///a.png", pngBytes(t, 4, 4), 0, 0),
		scene.Text("hi", 100, 100),
		scene.Audio("file:///a.wav"),
	}
	require.NoError(t, render.Paint(rec, items))
	assert.Equal(t, `drawImage(0,0) fillText("hi",100,100) beginPath`, rec.Trace())
}

func TestPaintSkipsUndecodableImage(t *testing.T) {
	rec := rendertest.NewRecorder(800, 600)
	items := []scene.Item{
		scene.Image("file:///broken.png", []byte("nope"), 0, 0),
		scene.Text("after", 1, 2),
	}
	err := render.Paint(rec, items)
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrMediaUnavailable)
	assert.Contains(t, rec.Trace(), `fillText("after",1,2)`)
	assert.NotContains(t, rec.Trace(), "drawImage")
}

func TestDecodeImageFromSourceFile(t *testing.T) {
	_, err := render.DecodeImage(scene.Image("file:///does/not/exist.png", nil, 0, 0))
	assert.ErrorIs(t, err, render.ErrMediaUnavailable)
}

func TestReplayMediaWidgetAccounting(t *testing.T) {
	r, surface, media := newReplayer(rendertest.NewRecorder(800, 600))
	items := []scene.Item{
		scene.Audio("file:///a.wav"),
		scene.Stroke(1, 1, scene.Black, 2),
		scene.Audio("file:///b.mp3"),
		scene.Video("file:///v.mp4", 300, 40),
	}
	require.NoError(t, r.Replay(items))

	assert.Equal(t, 2, surface.CountPrefix(render.AudioControlPrefix))
	assert.Equal(t, 1, surface.CountPrefix(render.VideoControlPrefix))
	assert.Equal(t, 3, r.Controls())
	for _, p := range media.Opened {
		assert.NotEqual(t, render.StatusPlaying, p.Status(), "replay must not autoplay %s", p.Source)
	}

	audio, ok := r.Control(0)
	require.True(t, ok)
	assert.Equal(t, "a.wav", audio.Label)
	assert.Equal(t, render.ReplayAudioX, audio.X)
	assert.Equal(t, render.PlayLabel, surface.Buttons[audio.ID])

	video, ok := r.Control(3)
	require.True(t, ok)
	assert.Equal(t, 300.0, video.X)
	assert.Equal(t, 40.0, video.Y)
	assert.Equal(t, render.ReplayVideoFit, video.Fit)

	_, ok = r.Control(1)
	assert.False(t, ok)
}

func TestReplayPrunesPreviousControls(t *testing.T) {
	r, surface, media := newReplayer(rendertest.NewRecorder(800, 600))
	require.NoError(t, r.Replay([]scene.Item{scene.Audio("file:///a.wav"), scene.Video("file:///v.mp4", 0, 0)}))
	first := append([]*rendertest.Player(nil), media.Opened...)

	// a foreign child on the surface survives the prune
	surface.Children["toolbarBadge"] = &render.Control{ID: "toolbarBadge"}

	require.NoError(t, r.Replay([]scene.Item{scene.Audio("file:///c.wav")}))
	assert.Equal(t, 1, surface.CountPrefix(render.AudioControlPrefix))
	assert.Equal(t, 0, surface.CountPrefix(render.VideoControlPrefix))
	assert.Contains(t, surface.Children, "toolbarBadge")
	for _, p := range first {
		assert.True(t, p.Closed, "player for %s should be closed", p.Source)
	}
}

func TestReplayEmptyLogClearsCanvas(t *testing.T) {
	c := raster.New(50, 50)
	c.FillText("old", 5, 20)
	r, surface, _ := newReplayer(c)
	require.NoError(t, r.Replay(nil))
	assert.True(t, c.Blank())
	assert.Empty(t, surface.ChildIDs())
}

func TestReplaySkipsUnavailableMedia(t *testing.T) {
	r, surface, media := newReplayer(rendertest.NewRecorder(800, 600))
	media.Missing["file:///gone.wav"] = true

	err := r.Replay([]scene.Item{
		scene.Audio("file:///gone.wav"),
		scene.Audio("file:///here.wav"),
		scene.Text("still drawn", 1, 1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, render.ErrMediaUnavailable))
	assert.Contains(t, err.Error(), "item 0")
	assert.Equal(t, 1, surface.CountPrefix(render.AudioControlPrefix))
}

func TestReplayWrapsForeignMediaErrors(t *testing.T) {
	r := render.NewReplayer(rendertest.NewRecorder(10, 10), rendertest.NewSurface(), rendertest.FailingMedia{}, nil)
	err := r.Replay([]scene.Item{scene.Video("file:///v.mp4", 0, 0)})
	assert.ErrorIs(t, err, render.ErrMediaUnavailable)
}

func TestEmbedStartsPlayback(t *testing.T) {
	r, surface, media := newReplayer(rendertest.NewRecorder(800, 600))

	c, err := r.Embed(0, scene.Video("file:///v.mp4", 100, 100))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.ID, render.VideoControlPrefix))
	assert.Equal(t, render.LiveVideoFit, c.Fit)
	assert.Equal(t, render.StatusPlaying, media.Last().Status())
	assert.Equal(t, render.PauseLabel, surface.Buttons[c.ID])

	a, err := r.Embed(1, scene.Audio("file:///a.wav"))
	require.NoError(t, err)
	assert.Equal(t, render.LiveAudioX, a.X)
	assert.Equal(t, render.LiveAudioY, a.Y)
}

func TestToggleKeepsPlayLabelWhenPlaybackFails(t *testing.T) {
	r, surface, media := newReplayer(rendertest.NewRecorder(800, 600))
	require.NoError(t, r.Replay([]scene.Item{scene.Audio("file:///a.wav")}))
	c, _ := r.Control(0)
	p := media.Last()
	p.FailPlay = true

	c.Toggle()
	assert.Equal(t, render.StatusStopped, p.Status())
	assert.Equal(t, render.PlayLabel, c.ButtonLabel())
	assert.Equal(t, render.PlayLabel, surface.Buttons[c.ID])

	p.FailPlay = false
	c.Toggle()
	assert.Equal(t, render.PauseLabel, c.ButtonLabel())
}

func TestEmbedRejectsNonMedia(t *testing.T) {
	r, _, _ := newReplayer(rendertest.NewRecorder(800, 600))
	_, err := r.Embed(0, scene.Text("x", 0, 0))
	assert.Error(t, err)
}

func TestControlEndOfMedia(t *testing.T) {
	r, surface, media := newReplayer(rendertest.NewRecorder(800, 600))
	c, err := r.Embed(0, scene.Audio("file:///a.wav"))
	require.NoError(t, err)
	p := media.Last()

	p.Finish()
	assert.Equal(t, render.StatusPaused, p.Status())
	assert.Equal(t, time.Duration(0), p.Position)
	assert.Equal(t, render.PlayLabel, c.ButtonLabel())
	assert.Equal(t, render.PlayLabel, surface.Buttons[c.ID])
}

func TestControlToggle(t *testing.T) {
	r, _, media := newReplayer(rendertest.NewRecorder(800, 600))
	require.NoError(t, r.Replay([]scene.Item{scene.Audio("file:///a.wav")}))
	c, _ := r.Control(0)
	p := media.Last()

	c.Toggle()
	assert.Equal(t, render.StatusPlaying, p.Status())
	assert.Equal(t, render.PauseLabel, c.ButtonLabel())

	c.Toggle()
	assert.Equal(t, render.StatusPaused, p.Status())
	assert.Equal(t, render.PlayLabel, c.ButtonLabel())
}

func TestControlIDsAreUnique(t *testing.T) {
	r, surface, _ := newReplayer(rendertest.NewRecorder(800, 600))
	items := make([]scene.Item, 50)
	for i := range items {
		items[i] = scene.Audio("file:///a.wav")
	}
	require.NoError(t, r.Replay(items))
	assert.Len(t, surface.ChildIDs(), 50)
}

func TestIDClockMonotonic(t *testing.T) {
	c := render.NewIDClock()
	prev := c.Tick()
	for i := 0; i < 1000; i++ {
		next := c.Tick()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestIsControlID(t *testing.T) {
	assert.True(t, render.IsControlID("audioControl-1"))
	assert.True(t, render.IsControlID("videoControl-99"))
	assert.False(t, render.IsControlID("canvas"))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "PLAYING", render.StatusPlaying.String())
	assert.Equal(t, "PAUSED", render.StatusPaused.String())
}
