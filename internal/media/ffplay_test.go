package media

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/scene"
)

// fakeBinary writes a shell script standing in for ffplay or ffmpeg.
func fakeBinary(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts need a unix shell")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func fakePlayer(t *testing.T, body string) string {
	t.Helper()
	return fakeBinary(t, "ffplay", body)
}

func mediaFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	return "file://" + path
}

func TestOpenMissingFile(t *testing.T) {
	f := New(Config{FFplay: fakePlayer(t, "exit 0")})
	_, err := f.Open("file:///no/such/a.wav", scene.KindAudio)
	assert.ErrorIs(t, err, render.ErrMediaUnavailable)
}

func TestOpenAwkwardFileNames(t *testing.T) {
	f := New(Config{FFplay: fakePlayer(t, "exit 0")})
	dir := t.TempDir()
	for _, name := range []string{"plain.wav", "track #1.wav", "what?.wav", "100%.wav", "my song.wav"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

		for _, uri := range []string{scene.FileURI(path), "file://" + filepath.ToSlash(path)} {
			p, err := f.Open(uri, scene.KindAudio)
			require.NoError(t, err, uri)
			assert.Equal(t, path, p.(*Player).path)
		}
	}
}

func TestOpenUnsupportedScheme(t *testing.T) {
	f := New(Config{})
	_, err := f.Open("http://example.com/a.wav", scene.KindAudio)
	assert.ErrorIs(t, err, render.ErrMediaUnavailable)
}

func TestOpenWithoutPlayerBinary(t *testing.T) {
	f := New(Config{FFplay: filepath.Join(t.TempDir(), "missing-ffplay")})
	_, err := f.Open(mediaFile(t, "a.wav"), scene.KindAudio)
	assert.ErrorIs(t, err, render.ErrMediaUnavailable)
}

func TestOpenVideoWithoutFFmpegHasNoPoster(t *testing.T) {
	f := New(Config{FFplay: fakePlayer(t, "exit 0"), FFmpeg: filepath.Join(t.TempDir(), "none")})
	p, err := f.Open(mediaFile(t, "v.mp4"), scene.KindVideo)
	require.NoError(t, err)
	assert.Nil(t, p.(*Player).Poster())
	assert.Equal(t, render.StatusPaused, p.Status())
}

func TestOpenVideoDoesNotWaitForPoster(t *testing.T) {
	f := New(Config{
		FFplay: fakePlayer(t, "exit 0"),
		FFmpeg: fakeBinary(t, "ffmpeg", "exec sleep 30"),
	})
	start := time.Now()
	p, err := f.Open(mediaFile(t, "v.mp4"), scene.KindVideo)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Nil(t, p.(*Player).Poster())

	called := false
	p.(*Player).OnPoster(func(image.Image) { called = true })
	require.NoError(t, p.Close())
	time.Sleep(100 * time.Millisecond)
	assert.False(t, called)
}

func TestPosterDeliveredOnDispatch(t *testing.T) {
	still := filepath.Join(t.TempDir(), "still.png")
	file, err := os.Create(still)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, image.NewRGBA(image.Rect(0, 0, 6, 4))))
	require.NoError(t, file.Close())

	dispatched := make(chan func(), 1)
	f := New(Config{
		FFplay:   fakePlayer(t, "exit 0"),
		FFmpeg:   fakeBinary(t, "ffmpeg", `for a in "$@"; do out="$a"; done; cp "`+still+`" "$out"`),
		Dispatch: func(fn func()) { dispatched <- fn },
	})
	p, err := f.Open(mediaFile(t, "v.mp4"), scene.KindVideo)
	require.NoError(t, err)
	player := p.(*Player)

	var got image.Image
	player.OnPoster(func(img image.Image) { got = img })

	select {
	case fn := <-dispatched:
		assert.Nil(t, got)
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("poster not dispatched")
	}
	require.NotNil(t, got)
	assert.Equal(t, 6, got.Bounds().Dx())
	assert.NotNil(t, player.Poster())

	var late image.Image
	player.OnPoster(func(img image.Image) { late = img })
	assert.NotNil(t, late)
}

func TestEndOfMedia(t *testing.T) {
	f := New(Config{FFplay: fakePlayer(t, "exit 0")})
	p, err := f.Open(mediaFile(t, "a.wav"), scene.KindAudio)
	require.NoError(t, err)

	ended := make(chan struct{})
	p.OnEndOfMedia(func() { close(ended) })
	p.Play()

	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("end of media not reported")
	}
	assert.Equal(t, render.StatusStopped, p.Status())
}

func TestPauseResumeClose(t *testing.T) {
	f := New(Config{FFplay: fakePlayer(t, "exec sleep 30")})
	p, err := f.Open(mediaFile(t, "a.wav"), scene.KindAudio)
	require.NoError(t, err)

	ended := make(chan struct{}, 1)
	p.OnEndOfMedia(func() { ended <- struct{}{} })

	p.Play()
	assert.Equal(t, render.StatusPlaying, p.Status())
	p.Pause()
	assert.Equal(t, render.StatusPaused, p.Status())
	p.Play()
	assert.Equal(t, render.StatusPlaying, p.Status())
	p.Seek(0)
	assert.Equal(t, render.StatusPlaying, p.Status())

	require.NoError(t, p.Close())
	assert.Equal(t, render.StatusStopped, p.Status())
	select {
	case <-ended:
		t.Fatal("closing must not look like end of media")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestArgs(t *testing.T) {
	p := &Player{path: "/m/a.wav"}
	assert.Equal(t, []string{"-autoexit", "-loglevel", "quiet", "-nodisp", "/m/a.wav"}, p.args())

	p = &Player{path: "/m/v.mp4", video: true, offset: 1500 * time.Millisecond}
	assert.Equal(t, []string{"-autoexit", "-loglevel", "quiet", "-ss", "1.500", "/m/v.mp4"}, p.args())
}

func TestDispatchRoutesCallback(t *testing.T) {
	dispatched := make(chan func(), 1)
	f := New(Config{
		FFplay:   fakePlayer(t, "exit 0"),
		Dispatch: func(fn func()) { dispatched <- fn },
	})
	p, err := f.Open(mediaFile(t, "a.wav"), scene.KindAudio)
	require.NoError(t, err)
	called := false
	p.OnEndOfMedia(func() { called = true })
	p.Play()

	select {
	case fn := <-dispatched:
		assert.False(t, called)
		fn()
		assert.True(t, called)
	case <-time.After(5 * time.Second):
		t.Fatal("callback not dispatched")
	}
}
