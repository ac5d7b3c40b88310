package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"DigitalWhiteboard/internal/scene"
)

// Segment issues the per-sample stroke sequence shared by live drawing and
// replay: line to the sample, stroke it, then restart the path there.
func Segment(c Canvas, it scene.Item) {
	c.LineTo(it.X, it.Y)
	c.Stroke(it.Color, it.Width)
	c.BeginPath()
	c.MoveTo(it.X, it.Y)
}

// painter draws the canvas kinds of a log in order. A stroke run without a
// recorded BeginPath has no anchor, so its first sample only positions the
// pen and produces no visible segment.
type painter struct {
	c     Canvas
	inRun bool
}

func (p *painter) paint(it scene.Item) error {
	switch it.Kind {
	case scene.KindBeginPath:
		p.c.BeginPath()
		p.c.MoveTo(it.X, it.Y)
		p.inRun = true
		return nil
	case scene.KindStroke:
		if !p.inRun {
			p.c.BeginPath()
		}
		Segment(p.c, it)
		p.inRun = true
		return nil
	}

	p.inRun = false
	switch it.Kind {
	case scene.KindImage:
		img, err := DecodeImage(it)
		if err != nil {
			return err
		}
		p.c.DrawImage(img, it.X, it.Y)
	case scene.KindText:
		p.c.FillText(it.Text, it.X, it.Y)
	}
	return nil
}

// Paint draws strokes, images and text of items onto c without clearing it
// first. Media items are left to the Replayer. Images that fail to decode are
// skipped and reported in the joined error.
func Paint(c Canvas, items []scene.Item) error {
	p := &painter{c: c}
	var errs []error
	for i, it := range items {
		if err := p.paint(it); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
	}
	c.BeginPath()
	return errors.Join(errs...)
}

// DecodeImage decodes an Image item from its embedded bytes, falling back to
// the source file when no bytes were stored.
func DecodeImage(it scene.Item) (image.Image, error) {
	data := it.Data
	if len(data) == 0 {
		path, err := scene.SourcePath(it.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMediaUnavailable, it.Source, err)
		}
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMediaUnavailable, err)
		}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrMediaUnavailable, scene.SourceName(it.Source), err)
	}
	return img, nil
}
