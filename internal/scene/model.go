package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Kind discriminates the whiteboard item variants.
type Kind uint8

const (
	KindStroke Kind = iota + 1
	KindImage
	KindText
	KindAudio
	KindVideo
	// KindBeginPath records the pointer-press anchor of a stroke run.
	KindBeginPath
)

func (k Kind) String() string {
	switch k {
	case KindStroke:
		return "stroke"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindBeginPath:
		return "begin_path"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k names a known variant.
func (k Kind) Valid() bool {
	return k >= KindStroke && k <= KindBeginPath
}

// IsMedia reports whether items of this kind own a control widget.
func (k Kind) IsMedia() bool {
	return k == KindAudio || k == KindVideo
}

// Item is a single whiteboard entry. Only the fields relevant to Kind are set:
//
//	Stroke:    X, Y, Color, Width
//	Image:     Source, Data (encoded file bytes), X, Y (top-left)
//	Text:      Text, X, Y (baseline anchor)
//	Audio:     Source
//	Video:     Source, X, Y (top-left of the control widget)
//	BeginPath: X, Y
//
// Items are never mutated once appended to a Log.
type Item struct {
	Kind   Kind
	X, Y   float64
	Color  color.NRGBA
	Width  float64
	Text   string
	Source string
	Data   []byte
}

func Stroke(x, y float64, c color.NRGBA, width float64) Item {
	return Item{Kind: KindStroke, X: x, Y: y, Color: c, Width: width}
}

func Image(source string, data []byte, x, y float64) Item {
	return Item{Kind: KindImage, Source: source, Data: data, X: x, Y: y}
}

func Text(text string, x, y float64) Item {
	return Item{Kind: KindText, Text: text, X: x, Y: y}
}

func Audio(source string) Item {
	return Item{Kind: KindAudio, Source: source}
}

func Video(source string, x, y float64) Item {
	return Item{Kind: KindVideo, Source: source, X: x, Y: y}
}

func BeginPath(x, y float64) Item {
	return Item{Kind: KindBeginPath, X: x, Y: y}
}

// Equal compares the persisted attributes of two items.
func (it Item) Equal(o Item) bool {
	return it.Kind == o.Kind &&
		it.X == o.X && it.Y == o.Y &&
		it.Color == o.Color &&
		it.Width == o.Width &&
		it.Text == o.Text &&
		it.Source == o.Source &&
		bytes.Equal(it.Data, o.Data)
}

// Validate checks that the attributes of the item's kind are well formed.
func (it Item) Validate() error {
	if !it.Kind.Valid() {
		return fmt.Errorf("unknown item kind %d", uint8(it.Kind))
	}
	if !finite(it.X) || !finite(it.Y) {
		return fmt.Errorf("%s: non-finite position (%v, %v)", it.Kind, it.X, it.Y)
	}
	switch it.Kind {
	case KindStroke:
		if !finite(it.Width) || it.Width < MinLineWidth || it.Width > MaxLineWidth {
			return fmt.Errorf("stroke: line width %v outside [%v, %v]", it.Width, MinLineWidth, MaxLineWidth)
		}
	case KindText:
		if !utf8.ValidString(it.Text) {
			return errors.New("text: invalid utf-8")
		}
	case KindImage:
		if it.Source == "" && len(it.Data) == 0 {
			return errors.New("image: neither source nor pixel data")
		}
	case KindAudio, KindVideo:
		if strings.TrimSpace(it.Source) == "" {
			return fmt.Errorf("%s: empty source", it.Kind)
		}
	}
	if !utf8.ValidString(it.Source) {
		return fmt.Errorf("%s: invalid utf-8 source", it.Kind)
	}
	return nil
}

const fileScheme = "file://"

// FileURI builds a percent-escaped file URI for a local path.
func FileURI(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// filePath resolves a file URI to a slash-separated path. Escaped URIs are
// decoded. The unescaped "file://" + path form is taken literally, which is
// the only reading when it holds '#', '?' or a '%' that is not an escape.
func filePath(source string) string {
	rest := source[len(fileScheme):]
	if !strings.ContainsAny(rest, "?#") {
		if u, err := url.Parse(source); err == nil && u.Path != "" {
			return u.Path
		}
	}
	if i := strings.IndexByte(rest, '/'); i > 0 {
		// drop an authority such as "localhost"
		rest = rest[i:]
	}
	return rest
}

func hasFileScheme(source string) bool {
	return len(source) >= len(fileScheme) && strings.EqualFold(source[:len(fileScheme)], fileScheme)
}

// SourceName returns the file name a media source URI points at.
func SourceName(source string) string {
	if hasFileScheme(source) {
		return path.Base(filePath(source))
	}
	if u, err := url.Parse(source); err == nil && len(u.Scheme) > 1 && u.Path != "" {
		return path.Base(u.Path)
	}
	return filepath.Base(source)
}

// SourcePath turns a file URI into a local path. Plain paths pass through.
func SourcePath(source string) (string, error) {
	if hasFileScheme(source) {
		p := filePath(source)
		if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
			// "/C:/dir" on windows
			p = p[1:]
		}
		return filepath.FromSlash(p), nil
	}
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare path, or a windows drive letter parsed as a scheme
		return source, nil
	}
	return "", fmt.Errorf("unsupported source scheme %q", u.Scheme)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
