// Package session encodes a scene log to the .wb file format and back.
//
// Layout:
//
//	magic   "WBSN"
//	version uint16
//	count   uint32
//	record* kind uint8 | length uint32 | payload[length]
//
// All integers and IEEE-754 doubles are big-endian. Strings and byte blobs
// carry a uint32 length prefix. Colors are four bytes R, G, B, A.
package session

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"DigitalWhiteboard/internal/scene"
)

const (
	Magic   = "WBSN"
	Version = uint16(1)

	// Extension is the recommended suffix of session files.
	Extension = ".wb"

	// maxBlob bounds a single string or byte field so a corrupt length
	// prefix cannot trigger a huge allocation.
	maxBlob = 256 << 20
)

// ErrCorruptSession is returned for any input that does not decode cleanly.
var ErrCorruptSession = errors.New("corrupt session")

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSession, fmt.Sprintf(format, args...))
}

// Encode writes items to w.
func Encode(w io.Writer, items []scene.Item) error {
	bw := bufio.NewWriter(w)
	var hdr [10]byte
	copy(hdr[:4], Magic)
	binary.BigEndian.PutUint16(hdr[4:6], Version)
	binary.BigEndian.PutUint32(hdr[6:10], uint32(len(items)))
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}

	var payload bytes.Buffer
	for i, it := range items {
		if !it.Kind.Valid() {
			return fmt.Errorf("item %d: unknown kind %d", i, uint8(it.Kind))
		}
		payload.Reset()
		encodeItem(&payload, it)
		var rec [5]byte
		rec[0] = byte(it.Kind)
		binary.BigEndian.PutUint32(rec[1:], uint32(payload.Len()))
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
		if _, err := bw.Write(payload.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Marshal is Encode into a byte slice.
func Marshal(items []scene.Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeItem(b *bytes.Buffer, it scene.Item) {
	switch it.Kind {
	case scene.KindStroke:
		putFloat(b, it.X)
		putFloat(b, it.Y)
		putColor(b, it.Color)
		putFloat(b, it.Width)
	case scene.KindImage:
		putString(b, it.Source)
		putBytes(b, it.Data)
		putFloat(b, it.X)
		putFloat(b, it.Y)
	case scene.KindText:
		putString(b, it.Text)
		putFloat(b, it.X)
		putFloat(b, it.Y)
	case scene.KindAudio:
		putString(b, it.Source)
	case scene.KindVideo:
		putString(b, it.Source)
		putFloat(b, it.X)
		putFloat(b, it.Y)
	case scene.KindBeginPath:
		putFloat(b, it.X)
		putFloat(b, it.Y)
	}
}

func putFloat(b *bytes.Buffer, f float64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(f))
	b.Write(tmp[:])
}

func putColor(b *bytes.Buffer, c color.NRGBA) {
	b.Write([]byte{c.R, c.G, c.B, c.A})
}

func putBytes(b *bytes.Buffer, p []byte) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(p)))
	b.Write(tmp[:])
	b.Write(p)
}

func putString(b *bytes.Buffer, s string) {
	putBytes(b, []byte(s))
}

// Decode reads a complete session from r. Anything short of a fully valid
// file yields an error wrapping ErrCorruptSession, or the underlying read
// error if r itself failed.
func Decode(r io.Reader) ([]scene.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Unmarshal decodes a session held in memory.
func Unmarshal(data []byte) ([]scene.Item, error) {
	if len(data) < 10 {
		return nil, corrupt("short header (%d bytes)", len(data))
	}
	if string(data[:4]) != Magic {
		return nil, corrupt("bad magic %q", data[:4])
	}
	if v := binary.BigEndian.Uint16(data[4:6]); v != Version {
		return nil, corrupt("unsupported version %d", v)
	}
	count := binary.BigEndian.Uint32(data[6:10])
	rest := data[10:]
	// every record needs at least its 5-byte header
	if uint64(count)*5 > uint64(len(rest)) {
		return nil, corrupt("item count %d exceeds file size", count)
	}

	items := make([]scene.Item, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(rest) < 5 {
			return nil, corrupt("item %d: truncated record header", i)
		}
		kind := scene.Kind(rest[0])
		n := binary.BigEndian.Uint32(rest[1:5])
		rest = rest[5:]
		if !kind.Valid() {
			return nil, corrupt("item %d: unknown kind %d", i, uint8(kind))
		}
		if uint64(n) > uint64(len(rest)) {
			return nil, corrupt("item %d: payload length %d exceeds remaining %d bytes", i, n, len(rest))
		}
		it, err := decodeItem(kind, rest[:n])
		if err != nil {
			return nil, corrupt("item %d (%s): %v", i, kind, err)
		}
		if err := it.Validate(); err != nil {
			return nil, corrupt("item %d: %v", i, err)
		}
		items = append(items, it)
		rest = rest[n:]
	}
	if len(rest) != 0 {
		return nil, corrupt("%d trailing bytes", len(rest))
	}
	return items, nil
}

type reader struct {
	buf []byte
	err error
}

var errShort = errors.New("payload truncated")

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > len(r.buf) {
		r.err = errShort
		return nil
	}
	out := r.buf[:n]
	r.buf = r.buf[n:]
	return out
}

func (r *reader) float() float64 {
	p := r.take(8)
	if p == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p))
}

func (r *reader) color() color.NRGBA {
	p := r.take(4)
	if p == nil {
		return color.NRGBA{}
	}
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (r *reader) bytes() []byte {
	p := r.take(4)
	if p == nil {
		return nil
	}
	n := binary.BigEndian.Uint32(p)
	if n > maxBlob {
		r.err = fmt.Errorf("field length %d too large", n)
		return nil
	}
	b := r.take(int(n))
	if len(b) == 0 {
		return nil
	}
	return bytes.Clone(b)
}

func (r *reader) string() string {
	return string(r.bytes())
}

func decodeItem(kind scene.Kind, payload []byte) (scene.Item, error) {
	r := &reader{buf: payload}
	it := scene.Item{Kind: kind}
	switch kind {
	case scene.KindStroke:
		it.X, it.Y = r.float(), r.float()
		it.Color = r.color()
		it.Width = r.float()
	case scene.KindImage:
		it.Source = r.string()
		it.Data = r.bytes()
		it.X, it.Y = r.float(), r.float()
	case scene.KindText:
		it.Text = r.string()
		it.X, it.Y = r.float(), r.float()
	case scene.KindAudio:
		it.Source = r.string()
	case scene.KindVideo:
		it.Source = r.string()
		it.X, it.Y = r.float(), r.float()
	case scene.KindBeginPath:
		it.X, it.Y = r.float(), r.float()
	}
	if r.err != nil {
		return scene.Item{}, r.err
	}
	if len(r.buf) != 0 {
		return scene.Item{}, fmt.Errorf("%d unread payload bytes", len(r.buf))
	}
	return it, nil
}
