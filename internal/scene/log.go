package scene

import (
	"image/color"
	"math"
)

const (
	MinLineWidth     = 1.0
	MaxLineWidth     = 10.0
	DefaultLineWidth = 2.0
)

var (
	Black = color.NRGBA{A: 255}
	Red   = color.NRGBA{R: 255, A: 255}
)

// Tool is the live drawing state read when a Stroke is appended.
type Tool struct {
	color color.NRGBA
	width float64
}

func NewTool() Tool {
	return Tool{color: Black, width: DefaultLineWidth}
}

func (t Tool) Color() color.NRGBA { return t.color }
func (t Tool) Width() float64     { return t.width }

func (t *Tool) SetColor(c color.Color) {
	t.color = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// SetWidth clamps w to [MinLineWidth, MaxLineWidth]. NaN keeps the old width.
func (t *Tool) SetWidth(w float64) {
	if math.IsNaN(w) {
		return
	}
	t.width = math.Min(MaxLineWidth, math.Max(MinLineWidth, w))
}

// Stroke builds a Stroke item at (x, y) with the current color and width.
func (t Tool) Stroke(x, y float64) Item {
	return Stroke(x, y, t.color, t.width)
}

// Log is the ordered, append-only scene. It is owned by the UI thread and
// is not safe for concurrent use.
type Log struct {
	items []Item
	tool  Tool
}

func NewLog() *Log {
	return &Log{tool: NewTool()}
}

// Tool returns the live tool state for mutation by toolbar controls.
func (l *Log) Tool() *Tool { return &l.tool }

// Append adds it as the new tail and returns its index.
func (l *Log) Append(it Item) int {
	l.items = append(l.items, it)
	return len(l.items) - 1
}

func (l *Log) Len() int { return len(l.items) }

// Clear drops every item. The tool state is kept.
func (l *Log) Clear() {
	l.items = nil
}

// Snapshot returns a copy of the item sequence. Later appends do not show up
// in it and it shares no backing array with the log.
func (l *Log) Snapshot() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Replace substitutes the whole item sequence, as done by a session load.
func (l *Log) Replace(items []Item) {
	l.items = make([]Item, len(items))
	copy(l.items, items)
}

// Count returns how many items of kind k the log holds.
func (l *Log) Count(k Kind) int {
	n := 0
	for _, it := range l.items {
		if it.Kind == k {
			n++
		}
	}
	return n
}
