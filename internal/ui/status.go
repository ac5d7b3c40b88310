package ui

import (
	"fyne.io/fyne/v2/widget"
)

// statusBar is the single-line notice area under the board.
type statusBar struct {
	label *widget.Label
}

func newStatusBar() *statusBar {
	return &statusBar{label: widget.NewLabel("Ready")}
}

func (s *statusBar) Notify(msg string) {
	s.label.SetText(msg)
}
