package ui

import (
	"io"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"DigitalWhiteboard/internal/board"
	"DigitalWhiteboard/internal/scene"
	"DigitalWhiteboard/internal/session"
)

var dialogSize = fyne.NewSize(800, 550)

// dialogs opens fyne file choosers and forms on a window.
type dialogs struct {
	win    fyne.Window
	logger *slog.Logger
}

var _ board.Dialogs = (*dialogs)(nil)

func (d *dialogs) failed(title string, err error) {
	d.logger.Error("file dialog failed", "dialog", title, "err", err)
	dialog.ShowError(err, d.win)
}

func (d *dialogs) Open(title string, filter board.FileFilter, fn func(r io.ReadCloser, uri string)) {
	dlg := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			d.failed(title, err)
		}
		if err != nil || r == nil {
			fn(nil, "")
			return
		}
		fn(r, sourceURI(r.URI()))
	}, d.win)
	dlg.SetFilter(storage.NewExtensionFileFilter(filter.Extensions))
	dlg.SetConfirmText(title)
	dlg.Resize(dialogSize)
	dlg.Show()
}

func (d *dialogs) Save(title string, filter board.FileFilter, fn func(w io.WriteCloser, uri string)) {
	dlg := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			d.failed(title, err)
		}
		if err != nil || w == nil {
			fn(nil, "")
			return
		}
		fn(w, sourceURI(w.URI()))
	}, d.win)
	dlg.SetFilter(storage.NewExtensionFileFilter(filter.Extensions))
	dlg.SetFileName(defaultFileName(filter))
	dlg.SetConfirmText(title)
	dlg.Resize(dialogSize)
	dlg.Show()
}

// sourceURI re-escapes local file URIs. fyne's URI.String leaves '#', '?'
// and '%' in file names unescaped.
func sourceURI(u fyne.URI) string {
	if u.Scheme() == "file" {
		return scene.FileURI(u.Path())
	}
	return u.String()
}

func defaultFileName(filter board.FileFilter) string {
	if len(filter.Extensions) == 0 {
		return "whiteboard"
	}
	if filter.Extensions[0] == session.Extension {
		return session.DefaultFile
	}
	return "whiteboard" + filter.Extensions[0]
}

func (d *dialogs) Prompt(title, initial string, fn func(text string, ok bool)) {
	entry := widget.NewEntry()
	entry.SetText(initial)
	items := []*widget.FormItem{widget.NewFormItem("Text", entry)}
	dialog.ShowForm(title, "OK", "Cancel", items, func(ok bool) {
		fn(entry.Text, ok)
	}, d.win)
}
