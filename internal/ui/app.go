package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"DigitalWhiteboard/internal/board"
	"DigitalWhiteboard/internal/config"
	"DigitalWhiteboard/internal/media"
	"DigitalWhiteboard/internal/render"
	"DigitalWhiteboard/internal/render/raster"
	"DigitalWhiteboard/internal/scene"
)

// Whiteboard wires the board widget, the replayer and the binder to one
// window.
type Whiteboard struct {
	Binder   *board.Binder
	Board    *BoardWidget
	Surface  *Surface
	Replayer *render.Replayer
	status   *statusBar
}

func newWhiteboard(cfg config.Config, win fyne.Window, m render.Media, logger *slog.Logger) *Whiteboard {
	if logger == nil {
		logger = slog.Default()
	}
	cw, ch := cfg.CanvasSize()
	rc := raster.New(cw, ch)
	surface := NewSurface()
	bw := NewBoardWidget(rc, surface)
	status := newStatusBar()

	replayer := render.NewReplayer(rc, surface, m, logger)
	binder := board.New(scene.NewLog(), replayer, &dialogs{win: win, logger: logger}, status, board.Options{
		RecordAnchors: cfg.Session.RecordAnchors,
		Logger:        logger,
	})
	binder.OnChange = bw.Redraw
	bw.SetBinder(binder)

	return &Whiteboard{
		Binder:   binder,
		Board:    bw,
		Surface:  surface,
		Replayer: replayer,
		status:   status,
	}
}

func (wb *Whiteboard) content(win fyne.Window) fyne.CanvasObject {
	toolbar := NewToolbar(wb.Binder, win)
	return container.NewBorder(toolbar, wb.status.label, nil, nil, container.NewScroll(wb.Board))
}

func addShortcuts(win fyne.Window, b *board.Binder) {
	bind := func(key fyne.KeyName, fn func()) {
		win.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { fn() })
	}
	bind(fyne.KeyS, b.Save)
	bind(fyne.KeyO, b.Open)
	bind(fyne.KeyT, b.AddText)
}

// RunApp opens the whiteboard window, restores the configured session and
// blocks until the window is closed.
func RunApp(cfg config.Config, logger *slog.Logger) {
	myApp := app.New()
	myWindow := myApp.NewWindow(cfg.Title())
	w, h := cfg.WindowSize()
	myWindow.Resize(fyne.NewSize(float32(w), float32(h)))

	players := media.New(media.Config{
		FFplay:   cfg.FFplay(),
		FFmpeg:   cfg.FFmpeg(),
		Dispatch: fyne.Do,
		Logger:   logger,
	})
	wb := newWhiteboard(cfg, myWindow, players, logger)
	myWindow.SetContent(wb.content(myWindow))
	addShortcuts(myWindow, wb.Binder)

	if path := cfg.SessionPath(); path != "" {
		wb.Binder.LoadSessionFile(path)
	}
	myWindow.SetOnClosed(func() {
		// stops every player still running
		wb.Replayer.Reset()
	})

	logger.Info("whiteboard started", "title", cfg.Title(), "session", cfg.SessionPath())
	myWindow.ShowAndRun()
}
