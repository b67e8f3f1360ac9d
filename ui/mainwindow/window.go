// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"pixel-retouch/internal/app"
	"pixel-retouch/internal/export"
	pximage "pixel-retouch/internal/image"
	"pixel-retouch/internal/version"
	"pixel-retouch/ui/canvas"
	"pixel-retouch/ui/panels"
	"pixel-retouch/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Pixel Retouch"

// FinderFunc opens a text finder on demand. The caller closes it.
type FinderFunc func() (app.TextFinder, func() error, error)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs
	finder  FinderFunc

	canvas    *canvas.RetouchCanvas
	tools     *panels.ToolPanel
	statusBar *widget.Label
}

// New creates the main window. finder may be nil when OCR is unavailable.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs, finder FinderFunc) *MainWindow {
	mw := &MainWindow{
		Window:  fyneApp.NewWindow(appTitle),
		app:     fyneApp,
		session: session,
		prefs:   p,
		finder:  finder,
	}
	session.ExportOptions.JPEGQuality = p.Int(prefs.KeyJPEGQuality, export.DefaultJPEGQuality)

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.Resize(fyne.NewSize(1100, 760))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewRetouchCanvas(mw.session)
	mw.canvas.OnError = func(err error) { mw.updateStatus(err.Error()) }

	mw.tools = panels.NewToolPanel(mw.session)
	mw.tools.OnRemoveText = mw.onRemoveText

	mw.statusBar = widget.NewLabel("Open an image to start")

	split := container.NewHSplit(
		container.NewVScroll(container.NewPadded(mw.tools.Container())),
		mw.canvas,
	)
	split.SetOffset(0.2)

	mw.SetContent(container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpen),
		fyne.NewMenuItem("Export...", mw.onExport),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
	)
	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Remove Text", mw.onRemoveText),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onUndo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onOpen() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onExport() })
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventImageLoaded, func(data interface{}) {
		path, _ := data.(string)
		w, h := mw.session.Size()
		mw.SetTitle(appTitle + " - " + filepath.Base(path))
		mw.updateStatus(fmt.Sprintf("Loaded %s (%dx%d)", filepath.Base(path), w, h))
	})

	mw.session.On(app.EventBrushChanged, func(data interface{}) {
		mw.prefs.SetBrush(mw.session.Brush())
	})

	mw.session.On(app.EventModified, func(data interface{}) {
		modified, _ := data.(bool)
		title := appTitle
		if path := mw.session.ImagePath(); path != "" {
			title += " - " + filepath.Base(path)
		}
		if modified {
			title += " *"
		}
		mw.SetTitle(title)
	})

	mw.session.On(app.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Exported " + path)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// OpenPath loads an image and reapplies the saved brush, since loading
// resets the brush to its defaults.
func (mw *MainWindow) OpenPath(path string) error {
	brush := mw.prefs.Brush()
	if err := mw.session.LoadImage(path); err != nil {
		return err
	}
	if err := mw.session.SetOperator(brush.Operator); err != nil {
		log.Printf("Saved operator %v unavailable: %v", brush.Operator, err)
	}
	mw.session.SetRadius(brush.Radius)
	mw.prefs.SetString(prefs.KeyOpenDir, filepath.Dir(path))
	return nil
}

// ExportTo exports the image to the path picked in the save dialog and
// returns the path actually written. Names without an exportable extension
// get ".png" appended, and the empty file the dialog created under the
// picked name is removed.
func (mw *MainWindow) ExportTo(picked string) (string, error) {
	path := picked
	if _, err := export.FormatFromPath(path); err != nil {
		path += export.PNG.Ext()
		if info, err := os.Stat(picked); err == nil && info.Mode().IsRegular() && info.Size() == 0 {
			if err := os.Remove(picked); err != nil {
				log.Printf("Failed to remove %s: %v", picked, err)
			}
		}
	}
	mw.prefs.SetString(prefs.KeyExportDir, filepath.Dir(path))
	if err := mw.session.Export(path); err != nil {
		return "", err
	}
	return path, nil
}

// SavePreferences writes preferences to disk, logging failures.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// dirURI returns a saved directory as a ListableURI, or nil.
func (mw *MainWindow) dirURI(key string) fyne.ListableURI {
	path := mw.prefs.String(key)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// Menu action handlers

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		if err := mw.OpenPath(reader.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(pximage.SupportedFormats()))
	if loc := mw.dirURI(prefs.KeyOpenDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExport() {
	if !mw.session.Loaded() {
		mw.updateStatus("Nothing to export")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		if _, err := mw.ExportTo(writer.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(export.DefaultFilename(time.Now()))
	if loc := mw.dirURI(prefs.KeyExportDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if mw.session.Undo() {
		mw.updateStatus(fmt.Sprintf("Undone (%d steps left)", mw.session.HistoryLen()-1))
	} else {
		mw.updateStatus("Nothing to undo")
	}
}

func (mw *MainWindow) onRemoveText() {
	if !mw.session.Loaded() {
		mw.updateStatus("Open an image first")
		return
	}
	if mw.finder == nil {
		dialog.ShowError(errors.New("text detection is not available in this build"), mw.Window)
		return
	}

	progress := dialog.NewCustomWithoutButtons("Searching for text...", widget.NewProgressBarInfinite(), mw.Window)
	progress.Show()
	go func() {
		n, err := mw.removeText()
		progress.Hide()
		switch {
		case errors.Is(err, app.ErrImageChanged):
			mw.updateStatus("Text search discarded: another image was opened")
		case err != nil:
			dialog.ShowError(err, mw.Window)
		case n == 0:
			mw.updateStatus("No text found")
		default:
			mw.updateStatus(fmt.Sprintf("Painted over %d text boxes", n))
		}
	}()
}

func (mw *MainWindow) removeText() (int, error) {
	finder, closeFn, err := mw.finder()
	if err != nil {
		return 0, err
	}
	defer closeFn()
	return mw.session.RemoveText(finder)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s\n\n"+
			"Paint over watermarks to repair, blur or pixelate them.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.String(), version.BuildTime, version.GitCommit),
		mw.Window)
}
