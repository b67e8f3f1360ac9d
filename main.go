// Package main provides the entry point for the Pixel Retouch application.
package main

import (
	"log"
	"log/slog"
	"os"

	"pixel-retouch/internal/app"
	"pixel-retouch/internal/applog"
	"pixel-retouch/internal/cvfx"
	"pixel-retouch/internal/effect"
	"pixel-retouch/internal/ocr"
	"pixel-retouch/internal/retouch"
	"pixel-retouch/internal/version"
	"pixel-retouch/ui/mainwindow"
	"pixel-retouch/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.pixelretouch"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	level := slog.LevelInfo
	if os.Getenv("PIXEL_RETOUCH_DEBUG") != "" {
		level = slog.LevelDebug
	}
	applog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.RetouchTheme{})

	session := app.NewSession(
		retouch.WithOperator(effect.KindSmooth, cvfx.NewSmooth()),
		retouch.WithInterpolation(true),
	)
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, session, appPrefs, openFinder)

	// Handle command line arguments
	if len(os.Args) > 1 {
		if err := win.OpenPath(os.Args[1]); err != nil {
			log.Printf("Failed to open %s: %v", os.Args[1], err)
		}
	}

	win.SetCloseIntercept(func() {
		win.SavePreferences()
		win.Close()
	})
	win.ShowAndRun()
}

func openFinder() (app.TextFinder, func() error, error) {
	f, err := ocr.NewFinder()
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
