// Command retouch applies brush strokes to an image without the GUI.
//
//	retouch -in photo.jpg -out clean.png -op repair -radius 30 \
//	    -stroke "10,10 80,10;10,40 80,40" -rect "200,20,120,30"
//
// Strokes and rectangles are in image pixels. With -auto-text, text found
// by Tesseract is painted over as well.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pixel-retouch/internal/applog"
	"pixel-retouch/internal/cvfx"
	"pixel-retouch/internal/effect"
	"pixel-retouch/internal/export"
	pximage "pixel-retouch/internal/image"
	"pixel-retouch/internal/ocr"
	"pixel-retouch/internal/retouch"
	"pixel-retouch/internal/version"
	"pixel-retouch/pkg/geometry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	in, out     string
	diff        string
	kind        effect.Kind
	radius      int
	strokes     [][]geometry.PointInt
	rects       rectList
	autoText    bool
	languages   string
	seed        uint64
	interpolate bool
	quality     int
	verbose     bool
	version     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{kind: retouch.DefaultOperator}
	fs := flag.NewFlagSet("retouch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "Input image (PNG, JPEG, GIF, BMP, TIFF or WebP)")
	fs.StringVar(&o.out, "out", "", "Output file; format from extension (default removed_watermark_<ms>.png)")
	fs.StringVar(&o.diff, "diff", "", "Also write an image of the per-pixel differences")
	fs.Func("op", "Operator: repair, blur, pixelate or smooth (default repair)", func(s string) error {
		kind, err := effect.ParseKind(s)
		if err != nil {
			return err
		}
		o.kind = kind
		return nil
	})
	fs.IntVar(&o.radius, "radius", retouch.DefaultRadius, "Brush size in pixels (5-100)")
	fs.Func("stroke", `Strokes as "x,y x,y ...", separated by ';' (repeatable)`, func(s string) error {
		strokes, err := parseStrokes(s)
		if err != nil {
			return err
		}
		o.strokes = append(o.strokes, strokes...)
		return nil
	})
	fs.Var(&o.rects, "rect", `Rectangle "x,y,w,h" to paint over (repeatable)`)
	fs.BoolVar(&o.autoText, "auto-text", false, "Find text with OCR and paint over it")
	fs.StringVar(&o.languages, "lang", "eng", "Tesseract languages for -auto-text, '+' separated")
	fs.Uint64Var(&o.seed, "seed", 0, "Seed for the blur operator (0 = random)")
	fs.BoolVar(&o.interpolate, "interpolate", true, "Fill gaps between stroke points")
	fs.IntVar(&o.quality, "quality", export.DefaultJPEGQuality, "JPEG quality")
	fs.BoolVar(&o.verbose, "v", false, "Log engine activity to stderr")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if o.version {
		fmt.Fprintln(stdout, version.String())
		return 0
	}
	if o.in == "" {
		fmt.Fprintln(stderr, "Usage: retouch -in <image> [-out <file>] [-op repair|blur|pixelate|smooth] [-radius 20] [-stroke ...] [-rect ...] [-auto-text]")
		return 2
	}
	if o.verbose {
		applog.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer applog.SetLogger(nil)
	}

	if err := retouchFile(o, stdout); err != nil {
		fmt.Fprintf(stderr, "retouch: %v\n", err)
		return 1
	}
	return 0
}

func retouchFile(o *options, stdout io.Writer) error {
	kind, strokes := o.kind, o.strokes

	buf, err := pximage.Load(o.in)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	fmt.Fprintf(stdout, "Loaded %s: %dx%d pixels\n", o.in, buf.Width(), buf.Height())
	orig := buf.Clone()

	opts := []retouch.Option{
		retouch.WithOperator(effect.KindSmooth, cvfx.NewSmooth()),
		retouch.WithInterpolation(o.interpolate),
	}
	if o.seed != 0 {
		opts = append(opts, retouch.WithBlurSeed(o.seed))
	}
	engine := retouch.New(opts...)
	if err := engine.LoadBuffer(buf); err != nil {
		return err
	}
	if err := engine.SetOperator(kind); err != nil {
		return err
	}
	if got := engine.SetRadius(o.radius); got != o.radius {
		fmt.Fprintf(stdout, "Brush size clamped to %d\n", got)
	}

	box := geometry.NewRect(0, 0, float64(buf.Width()), float64(buf.Height()))
	for _, s := range strokes {
		if err := applyStroke(engine, s, box); err != nil {
			return err
		}
	}
	if len(o.rects) > 0 {
		if err := engine.PaintRects(o.rects); err != nil {
			return err
		}
	}
	if o.autoText {
		n, err := removeText(engine, o.languages)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Painted over %d text boxes\n", n)
	}
	fmt.Fprintf(stdout, "Applied %d strokes and %d rectangles with %s\n", len(strokes), len(o.rects), kind)
	if err := reportDiff(orig, engine.Snapshot(), o.diff, stdout); err != nil {
		return err
	}

	out := o.out
	if out == "" {
		out = export.DefaultFilename(nowFunc())
	}
	if err := export.Save(out, engine.Export(), export.Options{JPEGQuality: o.quality}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", out)
	return nil
}

func applyStroke(e *retouch.Engine, points []geometry.PointInt, box geometry.Rect) error {
	for i, p := range points {
		var err error
		if i == 0 {
			err = e.PointerDown(p.ToFloat(), box)
		} else {
			err = e.PointerMove(p.ToFloat(), box)
		}
		if err != nil {
			e.PointerUp()
			return err
		}
	}
	e.PointerUp()
	return nil
}

func removeText(e *retouch.Engine, languages string) (int, error) {
	finder, err := ocr.NewFinder(splitLanguages(languages)...)
	if err != nil {
		return 0, err
	}
	defer finder.Close()

	rects, err := finder.Find(e.Snapshot())
	if err != nil {
		return 0, err
	}
	if err := e.PaintRects(rects); err != nil {
		return 0, err
	}
	return len(rects), nil
}

func reportDiff(before, after *pximage.Buffer, path string, stdout io.Writer) error {
	st, err := pximage.Diff(before, after)
	if err != nil {
		return err
	}
	b := st.Bounds
	fmt.Fprintf(stdout, "Changed %d pixels within %d,%d %dx%d (max delta %d)\n",
		st.Changed, b.X, b.Y, b.Width, b.Height, st.MaxDelta)
	if path == "" {
		return nil
	}
	img, err := pximage.DifferenceImage(before, after)
	if err != nil {
		return err
	}
	if err := export.Save(path, img, export.Options{}); err != nil {
		return fmt.Errorf("failed to write diff: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
