// Package export encodes retouched images to files.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output file format.
type Format int

const (
	PNG Format = iota
	JPEG
	TIFF
	BMP
	PDF
)

var ErrUnknownFormat = errors.New("unknown export format")

var formatNames = map[Format]string{
	PNG:  "png",
	JPEG: "jpeg",
	TIFF: "tiff",
	BMP:  "bmp",
	PDF:  "pdf",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the preferred file extension, with the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tif"
	default:
		return "." + f.String()
	}
}

// Formats lists all supported formats.
func Formats() []Format {
	return []Format{PNG, JPEG, TIFF, BMP, PDF}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".bmp":
		return BMP, nil
	case ".pdf":
		return PDF, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Options tune the encoders.
type Options struct {
	// JPEGQuality is 1-100; zero means DefaultJPEGQuality.
	JPEGQuality int
	// DPI sets the PDF page size; zero means DefaultDPI.
	DPI float64
}

const (
	DefaultJPEGQuality = 92
	DefaultDPI         = 72
)

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, opts Options) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		q := opts.JPEGQuality
		if q <= 0 {
			q = DefaultJPEGQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: min(q, 100)})
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case BMP:
		err = bmp.Encode(w, img)
	case PDF:
		err = encodePDF(w, img, opts.DPI)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %v: %w", f, err)
	}
	return nil
}

// encodePDF writes a single page sized to the image at the given DPI.
func encodePDF(w io.Writer, img image.Image, dpi float64) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("empty image")
	}
	wd := float64(b.Dx()) * 72 / dpi
	ht := float64(b.Dy()) * 72 / dpi

	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		return err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opt, &raw)
	pdf.ImageOptions("page", 0, 0, wd, ht, false, opt, 0, "")
	return pdf.Output(w)
}

// fileMode is the permission of exported files.
const fileMode = 0o644

// Save encodes img into path, choosing the format from its extension.
// The file is written to a temporary name first and renamed into place.
func Save(path string, img image.Image, opts Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, img, f, opts); err != nil {
		tmp.Close()
		return err
	}
	// CreateTemp opens the file 0600.
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// DefaultFilename is the suggested name for a download made at now.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("removed_watermark_%d.png", now.UnixMilli())
}
