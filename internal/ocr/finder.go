// Package ocr locates text watermarks so they can be painted over.
package ocr

import (
	"fmt"
	"image"
	"strings"

	"pixel-retouch/internal/applog"
	"pixel-retouch/internal/cvfx"
	pximage "pixel-retouch/internal/image"
	"pixel-retouch/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Defaults for Finder.
const (
	DefaultMinConfidence = 40.0
	DefaultPadding       = 4
)

// Finder detects word boxes with Tesseract.
type Finder struct {
	client *gosseract.Client

	// MinConfidence drops words Tesseract is less sure about (0-100).
	MinConfidence float64
	// Padding grows every box so the brush also covers anti-aliased edges.
	Padding int
}

// NewFinder creates a finder for the given Tesseract languages
// (default "eng").
func NewFinder(languages ...string) (*Finder, error) {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	// Watermarks are often brand names, not dictionary words.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Finder{
		client:        client,
		MinConfidence: DefaultMinConfidence,
		Padding:       DefaultPadding,
	}, nil
}

// Close releases the Tesseract client.
func (f *Finder) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// Word is one detected piece of text in buffer coordinates.
type Word struct {
	Text       string
	Bounds     geometry.RectInt
	Confidence float64
}

// Find returns the padded boxes of all confident words in buf, clamped to
// the buffer.
func (f *Finder) Find(buf *pximage.Buffer) ([]geometry.RectInt, error) {
	words, err := f.Words(buf)
	if err != nil {
		return nil, err
	}
	return wordRects(words, f.MinConfidence, f.Padding, buf.Width(), buf.Height()), nil
}

// Words runs OCR over the whole buffer.
func (f *Finder) Words(buf *pximage.Buffer) ([]Word, error) {
	bgr, err := cvfx.BufferToBGR(buf)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	processed, scale := preprocess(bgr)
	defer processed.Close()

	png, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer png.Close()

	if err := f.client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := f.client.SetImageFromBytes(png.GetBytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := f.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}

	words := toWords(boxes, scale)
	applog.Logger().Info("text search finished", "boxes", len(boxes), "words", len(words), "scale", scale)
	return words, nil
}

// toWords drops empty detections and maps boxes from the preprocessed
// image back to buffer coordinates.
func toWords(boxes []gosseract.BoundingBox, scale float64) []Word {
	if scale <= 0 {
		scale = 1
	}
	var words []Word
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Bounds:     unscale(box.Box, scale),
			Confidence: box.Confidence,
		})
	}
	return words
}

func unscale(r image.Rectangle, scale float64) geometry.RectInt {
	x0 := int(float64(r.Min.X) / scale)
	y0 := int(float64(r.Min.Y) / scale)
	x1 := int(float64(r.Max.X)/scale + 0.999)
	y1 := int(float64(r.Max.Y)/scale + 0.999)
	return geometry.RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// wordRects filters words by confidence, pads them and clamps them to a
// width x height image. Boxes that end up empty are dropped.
func wordRects(words []Word, minConf float64, pad, width, height int) []geometry.RectInt {
	var rects []geometry.RectInt
	for _, w := range words {
		if w.Confidence < minConf {
			continue
		}
		r := w.Bounds.Inset(pad).Clamp(width, height)
		if r.Empty() {
			continue
		}
		rects = append(rects, r)
	}
	return rects
}
