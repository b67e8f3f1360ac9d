// Package image provides the RGBA pixel buffer edited by the retouch engine,
// plus image loading.
package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"pixel-retouch/pkg/geometry"

	xdraw "golang.org/x/image/draw"
)

var (
	// ErrOutOfBounds is returned for a direct pixel access outside the buffer.
	ErrOutOfBounds = errors.New("pixel coordinate out of bounds")

	// ErrSizeMismatch is returned when pixel data does not match the target dimensions.
	ErrSizeMismatch = errors.New("pixel data size mismatch")

	// ErrInvalidSize is returned for non-positive buffer dimensions.
	ErrInvalidSize = errors.New("invalid buffer dimensions")
)

// Buffer is a fixed-size RGBA bitmap, 4 bytes per pixel, rows packed
// without padding. len(pix) == width*height*4 always holds.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// NewBuffer creates a zeroed (transparent black) buffer.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}, nil
}

// FromPixels creates a buffer from raw RGBA bytes. The bytes are copied.
func FromPixels(pix []uint8, width, height int) (*Buffer, error) {
	b, err := NewBuffer(width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) != len(b.pix) {
		return nil, fmt.Errorf("got %d bytes for %dx%d: %w", len(pix), width, height, ErrSizeMismatch)
	}
	copy(b.pix, pix)
	return b, nil
}

// FromImage converts any image into a buffer. Colors are stored
// non-premultiplied, as a canvas would report them.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	b, err := NewBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	dst := &image.NRGBA{Pix: b.pix, Stride: b.width * 4, Rect: image.Rect(0, 0, b.width, b.height)}
	xdraw.Draw(dst, dst.Rect, img, bounds.Min, xdraw.Src)
	return b, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Pix returns the backing pixel slice. Callers must not resize it.
func (b *Buffer) Pix() []uint8 { return b.pix }

// Bounds returns the buffer rectangle.
func (b *Buffer) Bounds() geometry.RectInt {
	return geometry.RectInt{Width: b.width, Height: b.height}
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.width + x) * 4
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) (color.NRGBA, error) {
	if !b.inBounds(x, y) {
		return color.NRGBA{}, fmt.Errorf("at (%d,%d) in %dx%d: %w", x, y, b.width, b.height, ErrOutOfBounds)
	}
	i := b.offset(x, y)
	return color.NRGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}, nil
}

// Set writes the pixel at (x, y).
func (b *Buffer) Set(x, y int, c color.NRGBA) error {
	if !b.inBounds(x, y) {
		return fmt.Errorf("set (%d,%d) in %dx%d: %w", x, y, b.width, b.height, ErrOutOfBounds)
	}
	i := b.offset(x, y)
	b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = c.R, c.G, c.B, c.A
	return nil
}

// Region returns an owned copy of the rectangle (x, y, w, h) intersected
// with the buffer. The returned region is empty if nothing remains.
func (b *Buffer) Region(x, y, w, h int) *Region {
	rect := geometry.RectInt{X: x, Y: y, Width: w, Height: h}.Clamp(b.width, b.height)
	r := &Region{X: rect.X, Y: rect.Y, W: rect.Width, H: rect.Height}
	if rect.Empty() {
		return r
	}
	r.Pix = make([]uint8, r.W*r.H*4)
	rowBytes := r.W * 4
	for row := 0; row < r.H; row++ {
		src := b.offset(r.X, r.Y+row)
		copy(r.Pix[row*rowBytes:(row+1)*rowBytes], b.pix[src:src+rowBytes])
	}
	return r
}

// PutRegion writes r back at its own origin. The clamped target rectangle
// must have exactly r's size, otherwise nothing is written.
func (b *Buffer) PutRegion(r *Region) error {
	if len(r.Pix) != r.W*r.H*4 {
		return fmt.Errorf("region %dx%d holds %d bytes: %w", r.W, r.H, len(r.Pix), ErrSizeMismatch)
	}
	rect := geometry.RectInt{X: r.X, Y: r.Y, Width: r.W, Height: r.H}
	clamped := rect.Clamp(b.width, b.height)
	if clamped != rect {
		return fmt.Errorf("region %v does not fit %dx%d: %w", rect, b.width, b.height, ErrSizeMismatch)
	}
	if r.Empty() {
		return nil
	}
	rowBytes := r.W * 4
	for row := 0; row < r.H; row++ {
		dst := b.offset(r.X, r.Y+row)
		copy(b.pix[dst:dst+rowBytes], r.Pix[row*rowBytes:(row+1)*rowBytes])
	}
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// CopyFrom overwrites the pixels with src's. Both must have the same size.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if src.width != b.width || src.height != b.height {
		return fmt.Errorf("copy %dx%d into %dx%d: %w", src.width, src.height, b.width, b.height, ErrSizeMismatch)
	}
	copy(b.pix, src.pix)
	return nil
}

// Equal reports whether two buffers hold identical pixels.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// Image returns an image view sharing the buffer's pixels. It reflects
// later edits and must be treated as read-only.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// Region is an owned copy of a rectangle of a Buffer, in buffer coordinates.
type Region struct {
	X, Y int
	W, H int
	Pix  []uint8
}

// Empty reports whether the region has no pixels.
func (r *Region) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Offset returns the index of the pixel at region-local (x, y).
func (r *Region) Offset(x, y int) int {
	return (y*r.W + x) * 4
}

// Clone returns a deep copy of the region.
func (r *Region) Clone() *Region {
	c := *r
	c.Pix = make([]uint8, len(r.Pix))
	copy(c.Pix, r.Pix)
	return &c
}
