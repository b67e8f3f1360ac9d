package image

import (
	"fmt"
	"image"

	"pixel-retouch/pkg/geometry"
)

// DiffStats summarizes how two same-sized buffers differ.
type DiffStats struct {
	// Changed counts pixels whose color differs in any channel.
	Changed int
	// Bounds is the smallest rectangle holding every changed pixel.
	Bounds geometry.RectInt
	// MaxDelta is the largest per-channel difference seen.
	MaxDelta uint8
}

// Diff compares a and b pixel by pixel.
func Diff(a, b *Buffer) (DiffStats, error) {
	if a.width != b.width || a.height != b.height {
		return DiffStats{}, fmt.Errorf("%dx%d vs %dx%d: %w", a.width, a.height, b.width, b.height, ErrSizeMismatch)
	}
	var st DiffStats
	box := image.Rectangle{}
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			i := a.offset(x, y)
			changed := false
			for c := 0; c < 4; c++ {
				d := absDelta(a.pix[i+c], b.pix[i+c])
				if d > 0 {
					changed = true
					st.MaxDelta = max(st.MaxDelta, d)
				}
			}
			if changed {
				st.Changed++
				box = box.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	st.Bounds = geometry.RectFromImage(box)
	return st, nil
}

// DifferenceImage renders |a-b| per color channel, opaque, for inspecting
// what an edit touched.
func DifferenceImage(a, b *Buffer) (*image.NRGBA, error) {
	if a.width != b.width || a.height != b.height {
		return nil, fmt.Errorf("%dx%d vs %dx%d: %w", a.width, a.height, b.width, b.height, ErrSizeMismatch)
	}
	out := image.NewNRGBA(image.Rect(0, 0, a.width, a.height))
	for i := 0; i < len(a.pix); i += 4 {
		out.Pix[i] = absDelta(a.pix[i], b.pix[i])
		out.Pix[i+1] = absDelta(a.pix[i+1], b.pix[i+1])
		out.Pix[i+2] = absDelta(a.pix[i+2], b.pix[i+2])
		out.Pix[i+3] = 0xFF
	}
	return out, nil
}

func absDelta(p, q uint8) uint8 {
	if p > q {
		return p - q
	}
	return q - p
}
