package geometry

import (
	"errors"
	"math"
)

// ErrInvalidMapping is returned when a render box has no area.
var ErrInvalidMapping = errors.New("invalid mapping: render box has zero size")

// MapToBuffer converts a display-space position into buffer pixel space.
// box is the on-screen rectangle the buffer is rendered into; width and
// height are the buffer's native dimensions. The result is rounded to the
// nearest pixel and may lie outside the buffer when p lies outside box.
func MapToBuffer(p Point2D, box Rect, width, height int) (PointInt, error) {
	if box.Width <= 0 || box.Height <= 0 {
		return PointInt{}, ErrInvalidMapping
	}
	scaleX := float64(width) / box.Width
	scaleY := float64(height) / box.Height
	buf := Point2D{
		X: (p.X - box.X) * scaleX,
		Y: (p.Y - box.Y) * scaleY,
	}
	return buf.Round(), nil
}

// FitContain returns the rectangle an image of width x height occupies when
// scaled to fit inside container while keeping its aspect ratio, centered.
func FitContain(container Size, width, height int) Rect {
	if width <= 0 || height <= 0 || container.Width <= 0 || container.Height <= 0 {
		return Rect{}
	}
	scale := math.Min(container.Width/float64(width), container.Height/float64(height))
	w := float64(width) * scale
	h := float64(height) * scale
	return Rect{
		X:      (container.Width - w) / 2,
		Y:      (container.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}
