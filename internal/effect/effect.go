// Package effect implements the local pixel operators applied under the brush.
//
// Every operator works on the square footprint of side size around a
// center point, clamped to the buffer. Operators never fail: an empty
// footprint is a no-op, and nothing outside the footprint is read or written.
package effect

import (
	"fmt"
	"strings"

	pximage "pixel-retouch/internal/image"
	"pixel-retouch/pkg/geometry"
)

// Kind identifies an operator.
type Kind int

const (
	KindRepair Kind = iota
	KindBlur
	KindPixelate
	KindSmooth
)

func (k Kind) String() string {
	switch k {
	case KindRepair:
		return "repair"
	case KindBlur:
		return "blur"
	case KindPixelate:
		return "pixelate"
	case KindSmooth:
		return "smooth"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Label returns a human-readable name for menus.
func (k Kind) Label() string {
	switch k {
	case KindRepair:
		return "Repair"
	case KindBlur:
		return "Blur"
	case KindPixelate:
		return "Pixelate"
	case KindSmooth:
		return "Smooth"
	default:
		return "Unknown"
	}
}

// Kinds lists the kinds in display order.
func Kinds() []Kind {
	return []Kind{KindRepair, KindBlur, KindPixelate, KindSmooth}
}

// ParseKind parses a kind name as produced by String.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

// Operator mutates the footprint around (cx, cy) in place.
type Operator interface {
	Apply(buf *pximage.Buffer, cx, cy, size int)
}

// OperatorFunc adapts a function to Operator.
type OperatorFunc func(buf *pximage.Buffer, cx, cy, size int)

// Apply implements Operator.
func (f OperatorFunc) Apply(buf *pximage.Buffer, cx, cy, size int) {
	f(buf, cx, cy, size)
}

// Footprint returns the brush rectangle for a center and size in a
// width x height buffer: the size x size square whose top-left corner is
// (cx-ceil(size/2), cy-ceil(size/2)), clipped to the buffer. A brush that
// does not overlap the buffer at all yields an empty rectangle.
func Footprint(cx, cy, size, width, height int) geometry.RectInt {
	if size <= 0 {
		return geometry.RectInt{}
	}
	half := (size + 1) / 2
	x0, y0 := cx-half, cy-half
	x1, y1 := min(x0+size, width), min(y0+size, height)
	x0, y0 = max(0, x0), max(0, y0)
	if x1 <= x0 || y1 <= y0 {
		return geometry.RectInt{}
	}
	return geometry.RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// withRegion reads the footprint, lets fn mutate the copy, and writes it back.
func withRegion(buf *pximage.Buffer, cx, cy, size int, fn func(r *pximage.Region)) {
	rect := Footprint(cx, cy, size, buf.Width(), buf.Height())
	if rect.Empty() {
		return
	}
	r := buf.Region(rect.X, rect.Y, rect.Width, rect.Height)
	if r.Empty() {
		return
	}
	fn(r)
	if err := buf.PutRegion(r); err != nil {
		// Footprint is always inside the buffer, so this is a programming error.
		panic(fmt.Sprintf("effect: write back %v: %v", rect, err))
	}
}
