package cvfx

import (
	"image"

	"pixel-retouch/internal/applog"
	"pixel-retouch/internal/effect"
	pximage "pixel-retouch/internal/image"

	"gocv.io/x/gocv"
)

// DefaultKernel is the box filter size used by Smooth.
const DefaultKernel = 5

// Smooth is a deterministic box blur over the brush footprint. Unlike
// effect.Blur it gives the same output for the same input. The filter's
// border handling reflects inside the footprint, so no pixels outside it
// are read.
type Smooth struct {
	Kernel int
}

// NewSmooth returns a Smooth with the default kernel.
func NewSmooth() *Smooth {
	return &Smooth{Kernel: DefaultKernel}
}

// Apply implements effect.Operator.
func (s *Smooth) Apply(buf *pximage.Buffer, cx, cy, size int) {
	rect := effect.Footprint(cx, cy, size, buf.Width(), buf.Height())
	if rect.Empty() {
		return
	}
	k := s.Kernel
	if k <= 1 {
		k = DefaultKernel
	}

	r := buf.Region(rect.X, rect.Y, rect.Width, rect.Height)
	src, err := RegionToMat(r)
	if err != nil {
		applog.Logger().Warn("smooth: convert region", "rect", rect, "err", err)
		return
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Blur(src, &dst, image.Point{X: k, Y: k})

	if err := copyColorChannels(dst, r); err != nil {
		applog.Logger().Warn("smooth: copy result", "rect", rect, "err", err)
		return
	}
	if err := buf.PutRegion(r); err != nil {
		applog.Logger().Warn("smooth: write back", "rect", rect, "err", err)
	}
}
