package effect

import (
	"math"

	pximage "pixel-retouch/internal/image"
	"pixel-retouch/pkg/colorutil"

	"gonum.org/v1/gonum/stat"
)

// DefaultRepairKeep is the share of the original pixel kept by Repair.
const DefaultRepairKeep = 0.2

// Repair is a cheap fill: it averages the top and bottom rows of the
// footprint into one color and pulls every pixel most of the way toward it.
// Keeping a fraction of the original leaves some texture behind on
// non-flat backgrounds. It is not content-aware inpainting.
type Repair struct {
	Keep float64
}

// NewRepair returns a Repair with the default blend.
func NewRepair() *Repair {
	return &Repair{Keep: DefaultRepairKeep}
}

// Apply implements Operator.
func (p *Repair) Apply(buf *pximage.Buffer, cx, cy, size int) {
	withRegion(buf, cx, cy, size, func(r *pximage.Region) {
		repairRegion(r, p.Keep)
	})
}

// edgeFill returns the floored per-channel mean of the top and bottom rows.
// A one-row region counts that row twice.
func edgeFill(r *pximage.Region) [3]uint8 {
	samples := [3][]float64{}
	for c := range samples {
		samples[c] = make([]float64, 0, 2*r.W)
	}
	for x := 0; x < r.W; x++ {
		top := r.Offset(x, 0)
		bottom := r.Offset(x, r.H-1)
		for c := 0; c < 3; c++ {
			samples[c] = append(samples[c], float64(r.Pix[top+c]), float64(r.Pix[bottom+c]))
		}
	}
	var fill [3]uint8
	for c := range fill {
		fill[c] = uint8(math.Floor(stat.Mean(samples[c], nil)))
	}
	return fill
}

func repairRegion(r *pximage.Region, keep float64) {
	fill := edgeFill(r)
	for i := 0; i < len(r.Pix); i += 4 {
		r.Pix[i] = colorutil.Blend(r.Pix[i], fill[0], keep)
		r.Pix[i+1] = colorutil.Blend(r.Pix[i+1], fill[1], keep)
		r.Pix[i+2] = colorutil.Blend(r.Pix[i+2], fill[2], keep)
	}
}
