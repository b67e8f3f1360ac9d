package effect

import (
	"math/rand/v2"
	"time"

	pximage "pixel-retouch/internal/image"
	"pixel-retouch/pkg/colorutil"
)

// DefaultBlurReach is the largest horizontal sampling offset of Blur.
const DefaultBlurReach = 2

// Blur is an approximate, randomized smudge rather than a convolution.
// About half of the pixels in the footprint are averaged with a pixel up to
// Reach columns away in the same row. Samples come from a copy taken before
// the pass, so one application does not compound; repeated strokes do.
// Output depends on the random source and is not reproducible unless the
// source is seeded.
type Blur struct {
	Reach int
	rng   *rand.Rand
}

// NewBlur returns a Blur seeded from the clock.
func NewBlur() *Blur {
	now := uint64(time.Now().UnixNano())
	return NewSeededBlur(now, now>>32)
}

// NewSeededBlur returns a Blur with a reproducible random sequence.
func NewSeededBlur(seed1, seed2 uint64) *Blur {
	return &Blur{
		Reach: DefaultBlurReach,
		rng:   rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Apply implements Operator.
func (p *Blur) Apply(buf *pximage.Buffer, cx, cy, size int) {
	if p.rng == nil {
		p.rng = NewBlur().rng
	}
	reach := p.Reach
	if reach <= 0 {
		reach = DefaultBlurReach
	}
	withRegion(buf, cx, cy, size, func(r *pximage.Region) {
		blurRegion(r, reach, p.rng)
	})
}

func blurRegion(r *pximage.Region, reach int, rng *rand.Rand) {
	src := r.Clone()
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			if rng.Float64() <= 0.5 {
				continue
			}
			sx := x + rng.IntN(2*reach+1) - reach
			if sx < 0 || sx >= r.W {
				continue
			}
			i := r.Offset(x, y)
			j := src.Offset(sx, y)
			r.Pix[i] = colorutil.Average(src.Pix[i], src.Pix[j])
			r.Pix[i+1] = colorutil.Average(src.Pix[i+1], src.Pix[j+1])
			r.Pix[i+2] = colorutil.Average(src.Pix[i+2], src.Pix[j+2])
		}
	}
}
