package effect

import (
	pximage "pixel-retouch/internal/image"
)

// DefaultBlockSize is the side of a pixelation block.
const DefaultBlockSize = 8

// Pixelate quantizes the footprint into blocks anchored at its top-left
// corner. Each block takes the R, G, B of its own top-left pixel; partial
// blocks at the right and bottom edges use what remains. Alpha is kept.
type Pixelate struct {
	BlockSize int
}

// NewPixelate returns a Pixelate with the default block size.
func NewPixelate() *Pixelate {
	return &Pixelate{BlockSize: DefaultBlockSize}
}

// Apply implements Operator.
func (p *Pixelate) Apply(buf *pximage.Buffer, cx, cy, size int) {
	block := p.BlockSize
	if block <= 0 {
		block = DefaultBlockSize
	}
	withRegion(buf, cx, cy, size, func(r *pximage.Region) {
		pixelateRegion(r, block)
	})
}

func pixelateRegion(r *pximage.Region, block int) {
	for by := 0; by < r.H; by += block {
		for bx := 0; bx < r.W; bx += block {
			src := r.Offset(bx, by)
			red, green, blue := r.Pix[src], r.Pix[src+1], r.Pix[src+2]

			for y := by; y < by+block && y < r.H; y++ {
				for x := bx; x < bx+block && x < r.W; x++ {
					i := r.Offset(x, y)
					r.Pix[i] = red
					r.Pix[i+1] = green
					r.Pix[i+2] = blue
				}
			}
		}
	}
}
