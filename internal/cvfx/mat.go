// Package cvfx provides OpenCV-backed operators and Mat conversions.
package cvfx

import (
	"fmt"

	pximage "pixel-retouch/internal/image"

	"gocv.io/x/gocv"
)

// RegionToMat copies a region into a new 4-channel Mat (RGBA byte order).
// The caller must Close the result.
func RegionToMat(r *pximage.Region) (gocv.Mat, error) {
	if r.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty region")
	}
	mat, err := gocv.NewMatFromBytes(r.H, r.W, gocv.MatTypeCV8UC4, r.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mat: %w", err)
	}
	return mat, nil
}

// BufferToBGR converts a whole buffer into a 3-channel BGR Mat, the layout
// OpenCV functions expect. The caller must Close the result.
func BufferToBGR(b *pximage.Buffer) (gocv.Mat, error) {
	rgba, err := gocv.NewMatFromBytes(b.Height(), b.Width(), gocv.MatTypeCV8UC4, b.Pix())
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mat: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// copyColorChannels writes the R, G, B bytes of a 4-channel Mat back into
// the region, leaving alpha as it was.
func copyColorChannels(mat gocv.Mat, r *pximage.Region) error {
	data := mat.ToBytes()
	if len(data) != len(r.Pix) {
		return fmt.Errorf("mat holds %d bytes, region %d: %w", len(data), len(r.Pix), pximage.ErrSizeMismatch)
	}
	for i := 0; i < len(r.Pix); i += 4 {
		r.Pix[i] = data[i]
		r.Pix[i+1] = data[i+1]
		r.Pix[i+2] = data[i+2]
	}
	return nil
}
