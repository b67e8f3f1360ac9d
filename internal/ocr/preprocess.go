package ocr

import (
	"image"

	"gocv.io/x/gocv"
)

// minTextHeight is the smallest image side Tesseract gets; smaller
// images are upscaled first.
const minTextHeight = 150

// upscaleFactor returns how much an image of the given size is enlarged.
func upscaleFactor(rows, cols int) float64 {
	minDim := min(rows, cols)
	if minDim <= 0 || minDim >= minTextHeight {
		return 1
	}
	return float64(minTextHeight) / float64(minDim)
}

// preprocess turns a BGR image into dark text on a light background:
// grayscale, CLAHE, Otsu threshold, inverted when mostly black.
// It returns the BGR result and the scale applied.
func preprocess(src gocv.Mat) (gocv.Mat, float64) {
	scale := upscaleFactor(src.Rows(), src.Cols())
	var scaled gocv.Mat
	if scale != 1 {
		scaled = gocv.NewMat()
		gocv.Resize(src, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = src.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{X: 8, Y: 8})
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Tesseract expects dark text on light paper.
	white := gocv.CountNonZero(binary)
	if total := binary.Rows() * binary.Cols(); total > 0 && float64(white)/float64(total) < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result, scale
}
