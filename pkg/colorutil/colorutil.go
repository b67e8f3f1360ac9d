// Package colorutil provides shared color utilities for the retouch application.
package colorutil

import (
	"image/color"
	"math"
)

// Accent colors used by the UI.
var (
	Teal       = color.NRGBA{R: 0x14, G: 0xB8, B: 0xA6, A: 0xFF}
	TealDark   = color.NRGBA{R: 0x0D, G: 0x94, B: 0x88, A: 0xFF}
	BrushGhost = color.NRGBA{R: 0x14, G: 0xB8, B: 0xA6, A: 0x80}
)

// ClampByte converts v to a byte the way a clamped byte array stores a
// number: clamp to [0,255], then round half to even.
func ClampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// Blend returns orig*keep + fill*(1-keep) for a single channel.
func Blend(orig, fill uint8, keep float64) uint8 {
	return ClampByte(float64(orig)*keep + float64(fill)*(1-keep))
}

// Average returns the mean of two channel values, rounded half to even.
func Average(a, b uint8) uint8 {
	return ClampByte((float64(a) + float64(b)) / 2)
}
