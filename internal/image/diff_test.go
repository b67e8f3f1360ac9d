package image

import (
	"errors"
	"image/color"
	"testing"

	"pixel-retouch/pkg/geometry"
)

func TestDiff(t *testing.T) {
	a, _ := NewBuffer(10, 8)
	b := a.Clone()

	st, err := Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if st.Changed != 0 || !st.Bounds.Empty() {
		t.Errorf("Diff(identical) = %+v, want no changes", st)
	}

	_ = b.Set(2, 3, color.NRGBA{R: 10})
	_ = b.Set(7, 5, color.NRGBA{B: 200, A: 40})
	st, err = Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := DiffStats{Changed: 2, Bounds: geometry.RectInt{X: 2, Y: 3, Width: 6, Height: 3}, MaxDelta: 200}
	if st != want {
		t.Errorf("Diff() = %+v, want %+v", st, want)
	}

	c, _ := NewBuffer(4, 4)
	if _, err := Diff(a, c); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Diff(mismatched) error = %v, want ErrSizeMismatch", err)
	}
}

func TestDifferenceImage(t *testing.T) {
	a, _ := NewBuffer(3, 1)
	b := a.Clone()
	_ = a.Set(1, 0, color.NRGBA{R: 50, G: 10, A: 255})
	_ = b.Set(1, 0, color.NRGBA{R: 20, G: 30, A: 255})

	img, err := DifferenceImage(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.NRGBAAt(1, 0), (color.NRGBA{R: 30, G: 20, B: 0, A: 255}); got != want {
		t.Errorf("pixel (1,0) = %v, want %v", got, want)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{A: 255}) {
		t.Errorf("unchanged pixel = %v, want opaque black", got)
	}
}
