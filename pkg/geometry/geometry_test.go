package geometry

import (
	"errors"
	"testing"
)

func TestMapToBuffer(t *testing.T) {
	tests := []struct {
		name string
		p    Point2D
		box  Rect
		w, h int
		want PointInt
	}{
		{"identity", Point2D{50, 50}, Rect{0, 0, 100, 100}, 100, 100, PointInt{50, 50}},
		{"offset box", Point2D{60, 30}, Rect{10, 20, 100, 100}, 100, 100, PointInt{50, 10}},
		{"downscaled display", Point2D{25, 25}, Rect{0, 0, 50, 50}, 200, 100, PointInt{100, 50}},
		{"rounds to nearest", Point2D{10.3, 10.6}, Rect{0, 0, 30, 30}, 90, 90, PointInt{31, 32}},
		{"outside box", Point2D{-5, 0}, Rect{0, 0, 10, 10}, 10, 10, PointInt{-5, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapToBuffer(tt.p, tt.box, tt.w, tt.h)
			if err != nil {
				t.Fatalf("MapToBuffer() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MapToBuffer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapToBufferZeroBox(t *testing.T) {
	for _, box := range []Rect{{0, 0, 0, 10}, {0, 0, 10, 0}, {5, 5, 0, 0}} {
		if _, err := MapToBuffer(Point2D{1, 1}, box, 100, 100); !errors.Is(err, ErrInvalidMapping) {
			t.Errorf("MapToBuffer(box=%v) error = %v, want ErrInvalidMapping", box, err)
		}
	}
}

func TestFitContain(t *testing.T) {
	got := FitContain(Size{Width: 400, Height: 300}, 200, 200)
	want := Rect{X: 50, Y: 0, Width: 300, Height: 300}
	if got != want {
		t.Errorf("FitContain() = %v, want %v", got, want)
	}
	if r := FitContain(Size{}, 10, 10); r != (Rect{}) {
		t.Errorf("FitContain(empty) = %v, want zero", r)
	}
}

func TestRectIntClamp(t *testing.T) {
	tests := []struct {
		in   RectInt
		want RectInt
	}{
		{RectInt{-5, -5, 20, 20}, RectInt{0, 0, 15, 15}},
		{RectInt{90, 90, 20, 20}, RectInt{90, 90, 10, 10}},
		{RectInt{150, 10, 5, 5}, RectInt{150, 10, 0, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp(100, 100); got != tt.want {
			t.Errorf("%v.Clamp(100,100) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLerp(t *testing.T) {
	got := Lerp(PointInt{0, 0}, PointInt{8, 0}, 3)
	want := []PointInt{{2, 0}, {4, 0}, {6, 0}}
	if len(got) != len(want) {
		t.Fatalf("Lerp() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lerp()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Lerp(PointInt{}, PointInt{1, 1}, 0) != nil {
		t.Error("Lerp(n=0) should be nil")
	}
}
