package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pximage "pixel-retouch/internal/image"
	"pixel-retouch/pkg/geometry"
)

func TestParseStrokes(t *testing.T) {
	tests := []struct {
		in      string
		want    [][]geometry.PointInt
		wantErr bool
	}{
		{"", nil, false},
		{"1,2", [][]geometry.PointInt{{{X: 1, Y: 2}}}, false},
		{"1,2 3,4; 5,6", [][]geometry.PointInt{{{X: 1, Y: 2}, {X: 3, Y: 4}}, {{X: 5, Y: 6}}}, false},
		{" ; 7,8 ;", [][]geometry.PointInt{{{X: 7, Y: 8}}}, false},
		{"1,2,3", nil, true},
		{"a,b", nil, true},
	}
	for _, tt := range tests {
		got, err := parseStrokes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseStrokes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseStrokes(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if len(got[i]) != len(tt.want[i]) {
				t.Errorf("parseStrokes(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				continue
			}
			for j := range got[i] {
				if got[i][j] != tt.want[i][j] {
					t.Errorf("parseStrokes(%q)[%d][%d] = %v, want %v", tt.in, i, j, got[i][j], tt.want[i][j])
				}
			}
		}
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    geometry.RectInt
		wantErr bool
	}{
		{"1,2,3,4", geometry.RectInt{X: 1, Y: 2, Width: 3, Height: 4}, false},
		{" -5, 0, 10, 10", geometry.RectInt{X: -5, Width: 10, Height: 10}, false},
		{"1,2,0,4", geometry.RectInt{}, true},
		{"1,2,3", geometry.RectInt{}, true},
		{"x,2,3,4", geometry.RectInt{}, true},
	}
	for _, tt := range tests {
		got, err := parseRect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRect(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSplitLanguages(t *testing.T) {
	got := splitLanguages("eng+ deu +")
	if len(got) != 2 || got[0] != "eng" || got[1] != "deu" {
		t.Errorf("splitLanguages() = %v, want [eng deu]", got)
	}
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: uint8(x ^ y), A: 255})
		}
	}
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunPixelatesRect(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	diff := filepath.Join(dir, "diff.png")
	code := run([]string{"-in", in, "-out", out, "-diff", diff, "-op", "pixelate", "-radius", "16", "-rect", "8,8,16,16"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr = %s", code, stderr.String())
	}

	orig, err := pximage.Load(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := pximage.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if got.Equal(orig) {
		t.Error("output equals input")
	}
	// Far corner is outside every brush square.
	a, _ := got.At(60, 44)
	b, _ := orig.At(60, 44)
	if a != b {
		t.Errorf("pixel (60,44) = %v, want unchanged %v", a, b)
	}
	if !strings.Contains(stdout.String(), "Wrote "+out) {
		t.Errorf("stdout = %q", stdout.String())
	}
	if _, err := os.Stat(diff); err != nil {
		t.Errorf("diff image missing: %v", err)
	}
	st, err := pximage.Diff(orig, got)
	if err != nil {
		t.Fatal(err)
	}
	if st.Bounds.X < 8 || st.Bounds.Y < 8 || st.Bounds.X+st.Bounds.Width > 24 || st.Bounds.Y+st.Bounds.Height > 24 {
		t.Errorf("changed bounds %+v outside the brush square 8,8 16x16", st.Bounds)
	}
}

func TestRunStrokeWithDefaultName(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	t.Chdir(dir)
	nowFunc = func() time.Time { return time.UnixMilli(1234) }
	t.Cleanup(func() { nowFunc = time.Now })

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", in, "-op", "blur", "-seed", "3", "-stroke", "5,5 40,5"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr = %s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "removed_watermark_1234.png")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no input", nil, 2},
		{"bad flag", []string{"-nope"}, 2},
		{"bad rect", []string{"-in", in, "-rect", "1,2"}, 2},
		{"missing file", []string{"-in", filepath.Join(dir, "missing.png")}, 1},
		{"bad operator", []string{"-in", in, "-op", "sharpen"}, 2},
		{"bad stroke", []string{"-in", in, "-stroke", "1;2"}, 2},
		{"bad operator without input", []string{"-op", "sharpen"}, 2},
		{"bad output", []string{"-in", in, "-out", filepath.Join(dir, "out.xyz")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := run(tt.args, &stdout, &stderr); got != tt.want {
				t.Errorf("run(%v) = %d, want %d (stderr %q)", tt.args, got, tt.want, stderr.String())
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(-version) = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "pixel-retouch ") {
		t.Errorf("version output = %q", stdout.String())
	}
}
