package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 40), B: 90, A: 255})
		}
	}
	return img
}

func TestEncodeHeaders(t *testing.T) {
	tests := []struct {
		format Format
		magic  []byte
	}{
		{PNG, []byte("\x89PNG")},
		{JPEG, []byte{0xFF, 0xD8}},
		{TIFF, []byte("II*\x00")},
		{BMP, []byte("BM")},
		{PDF, []byte("%PDF")},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, sample(), tt.format, Options{}); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), tt.magic) {
				t.Errorf("Encode() output starts %q, want %q", buf.Bytes()[:min(8, buf.Len())], tt.magic)
			}
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, sample(), Format(99), Options{})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Encode(99) = %v, want ErrUnknownFormat", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.png", PNG, false},
		{"OUT.JPG", JPEG, false},
		{"a/b.jpeg", JPEG, false},
		{"scan.tiff", TIFF, false},
		{"scan.tif", TIFF, false},
		{"x.bmp", BMP, false},
		{"doc.pdf", PDF, false},
		{"noext", PNG, true},
		{"pic.webp", PNG, true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.png")
	img := sample()
	if err := Save(path, img, Options{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
	want := img.NRGBAAt(3, 2)
	if c := color.NRGBAModel.Convert(got.At(3, 2)); c != want {
		t.Errorf("pixel (3,2) = %v, want %v", c, want)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the result", len(entries))
	}
}

func TestSaveFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	for _, name := range []string{"out.png", "out.jpg", "out.pdf"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(path, sample(), Options{}); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := info.Mode().Perm(); got != 0o644 {
			t.Errorf("Save(%s) mode = %v, want %v", name, got, os.FileMode(0o644))
		}
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xyz")
	if err := Save(path, sample(), Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Save(.xyz) = %v, want ErrUnknownFormat", err)
	}
}

func TestDefaultFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got, want := DefaultFilename(now), "removed_watermark_1700000000123.png"; got != want {
		t.Errorf("DefaultFilename() = %q, want %q", got, want)
	}
}
