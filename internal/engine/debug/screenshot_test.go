package debug

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 6, 7_000_000, time.UTC)
}

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"png", "shot_2024-03-09_14-05-06.007.png"},
		{"WEBP", "shot_2024-03-09_14-05-06.007.webp"},
		{"gif", "shot_2024-03-09_14-05-06.007.png"},
	}
	for _, tt := range tests {
		sc := NewScreenshotCapture("out", "shot", tt.format)
		sc.now = fixedClock
		if got := sc.GenerateFilename(); got != filepath.Join("out", tt.want) {
			t.Errorf("format %q: GenerateFilename() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "screens")
	sc := NewScreenshotCapture(dir, "frame", FormatPNG)

	// Bottom row (first in memory) red, top row green.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 255, 0, 255, 0, 255, 0, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 2, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("top-left = %v, want green", got)
	}
	if got := color.RGBAModel.Convert(img.At(1, 1)).(color.RGBA); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom-right = %v, want red", got)
	}
}

func TestCaptureWebP(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "frame", FormatWebP)
	path, err := sc.CaptureFromPixels(make([]byte, 4*4*4), 4, 4)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}
	if !strings.HasSuffix(path, ".webp") {
		t.Errorf("path = %q, want .webp", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Errorf("output is not a WebP container: % x", data[:min(len(data), 12)])
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "frame", FormatPNG)
	if _, err := sc.CaptureFromPixels(make([]byte, 10), 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := sc.CaptureFromPixels(nil, 0, 0); err == nil {
		t.Error("expected invalid size error")
	}
}
