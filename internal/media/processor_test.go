package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strconv"
	"strings"
	"testing"
	"time"
)

func testImage(t *testing.T, width, height int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(buf *bytes.Buffer, img image.Image) error {
	return jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
}

func encodePNG(buf *bytes.Buffer, img image.Image) error {
	return png.Encode(buf, img)
}

func TestProcessJPEG(t *testing.T) {
	p := NewProcessor()
	data := testImage(t, 800, 600, encodeJPEG)

	result, err := p.Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Width != 800 || result.Height != 600 {
		t.Errorf("dimensions = %dx%d, want 800x600", result.Width, result.Height)
	}
	if result.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q", result.MimeType)
	}
	if result.Ext != "jpg" {
		t.Errorf("Ext = %q", result.Ext)
	}
	if len(result.Data) == 0 {
		t.Error("processed data is empty")
	}
}

func TestProcessScalesDownWideImages(t *testing.T) {
	p := NewProcessor()
	data := testImage(t, MaxCoverWidth*2, 400, encodeJPEG)

	result, err := p.Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Width != MaxCoverWidth {
		t.Errorf("Width = %d, want %d", result.Width, MaxCoverWidth)
	}
	if result.Height != 200 {
		t.Errorf("Height = %d, want 200 (aspect preserved)", result.Height)
	}
}

func TestProcessPNGKeepsFormat(t *testing.T) {
	p := NewProcessor()
	data := testImage(t, 100, 100, encodePNG)

	result, err := p.Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", result.MimeType)
	}
	if result.Ext != "png" {
		t.Errorf("Ext = %q, want png", result.Ext)
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	p := NewProcessor()
	if _, err := p.Process(strings.NewReader("not an image at all")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestIsSupportedType(t *testing.T) {
	p := NewProcessor()
	for _, mime := range []string{"image/jpeg", "image/png", "image/gif", "image/webp"} {
		if !p.IsSupportedType(mime) {
			t.Errorf("IsSupportedType(%q) = false", mime)
		}
	}
	for _, mime := range []string{"image/tiff", "application/pdf", "text/html"} {
		if p.IsSupportedType(mime) {
			t.Errorf("IsSupportedType(%q) = true", mime)
		}
	}
}

func TestDetectMimeType(t *testing.T) {
	p := NewProcessor()
	data := testImage(t, 10, 10, encodePNG)
	if got := p.DetectMimeType(data); got != "image/png" {
		t.Errorf("DetectMimeType = %q", got)
	}
}

func TestCoverKey(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	key := CoverKey("jpg", now)
	if !strings.HasPrefix(key, "covers/"+strconv.FormatInt(now.Unix(), 10)+"-") {
		t.Errorf("key = %q, want covers/<unix>- prefix", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key = %q, want .jpg suffix", key)
	}

	// Dotted extensions and empty extensions normalize
	if key := CoverKey(".png", now); !strings.HasSuffix(key, ".png") {
		t.Errorf("key = %q, want .png suffix", key)
	}
	if key := CoverKey("", now); !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key = %q, want .jpg fallback", key)
	}

	// Two keys for the same instant must not collide
	if CoverKey("jpg", now) == CoverKey("jpg", now) {
		t.Error("consecutive keys should differ")
	}
}

func TestExtFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.JPG", "jpg"},
		{"photo.jpeg", "jpg"},
		{"diagram.png", "png"},
		{"anim.gif", "gif"},
		{"modern.webp", "webp"},
		{"noext", "jpg"},
	}
	for _, tt := range tests {
		if got := ExtFromFilename(tt.filename); got != tt.want {
			t.Errorf("ExtFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
