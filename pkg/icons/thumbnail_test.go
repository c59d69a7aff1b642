package icons

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestThumbnailDownscales(t *testing.T) {
	data := encodePNG(t, 300, 200)

	thumb, err := Thumbnail(data, 128)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 128 {
		t.Errorf("width = %d, want 128", b.Dx())
	}
	if b.Dy() != 85 {
		t.Errorf("height = %d, want 85 (aspect preserved)", b.Dy())
	}
}

func TestThumbnailTallImage(t *testing.T) {
	data := encodePNG(t, 100, 400)

	thumb, err := Thumbnail(data, 128)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if img.Bounds().Dy() != 128 {
		t.Errorf("height = %d, want 128", img.Bounds().Dy())
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("width = %d, want 32", img.Bounds().Dx())
	}
}

func TestThumbnailSmallImageUnchanged(t *testing.T) {
	data := encodePNG(t, 64, 48)

	thumb, err := Thumbnail(data, 128)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}
	if !bytes.Equal(thumb, data) {
		t.Error("small image was re-encoded, want original bytes")
	}
}

func TestThumbnailUndecodableBytes(t *testing.T) {
	if _, err := Thumbnail([]byte("definitely not an image"), 128); err == nil {
		t.Error("Thumbnail(garbage) succeeded, want error")
	}
}
