package icons

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder

	"golang.org/x/image/draw"
)

// Thumbnail downscales an image so neither dimension exceeds maxDim,
// preserving aspect ratio, and re-encodes it as PNG. Images already within
// bounds come back unchanged. Bytes that do not decode as PNG, JPEG, or GIF
// return an error; callers keep the original bytes in that case.
func Thumbnail(data []byte, maxDim int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return data, nil
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
