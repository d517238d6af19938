// Package imaging converts arbitrary raster images into stored icon form:
// a 108x108 PNG on a white background, the same shape the upload page
// produces in the browser.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	// decoders
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/sagarc03/iconbox"
)

// Size is the edge length of a normalized icon in pixels.
const Size = 108

// Normalize decodes a PNG, JPEG, GIF or WebP image and stretches it onto a
// white Size x Size canvas. Aspect ratio is not preserved. Transparent
// regions become white.
func Normalize(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w: %w", iconbox.ErrInvalidInput, err)
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("normalize: %w: empty image", iconbox.ErrInvalidInput)
	}

	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("normalize: encode: %w", err)
	}
	return out.Bytes(), nil
}
