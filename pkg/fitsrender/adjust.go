package fitsrender

import (
	"image"
	"math"

	"github.com/disintegration/gift"
)

// ApplyGain multiplies every channel by gain, clamps to [0, 255] and
// truncates to 8 bits. Zero or negative gain is accepted and darkens the
// image to black.
func ApplyGain(img *ColorImage, gain float64) *ColorImage {
	out := &ColorImage{Pix: make([]uint8, len(img.Pix)), Width: img.Width, Height: img.Height}
	var lut [256]uint8
	for v := range lut {
		x := float64(v) * gain
		if math.IsNaN(x) {
			x = 0
		}
		lut[v] = uint8(clampFloat64(x, 0, 255))
	}
	for i, v := range img.Pix {
		out.Pix[i] = lut[v]
	}
	return out
}

// Rotate180 rotates the image half a turn about its center. The output has
// the same dimensions as the input.
func Rotate180(img *ColorImage) *ColorImage {
	g := gift.New(gift.Rotate180())
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img.ToRGBA())
	return colorImageFromRGBA(dst)
}
