package fitsrender

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/bits"
)

// RawFrame is a single-channel sensor frame as read from the primary HDU.
// Samples are physical values (BZERO/BSCALE applied), row-major.
type RawFrame struct {
	Samples []float64
	Width   int
	Height  int
	BitPix  int
	Header  *FitsMetadata
}

// NewRawFrame wraps samples in a RawFrame, checking that they form a
// non-empty width x height array.
func NewRawFrame(samples []float64, width, height int) (*RawFrame, error) {
	f := &RawFrame{Samples: samples, Width: width, Height: height, BitPix: -64, Header: NewFitsMetadata()}
	if err := f.checkShape(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RawFrame) checkShape() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrameShape)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrameShape, f.Width, f.Height)
	}
	n, ok := pixelCount(f.Width, f.Height)
	if !ok || len(f.Samples) != n {
		return fmt.Errorf("%w: %d samples for %dx%d frame", ErrInvalidFrameShape, len(f.Samples), f.Width, f.Height)
	}
	return nil
}

// pixelCount returns a*b, or false when either factor is not positive or
// the product does not fit in an int.
func pixelCount(a, b int) (int, bool) {
	if a <= 0 || b <= 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// Plane8 is an 8-bit single-channel plane, the normalized mosaic.
type Plane8 struct {
	Pix    []uint8
	Width  int
	Height int
}

// ColorImage is an 8-bit interleaved RGB image, Height x Width x 3.
type ColorImage struct {
	Pix    []uint8
	Width  int
	Height int
}

// NewColorImage allocates a zeroed image.
func NewColorImage(width, height int) *ColorImage {
	return &ColorImage{Pix: make([]uint8, width*height*3), Width: width, Height: height}
}

// RGB returns the channel values at (x, y).
func (c *ColorImage) RGB(x, y int) [3]uint8 {
	i := (y*c.Width + x) * 3
	return [3]uint8{c.Pix[i], c.Pix[i+1], c.Pix[i+2]}
}

// SetRGB sets the channel values at (x, y).
func (c *ColorImage) SetRGB(x, y int, v [3]uint8) {
	i := (y*c.Width + x) * 3
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = v[0], v[1], v[2]
}

func (c *ColorImage) Clone() *ColorImage {
	pix := make([]uint8, len(c.Pix))
	copy(pix, c.Pix)
	return &ColorImage{Pix: pix, Width: c.Width, Height: c.Height}
}

// ColorImage implements image.Image so it can be handed to encoders and filters.

func (c *ColorImage) ColorModel() color.Model { return color.RGBAModel }
func (c *ColorImage) Bounds() image.Rectangle { return image.Rect(0, 0, c.Width, c.Height) }

func (c *ColorImage) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(c.Bounds())) {
		return color.RGBA{}
	}
	v := c.RGB(x, y)
	return color.RGBA{v[0], v[1], v[2], 255}
}

// ToRGBA returns an opaque RGBA copy.
func (c *ColorImage) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(c.Bounds())
	n := c.Width * c.Height
	for i := 0; i < n; i++ {
		dst.Pix[i*4] = c.Pix[i*3]
		dst.Pix[i*4+1] = c.Pix[i*3+1]
		dst.Pix[i*4+2] = c.Pix[i*3+2]
		dst.Pix[i*4+3] = 255
	}
	return dst
}

// colorImageFromRGBA drops alpha from an RGBA image.
func colorImageFromRGBA(src *image.RGBA) *ColorImage {
	b := src.Bounds()
	out := NewColorImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < b.Dx(); x++ {
			o := (y*out.Width + x) * 3
			out.Pix[o] = row[x*4]
			out.Pix[o+1] = row[x*4+1]
			out.Pix[o+2] = row[x*4+2]
		}
	}
	return out
}
