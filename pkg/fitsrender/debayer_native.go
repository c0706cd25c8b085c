//go:build !purego && !js

package fitsrender

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Backend names the demosaic implementation compiled into this build.
const Backend = "opencv"

// OpenCV names Bayer layouts by the second row's first two pixels, so the
// codes look shifted relative to the top-left tile names.
var opencvBayerCodes = map[BayerPattern]gocv.ColorConversionCode{
	PatternRGGB: gocv.ColorBayerBGToRGB,
	PatternBGGR: gocv.ColorBayerRGToRGB,
	PatternGRBG: gocv.ColorBayerGBToRGB,
	PatternGBRG: gocv.ColorBayerGRToRGB,
}

// Demosaic reconstructs an RGB image from an 8-bit mosaic using OpenCV's
// bilinear Bayer conversion. Frames without an interior row or column fall
// back to the pure Go demosaicer.
func Demosaic(plane *Plane8, pattern BayerPattern) (*ColorImage, error) {
	code, ok := opencvBayerCodes[pattern]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilterArrangement, pattern)
	}
	if err := plane.checkShape(); err != nil {
		return nil, err
	}
	if plane.Width < 3 || plane.Height < 3 {
		return DemosaicBilinear(plane, pattern)
	}

	src, err := gocv.NewMatFromBytes(plane.Height, plane.Width, gocv.MatTypeCV8U, plane.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrapping mosaic in Mat: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, code)
	if dst.Empty() || dst.Channels() != 3 {
		return nil, fmt.Errorf("%w: OpenCV produced %d channels", ErrInvalidFrameShape, dst.Channels())
	}

	out := NewColorImage(plane.Width, plane.Height)
	copy(out.Pix, dst.ToBytes())
	return out, nil
}
