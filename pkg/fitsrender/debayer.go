package fitsrender

import "fmt"

// DemosaicBilinear performs bilinear interpolation on an 8-bit Bayer mosaic.
//
// For each pixel the sampled channel is taken as-is. A missing channel is
// the mean of the nearest sites carrying it: the two horizontal or two
// vertical neighbors when they share a row or column with it, otherwise the
// four diagonal (or four cross) neighbors.
//
// Neighbors outside the frame are skipped, and only neighbors that carry the
// wanted channel are averaged, so edge pixels never mix channels.
func DemosaicBilinear(plane *Plane8, pattern BayerPattern) (*ColorImage, error) {
	if !pattern.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilterArrangement, pattern)
	}
	if err := plane.checkShape(); err != nil {
		return nil, err
	}
	width, height := plane.Width, plane.Height
	out := NewColorImage(width, height)

	inBounds := func(x, y int) bool { return x >= 0 && x < width && y >= 0 && y < height }

	// mean over neighbor offsets that are inside the frame and carry ch.
	mean := func(x, y, ch int, offsets [][2]int) (uint8, bool) {
		sum, n := 0, 0
		for _, o := range offsets {
			nx, ny := x+o[0], y+o[1]
			if !inBounds(nx, ny) || pattern.ChannelAt(nx, ny) != ch {
				continue
			}
			sum += int(plane.Pix[ny*width+nx])
			n++
		}
		if n == 0 {
			return 0, false
		}
		return uint8((sum + n/2) / n), true
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			own := pattern.ChannelAt(x, y)
			var rgb [3]uint8
			for ch := 0; ch < 3; ch++ {
				if ch == own {
					rgb[ch] = plane.Pix[y*width+x]
					continue
				}
				v, ok := mean(x, y, ch, crossOffsets)
				if !ok {
					v, ok = mean(x, y, ch, diagonalOffsets)
				}
				if !ok {
					// Frames narrower than a tile: take any site with ch in the 3x3 window.
					v, _ = mean(x, y, ch, windowOffsets)
				}
				rgb[ch] = v
			}
			out.SetRGB(x, y, rgb)
		}
	}
	return out, nil
}

var (
	crossOffsets    = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonalOffsets = [][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	windowOffsets   = [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
)

func (p *Plane8) checkShape() error {
	if p == nil {
		return fmt.Errorf("%w: malformed mosaic plane", ErrInvalidFrameShape)
	}
	if n, ok := pixelCount(p.Width, p.Height); !ok || len(p.Pix) != n {
		return fmt.Errorf("%w: malformed mosaic plane", ErrInvalidFrameShape)
	}
	return nil
}

// Reconstruct normalizes a raw frame to 8 bits and demosaics it with the
// active backend. The pattern is checked before the frame is touched.
func Reconstruct(frame *RawFrame, pattern BayerPattern) (*ColorImage, error) {
	if !pattern.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilterArrangement, pattern)
	}
	plane, err := Normalize(frame)
	if err != nil {
		return nil, err
	}
	return Demosaic(plane, pattern)
}
