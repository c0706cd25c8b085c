package fitsrender

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// finiteSamples returns samples with NaN and ±Inf removed. The input slice
// is returned as-is when every sample is finite.
func finiteSamples(samples []float64) []float64 {
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out := make([]float64, i, len(samples))
			copy(out, samples[:i])
			for _, w := range samples[i:] {
				if !math.IsNaN(w) && !math.IsInf(w, 0) {
					out = append(out, w)
				}
			}
			return out
		}
	}
	return samples
}

// Normalize rescales the frame linearly so that its minimum maps to 0 and its
// maximum to 255. A constant frame maps to 255 everywhere. Non-finite samples
// are ignored for the range and map to 0.
func Normalize(frame *RawFrame) (*Plane8, error) {
	if err := frame.checkShape(); err != nil {
		return nil, err
	}
	plane := &Plane8{Pix: make([]uint8, len(frame.Samples)), Width: frame.Width, Height: frame.Height}

	finite := finiteSamples(frame.Samples)
	if len(finite) == 0 {
		return plane, nil
	}
	lo, hi := floats.Min(finite), floats.Max(finite)

	if hi == lo {
		for i, v := range frame.Samples {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				plane.Pix[i] = 255
			}
		}
		return plane, nil
	}

	span := hi - lo
	for i, v := range frame.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		plane.Pix[i] = uint8(clampFloat64(math.RoundToEven((v-lo)*255/span), 0, 255))
	}
	return plane, nil
}

func clampFloat64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
