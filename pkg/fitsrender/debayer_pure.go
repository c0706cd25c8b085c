//go:build purego || js

package fitsrender

// Backend names the demosaic implementation compiled into this build.
const Backend = "purego"

// Demosaic reconstructs an RGB image from an 8-bit mosaic.
func Demosaic(plane *Plane8, pattern BayerPattern) (*ColorImage, error) {
	return DemosaicBilinear(plane, pattern)
}
