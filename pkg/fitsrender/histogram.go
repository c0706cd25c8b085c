package fitsrender

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultHistogramBins is used when SaveHistogram is given a non-positive bin count.
const DefaultHistogramBins = 256

// SaveHistogram plots a histogram of the frame's finite raw sample values.
// The image format follows the path extension (png, svg, pdf, ...).
func SaveHistogram(frame *RawFrame, path string, bins int) error {
	if err := frame.checkShape(); err != nil {
		return err
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	finite := finiteSamples(frame.Samples)
	if len(finite) == 0 {
		return fmt.Errorf("%w: frame has no finite samples", ErrInvalidFrameShape)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Raw sample histogram (%dx%d)", frame.Width, frame.Height)
	if frame.Header != nil && frame.Header.ObjectName() != "" {
		p.Title.Text = frame.Header.ObjectName() + ": " + p.Title.Text
	}
	p.X.Label.Text = "ADU"
	p.Y.Label.Text = "Pixels"

	h, err := plotter.NewHist(plotter.Values(finite), bins)
	if err != nil {
		return fmt.Errorf("building histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("%w: saving histogram: %w", ErrDestinationWrite, err)
	}
	return nil
}
