package fitsrender

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameStats summarizes the finite samples of a raw frame.
type FrameStats struct {
	Count     int
	NonFinite int
	Min       float64
	Max       float64
	Mean      float64
	StdDev    float64
	Median    float64
	MAD       float64
}

func (s FrameStats) String() string {
	return fmt.Sprintf("{Count=%d, NonFinite=%d, Min=%g, Max=%g, Mean=%g, StdDev=%g, Median=%g, MAD=%g}",
		s.Count, s.NonFinite, s.Min, s.Max, s.Mean, s.StdDev, s.Median, s.MAD)
}

// ComputeStats returns summary statistics over the finite samples of frame.
// Median and MAD are empirical (lower) quantiles.
func ComputeStats(frame *RawFrame) (FrameStats, error) {
	if err := frame.checkShape(); err != nil {
		return FrameStats{}, err
	}
	finite := finiteSamples(frame.Samples)
	s := FrameStats{Count: len(finite), NonFinite: len(frame.Samples) - len(finite)}
	if len(finite) == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.StdDev, s.Median, s.MAD = nan, nan, nan, nan, nan, nan
		return s, nil
	}

	sorted := make([]float64, len(finite))
	copy(sorted, finite)
	sort.Float64s(sorted)

	s.Min, s.Max = floats.Min(sorted), floats.Max(sorted)
	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		s.StdDev = 0
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	deviations := make([]float64, len(sorted))
	for i, v := range sorted {
		deviations[i] = math.Abs(v - s.Median)
	}
	sort.Float64s(deviations)
	s.MAD = stat.Quantile(0.5, stat.Empirical, deviations, nil)
	return s, nil
}
