package fitsrender

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	frame, err := NewRawFrame([]float64{4, 1, 100, 3, 2, math.NaN()}, 3, 2)
	require.NoError(t, err)

	s, err := ComputeStats(frame)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1, s.NonFinite)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.InDelta(t, 22.0, s.Mean, 1e-9)
	assert.Equal(t, 3.0, s.Median)
	// |x - 3| = 1, 2, 97, 0, 1 -> median 1
	assert.Equal(t, 1.0, s.MAD)
	assert.Greater(t, s.StdDev, 0.0)
}

func TestComputeStatsSingleAndEmpty(t *testing.T) {
	one, err := NewRawFrame([]float64{7}, 1, 1)
	require.NoError(t, err)
	s, err := ComputeStats(one)
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Median)
	assert.Equal(t, 0.0, s.StdDev)

	empty, err := NewRawFrame([]float64{math.NaN(), math.Inf(-1)}, 2, 1)
	require.NoError(t, err)
	s, err = ComputeStats(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)
	assert.True(t, math.IsNaN(s.Mean))

	_, err = ComputeStats(&RawFrame{Width: 3, Height: 3})
	assert.ErrorIs(t, err, ErrInvalidFrameShape)
}
