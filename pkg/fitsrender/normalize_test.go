package fitsrender

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMinMax(t *testing.T) {
	frame, err := NewRawFrame([]float64{1000, 1050, 1100, 1000}, 2, 2)
	require.NoError(t, err)
	plane, err := Normalize(frame)
	require.NoError(t, err)
	// 127.5 rounds half to even
	if diff := cmp.Diff([]uint8{0, 128, 255, 0}, plane.Pix); diff != "" {
		t.Errorf("normalized plane mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeConstantFrameSaturates(t *testing.T) {
	samples := make([]float64, 16)
	for i := range samples {
		samples[i] = 100
	}
	frame, err := NewRawFrame(samples, 4, 4)
	require.NoError(t, err)
	plane, err := Normalize(frame)
	require.NoError(t, err)
	for i, v := range plane.Pix {
		assert.Equal(t, uint8(255), v, "pixel %d", i)
	}
}

func TestNormalizeIgnoresNonFinite(t *testing.T) {
	frame, err := NewRawFrame([]float64{math.NaN(), 10, 20, math.Inf(1)}, 2, 2)
	require.NoError(t, err)
	plane, err := Normalize(frame)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 255, 0}, plane.Pix)

	allNaN, err := NewRawFrame([]float64{math.NaN(), math.NaN()}, 2, 1)
	require.NoError(t, err)
	plane, err = Normalize(allNaN)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0}, plane.Pix)
}

func TestNormalizeRangeAndExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]float64, 32*24)
	for i := range samples {
		samples[i] = rng.Float64()*60000 - 2000
	}
	frame, err := NewRawFrame(samples, 32, 24)
	require.NoError(t, err)
	plane, err := Normalize(frame)
	require.NoError(t, err)

	var lo, hi uint8 = 255, 0
	for _, v := range plane.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	assert.Equal(t, uint8(0), lo)
	assert.Equal(t, uint8(255), hi)
}

func TestNormalizeRejectsBadShape(t *testing.T) {
	_, err := NewRawFrame([]float64{1, 2, 3}, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidFrameShape)

	_, err = Normalize(&RawFrame{Samples: nil, Width: 0, Height: 3})
	assert.ErrorIs(t, err, ErrInvalidFrameShape)

	_, err = Normalize(nil)
	assert.ErrorIs(t, err, ErrInvalidFrameShape)
}
