package fitsrender

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testFits describes a primary HDU for encodeFits.
type testFits struct {
	BitPix  int
	Axes    []int
	Samples []float64 // stored values, before BZERO/BSCALE
	Cards   [][2]string
}

func fitsCard(key, value string) []byte {
	var card string
	if key == "END" {
		card = "END"
	} else {
		card = fmt.Sprintf("%-8s= %20s", key, value)
	}
	return []byte(fmt.Sprintf("%-80s", card))
}

func padTo2880(buf *bytes.Buffer, fill byte) {
	for buf.Len()%2880 != 0 {
		buf.WriteByte(fill)
	}
}

func encodeFits(t *testing.T, f testFits) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(fitsCard("SIMPLE", "T"))
	buf.Write(fitsCard("BITPIX", fmt.Sprint(f.BitPix)))
	buf.Write(fitsCard("NAXIS", fmt.Sprint(len(f.Axes))))
	for i, n := range f.Axes {
		buf.Write(fitsCard(fmt.Sprintf("NAXIS%d", i+1), fmt.Sprint(n)))
	}
	for _, c := range f.Cards {
		buf.Write(fitsCard(c[0], c[1]))
	}
	buf.Write(fitsCard("END", ""))
	padTo2880(&buf, ' ')

	for _, v := range f.Samples {
		switch f.BitPix {
		case 8:
			buf.WriteByte(uint8(v))
		case 16:
			require.NoError(t, binary.Write(&buf, binary.BigEndian, int16(v)))
		case 32:
			require.NoError(t, binary.Write(&buf, binary.BigEndian, int32(v)))
		case 64:
			require.NoError(t, binary.Write(&buf, binary.BigEndian, int64(v)))
		case -32:
			require.NoError(t, binary.Write(&buf, binary.BigEndian, math.Float32bits(float32(v))))
		case -64:
			require.NoError(t, binary.Write(&buf, binary.BigEndian, math.Float64bits(v)))
		default:
			t.Fatalf("unsupported BITPIX %d in test helper", f.BitPix)
		}
	}
	if len(f.Samples) > 0 {
		padTo2880(&buf, 0)
	}
	return buf.Bytes()
}

func writeTestFits(t *testing.T, dir, name string, f testFits) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, encodeFits(t, f), 0o644))
	return path
}

// mosaicSamples builds a width x height mosaic where every site holds the
// value of the channel the pattern samples there.
func mosaicSamples(pattern BayerPattern, width, height int, rgb [3]float64) []float64 {
	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out[y*width+x] = rgb[pattern.ChannelAt(x, y)]
		}
	}
	return out
}

func mosaicPlane(pattern BayerPattern, width, height int, rgb [3]uint8) *Plane8 {
	p := &Plane8{Pix: make([]uint8, width*height), Width: width, Height: height}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p.Pix[y*width+x] = rgb[pattern.ChannelAt(x, y)]
		}
	}
	return p
}
