package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fr "fitsrender/pkg/fitsrender"
)

// writeFits writes an 8-bit FITS primary HDU with optional header cards.
func writeFits(t *testing.T, path string, width, height int, pix []byte, cards ...string) {
	t.Helper()
	var buf bytes.Buffer
	card := func(s string) { buf.WriteString(fmt.Sprintf("%-80s", s)) }
	card(fmt.Sprintf("%-8s= %20s", "SIMPLE", "T"))
	card(fmt.Sprintf("%-8s= %20d", "BITPIX", 8))
	card(fmt.Sprintf("%-8s= %20d", "NAXIS", 2))
	card(fmt.Sprintf("%-8s= %20d", "NAXIS1", width))
	card(fmt.Sprintf("%-8s= %20d", "NAXIS2", height))
	for _, c := range cards {
		card(c)
	}
	card("END")
	for buf.Len()%2880 != 0 {
		buf.WriteByte(' ')
	}
	buf.Write(pix)
	for buf.Len()%2880 != 0 {
		buf.WriteByte(0)
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func gradient(n int) []byte {
	pix := make([]byte, n)
	for i := range pix {
		pix[i] = byte(i * 7)
	}
	return pix
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "light.fits")
	writeFits(t, src, 8, 6, gradient(48))

	dst := filepath.Join(dir, "out.bmp")
	err := app.Run([]string{"fitsrender", "convert", "-q", "-p", "grbg", "-g", "2", "-r", src, dst})
	require.NoError(t, err)
	_, err = os.Stat(dst)
	assert.NoError(t, err)
}

func TestConvertCommandDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "light.fit")
	writeFits(t, src, 4, 4, gradient(16))

	require.NoError(t, app.Run([]string{"fitsrender", "c", "--quiet", src}))
	_, err := os.Stat(filepath.Join(dir, "light.png"))
	assert.NoError(t, err)
}

func TestConvertCommandErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "light.fits")
	writeFits(t, src, 4, 4, gradient(16))

	err := app.Run([]string{"fitsrender", "convert", "-q", "-p", "XYZZ", src})
	assert.ErrorIs(t, err, fr.ErrUnsupportedFilterArrangement)

	err = app.Run([]string{"fitsrender", "convert", "-q"})
	assert.Error(t, err)

	err = app.Run([]string{"fitsrender", "convert", "-q", filepath.Join(dir, "missing.fits")})
	assert.ErrorIs(t, err, fr.ErrSourceRead)
}

func TestResolvePatternAuto(t *testing.T) {
	dir := t.TempDir()
	tagged := filepath.Join(dir, "tagged.fits")
	writeFits(t, tagged, 2, 2, gradient(4), fmt.Sprintf("%-8s= %-20s", "BAYERPAT", "'BGGR'"))
	plain := filepath.Join(dir, "plain.fits")
	writeFits(t, plain, 2, 2, gradient(4))

	p, err := resolvePattern("auto", tagged)
	require.NoError(t, err)
	assert.Equal(t, fr.PatternBGGR, p)

	p, err = resolvePattern("AUTO", plain)
	require.NoError(t, err)
	assert.Equal(t, fr.PatternRGGB, p)

	p, err = resolvePattern("gbrg", plain)
	require.NoError(t, err)
	assert.Equal(t, fr.PatternGBRG, p)
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "light.fits")
	writeFits(t, src, 8, 8, gradient(64), fmt.Sprintf("%-8s= %-20s", "OBJECT", "'M 81'"))
	hist := filepath.Join(dir, "hist.png")

	require.NoError(t, app.Run([]string{"fitsrender", "info", "--histogram", hist, "--bins", "16", src}))
	_, err := os.Stat(hist)
	assert.NoError(t, err)
}
