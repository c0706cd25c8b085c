package fitsrender

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Format is a lossless 8-bit RGB output container.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// FormatFromPath infers the output format from the path extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// EncodeImage serializes img in the given format. Both encoders write
// opaque images without an alpha channel.
func EncodeImage(w io.Writer, img *ColorImage, format Format) error {
	rgba := img.ToRGBA()
	switch format {
	case FormatPNG:
		return png.Encode(w, rgba)
	case FormatBMP:
		return bmp.Encode(w, rgba)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteImage writes img to path, choosing the format from the extension.
// A partially written file is removed on failure.
func WriteImage(path string, img *ColorImage) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating output file: %w", ErrDestinationWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing output file: %w", ErrDestinationWrite, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := EncodeImage(f, img, format); err != nil {
		return fmt.Errorf("%w: encoding %s: %w", ErrDestinationWrite, format, err)
	}
	return nil
}

// DefaultOutputPath replaces a .fits/.fit/.fts extension with .png.
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	switch strings.ToLower(ext) {
	case ".fits", ".fit", ".fts":
		return strings.TrimSuffix(inputPath, ext) + ".png"
	}
	return inputPath + ".png"
}
