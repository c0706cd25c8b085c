package fitsrender

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	captionMargin     = 6
	captionLineHeight = 16
	captionDimPercent = 35
)

// CaptionFromHeader builds caption lines from common acquisition keywords.
// Missing keywords are skipped; an empty slice means nothing to draw.
func CaptionFromHeader(h *FitsMetadata) []string {
	if h == nil {
		return nil
	}
	var lines []string
	if obj := h.ObjectName(); obj != "" {
		lines = append(lines, obj)
	}
	if t, ok := h.ObservationTime(); ok {
		lines = append(lines, t.UTC().Format("2006-01-02 15:04:05 UTC"))
	}

	var details []string
	if exp, ok := h.ExposureTime(); ok {
		details = append(details, fmt.Sprintf("%gs", exp))
	}
	if f := h.Filter(); f != "" {
		details = append(details, f)
	}
	if cam := h.CameraName(); cam != "" {
		details = append(details, cam)
	}
	if len(details) > 0 {
		lines = append(lines, strings.Join(details, "  "))
	}
	return lines
}

// Annotate draws lines as a caption in the bottom-left corner on a dimmed
// band. The input is not modified.
func Annotate(img *ColorImage, lines []string) *ColorImage {
	if len(lines) == 0 {
		return img
	}
	rgba := img.ToRGBA()
	face := basicfont.Face7x13

	textW := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Round(); w > textW {
			textW = w
		}
	}
	band := image.Rect(0, img.Height-len(lines)*captionLineHeight-2*captionMargin, textW+2*captionMargin, img.Height).
		Intersect(rgba.Bounds())
	dimRect(rgba, band, captionDimPercent)

	textColor := color.RGBA{255, 255, 255, 255}
	for i, l := range lines {
		baseline := band.Min.Y + captionMargin + (i+1)*captionLineHeight - 4
		drawText(rgba, face, l, captionMargin, baseline, textColor)
	}
	return colorImageFromRGBA(rgba)
}

// dimRect scales the color channels inside r to percent of their value.
func dimRect(img *image.RGBA, r image.Rectangle, percent int) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			o := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				img.Pix[o+c] = uint8(int(img.Pix[o+c]) * percent / 100)
			}
		}
	}
}

// drawText draws a string at (x, y) using the given font face.
func drawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
