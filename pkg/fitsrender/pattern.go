package fitsrender

import (
	"fmt"
	"strings"
)

// BayerPattern identifies the repeating 2x2 color filter tile, read
// left-to-right, top-to-bottom starting at the top-left pixel of the frame.
type BayerPattern int

const (
	PatternRGGB BayerPattern = iota
	PatternBGGR
	PatternGRBG
	PatternGBRG
)

// Channel indices into an RGB triple.
const (
	ChannelR = 0
	ChannelG = 1
	ChannelB = 2
)

var patternNames = map[BayerPattern]string{
	PatternRGGB: "RGGB",
	PatternBGGR: "BGGR",
	PatternGRBG: "GRBG",
	PatternGBRG: "GBRG",
}

// tiles holds the channel sampled at (row%2, col%2) for each pattern.
var tiles = map[BayerPattern][2][2]int{
	PatternRGGB: {{ChannelR, ChannelG}, {ChannelG, ChannelB}},
	PatternBGGR: {{ChannelB, ChannelG}, {ChannelG, ChannelR}},
	PatternGRBG: {{ChannelG, ChannelR}, {ChannelB, ChannelG}},
	PatternGBRG: {{ChannelG, ChannelB}, {ChannelR, ChannelG}},
}

// Patterns lists the supported patterns in declaration order.
func Patterns() []BayerPattern {
	return []BayerPattern{PatternRGGB, PatternBGGR, PatternGRBG, PatternGBRG}
}

func (p BayerPattern) String() string {
	if s, ok := patternNames[p]; ok {
		return s
	}
	return fmt.Sprintf("BayerPattern(%d)", int(p))
}

// Valid reports whether p is one of the four supported layouts.
func (p BayerPattern) Valid() bool {
	_, ok := tiles[p]
	return ok
}

// ChannelAt returns the channel physically sampled at pixel (x, y).
func (p BayerPattern) ChannelAt(x, y int) int {
	return tiles[p][y&1][x&1]
}

// ParseBayerPattern parses a pattern name, case-insensitively.
func ParseBayerPattern(s string) (BayerPattern, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for p, n := range patternNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (supported: RGGB, BGGR, GRBG, GBRG)", ErrUnsupportedFilterArrangement, s)
}

// BayerPatternFromHeader returns the pattern named by the BAYERPAT keyword.
func BayerPatternFromHeader(h *FitsMetadata) (BayerPattern, bool) {
	if h == nil {
		return 0, false
	}
	v := h.GetString("BAYERPAT")
	if v == "" {
		return 0, false
	}
	p, err := ParseBayerPattern(v)
	if err != nil {
		return 0, false
	}
	return p, true
}
