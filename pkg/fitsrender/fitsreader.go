package fitsrender

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	fitsRecordLen      = 80
	fitsRecordsPerUnit = 36

	// maxFitsAxis bounds NAXIS1 and NAXIS2 so header values alone cannot
	// drive allocations.
	maxFitsAxis = 1 << 20
)

// FitsMetadata holds parsed FITS header key-value pairs.
type FitsMetadata struct {
	Headers map[string]string
}

// NewFitsMetadata creates an empty FitsMetadata.
func NewFitsMetadata() *FitsMetadata {
	return &FitsMetadata{Headers: make(map[string]string)}
}

func (m *FitsMetadata) GetString(key string) string {
	if v, ok := m.Headers[strings.ToUpper(key)]; ok {
		return v
	}
	return ""
}

func (m *FitsMetadata) GetDouble(key string) (float64, bool) {
	v, ok := m.Headers[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

func (m *FitsMetadata) GetInt(key string) (int, bool) {
	v, ok := m.Headers[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

var fitsTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// GetDateTime parses ISO-8601 values; FITS dates without a zone are UTC.
func (m *FitsMetadata) GetDateTime(key string) (time.Time, bool) {
	v, ok := m.Headers[strings.ToUpper(key)]
	if !ok {
		return time.Time{}, false
	}
	v = strings.TrimSpace(v)
	for _, layout := range fitsTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (m *FitsMetadata) ObjectName() string    { return m.GetString("OBJECT") }
func (m *FitsMetadata) ImageType() string     { return m.GetString("IMAGETYP") }
func (m *FitsMetadata) CameraName() string    { return m.GetString("INSTRUME") }
func (m *FitsMetadata) Filter() string        { return m.GetString("FILTER") }
func (m *FitsMetadata) TelescopeName() string { return m.GetString("TELESCOP") }

func (m *FitsMetadata) ExposureTime() (float64, bool) {
	if v, ok := m.GetDouble("EXPTIME"); ok {
		return v, true
	}
	return m.GetDouble("EXPOSURE")
}

func (m *FitsMetadata) ObservationTime() (time.Time, bool) { return m.GetDateTime("DATE-OBS") }

// ReadFits reads the primary HDU of a FITS file. Only the first image
// plane is used; any extensions after it are ignored.
func ReadFits(filePath string) (*RawFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening FITS file: %w", ErrSourceRead, err)
	}
	defer f.Close()
	return readFitsFromReader(bufio.NewReader(f), false)
}

// ReadFitsMetadataOnly reads only the primary header. The returned frame
// carries dimensions and Header but no samples.
func ReadFitsMetadataOnly(filePath string) (*RawFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening FITS file: %w", ErrSourceRead, err)
	}
	defer f.Close()
	return readFitsFromReader(bufio.NewReader(f), true)
}

// ReadFitsFromBytes reads the primary HDU from an in-memory FITS file.
func ReadFitsFromBytes(data []byte) (*RawFrame, error) {
	return readFitsFromReader(bytes.NewReader(data), false)
}

func readFitsFromReader(r io.Reader, skipPixelData bool) (*RawFrame, error) {
	var bitpix, naxis int
	axes := map[int]int{}
	bzero := 0.0
	bscale := 1.0
	headerDone := false
	sawSimple := false
	metadata := NewFitsMetadata()

	recordBuf := make([]byte, fitsRecordLen)

	for !headerDone {
		for i := 0; i < fitsRecordsPerUnit; i++ {
			if _, err := io.ReadFull(r, recordBuf); err != nil {
				return nil, fmt.Errorf("%w: reading FITS header record: %w", ErrSourceRead, err)
			}
			record := string(recordBuf)
			keyword := strings.TrimSpace(record[:8])

			if !sawSimple {
				if keyword != "SIMPLE" {
					return nil, fmt.Errorf("%w: not a FITS file (first keyword %q)", ErrSourceRead, keyword)
				}
				sawSimple = true
			}

			if keyword == "END" {
				headerDone = true
				remaining := fitsRecordsPerUnit - 1 - i
				if remaining > 0 {
					// Padding may be truncated in sloppy writers; tolerate it.
					_, _ = io.CopyN(io.Discard, r, int64(remaining*fitsRecordLen))
				}
				break
			}

			if record[8] != '=' || record[9] != ' ' {
				continue
			}
			rawValue := strings.TrimSpace(strings.SplitN(record[10:], "/", 2)[0])
			if strings.HasPrefix(rawValue, "'") {
				rawValue = strings.TrimSpace(record[10:])
			}
			parsedValue := parseFitsValue(rawValue)

			if keyword != "" && parsedValue != "" {
				metadata.Headers[strings.ToUpper(keyword)] = parsedValue
			}

			switch {
			case keyword == "BITPIX":
				bitpix, _ = strconv.Atoi(rawValue)
			case keyword == "NAXIS":
				naxis, _ = strconv.Atoi(rawValue)
			case strings.HasPrefix(keyword, "NAXIS"):
				if n, err := strconv.Atoi(keyword[5:]); err == nil {
					axes[n], _ = strconv.Atoi(rawValue)
				}
			case keyword == "BZERO":
				bzero, _ = strconv.ParseFloat(rawValue, 64)
			case keyword == "BSCALE":
				bscale, _ = strconv.ParseFloat(rawValue, 64)
			}
		}
	}

	if naxis == 0 {
		return nil, fmt.Errorf("%w: primary HDU has no image data", ErrSourceRead)
	}
	if naxis != 2 {
		return nil, fmt.Errorf("%w: primary array has %d axes, want 2", ErrInvalidFrameShape, naxis)
	}
	width, height := axes[1], axes[2]
	if width <= 0 || height <= 0 || width > maxFitsAxis || height > maxFitsAxis {
		return nil, fmt.Errorf("%w: NAXIS1=%d, NAXIS2=%d", ErrInvalidFrameShape, width, height)
	}

	frame := &RawFrame{Width: width, Height: height, BitPix: bitpix, Header: metadata}
	if skipPixelData {
		return frame, nil
	}

	bytesPerSample := bitpix / 8
	if bytesPerSample < 0 {
		bytesPerSample = -bytesPerSample
	}
	switch bitpix {
	case 8, 16, 32, 64, -32, -64:
	default:
		return nil, fmt.Errorf("%w: unsupported BITPIX %d", ErrSourceRead, bitpix)
	}

	numPixels, ok := pixelCount(width, height)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d frame is too large", ErrInvalidFrameShape, width, height)
	}
	dataLen, ok := pixelCount(numPixels, bytesPerSample)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d frame is too large", ErrInvalidFrameShape, width, height)
	}
	// Read before allocating so a truncated file cannot claim more memory
	// than it holds.
	rawBytes, err := io.ReadAll(io.LimitReader(r, int64(dataLen)))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %d-bit pixel data: %w", ErrSourceRead, bitpix, err)
	}
	if len(rawBytes) < dataLen {
		return nil, fmt.Errorf("%w: pixel data truncated, got %d of %d bytes", ErrSourceRead, len(rawBytes), dataLen)
	}

	samples := make([]float64, numPixels)
	for i := 0; i < numPixels; i++ {
		var v float64
		switch bitpix {
		case 8:
			v = float64(rawBytes[i])
		case 16:
			v = float64(int16(binary.BigEndian.Uint16(rawBytes[i*2:])))
		case 32:
			v = float64(int32(binary.BigEndian.Uint32(rawBytes[i*4:])))
		case 64:
			v = float64(int64(binary.BigEndian.Uint64(rawBytes[i*8:])))
		case -32:
			v = float64(math.Float32frombits(binary.BigEndian.Uint32(rawBytes[i*4:])))
		case -64:
			v = math.Float64frombits(binary.BigEndian.Uint64(rawBytes[i*8:]))
		}
		samples[i] = v*bscale + bzero
	}
	frame.Samples = samples
	return frame, nil
}

func parseFitsValue(rawValue string) string {
	if rawValue == "" {
		return ""
	}
	if rawValue == "T" {
		return "True"
	}
	if rawValue == "F" {
		return "False"
	}
	if strings.HasPrefix(rawValue, "'") {
		return parseFitsString(rawValue)
	}
	return rawValue
}

// parseFitsString decodes a quoted value that may be followed by a comment.
// A doubled quote is a literal quote; the first single quote closes the
// string. Trailing blanks are not significant.
func parseFitsString(rawValue string) string {
	var sb strings.Builder
	for i := 1; i < len(rawValue); i++ {
		if rawValue[i] == '\'' {
			if i+1 < len(rawValue) && rawValue[i+1] == '\'' {
				sb.WriteByte('\'')
				i++
				continue
			}
			break
		}
		sb.WriteByte(rawValue[i])
	}
	return strings.TrimRight(sb.String(), " ")
}
