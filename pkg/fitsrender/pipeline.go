package fitsrender

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"fitsrender/pkg/logger"
)

// DefaultGain is the brightness gain applied when none is configured.
const DefaultGain = 1.5

// Params configures a single frame conversion.
type Params struct {
	Pattern   BayerPattern
	Gain      float64
	Rotate180 bool
}

// DefaultParams returns RGGB, gain 1.5, no rotation.
func DefaultParams() Params {
	return Params{Pattern: PatternRGGB, Gain: DefaultGain}
}

// Validate checks the pattern and rejects non-finite gains. Zero and
// negative gains are allowed.
func (p Params) Validate() error {
	if !p.Pattern.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFilterArrangement, p.Pattern)
	}
	if math.IsNaN(p.Gain) || math.IsInf(p.Gain, 0) {
		return fmt.Errorf("%w: gain must be finite, got %v", ErrInvalidParams, p.Gain)
	}
	return nil
}

// Stage identifies a step of Convert, reported through WithProgress.
type Stage int

const (
	StageRead Stage = iota
	StageNormalize
	StageDemosaic
	StageGain
	StageRotate
	StageAnnotate
	StageWrite
)

// NumStages is the number of stages Convert may report.
const NumStages = int(StageWrite) + 1

func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageNormalize:
		return "normalize"
	case StageDemosaic:
		return "demosaic"
	case StageGain:
		return "gain"
	case StageRotate:
		return "rotate"
	case StageAnnotate:
		return "annotate"
	case StageWrite:
		return "write"
	default:
		return "unknown"
	}
}

type options struct {
	log      logrus.FieldLogger
	progress func(Stage)
	caption  func(*RawFrame) []string
}

// Option customizes Convert and Develop.
type Option func(*options)

// WithLogger sets the logger used for debug stage timings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// WithProgress registers a callback invoked after each completed stage.
// Skipped stages are reported too so callers can size a progress bar with
// NumStages.
func WithProgress(fn func(Stage)) Option {
	return func(o *options) { o.progress = fn }
}

// WithCaption draws the lines returned by fn onto the final image.
func WithCaption(fn func(*RawFrame) []string) Option {
	return func(o *options) { o.caption = fn }
}

// WithHeaderCaption is WithCaption(CaptionFromHeader applied to the frame header).
func WithHeaderCaption() Option {
	return WithCaption(func(f *RawFrame) []string { return CaptionFromHeader(f.Header) })
}

func newOptions(opts []Option) *options {
	o := &options{log: logger.Log}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) done(s Stage, start time.Time) {
	o.log.WithFields(logrus.Fields{"stage": s.String(), "took": time.Since(start)}).Debug("stage done")
	if o.progress != nil {
		o.progress(s)
	}
}

// Develop turns a raw frame into the final color image: normalize,
// demosaic, gain, then the optional rotation and caption.
func Develop(frame *RawFrame, p Params, opts ...Option) (*ColorImage, error) {
	return develop(context.Background(), frame, p, newOptions(opts))
}

func develop(ctx context.Context, frame *RawFrame, p Params, o *options) (*ColorImage, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	plane, err := Normalize(frame)
	if err != nil {
		return nil, err
	}
	o.done(StageNormalize, start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	img, err := Demosaic(plane, p.Pattern)
	if err != nil {
		return nil, fmt.Errorf("demosaicing %s frame: %w", p.Pattern, err)
	}
	o.done(StageDemosaic, start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	img = ApplyGain(img, p.Gain)
	o.done(StageGain, start)

	start = time.Now()
	if p.Rotate180 {
		img = Rotate180(img)
	}
	o.done(StageRotate, start)

	start = time.Now()
	if o.caption != nil {
		img = Annotate(img, o.caption(frame))
	}
	o.done(StageAnnotate, start)

	return img, nil
}

// Convert reads the FITS file at src, develops it with p and writes the
// result to dst. Parameters are validated before any file is opened.
func Convert(ctx context.Context, src, dst string, p Params, opts ...Option) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o := newOptions(opts)
	log := o.log.WithFields(logrus.Fields{"src": src, "dst": dst})

	start := time.Now()
	frame, err := ReadFits(src)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"width": frame.Width, "height": frame.Height, "bitpix": frame.BitPix}).Debug("frame loaded")
	o.done(StageRead, start)
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := develop(ctx, frame, p, o)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start = time.Now()
	if err := WriteImage(dst, img); err != nil {
		return err
	}
	o.done(StageWrite, start)
	return nil
}
