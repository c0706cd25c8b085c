package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli"

	fr "fitsrender/pkg/fitsrender"
	"fitsrender/pkg/logger"
)

var app = cli.NewApp()
var log = logger.Log

const patternAuto = "auto"

func init() {
	app.Name = "fitsrender"
	app.Usage = "Render raw Bayer FITS frames as color images"
	app.UsageText = "fitsrender [command] [options] input.fits"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "verbose, v", Usage: "debug logging (same as DEBUG=1)"},
	}
	app.Before = func(c *cli.Context) error {
		logger.SetVerbose(c.Bool("verbose"))
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "convert",
			Aliases:   []string{"c"},
			Usage:     "Debayer a FITS frame and write a PNG or BMP",
			ArgsUsage: "input.fits [output.png]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "pattern, p",
					Value:  fr.PatternRGGB.String(),
					Usage:  "Bayer pattern: RGGB, BGGR, GRBG, GBRG or auto (BAYERPAT header)",
					EnvVar: "FITSRENDER_PATTERN",
				},
				cli.Float64Flag{
					Name:   "gain, g",
					Value:  fr.DefaultGain,
					Usage:  "brightness gain applied after normalization",
					EnvVar: "FITSRENDER_GAIN",
				},
				cli.BoolFlag{
					Name:   "rotate, r",
					Usage:  "rotate the output by 180 degrees",
					EnvVar: "FITSRENDER_ROTATE",
				},
				cli.BoolFlag{Name: "annotate, a", Usage: "draw object, time and exposure from the header"},
				cli.BoolFlag{Name: "quiet, q", Usage: "no progress bar"},
			},
			Action: convertAction,
		},
		{
			Name:      "info",
			Aliases:   []string{"i"},
			Usage:     "Print FITS header summary and raw sample statistics",
			ArgsUsage: "input.fits",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "histogram", Usage: "write a histogram plot (png, svg, pdf)"},
				cli.IntFlag{Name: "bins", Value: fr.DefaultHistogramBins, Usage: "histogram bin count"},
			},
			Action: infoAction,
		},
		{
			Name:   "patterns",
			Usage:  "List supported Bayer patterns",
			Action: patternsAction,
		},
	}
}

func getFilename(c *cli.Context) (string, error) {
	f := c.Args().Get(0)
	if f == "" {
		return "", fmt.Errorf("input filename is required")
	}
	return f, nil
}

func convertAction(c *cli.Context) error {
	src, err := getFilename(c)
	if err != nil {
		return err
	}
	dst := c.Args().Get(1)
	if dst == "" {
		dst = fr.DefaultOutputPath(src)
	}

	params := fr.DefaultParams()
	params.Gain = c.Float64("gain")
	params.Rotate180 = c.Bool("rotate")
	params.Pattern, err = resolvePattern(c.String("pattern"), src)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []fr.Option{fr.WithLogger(log)}
	if c.Bool("annotate") {
		opts = append(opts, fr.WithHeaderCaption())
	}
	var bar *stageBar
	if !c.Bool("quiet") {
		bar = newStageBar("Rendering... ")
		opts = append(opts, fr.WithProgress(bar.Advance))
	}

	start := time.Now()
	err = fr.Convert(ctx, src, dst, params, opts...)
	if bar != nil {
		bar.Close()
	}
	if err != nil {
		return err
	}
	log.Infof("Converted %s to %s (pattern %s, gain %g, rotate_180=%t, backend %s) in %s",
		src, dst, params.Pattern, params.Gain, params.Rotate180, fr.Backend, time.Since(start).Round(time.Millisecond))
	return nil
}

// resolvePattern parses name, reading BAYERPAT from src for "auto".
func resolvePattern(name, src string) (fr.BayerPattern, error) {
	if !strings.EqualFold(name, patternAuto) {
		return fr.ParseBayerPattern(name)
	}
	frame, err := fr.ReadFitsMetadataOnly(src)
	if err != nil {
		return 0, err
	}
	p, ok := fr.BayerPatternFromHeader(frame.Header)
	if !ok {
		log.Warnf("%s has no usable BAYERPAT keyword, using %s", src, fr.PatternRGGB)
		return fr.PatternRGGB, nil
	}
	log.Debugf("BAYERPAT header selects %s", p)
	return p, nil
}

func infoAction(c *cli.Context) error {
	src, err := getFilename(c)
	if err != nil {
		return err
	}
	frame, err := fr.ReadFits(src)
	if err != nil {
		return err
	}
	stats, err := fr.ComputeStats(frame)
	if err != nil {
		return err
	}

	h := frame.Header
	fmt.Printf("File:        %s\n", src)
	fmt.Printf("Size:        %d x %d, BITPIX %d\n", frame.Width, frame.Height, frame.BitPix)
	for _, kv := range [][2]string{
		{"Object", h.ObjectName()},
		{"Image type", h.ImageType()},
		{"Camera", h.CameraName()},
		{"Telescope", h.TelescopeName()},
		{"Filter", h.Filter()},
		{"Bayer", h.GetString("BAYERPAT")},
		{"Date-obs", h.GetString("DATE-OBS")},
	} {
		if kv[1] != "" {
			fmt.Printf("%-12s %s\n", kv[0]+":", kv[1])
		}
	}
	if exp, ok := h.ExposureTime(); ok {
		fmt.Printf("Exposure:    %gs\n", exp)
	}
	fmt.Printf("Samples:     %d finite, %d non-finite\n", stats.Count, stats.NonFinite)
	fmt.Printf("Range:       %g .. %g\n", stats.Min, stats.Max)
	fmt.Printf("Mean:        %.3f +/- %.3f\n", stats.Mean, stats.StdDev)
	fmt.Printf("Median:      %.3f (MAD %.3f)\n", stats.Median, stats.MAD)

	if out := c.String("histogram"); out != "" {
		if err := fr.SaveHistogram(frame, out, c.Int("bins")); err != nil {
			return err
		}
		log.Infof("Histogram written to %s", out)
	}
	return nil
}

func patternsAction(c *cli.Context) error {
	names := [3]string{"R", "G", "B"}
	for _, p := range fr.Patterns() {
		fmt.Printf("%s  %s%s\n      %s%s\n", p,
			names[p.ChannelAt(0, 0)], names[p.ChannelAt(1, 0)],
			names[p.ChannelAt(0, 1)], names[p.ChannelAt(1, 1)])
	}
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
