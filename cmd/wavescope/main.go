package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/wavescope/logging"
	"github.com/RyanBlaney/wavescope/transcode"
	"github.com/RyanBlaney/wavescope/waveform"
)

func main() {
	var (
		inPath   = flag.String("in", "", "input WAV file")
		outDir   = flag.String("out", ".", "output directory for tile images")
		height   = flag.Int("height", 128, "rendered height in pixels")
		pxPerSec = flag.Float64("px-per-sec", 50, "horizontal pixel density")
		barWidth = flag.Float64("bar-width", 2, "bar width in pixels (0 for line style)")
		barGap   = flag.Float64("bar-gap", 1, "gap between bars in pixels")
		barAlign = flag.String("bar-align", "center", "bar alignment: center, top or bottom")
		colorize = flag.Bool("colorize", false, "colorize by spectral brightness")
		mode     = flag.String("mode", "spectralCentroid", "analysis mode: spectralCentroid or prominentFrequency")
		power    = flag.Float64("power", 1, "normalization power applied to feature values")
		norm     = flag.Bool("normalize", false, "scale the loudest sample to full height")
		format   = flag.String("format", "png", "export format: png or jpeg")
		quality  = flag.Int("quality", 90, "JPEG quality (1-100)")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		logging.SetLevel(logging.DebugLevel)
	}

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: wavescope -in file.wav [-out dir] [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(*inPath, *outDir, *height, *pxPerSec, *barWidth, *barGap, *barAlign,
		*colorize, *mode, *power, *norm, *format, *quality); err != nil {
		logging.Error(err, "render failed")
		os.Exit(1)
	}
}

func run(inPath, outDir string, height int, pxPerSec, barWidth, barGap float64, barAlign string,
	colorize bool, mode string, power float64, normalize bool, format string, quality int) error {

	buffer, err := transcode.NewDecoder(nil).DecodeFile(inPath)
	if err != nil {
		return err
	}

	opts := waveform.DefaultOptions()
	opts.Height = height
	opts.MinPxPerSec = pxPerSec
	opts.BarWidth = barWidth
	opts.BarGap = barGap
	opts.BarAlign = waveform.BarAlign(barAlign)
	opts.ColorizeByBrightness = colorize
	opts.ColorAnalysisType = waveform.AnalysisMode(mode)
	opts.NormalizationPower = power
	opts.Normalize = normalize

	// A viewport as wide as the timeline keeps the render on the eager path,
	// so every tile is materialized and exported
	totalWidth := waveform.TotalRenderWidth(buffer.Duration(), opts.AudioRate, opts.MinPxPerSec)
	viewport := waveform.NewStaticViewport(totalWidth+1, height)

	renderer, err := waveform.NewRenderer(opts, viewport)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	renderer.Load(buffer)

	blobs, err := renderer.ExportImages(waveform.ImageFormat(format), quality)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	base := filepath.Base(inPath)
	base = base[:len(base)-len(filepath.Ext(base))]
	for i, blob := range blobs {
		name := filepath.Join(outDir, fmt.Sprintf("%s-tile-%03d.%s", base, i, format))
		if err := os.WriteFile(name, blob, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		logging.Info("wrote tile", logging.Fields{"file": name, "bytes": len(blob)})
	}

	logging.Info("render complete", logging.Fields{
		"width": renderer.Width(),
		"tiles": len(blobs),
	})
	return nil
}
