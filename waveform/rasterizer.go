package waveform

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/RyanBlaney/wavescope/algorithms/common"
	"github.com/RyanBlaney/wavescope/logging"
)

// Rasterizer paints bar- or line-style waveform spans into raster surfaces.
// One rasterizer serves every tile of a render pass; it holds no per-tile
// state of its own.
type Rasterizer struct {
	opts   *Options
	logger logging.Logger
}

// NewRasterizer creates a rasterizer for the given options
func NewRasterizer(opts *Options) *Rasterizer {
	return &Rasterizer{
		opts:   opts,
		logger: logging.WithFields(logging.Fields{"component": "rasterizer"}),
	}
}

// DrawTile paints the waveform span covered by one tile. The surface width
// defines the tile's pixel width; offsetPx is the tile's position on the
// full timeline of totalWidth pixels. features carries the normalized
// per-segment values when colorization is active, nil otherwise. A missing
// or zero-size surface means there is nothing to draw and is skipped.
func (r *Rasterizer) DrawTile(dc *gg.Context, channels [][]float64, offsetPx, totalWidth int, features []float64) {
	if dc == nil || dc.Width() <= 0 || dc.Height() <= 0 || totalWidth <= 0 {
		return
	}
	if len(channels) == 0 || len(channels[0]) == 0 {
		return
	}

	if r.opts.RenderFunc != nil {
		r.opts.RenderFunc(channels, dc)
		return
	}

	if len(r.opts.SplitChannels) > 0 {
		bandHeight := dc.Height() / len(r.opts.SplitChannels)
		for c := range r.opts.SplitChannels {
			ch := channels[min(c, len(channels)-1)]
			waveColor := r.opts.SplitChannels[c].WaveColor
			if waveColor == "" {
				waveColor = r.opts.WaveColor
			}
			r.drawBand(dc, c*bandHeight, bandHeight, ch, ch, waveColor, offsetPx, totalWidth, features)
		}
		return
	}

	upper := channels[0]
	lower := upper
	if len(channels) > 1 {
		lower = channels[1]
	}
	r.drawBand(dc, 0, dc.Height(), upper, lower, r.opts.WaveColor, offsetPx, totalWidth, features)
}

// RenderProgressOverlay duplicates a painted surface and composites a flat
// progress fill only where the source already has opaque content. The
// waveform shape is taken from the alpha channel, so no path-level knowledge
// of the painted geometry is needed.
func (r *Rasterizer) RenderProgressOverlay(dc *gg.Context, progressColor string) *gg.Context {
	if dc == nil || dc.Width() <= 0 || dc.Height() <= 0 {
		return nil
	}

	img := dc.Image()
	overlay := gg.NewContextForImage(img)
	overlay.SetMask(gg.NewMaskFromAlpha(img))
	if !r.setPaint(overlay, progressColor) {
		overlay.ClearMask()
		return overlay
	}
	overlay.DrawRectangle(0, 0, float64(overlay.Width()), float64(overlay.Height()))
	r.fill(overlay)
	overlay.ClearMask()
	return overlay
}

// drawBand paints one horizontal band, bar or line style depending on the
// configured bar width.
func (r *Rasterizer) drawBand(dc *gg.Context, yOff, bandHeight int, upper, lower []float64, waveColor string, offsetPx, totalWidth int, features []float64) {
	if bandHeight <= 0 {
		return
	}

	scale := r.verticalScale(bandHeight, upper, lower)

	if r.opts.BarWidth > 0 {
		r.drawBars(dc, yOff, bandHeight, upper, lower, waveColor, offsetPx, totalWidth, features, scale)
	} else {
		r.drawLine(dc, yOff, bandHeight, upper, lower, waveColor, offsetPx, totalWidth, features, scale)
	}
}

// verticalScale converts a sample magnitude into pixels of bar height. In
// normalize mode the loudest sample reaches the full half-band height,
// otherwise a fixed gain applies.
func (r *Rasterizer) verticalScale(bandHeight int, upper, lower []float64) float64 {
	halfHeight := float64(bandHeight) / 2

	if r.opts.Normalize {
		peak := math.Max(common.MaxAbs(upper), common.MaxAbs(lower))
		if peak > 0 {
			return halfHeight / peak
		}
		return halfHeight
	}

	gain := r.opts.BarHeight
	if gain <= 0 {
		gain = 1
	}
	return halfHeight * gain
}

func (r *Rasterizer) drawBars(dc *gg.Context, yOff, bandHeight int, upper, lower []float64, waveColor string, offsetPx, totalWidth int, features []float64, scale float64) {
	unit := r.opts.barUnit()
	if unit <= 0 {
		return
	}

	tileWidth := dc.Width()
	samplesPerPx := float64(len(upper)) / float64(totalWidth)
	totalBars := totalWidth / unit
	colorize := len(features) > 0

	if !colorize {
		if !r.setPaint(dc, waveColor) {
			return
		}
	}

	for x := 0; x < tileWidth; x += unit {
		gx := offsetPx + x
		s0 := int(float64(gx) * samplesPerPx)
		s1 := int(float64(gx+unit) * samplesPerPx)

		upMax := sliceMaxAbs(upper, s0, s1)
		loMax := sliceMaxAbs(lower, s0, s1)

		y, h := r.barPlacement(yOff, bandHeight, upMax*scale, loMax*scale)

		if colorize {
			barIndex := gx / unit
			segIdx := 0
			if totalBars > 0 {
				segIdx = min(barIndex*len(features)/totalBars, len(features)-1)
			}
			// Every bar may carry a distinct color, so each is its own fill
			if !r.setPaint(dc, ColorFor(features[segIdx], r.opts.BrightnessColors)) {
				continue
			}
			dc.DrawRectangle(float64(x), y, r.opts.BarWidth, h)
			r.fill(dc)
		} else {
			// Untinted bars accumulate into a single path, filled once below
			dc.DrawRectangle(float64(x), y, r.opts.BarWidth, h)
		}
	}

	if !colorize {
		r.fill(dc)
	}
}

// barPlacement returns the top y and total height of a bar with the given
// upper and lower half heights, honoring the configured alignment.
func (r *Rasterizer) barPlacement(yOff, bandHeight int, upPx, loPx float64) (float64, float64) {
	h := upPx + loPx
	if h < 1 {
		h = 1
	}

	switch r.opts.BarAlign {
	case AlignTop:
		return float64(yOff), h
	case AlignBottom:
		return float64(yOff+bandHeight) - h, h
	default:
		return float64(yOff) + float64(bandHeight)/2 - upPx, h
	}
}

func (r *Rasterizer) drawLine(dc *gg.Context, yOff, bandHeight int, upper, lower []float64, waveColor string, offsetPx, totalWidth int, features []float64, scale float64) {
	tileWidth := dc.Width()
	samplesPerPx := float64(len(upper)) / float64(totalWidth)

	// Per-pixel peak envelope for both halves
	ups := make([]float64, tileWidth)
	los := make([]float64, tileWidth)
	for x := 0; x < tileWidth; x++ {
		gx := offsetPx + x
		s0 := int(float64(gx) * samplesPerPx)
		s1 := int(float64(gx+1) * samplesPerPx)
		ups[x] = sliceMaxAbs(upper, s0, s1) * scale
		los[x] = sliceMaxAbs(lower, s0, s1) * scale
	}

	if len(features) == 0 {
		if !r.setPaint(dc, waveColor) {
			return
		}
		r.fillEnvelope(dc, yOff, bandHeight, ups, los, 0, tileWidth)
		return
	}

	// Colorized: split the envelope into contiguous pixel chunks aligned to
	// segment boundaries, each filled as an independent sub-path
	segmentCount := len(features)
	for s := range segmentCount {
		segStart := s * totalWidth / segmentCount
		segEnd := (s + 1) * totalWidth / segmentCount

		x0 := max(segStart-offsetPx, 0)
		x1 := min(segEnd-offsetPx, tileWidth)
		if x1 <= x0 {
			continue
		}

		if !r.setPaint(dc, ColorFor(features[s], r.opts.BrightnessColors)) {
			continue
		}
		r.fillEnvelope(dc, yOff, bandHeight, ups, los, x0, x1)
	}
}

// fillEnvelope fills the closed polyline spanning tile-local pixels [x0, x1)
func (r *Rasterizer) fillEnvelope(dc *gg.Context, yOff, bandHeight int, ups, los []float64, x0, x1 int) {
	if x1-x0 < 1 {
		return
	}

	topAt := func(x int) (float64, float64) {
		y, h := r.barPlacement(yOff, bandHeight, ups[x], los[x])
		return y, y + h
	}

	top0, _ := topAt(x0)
	dc.MoveTo(float64(x0), top0)
	for x := x0 + 1; x < x1; x++ {
		top, _ := topAt(x)
		dc.LineTo(float64(x), top)
	}
	for x := x1 - 1; x >= x0; x-- {
		_, bot := topAt(x)
		dc.LineTo(float64(x), bot)
	}
	dc.ClosePath()
	r.fill(dc)
}

// setPaint resolves a color string and applies it to the surface. Unparsable
// colors leave the current paint untouched and report false, mirroring the
// silent-degrade contract of the color mapper.
func (r *Rasterizer) setPaint(dc *gg.Context, colorStr string) bool {
	cr, cg, cb, ca, ok := parseColor(colorStr)
	if !ok {
		r.logger.Warn("unparsable color, skipping fill", logging.Fields{"color": colorStr})
		return false
	}
	dc.SetRGBA(float64(cr)/255, float64(cg)/255, float64(cb)/255, ca)
	return true
}

func (r *Rasterizer) fill(dc *gg.Context) {
	if err := dc.Fill(); err != nil {
		r.logger.Error(err, "fill failed")
	}
}

// sliceMaxAbs returns the largest absolute value among samples[s0:s1],
// clamped to the valid range
func sliceMaxAbs(samples []float64, s0, s1 int) float64 {
	s0 = max(s0, 0)
	s1 = min(s1, len(samples))
	if s1 <= s0 {
		return 0
	}
	return common.MaxAbs(samples[s0:s1])
}
