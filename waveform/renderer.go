package waveform

import (
	"errors"
	"sync"

	"github.com/gogpu/gg"

	"github.com/RyanBlaney/wavescope/logging"
)

var (
	// ErrNoViewport is returned when a renderer is constructed without a
	// viewport source to mount into
	ErrNoViewport = errors.New("waveform: no viewport source to mount into")

	// ErrNoTiles is returned when export runs before any tile has been painted
	ErrNoTiles = errors.New("waveform: no tiles have been rendered")
)

// RenderState captures the geometry of one render pass. It is created at the
// start of a pass and discarded wholesale on every full re-render, never
// patched incrementally, so tile and viewport math is never computed against
// stale dimensions.
type RenderState struct {
	TotalWidth   int
	Scrollable   bool
	ScrollOffset float64
}

// Renderer drives the full pipeline: sample buffer -> spectral analyzer ->
// color mapper -> rasterizer -> tile manager, with the coordinator feeding
// viewport changes back in. One renderer serves one mounted widget; it is an
// explicitly constructed, exclusively owned object.
type Renderer struct {
	mu sync.Mutex

	opts        *Options
	source      ViewportSource
	coordinator *Coordinator
	analyzer    *SpectralAnalyzer
	rasterizer  *Rasterizer
	logger      logging.Logger

	buffer   *SampleBuffer
	features []float64 // cached normalized per-segment values, one pass per load
	progress float64   // playback progress fraction in [0,1]

	state *RenderState
	tiles *TileManager

	renderEv   Emitter[RenderEvent]
	renderedEv Emitter[RenderedEvent]
	scrollEv   Emitter[ScrollEvent]
}

// NewRenderer constructs a renderer mounted on the given viewport source.
// A missing mount target is a fatal configuration error surfaced here, not
// deferred to the first render.
func NewRenderer(opts *Options, source ViewportSource) (*Renderer, error) {
	if source == nil {
		return nil, ErrNoViewport
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	normalizeOptions(opts)

	return &Renderer{
		opts:        opts,
		source:      source,
		coordinator: NewCoordinator(source),
		analyzer:    NewSpectralAnalyzer(),
		rasterizer:  NewRasterizer(opts),
		logger:      logging.WithFields(logging.Fields{"component": "renderer"}),
	}, nil
}

// normalizeOptions backfills zero values so the pipeline never divides by or
// partitions with nonsense
func normalizeOptions(o *Options) {
	if o.Height <= 0 {
		o.Height = 128
	}
	if o.MinPxPerSec <= 0 {
		o.MinPxPerSec = 50
	}
	if o.AudioRate <= 0 {
		o.AudioRate = 1
	}
	if o.MaxTileWidth <= 0 {
		o.MaxTileWidth = 8000
	}
	if o.SegmentCount <= 0 {
		o.SegmentCount = 512
	}
	if o.ColorAnalysisType == "" {
		o.ColorAnalysisType = SpectralCentroid
	}
	if o.WaveColor == "" {
		o.WaveColor = "#999"
	}
	if o.ProgressColor == "" {
		o.ProgressColor = "#555"
	}
}

// Load hands a decoded sample buffer to the renderer and performs the initial
// render pass. The buffer is owned by the render core until replaced.
func (r *Renderer) Load(buffer *SampleBuffer) {
	r.mu.Lock()
	r.buffer = buffer
	r.features = nil
	r.mu.Unlock()

	r.Render()
}

// Render performs a full render pass. Starting a pass supersedes any pending
// debounced re-render and discards all viewport subscriptions of the previous
// pass before creating new ones, so old and new passes never interleave.
func (r *Renderer) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.coordinator.Detach()

	if r.buffer == nil || r.buffer.Len() == 0 {
		r.state = nil
		r.tiles = nil
		return
	}

	// On-screen x of the progress edge under the outgoing state, used to keep
	// that reference point visually stationary after the rebuild
	refScreenX := -1.0
	if r.state != nil {
		refScreenX = r.progress*float64(r.state.TotalWidth) - r.state.ScrollOffset
	}

	viewportWidth, _ := r.source.Size()
	totalWidth := TotalRenderWidth(r.buffer.Duration(), r.opts.AudioRate, r.opts.MinPxPerSec)
	if totalWidth < 1 {
		totalWidth = 1
	}
	scrollable := viewportWidth > 0 && totalWidth > viewportWidth

	if r.opts.ColorizeByBrightness && r.features == nil {
		segments := min(r.opts.SegmentCount, r.buffer.Len()/analysisWindowSize)
		if segments < 1 {
			segments = 1
		}
		r.features = r.analyzer.Analyze(
			r.buffer.Mono(), r.buffer.SampleRate(), segments,
			r.opts.ColorAnalysisType, r.opts.NormalizationPower,
		)
	}

	state := &RenderState{
		TotalWidth:   totalWidth,
		Scrollable:   scrollable,
		ScrollOffset: r.source.ScrollOffset(),
	}
	r.state = state

	buffer := r.buffer
	features := r.features
	rasterizer := r.rasterizer
	paint := func(t *Tile) {
		rasterizer.DrawTile(t.Surface, buffer.Channels(), t.PixelOffset, totalWidth, features)
	}

	tiles := NewTileManager(totalWidth, r.opts.Height, r.opts.MaxTileWidth, r.opts.barUnit(), scrollable, paint)
	r.tiles = tiles

	r.renderEv.Emit(RenderEvent{TotalWidth: totalWidth, Scrollable: scrollable})

	if scrollable {
		tiles.RenderViewport(state.ScrollOffset)

		// Scroll handling must not retake r.mu: ScrollTo during this pass
		// delivers the notification synchronously. It runs lock-free over
		// this pass's state and tiles, so scroll notifications must arrive
		// on the goroutine driving the renderer; a debounced re-render
		// detaches this callback under r.mu before swapping either.
		scrollEv := &r.scrollEv
		r.coordinator.Attach(totalWidth,
			func(ev ScrollEvent) {
				tiles.RenderViewport(ev.OffsetPx)
				state.ScrollOffset = ev.OffsetPx
				scrollEv.Emit(ev)
			},
			r.Render,
		)

		if refScreenX >= 0 {
			target := r.progress*float64(totalWidth) - refScreenX
			if target < 0 {
				target = 0
			}
			r.coordinator.RestoreScroll(target)
			state.ScrollOffset = r.source.ScrollOffset()
		}
	} else {
		tiles.RenderAll()
		r.coordinator.Attach(totalWidth, nil, r.Render)
	}

	r.logger.Debug("render pass complete", logging.Fields{
		"total_width": totalWidth,
		"scrollable":  scrollable,
		"tiles":       tiles.TileCount(),
	})

	// Fires strictly after the synchronous paint above
	r.renderedEv.Emit(RenderedEvent{TotalWidth: totalWidth, TileCount: len(tiles.Tiles())})
}

// Destroy tears the renderer down: subscriptions removed, tile surfaces
// destroyed, state dropped
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.coordinator.Detach()
	if r.tiles != nil {
		r.tiles.Reset()
		r.tiles = nil
	}
	r.state = nil
	r.buffer = nil
	r.features = nil
}

// SetProgress records the playback progress fraction driving the progress
// overlay and the scroll-restore reference point. Transport control itself
// lives outside the render core.
func (r *Renderer) SetProgress(fraction float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	r.progress = fraction
}

// ProgressOverlay duplicates a tile's painted surface with the progress color
// composited over the waveform pixels only
func (r *Renderer) ProgressOverlay(t *Tile) *gg.Context {
	if t == nil {
		return nil
	}
	return r.rasterizer.RenderProgressOverlay(t.Surface, r.opts.ProgressColor)
}

// Width returns the total rendered timeline width in pixels, 0 before the
// first render
func (r *Renderer) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return 0
	}
	return r.state.TotalWidth
}

// ScrollOffset returns the current scroll offset in pixels
func (r *Renderer) ScrollOffset() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return 0
	}
	return r.state.ScrollOffset
}

// PxPerSec returns the effective pixels-per-second: the configured density
// scaled by the playback-rate factor
func (r *Renderer) PxPerSec() float64 {
	return r.opts.MinPxPerSec * r.opts.AudioRate
}

// Viewport returns the mounted viewport source, the wrapper handle plugin
// overlays draw relative to
func (r *Renderer) Viewport() ViewportSource {
	return r.source
}

// Tiles returns the currently materialized tiles in timeline order; plugin
// overlays sharing the coordinate space consume these surface handles
func (r *Renderer) Tiles() []*Tile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tiles == nil {
		return nil
	}
	return r.tiles.Tiles()
}

// Features returns the cached normalized feature values of the current load,
// nil when colorization is off
func (r *Renderer) Features() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.features
}

// OnRender registers a listener for the start of each render pass
func (r *Renderer) OnRender(fn func(RenderEvent)) func() {
	return r.renderEv.On(fn)
}

// OnRendered registers a listener fired after each pass's initial paint
func (r *Renderer) OnRendered(fn func(RenderedEvent)) func() {
	return r.renderedEv.On(fn)
}

// OnScroll registers a listener for scroll-position broadcasts
func (r *Renderer) OnScroll(fn func(ScrollEvent)) func() {
	return r.scrollEv.On(fn)
}
