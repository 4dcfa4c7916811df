package waveform

import (
	"math"
	"sync"
	"time"
)

// debounceDelay collapses bursts of resize notifications into one re-render
const debounceDelay = 100 * time.Millisecond

// ViewportSource abstracts the host environment's viewport: its size, its
// scroll position, and change notifications for both. Any event-loop or
// polling mechanism satisfies the contract as long as size and scroll changes
// are delivered at least once. Hosts without resize support may return a
// no-op cancel from OnResize and never invoke the callback; size-driven
// re-render then simply never fires.
//
// Scroll notifications must be delivered on the goroutine driving the
// renderer. Resize notifications may come from any goroutine; they only
// schedule a debounced re-render, which detaches the previous pass's
// subscriptions before touching render state.
type ViewportSource interface {
	Size() (width, height int)
	ScrollOffset() float64
	ScrollTo(offsetPx float64)
	OnResize(fn func(width, height int)) (cancel func())
	OnScroll(fn func(offsetPx float64)) (cancel func())
}

// Coordinator observes a ViewportSource on behalf of a render pass. Resize
// notifications are debounced into a single re-render request; scroll
// notifications are converted into ScrollEvents carrying normalized start and
// end fractions plus the raw pixel offset. Detach removes every subscription
// and cancels any pending debounce, so successive render passes never
// interleave their observation of viewport events.
type Coordinator struct {
	source ViewportSource

	mu      sync.Mutex
	timer   *time.Timer
	cancels []func()
}

// NewCoordinator wraps a viewport source
func NewCoordinator(source ViewportSource) *Coordinator {
	return &Coordinator{source: source}
}

// Attach subscribes to the viewport for one render pass. totalWidth is the
// full rendered timeline width used to normalize scroll offsets.
func (c *Coordinator) Attach(totalWidth int, onScroll func(ScrollEvent), onResize func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if onScroll != nil {
		cancel := c.source.OnScroll(func(offsetPx float64) {
			onScroll(c.scrollEvent(totalWidth, offsetPx))
		})
		c.cancels = append(c.cancels, cancel)
	}

	if onResize != nil {
		cancel := c.source.OnResize(func(_, _ int) {
			c.scheduleRender(onResize)
		})
		c.cancels = append(c.cancels, cancel)
	}
}

// Detach removes all subscriptions and cancels any pending debounced render
func (c *Coordinator) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// ScrollEventAt converts a raw pixel offset into a ScrollEvent for the given
// timeline width
func (c *Coordinator) ScrollEventAt(totalWidth int, offsetPx float64) ScrollEvent {
	return c.scrollEvent(totalWidth, offsetPx)
}

func (c *Coordinator) scrollEvent(totalWidth int, offsetPx float64) ScrollEvent {
	ev := ScrollEvent{OffsetPx: offsetPx}
	if totalWidth > 0 {
		viewportWidth, _ := c.source.Size()
		ev.Start = offsetPx / float64(totalWidth)
		ev.End = (offsetPx + float64(viewportWidth)) / float64(totalWidth)
	}
	return ev
}

// scheduleRender resets the debounce timer; each new notification cancels the
// pending request so a burst collapses into one render.
func (c *Coordinator) scheduleRender(onResize func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(debounceDelay, onResize)
}

// RestoreScroll moves the viewport so that the reference point ends up at
// targetOffset, compensating for sub-pixel drift by rounding the adjustment
// delta away from zero at half-pixel granularity.
func (c *Coordinator) RestoreScroll(targetOffset float64) {
	current := c.source.ScrollOffset()
	delta := targetOffset - current
	if delta == 0 {
		return
	}
	c.source.ScrollTo(current + roundHalfAwayFromZero(delta))
}

// roundHalfAwayFromZero snaps v to the nearest half pixel away from zero
func roundHalfAwayFromZero(v float64) float64 {
	return math.Copysign(math.Ceil(math.Abs(v)*2)/2, v)
}

// TotalRenderWidth computes the full timeline width in pixels. The playback
// rate factor compresses or expands the visual time axis only; the sample
// data is untouched.
func TotalRenderWidth(duration time.Duration, audioRate, pxPerSec float64) int {
	if audioRate <= 0 {
		audioRate = 1
	}
	return int(math.Round(duration.Seconds() / audioRate * pxPerSec))
}

// StaticViewport is a programmatic ViewportSource for embedding environments
// without a windowing system: tests, batch export, and the CLI. Size and
// scroll changes are injected through the Notify methods.
type StaticViewport struct {
	mu       sync.Mutex
	width    int
	height   int
	scrollPx float64

	resize Emitter[[2]int]
	scroll Emitter[float64]
}

// NewStaticViewport creates a fixed-size viewport
func NewStaticViewport(width, height int) *StaticViewport {
	return &StaticViewport{width: width, height: height}
}

func (v *StaticViewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

func (v *StaticViewport) ScrollOffset() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollPx
}

// ScrollTo sets the scroll offset and notifies subscribers
func (v *StaticViewport) ScrollTo(offsetPx float64) {
	v.mu.Lock()
	v.scrollPx = offsetPx
	v.mu.Unlock()
	v.scroll.Emit(offsetPx)
}

func (v *StaticViewport) OnResize(fn func(width, height int)) func() {
	return v.resize.On(func(size [2]int) { fn(size[0], size[1]) })
}

func (v *StaticViewport) OnScroll(fn func(offsetPx float64)) func() {
	return v.scroll.On(fn)
}

// NotifyResize changes the viewport size and fans the change out to
// subscribers
func (v *StaticViewport) NotifyResize(width, height int) {
	v.mu.Lock()
	v.width, v.height = width, height
	v.mu.Unlock()
	v.resize.Emit([2]int{width, height})
}
