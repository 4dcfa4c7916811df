package waveform

import "sync"

// ScrollEvent describes a scroll-position change in both normalized timeline
// fractions and raw pixels
type ScrollEvent struct {
	Start    float64 // visible start as a fraction of the full timeline
	End      float64 // visible end as a fraction of the full timeline
	OffsetPx float64 // raw scroll offset in pixels
}

// RenderEvent fires when a full render pass begins
type RenderEvent struct {
	TotalWidth int
	Scrollable bool
}

// RenderedEvent fires strictly after the initial synchronous paint of a
// render pass has completed
type RenderedEvent struct {
	TotalWidth int
	TileCount  int
}

// Emitter is a minimal typed publish/subscribe hub for render-lifecycle
// notifications. Registering a listener returns its removal func; no other
// dispatch machinery is needed.
type Emitter[T any] struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func(T)
}

// On registers fn and returns a func that removes it
func (e *Emitter[T]) On(fn func(T)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[int]func(T))
	}
	id := e.next
	e.next++
	e.handlers[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	}
}

// Emit delivers v to every registered listener
func (e *Emitter[T]) Emit(v T) {
	e.mu.Lock()
	fns := make([]func(T), 0, len(e.handlers))
	for _, fn := range e.handlers {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
