package waveform

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCoordinator_DebounceCollapsesResizeBursts(t *testing.T) {
	viewport := NewStaticViewport(300, 100)
	c := NewCoordinator(viewport)

	var renders atomic.Int32
	c.Attach(1000, nil, func() { renders.Add(1) })
	defer c.Detach()

	for i := 0; i < 5; i++ {
		viewport.NotifyResize(300+i, 100)
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(debounceDelay + 100*time.Millisecond)
	if got := renders.Load(); got != 1 {
		t.Errorf("burst of 5 resizes triggered %d renders, want 1", got)
	}
}

func TestCoordinator_DetachCancelsPendingRender(t *testing.T) {
	viewport := NewStaticViewport(300, 100)
	c := NewCoordinator(viewport)

	var renders atomic.Int32
	c.Attach(1000, nil, func() { renders.Add(1) })

	viewport.NotifyResize(400, 100)
	c.Detach()

	time.Sleep(debounceDelay + 100*time.Millisecond)
	if got := renders.Load(); got != 0 {
		t.Errorf("detached coordinator still rendered %d times", got)
	}
}

func TestCoordinator_ScrollEventFractions(t *testing.T) {
	viewport := NewStaticViewport(100, 50)
	c := NewCoordinator(viewport)

	var got ScrollEvent
	c.Attach(1000, func(ev ScrollEvent) { got = ev }, nil)
	defer c.Detach()

	viewport.ScrollTo(250)

	if got.OffsetPx != 250 {
		t.Errorf("OffsetPx = %v, want 250", got.OffsetPx)
	}
	if got.Start != 0.25 {
		t.Errorf("Start = %v, want 0.25", got.Start)
	}
	if got.End != 0.35 {
		t.Errorf("End = %v, want 0.35", got.End)
	}
}

func TestCoordinator_RestoreScrollRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		want    float64
	}{
		{"positive drift rounds up", 0, 10.2, 10.5},
		{"exact half kept", 0, 10.5, 10.5},
		{"negative drift rounds down", 20, 16.9, 16.5},
		{"no drift no move", 30, 30, 30},
		{"tiny positive drift still moves half a pixel", 0, 0.01, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewport := NewStaticViewport(100, 50)
			viewport.ScrollTo(tt.current)
			c := NewCoordinator(viewport)

			c.RestoreScroll(tt.target)
			if got := viewport.ScrollOffset(); got != tt.want {
				t.Errorf("RestoreScroll(%v) from %v left offset %v, want %v",
					tt.target, tt.current, got, tt.want)
			}
		})
	}
}

func TestTotalRenderWidth(t *testing.T) {
	tests := []struct {
		name      string
		duration  time.Duration
		audioRate float64
		pxPerSec  float64
		want      int
	}{
		{"one second at 100px", time.Second, 1, 100, 100},
		{"half rate doubles width", 2 * time.Second, 0.5, 100, 400},
		{"double rate halves width", 2 * time.Second, 2, 100, 100},
		{"zero rate treated as 1", time.Second, 0, 50, 50},
		{"fractional rounds", 1500 * time.Millisecond, 1, 33, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalRenderWidth(tt.duration, tt.audioRate, tt.pxPerSec); got != tt.want {
				t.Errorf("TotalRenderWidth(%v, %v, %v) = %d, want %d",
					tt.duration, tt.audioRate, tt.pxPerSec, got, tt.want)
			}
		})
	}
}
