package waveform

import (
	"reflect"
	"testing"
)

func TestPartitionTiles(t *testing.T) {
	tests := []struct {
		name         string
		totalWidth   int
		maxTileWidth int
		barUnit      int
		want         []TileSpan
	}{
		{
			name:         "three tiles with short remainder",
			totalWidth:   20000,
			maxTileWidth: 8000,
			want: []TileSpan{
				{Index: 0, PixelOffset: 0, PixelWidth: 8000},
				{Index: 1, PixelOffset: 8000, PixelWidth: 8000},
				{Index: 2, PixelOffset: 16000, PixelWidth: 4000},
			},
		},
		{
			name:         "single tile",
			totalWidth:   500,
			maxTileWidth: 8000,
			want: []TileSpan{
				{Index: 0, PixelOffset: 0, PixelWidth: 500},
			},
		},
		{
			name:         "exact multiple",
			totalWidth:   16000,
			maxTileWidth: 8000,
			want: []TileSpan{
				{Index: 0, PixelOffset: 0, PixelWidth: 8000},
				{Index: 1, PixelOffset: 8000, PixelWidth: 8000},
			},
		},
		{
			name:         "bar unit shrinks tile width to whole slots",
			totalWidth:   100,
			maxTileWidth: 50,
			barUnit:      7,
			// 50 - 50%7 = 49
			want: []TileSpan{
				{Index: 0, PixelOffset: 0, PixelWidth: 49},
				{Index: 1, PixelOffset: 49, PixelWidth: 49},
				{Index: 2, PixelOffset: 98, PixelWidth: 2},
			},
		},
		{
			name:         "zero width",
			totalWidth:   0,
			maxTileWidth: 8000,
			want:         nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PartitionTiles(tt.totalWidth, tt.maxTileWidth, tt.barUnit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PartitionTiles(%d, %d, %d) = %+v, want %+v",
					tt.totalWidth, tt.maxTileWidth, tt.barUnit, got, tt.want)
			}
		})
	}
}

func TestPartitionTiles_CoversWithoutGapsOrOverlap(t *testing.T) {
	cases := []struct{ total, cap, unit int }{
		{20000, 8000, 0},
		{12345, 1000, 0},
		{9999, 1000, 3},
		{1, 8000, 0},
		{8000, 8000, 0},
		{100000, 7777, 13},
	}

	for _, c := range cases {
		spans := PartitionTiles(c.total, c.cap, c.unit)
		next := 0
		for _, s := range spans {
			if s.PixelOffset != next {
				t.Fatalf("total=%d cap=%d unit=%d: tile %d starts at %d, want %d (gap or overlap)",
					c.total, c.cap, c.unit, s.Index, s.PixelOffset, next)
			}
			if s.PixelWidth <= 0 {
				t.Fatalf("total=%d: tile %d has non-positive width %d", c.total, s.Index, s.PixelWidth)
			}
			next = s.PixelOffset + s.PixelWidth
		}
		if next != c.total {
			t.Fatalf("total=%d cap=%d unit=%d: union covers [0,%d), want [0,%d)", c.total, c.cap, c.unit, next, c.total)
		}
	}
}

func TestTileManager_ScrollWindow(t *testing.T) {
	painted := map[int]int{}
	tm := NewTileManager(1000, 32, 100, 0, true, func(tile *Tile) {
		painted[tile.Index]++
	})

	// Viewport over tile 2
	tm.RenderViewport(250)
	if got, want := tm.MountedIndices(), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after scroll to tile 2: mounted %v, want %v", got, want)
	}

	// Jump to tile 5: mounted set transitions to {4,5,6}, old tiles become
	// eligible for eviction but keep their surfaces
	tm.RenderViewport(550)
	if got, want := tm.MountedIndices(), []int{4, 5, 6}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after scroll to tile 5: mounted %v, want %v", got, want)
	}
	for _, tile := range tm.Tiles() {
		if tile.Index <= 3 && tile.Mounted() {
			t.Errorf("tile %d still mounted after scroll away", tile.Index)
		}
		if tile.Surface == nil {
			t.Errorf("tile %d lost its surface without a hard reset", tile.Index)
		}
	}

	// Each surface painted exactly once
	for idx, n := range painted {
		if n != 1 {
			t.Errorf("tile %d painted %d times, want 1", idx, n)
		}
	}
}

func TestTileManager_EdgeWindowsClamp(t *testing.T) {
	tm := NewTileManager(1000, 32, 100, 0, true, nil)

	tm.RenderViewport(0)
	if got, want := tm.MountedIndices(), []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("at start: mounted %v, want %v", got, want)
	}

	tm.RenderViewport(99999)
	if got, want := tm.MountedIndices(), []int{8, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("past the end: mounted %v, want %v", got, want)
	}
}

func TestTileManager_HardResetAfterCeiling(t *testing.T) {
	tm := NewTileManager(1200, 32, 100, 0, true, nil)

	// Walk the viewport across the timeline; every step materializes one new
	// tile until the ceiling trips
	for idx := 0; idx < 10; idx++ {
		tm.RenderViewport(float64(idx*100 + 50))
	}
	if tm.materialized <= defaultResetCeiling {
		t.Fatalf("walk should exceed the ceiling, materialized = %d", tm.materialized)
	}
	liveBefore := len(tm.Tiles())

	// The next viewport render hard-resets everything, then materializes
	// only the needed window
	tm.RenderViewport(1050)
	if got, want := tm.MountedIndices(), []int{9, 10, 11}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after reset: mounted %v, want %v", got, want)
	}
	if got := len(tm.Tiles()); got != 3 {
		t.Errorf("after reset: %d live surfaces (was %d), want 3", got, liveBefore)
	}
	if tm.materialized != 3 {
		t.Errorf("after reset: materialized counter = %d, want 3", tm.materialized)
	}
}

func TestTileManager_EagerPath(t *testing.T) {
	painted := 0
	tm := NewTileManager(950, 32, 100, 0, false, func(*Tile) { painted++ })

	tm.RenderAll()
	if painted != 10 {
		t.Errorf("eager render painted %d tiles, want 10", painted)
	}
	if got := len(tm.MountedIndices()); got != 10 {
		t.Errorf("eager render mounted %d tiles, want 10", got)
	}
}
