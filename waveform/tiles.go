package waveform

import (
	"sort"

	"github.com/gogpu/gg"

	"github.com/RyanBlaney/wavescope/logging"
)

// defaultResetCeiling bounds the number of tile surfaces materialized between
// hard resets. Exceeding it destroys every tracked surface instead of doing
// per-tile LRU bookkeeping.
const defaultResetCeiling = 10

// TileSpan is one tile's slice of the timeline in pixels
type TileSpan struct {
	Index       int
	PixelOffset int
	PixelWidth  int
}

// Tile couples a timeline span with its drawing surface. The surface is owned
// solely by the tile manager: it is nil while the tile is dematerialized and
// is destroyed on hard reset.
type Tile struct {
	TileSpan
	Surface *gg.Context
	mounted bool
}

// Mounted reports whether the tile is part of the active viewport window
func (t *Tile) Mounted() bool {
	return t.mounted
}

// PartitionTiles splits [0, totalWidth) into spans no wider than maxTileWidth
// with no gaps and no overlap. When barUnit is positive the tile width is
// adjusted downward to a whole number of bar-plus-gap units so no bar is ever
// split across a tile seam.
func PartitionTiles(totalWidth, maxTileWidth, barUnit int) []TileSpan {
	if totalWidth <= 0 || maxTileWidth <= 0 {
		return nil
	}

	tileWidth := maxTileWidth
	if barUnit > 0 {
		tileWidth -= tileWidth % barUnit
		if tileWidth <= 0 {
			tileWidth = barUnit
		}
	}

	count := (totalWidth + tileWidth - 1) / tileWidth
	spans := make([]TileSpan, count)
	for i := range count {
		offset := i * tileWidth
		spans[i] = TileSpan{
			Index:       i,
			PixelOffset: offset,
			PixelWidth:  min(tileWidth, totalWidth-offset),
		}
	}
	return spans
}

// TileManager materializes bounded-size drawing surfaces for the portion of
// the timeline the viewport can see. The scrollable path keeps the tile under
// the scroll position plus one neighbor on each side; the eager path
// materializes everything once.
type TileManager struct {
	height     int
	totalWidth int
	tileWidth  int
	spans      []TileSpan
	scrollable bool

	tiles        map[int]*Tile
	materialized int // surfaces created since the last hard reset
	ceiling      int

	paint  func(*Tile)
	logger logging.Logger
}

// NewTileManager partitions totalWidth and prepares (but does not yet paint)
// the tile set. paint is invoked exactly once per surface materialization.
func NewTileManager(totalWidth, height, maxTileWidth, barUnit int, scrollable bool, paint func(*Tile)) *TileManager {
	spans := PartitionTiles(totalWidth, maxTileWidth, barUnit)
	tileWidth := 0
	if len(spans) > 0 {
		tileWidth = spans[0].PixelWidth
	}

	return &TileManager{
		height:     height,
		totalWidth: totalWidth,
		tileWidth:  tileWidth,
		spans:      spans,
		scrollable: scrollable,
		tiles:      make(map[int]*Tile),
		ceiling:    defaultResetCeiling,
		paint:      paint,
		logger:     logging.WithFields(logging.Fields{"component": "tile_manager"}),
	}
}

// TileWidth returns the adjusted width of a full tile in pixels
func (tm *TileManager) TileWidth() int {
	return tm.tileWidth
}

// TileCount returns the number of tiles in the partition
func (tm *TileManager) TileCount() int {
	return len(tm.spans)
}

// Spans returns the full tile partition
func (tm *TileManager) Spans() []TileSpan {
	return tm.spans
}

// RenderAll materializes every tile eagerly. Used when the timeline fits the
// viewport and no scroll subscription exists.
func (tm *TileManager) RenderAll() {
	for i := range tm.spans {
		tm.materialize(i)
	}
}

// RenderViewport materializes the tile under scrollPx plus one lookahead
// neighbor on each side and marks everything else unmounted. Unmounted
// surfaces are detached but kept until the materialization ceiling forces a
// hard reset.
func (tm *TileManager) RenderViewport(scrollPx float64) {
	if len(tm.spans) == 0 {
		return
	}

	if tm.materialized > tm.ceiling {
		tm.logger.Debug("materialization ceiling exceeded, hard reset", logging.Fields{
			"materialized": tm.materialized,
			"ceiling":      tm.ceiling,
		})
		tm.Reset()
	}

	idx := 0
	if tm.tileWidth > 0 {
		idx = int(scrollPx) / tm.tileWidth
	}
	idx = max(0, min(idx, len(tm.spans)-1))

	want := map[int]bool{}
	for i := idx - 1; i <= idx+1; i++ {
		if i >= 0 && i < len(tm.spans) {
			want[i] = true
		}
	}

	for i, t := range tm.tiles {
		if !want[i] {
			t.mounted = false
		}
	}
	for i := range want {
		tm.materialize(i)
	}
}

// MountedIndices returns the indices of currently mounted tiles in order
func (tm *TileManager) MountedIndices() []int {
	indices := make([]int, 0, len(tm.tiles))
	for i, t := range tm.tiles {
		if t.mounted {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	return indices
}

// Tiles returns every tile holding a live surface, ordered by index
func (tm *TileManager) Tiles() []*Tile {
	out := make([]*Tile, 0, len(tm.tiles))
	for _, t := range tm.tiles {
		if t.Surface != nil {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Reset destroys all tracked tile surfaces and clears tracking state
func (tm *TileManager) Reset() {
	for _, t := range tm.tiles {
		if t.Surface != nil {
			_ = t.Surface.Close()
			t.Surface = nil
		}
		t.mounted = false
	}
	tm.tiles = make(map[int]*Tile)
	tm.materialized = 0
}

func (tm *TileManager) materialize(i int) {
	t := tm.tiles[i]
	if t == nil {
		t = &Tile{TileSpan: tm.spans[i]}
		tm.tiles[i] = t
	}

	if t.Surface == nil {
		if t.PixelWidth <= 0 || tm.height <= 0 {
			// Nothing to draw
			t.mounted = true
			return
		}
		t.Surface = gg.NewContext(t.PixelWidth, tm.height)
		tm.materialized++
		if tm.paint != nil {
			tm.paint(t)
		}
	}
	t.mounted = true
}
