package waveform

import (
	"image"
	"testing"

	"github.com/gogpu/gg"
)

func constantSignal(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func rgbaAt(img image.Image, x, y int) (r, g, b, a uint8) {
	cr, cg, cb, ca := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)
}

func TestDrawTile_BarsPaintSlotsAndGaps(t *testing.T) {
	opts := DefaultOptions()
	opts.BarWidth = 2
	opts.BarGap = 1
	opts.WaveColor = "rgb(255,0,0)"

	r := NewRasterizer(opts)
	dc := gg.NewContext(21, 10)
	r.DrawTile(dc, [][]float64{constantSignal(210, 1)}, 0, 21, nil)

	img := dc.Image()

	// Bar slots are painted...
	for _, x := range []int{0, 3, 6, 9} {
		if _, _, _, a := rgbaAt(img, x, 5); a == 0 {
			t.Errorf("pixel (%d,5) inside a bar is transparent", x)
		}
		if cr, _, _, _ := rgbaAt(img, x, 5); cr < 200 {
			t.Errorf("pixel (%d,5) inside a bar is not red: r=%d", x, cr)
		}
	}
	// ...gaps are not
	for _, x := range []int{2, 5, 8} {
		if _, _, _, a := rgbaAt(img, x, 5); a != 0 {
			t.Errorf("pixel (%d,5) inside a gap is painted, alpha=%d", x, a)
		}
	}
}

func TestDrawTile_LineModePaintsEnvelope(t *testing.T) {
	opts := DefaultOptions()
	opts.BarWidth = 0
	opts.WaveColor = "#0f0"

	r := NewRasterizer(opts)
	dc := gg.NewContext(40, 20)
	r.DrawTile(dc, [][]float64{constantSignal(400, 0.8)}, 0, 40, nil)

	if _, g, _, a := rgbaAt(dc.Image(), 20, 10); a == 0 || g < 200 {
		t.Errorf("center pixel not painted green: g=%d alpha=%d", g, a)
	}
}

func TestDrawTile_SkipsDegenerateTargets(t *testing.T) {
	opts := DefaultOptions()
	r := NewRasterizer(opts)

	// Nothing to draw is not an error
	r.DrawTile(nil, [][]float64{constantSignal(10, 1)}, 0, 100, nil)
	r.DrawTile(gg.NewContext(10, 10), nil, 0, 100, nil)
	r.DrawTile(gg.NewContext(10, 10), [][]float64{constantSignal(10, 1)}, 0, 0, nil)
}

func TestDrawTile_CustomRenderFuncOverridesPaint(t *testing.T) {
	called := false
	opts := DefaultOptions()
	opts.WaveColor = "rgb(255,0,0)"
	opts.RenderFunc = func(channels [][]float64, dc *gg.Context) {
		called = true
	}

	r := NewRasterizer(opts)
	dc := gg.NewContext(20, 10)
	r.DrawTile(dc, [][]float64{constantSignal(200, 1)}, 0, 20, nil)

	if !called {
		t.Fatal("custom render hook was not invoked")
	}
	if _, _, _, a := rgbaAt(dc.Image(), 0, 5); a != 0 {
		t.Error("rasterizer painted despite the full-override hook")
	}
}

func TestDrawTile_ColorizedBarsFollowFeatureGradient(t *testing.T) {
	opts := DefaultOptions()
	opts.BarWidth = 2
	opts.BarGap = 0
	opts.ColorizeByBrightness = true
	opts.BrightnessColors = []ColorStop{
		{Position: 0, Color: "rgb(0,0,0)"},
		{Position: 1, Color: "rgb(255,255,255)"},
	}

	r := NewRasterizer(opts)
	dc := gg.NewContext(20, 10)
	features := []float64{0, 1}
	r.DrawTile(dc, [][]float64{constantSignal(200, 1)}, 0, 20, features)

	img := dc.Image()
	lr, _, _, la := rgbaAt(img, 0, 5)
	rr, _, _, ra := rgbaAt(img, 19, 5)

	if la == 0 || ra == 0 {
		t.Fatalf("colorized bars not painted: alpha left=%d right=%d", la, ra)
	}
	if lr > 50 {
		t.Errorf("left bars should map to the dark end, got r=%d", lr)
	}
	if rr < 200 {
		t.Errorf("right bars should map to the bright end, got r=%d", rr)
	}
}

func TestDrawTile_SplitChannelsRenderBands(t *testing.T) {
	opts := DefaultOptions()
	opts.BarWidth = 2
	opts.BarGap = 0
	opts.SplitChannels = []ChannelOptions{
		{WaveColor: "rgb(255,0,0)"},
		{WaveColor: "rgb(0,0,255)"},
	}

	r := NewRasterizer(opts)
	dc := gg.NewContext(20, 20)
	channels := [][]float64{constantSignal(200, 1), constantSignal(200, 1)}
	r.DrawTile(dc, channels, 0, 20, nil)

	img := dc.Image()
	if cr, _, cb, _ := rgbaAt(img, 4, 5); cr < 200 || cb > 50 {
		t.Errorf("upper band not red: r=%d b=%d", cr, cb)
	}
	if cr, _, cb, _ := rgbaAt(img, 4, 15); cb < 200 || cr > 50 {
		t.Errorf("lower band not blue: r=%d b=%d", cr, cb)
	}
}

func TestRenderProgressOverlay_PaintsWaveformPixelsOnly(t *testing.T) {
	opts := DefaultOptions()
	opts.BarWidth = 2
	opts.BarGap = 2
	opts.WaveColor = "rgb(255,0,0)"

	r := NewRasterizer(opts)
	dc := gg.NewContext(20, 10)
	r.DrawTile(dc, [][]float64{constantSignal(200, 1)}, 0, 20, nil)

	overlay := r.RenderProgressOverlay(dc, "rgb(0,0,255)")
	if overlay == nil {
		t.Fatal("no overlay produced")
	}

	img := overlay.Image()
	// Over a bar: the progress color
	if cr, _, cb, a := rgbaAt(img, 0, 5); a == 0 || cb < 200 || cr > 50 {
		t.Errorf("bar pixel not repainted blue: r=%d b=%d alpha=%d", cr, cb, a)
	}
	// Over the background: still transparent
	if _, _, _, a := rgbaAt(img, 2, 5); a != 0 {
		t.Errorf("background pixel gained paint, alpha=%d", a)
	}

	if r.RenderProgressOverlay(nil, "rgb(0,0,255)") != nil {
		t.Error("overlay of a missing surface should be nil")
	}
}
