package waveform

import "github.com/gogpu/gg"

// AnalysisMode selects the spectral feature driving colorization
type AnalysisMode string

const (
	// SpectralCentroid colors by perceived brightness
	SpectralCentroid AnalysisMode = "spectralCentroid"
	// ProminentFrequency colors by the dominant frequency bin
	ProminentFrequency AnalysisMode = "prominentFrequency"
)

// BarAlign controls vertical bar placement inside the drawing surface
type BarAlign string

const (
	AlignCenter BarAlign = "center"
	AlignTop    BarAlign = "top"
	AlignBottom BarAlign = "bottom"
)

// RenderFunc is a full-override rasterization hook. When set, the rasterizer
// performs no painting of its own and hands the per-channel peak envelopes
// and the target surface straight to the hook.
type RenderFunc func(channels [][]float64, dc *gg.Context)

// ChannelOptions overrides rendering for one channel when channels are split
// into separate horizontal bands
type ChannelOptions struct {
	WaveColor     string `json:"wave_color,omitempty"`
	ProgressColor string `json:"progress_color,omitempty"`
}

// Options is the renderer configuration bundle
type Options struct {
	// Vertical size of the rendered waveform in pixels
	Height int `json:"height"`

	WaveColor     string `json:"wave_color"`
	ProgressColor string `json:"progress_color"`

	// Spectral colorization
	ColorizeByBrightness bool         `json:"colorize_by_brightness"`
	ColorAnalysisType    AnalysisMode `json:"color_analysis_type"`
	BrightnessColors     []ColorStop  `json:"brightness_colors,omitempty"`
	NormalizationPower   float64      `json:"normalization_power"`
	SegmentCount         int          `json:"segment_count"`

	// Bar geometry; a zero BarWidth selects the continuous line style
	BarWidth float64  `json:"bar_width"`
	BarGap   float64  `json:"bar_gap"`
	BarAlign BarAlign `json:"bar_align"`

	// Vertical scale: fixed gain, or peak-derived when Normalize is set
	BarHeight float64 `json:"bar_height"`
	Normalize bool    `json:"normalize"`

	// Time scale
	MinPxPerSec float64 `json:"min_px_per_sec"`
	AudioRate   float64 `json:"audio_rate"`

	// Tiling
	MaxTileWidth int `json:"max_tile_width"`

	// Per-channel overlay configs; empty renders all channels into one band
	SplitChannels []ChannelOptions `json:"split_channels,omitempty"`

	// Full-override paint hook
	RenderFunc RenderFunc `json:"-"`
}

// DefaultOptions returns sensible renderer defaults
func DefaultOptions() *Options {
	return &Options{
		Height:               128,
		WaveColor:            "#999",
		ProgressColor:        "#555",
		ColorizeByBrightness: false,
		ColorAnalysisType:    SpectralCentroid,
		BrightnessColors: []ColorStop{
			{Position: 0, Color: "rgb(0,0,255)"},
			{Position: 0.5, Color: "rgb(0,255,0)"},
			{Position: 1, Color: "rgb(255,0,0)"},
		},
		NormalizationPower: 1,
		SegmentCount:       512,
		BarWidth:           0,
		BarGap:             0,
		BarAlign:           AlignCenter,
		BarHeight:          1,
		Normalize:          false,
		MinPxPerSec:        50,
		AudioRate:          1,
		MaxTileWidth:       8000,
	}
}

// barUnit is the width of one bar-plus-gap slot in pixels, or 0 when the
// line style is active
func (o *Options) barUnit() int {
	if o.BarWidth <= 0 {
		return 0
	}
	return int(o.BarWidth + o.BarGap)
}
