package waveform

import "time"

// SampleBuffer holds decoded multi-channel PCM in [-1, 1] floats at a fixed
// sample rate. A buffer is treated as immutable once handed to the renderer:
// the render core owns it exclusively for the duration of a render pass.
type SampleBuffer struct {
	channels   [][]float64
	sampleRate int
}

// NewSampleBuffer wraps per-channel sample data. All channels are expected to
// have the same length; the shortest channel defines the buffer length.
func NewSampleBuffer(channels [][]float64, sampleRate int) *SampleBuffer {
	return &SampleBuffer{
		channels:   channels,
		sampleRate: sampleRate,
	}
}

// NumChannels returns the channel count
func (b *SampleBuffer) NumChannels() int {
	return len(b.channels)
}

// SampleRate returns the sample rate in Hz
func (b *SampleBuffer) SampleRate() int {
	return b.sampleRate
}

// Len returns the per-channel sample count
func (b *SampleBuffer) Len() int {
	if len(b.channels) == 0 {
		return 0
	}
	n := len(b.channels[0])
	for _, ch := range b.channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}

// Duration returns the buffer length as wall-clock time
func (b *SampleBuffer) Duration() time.Duration {
	if b.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Len()) / float64(b.sampleRate) * float64(time.Second))
}

// Channel returns the sample data for channel i, or nil when out of range
func (b *SampleBuffer) Channel(i int) []float64 {
	if i < 0 || i >= len(b.channels) {
		return nil
	}
	return b.channels[i]
}

// Channels returns all channel slices
func (b *SampleBuffer) Channels() [][]float64 {
	return b.channels
}

// Mono returns channel 0 for mono buffers, otherwise an averaged mixdown of
// all channels. Spectral analysis runs on this view.
func (b *SampleBuffer) Mono() []float64 {
	if len(b.channels) == 0 {
		return nil
	}
	if len(b.channels) == 1 {
		return b.channels[0]
	}

	n := b.Len()
	mixed := make([]float64, n)
	for _, ch := range b.channels {
		for i := 0; i < n; i++ {
			mixed[i] += ch[i]
		}
	}
	scale := 1.0 / float64(len(b.channels))
	for i := range mixed {
		mixed[i] *= scale
	}
	return mixed
}
