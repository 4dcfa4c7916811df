package transcode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"

	"github.com/RyanBlaney/wavescope/logging"
	"github.com/RyanBlaney/wavescope/waveform"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// MaxDuration truncates the decoded buffer; zero means no limit
	MaxDuration time.Duration `json:"max_duration"`

	// MixdownMono collapses all channels into one before returning
	MixdownMono bool `json:"mixdown_mono"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MaxDuration: 0,
		MixdownMono: false,
	}
}

// Decoder turns uncompressed audio files into sample buffers for the render
// core. Only WAV input is supported; compressed formats are deliberately out
// of scope.
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a decoder with the given config (nil selects defaults)
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{"component": "transcode"}),
	}
}

// DecodeFile reads a WAV file into a SampleBuffer with per-channel amplitudes
// normalized to [-1, 1]
func (d *Decoder) DecodeFile(path string) (*waveform.SampleBuffer, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".wav" {
		return nil, fmt.Errorf("transcode: unsupported format %q (only .wav input is decoded)", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcode: opening %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("transcode: %s is not a valid WAV file", path)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("transcode: reading PCM from %s: %w", path, err)
	}

	numChannels := pcm.Format.NumChannels
	sampleRate := pcm.Format.SampleRate
	if numChannels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("transcode: %s has invalid format (%d channels at %d Hz)", path, numChannels, sampleRate)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	// 8-bit WAV is unsigned with silence at 128; deeper depths are signed
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	frames := len(pcm.Data) / numChannels
	if d.config.MaxDuration > 0 {
		maxFrames := int(d.config.MaxDuration.Seconds() * float64(sampleRate))
		frames = min(frames, maxFrames)
	}

	channels := make([][]float64, numChannels)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			channels[c][i] = float64(pcm.Data[i*numChannels+c]-offset) * scale
		}
	}

	buffer := waveform.NewSampleBuffer(channels, sampleRate)
	if d.config.MixdownMono && numChannels > 1 {
		buffer = waveform.NewSampleBuffer([][]float64{buffer.Mono()}, sampleRate)
	}

	d.logger.Debug("decoded file", logging.Fields{
		"path":        path,
		"channels":    buffer.NumChannels(),
		"sample_rate": sampleRate,
		"frames":      frames,
	})

	return buffer, nil
}
