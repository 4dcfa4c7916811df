package waveform

import (
	"math"

	"github.com/RyanBlaney/wavescope/algorithms/common"
	"github.com/RyanBlaney/wavescope/algorithms/spectral"
	"github.com/RyanBlaney/wavescope/algorithms/windowing"
	"github.com/RyanBlaney/wavescope/logging"
)

const (
	// analysisWindowSize is the fixed transform size. Small enough to keep
	// the per-load cost linear in signal length, large enough for usable
	// frequency resolution at speech/music sample rates.
	analysisWindowSize = 128

	// analysisHopDivisor yields a 75% window overlap
	analysisHopDivisor = 4

	// neutralCentroid is the raw placeholder for segments too short to
	// analyze in centroid mode, already on the log-compressed [0,1] scale
	neutralCentroid = 0.5
)

// SpectralAnalyzer turns a raw sample buffer into one normalized feature
// value per time segment. Centroid mode tracks perceived brightness, peak
// mode tracks the dominant frequency. Analysis is a one-time synchronous
// pass per load, not a streaming filter.
type SpectralAnalyzer struct {
	window *windowing.Hann
	fft    *spectral.FFT
	logger logging.Logger
}

// NewSpectralAnalyzer creates an analyzer with the fixed window size
func NewSpectralAnalyzer() *SpectralAnalyzer {
	return &SpectralAnalyzer{
		window: windowing.NewHann(analysisWindowSize, false),
		fft:    spectral.NewFFT(),
		logger: logging.WithFields(logging.Fields{"component": "spectral_analyzer"}),
	}
}

// Analyze computes one feature value per segment, globally min-max rescaled
// to [0,1] and stretched by value^power. It never fails: segments shorter
// than the analysis window and zero-energy windows degrade to neutral
// defaults, and the returned slice always has length segmentCount.
//
// Note the deliberate asymmetry between the two modes: centroid mode
// log-compresses each per-window frequency before averaging, while peak mode
// averages raw frequencies and relies on the global rescale alone. The two
// curves are kept distinct on purpose.
func (a *SpectralAnalyzer) Analyze(samples []float64, sampleRate, segmentCount int, mode AnalysisMode, power float64) []float64 {
	if segmentCount <= 0 {
		return []float64{}
	}

	nyquist := float64(sampleRate) / 2
	raw := make([]float64, segmentCount)

	centroid := spectral.NewSpectralCentroid(sampleRate)
	peak := spectral.NewPeakFrequency(sampleRate)

	segmentSize := len(samples) / segmentCount
	hop := analysisWindowSize / analysisHopDivisor

	for i := range segmentCount {
		start := i * segmentSize
		end := min(start+segmentSize, len(samples))

		if end-start < analysisWindowSize {
			raw[i] = a.neutralValue(mode, nyquist)
			continue
		}

		var values []float64
		frame := make([]float64, analysisWindowSize)

		for w := start; w+analysisWindowSize <= end; w += hop {
			copy(frame, samples[w:w+analysisWindowSize])
			if err := a.window.ApplyInPlace(frame); err != nil {
				continue
			}

			magnitude := a.fft.MagnitudeSpectrum(frame)

			switch mode {
			case ProminentFrequency:
				values = append(values, peak.Compute(magnitude))
			default:
				values = append(values, logCompress(centroid.Compute(magnitude), nyquist))
			}
		}

		if len(values) > 0 {
			raw[i] = common.Mean(values)
		} else {
			raw[i] = a.neutralValue(mode, nyquist)
		}
	}

	common.MinMaxRescale(raw)
	common.PowerStretch(raw, power)

	a.logger.Debug("analysis pass complete", logging.Fields{
		"segments": segmentCount,
		"mode":     string(mode),
	})

	return raw
}

func (a *SpectralAnalyzer) neutralValue(mode AnalysisMode, nyquist float64) float64 {
	if mode == ProminentFrequency {
		return nyquist / 2
	}
	return neutralCentroid
}

// logCompress flattens the perceptual skew toward low frequencies
func logCompress(freq, nyquist float64) float64 {
	if nyquist <= 0 {
		return 0
	}
	return math.Log1p(freq) / math.Log1p(nyquist)
}
