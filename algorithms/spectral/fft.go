package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality backed by mjibson/go-dsp
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the FFT of a real-valued signal.
// go-dsp handles all sizes efficiently, including non-power-of-2.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// MagnitudeSpectrum computes the FFT of a real-valued signal and returns the
// magnitudes of the positive-frequency bins, DC and Nyquist included. Bin i
// corresponds to frequency i * sampleRate / len(x).
func (f *FFT) MagnitudeSpectrum(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := f.Compute(x)
	bins := len(x)/2 + 1
	magnitude := make([]float64, bins)
	for i := range bins {
		magnitude[i] = cmplx.Abs(result[i])
	}

	return magnitude
}
