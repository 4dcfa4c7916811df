package spectral

// SpectralCentroid computes the spectral centroid (center of mass) of a
// magnitude spectrum, a standard proxy for perceived brightness.
type SpectralCentroid struct {
	sampleRate int
	freqBins   []float64 // Pre-calculated frequency bins for efficiency
}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid(sampleRate int) *SpectralCentroid {
	return &SpectralCentroid{
		sampleRate: sampleRate,
	}
}

// Compute calculates the magnitude-weighted average frequency of a single
// magnitude spectrum. The spectrum is expected to hold the positive-frequency
// bins of an N-point transform, DC included; the DC bin is excluded from the
// weighting. Returns 0 Hz when the spectrum carries no energy.
func (sc *SpectralCentroid) Compute(spectrum []float64) float64 {
	if len(spectrum) < 2 {
		return 0.0
	}

	if len(sc.freqBins) != len(spectrum) {
		sc.initializeFreqBins(len(spectrum))
	}

	numerator := 0.0
	denominator := 0.0

	for i := 1; i < len(spectrum); i++ {
		numerator += sc.freqBins[i] * spectrum[i]
		denominator += spectrum[i]
	}

	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// initializeFreqBins pre-calculates frequency bins
func (sc *SpectralCentroid) initializeFreqBins(numBins int) {
	sc.freqBins = make([]float64, numBins)
	for i := range numBins {
		sc.freqBins[i] = float64(i) * float64(sc.sampleRate) / float64((numBins-1)*2)
	}
}

// GetFrequencyBins returns the frequency bins used for calculation
func (sc *SpectralCentroid) GetFrequencyBins() []float64 {
	if sc.freqBins == nil {
		return nil
	}

	bins := make([]float64, len(sc.freqBins))
	copy(bins, sc.freqBins)
	return bins
}
