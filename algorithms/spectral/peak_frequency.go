package spectral

// PeakFrequency finds the dominant frequency of a magnitude spectrum, the
// frequency of the bin carrying the most energy.
type PeakFrequency struct {
	sampleRate int
}

// NewPeakFrequency creates a new peak frequency calculator
func NewPeakFrequency(sampleRate int) *PeakFrequency {
	return &PeakFrequency{
		sampleRate: sampleRate,
	}
}

// Compute returns the frequency in Hz of the strongest bin in a magnitude
// spectrum of positive-frequency bins, DC included. The DC bin is never
// selected. Returns 0 Hz for spectra with fewer than two bins.
func (pf *PeakFrequency) Compute(spectrum []float64) float64 {
	if len(spectrum) < 2 {
		return 0.0
	}

	peakBin := 1
	peakMag := spectrum[1]
	for i := 2; i < len(spectrum); i++ {
		if spectrum[i] > peakMag {
			peakMag = spectrum[i]
			peakBin = i
		}
	}

	return float64(peakBin) * float64(pf.sampleRate) / float64((len(spectrum)-1)*2)
}
