package windowing

import (
	"math"
	"testing"
)

func TestHann(t *testing.T) {
	h := NewHann(8, false)

	coeffs := h.GetCoefficients()
	if len(coeffs) != 8 {
		t.Fatalf("got %d coefficients, want 8", len(coeffs))
	}
	if coeffs[0] != 0 {
		t.Errorf("periodic Hann starts at %v, want 0", coeffs[0])
	}
	if math.Abs(coeffs[4]-1) > 1e-12 {
		t.Errorf("periodic Hann midpoint = %v, want 1", coeffs[4])
	}

	signal := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	windowed := h.Apply(signal)
	for i := range windowed {
		if math.Abs(windowed[i]-coeffs[i]) > 1e-12 {
			t.Errorf("Apply mismatch at %d: %v vs coefficient %v", i, windowed[i], coeffs[i])
		}
	}
	for _, v := range signal {
		if v != 1 {
			t.Fatal("Apply must not mutate its input")
		}
	}

	if err := h.ApplyInPlace(signal); err != nil {
		t.Fatalf("ApplyInPlace: %v", err)
	}
	if signal[0] != 0 {
		t.Errorf("in-place apply left signal[0] = %v, want 0", signal[0])
	}

	if h.Apply([]float64{1, 2, 3}) != nil {
		t.Error("size mismatch should return nil")
	}
	if err := h.ApplyInPlace([]float64{1, 2, 3}); err == nil {
		t.Error("size mismatch should error in-place")
	}
}
