package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared across the renderer, using gonum for robustness

// epsilon guards min-max ranges against division by zero
const epsilon = 1e-10

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// MinMax returns the smallest and largest values in data
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	return floats.Min(data), floats.Max(data)
}

// MaxAbs returns the largest absolute value in data
func MaxAbs(data []float64) float64 {
	maxAbs := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// Clamp01 clamps v into [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MinMaxRescale rescales data in place to [0, 1] using the global min and max.
// A degenerate range (max-min below epsilon) is forced to 1 so constant input
// maps to 0 rather than dividing by zero.
func MinMaxRescale(data []float64) {
	if len(data) == 0 {
		return
	}

	minVal, maxVal := MinMax(data)
	rangeVal := maxVal - minVal
	if rangeVal < epsilon {
		rangeVal = 1
	}

	for i, v := range data {
		data[i] = (v - minVal) / rangeVal
	}
}

// PowerStretch applies v^p to every value in place. Values are assumed to be
// in [0, 1] so the transform stretches or compresses the distribution without
// leaving the unit interval. A non-positive p leaves data untouched.
func PowerStretch(data []float64, p float64) {
	if p <= 0 || p == 1 {
		return
	}
	for i, v := range data {
		data[i] = math.Pow(v, p)
	}
}
