package model

import "math"

// ToRelative converts a relative or absolute value to a fraction of containerSize.
// The result is clamped to [0, 1]; a non-positive container yields 0.
func ToRelative(value float64, isAbsolute bool, containerSize float64) float64 {
	if containerSize <= 0 {
		return 0
	}
	fraction := value
	if isAbsolute {
		fraction = value / containerSize
	}
	return clamp(fraction, 0, 1)
}

// ToAbsolute converts a relative or absolute value to points within containerSize.
// The result is clamped to [0, containerSize].
func ToAbsolute(value float64, isAbsolute bool, containerSize float64) float64 {
	magnitude := value
	if !isAbsolute {
		magnitude = value * containerSize
	}
	return clamp(magnitude, 0, math.Max(containerSize, 0))
}

// clamp bounds v to [lo, hi]. NaN collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
