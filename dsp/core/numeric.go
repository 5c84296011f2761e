package core

import "math"

// Floors for exponential automation. An exponential curve towards or from
// zero is undefined, so ramp endpoints are clamped to these values.
const (
	// MinRampFrequency is the lowest frequency (Hz) an exponential ramp may target.
	MinRampFrequency = 1.0
	// MinRampGain is the lowest linear gain an exponential ramp may target.
	MinRampGain = 1e-4
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampUnit limits value to [0, 1]. NaN maps to 0.
func ClampUnit(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return Clamp(value, 0, 1)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}
	return x
}

// ExpFloor returns value with its magnitude raised to at least floor,
// preserving sign. Zero maps to +floor.
func ExpFloor(value, floor float64) float64 {
	if floor <= 0 {
		floor = MinRampGain
	}
	if math.IsNaN(value) {
		return floor
	}
	if value < 0 {
		if value > -floor {
			return -floor
		}
		return value
	}
	if value < floor {
		return floor
	}
	return value
}

// frameEpsilon absorbs representation error in products such as 0.3*48000
// that land just below a whole number.
const frameEpsilon = 1e-9

// SecondsToFrames converts seconds to frames, truncating toward zero.
// Non-positive or non-finite inputs yield 0.
func SecondsToFrames(seconds, sampleRate float64) int {
	if seconds <= 0 || sampleRate <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return int(seconds*sampleRate + frameEpsilon)
}

// FramesToSeconds converts a frame count to seconds.
func FramesToSeconds(frames int64, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(frames) / sampleRate
}
