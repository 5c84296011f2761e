package osc

import "github.com/cwbudde/algo-ambient/dsp/core"

// RampKind selects the interpolation of a frequency ramp.
type RampKind int

const (
	RampLinear RampKind = iota
	RampExponential
)

func (k RampKind) String() string {
	if k == RampExponential {
		return "exponential"
	}
	return "linear"
}

// Ramp is a one-time frequency change that starts with the oscillator.
// A zero Duration means no ramp.
type Ramp struct {
	To       float64
	Duration float64
	Kind     RampKind
}

// Active reports whether the ramp changes anything.
func (r Ramp) Active() bool {
	return r.Duration > 0
}

// Target returns the ramp end frequency. Exponential targets are raised to
// core.MinRampFrequency.
func (r Ramp) Target() float64 {
	if r.Kind == RampExponential {
		return core.ExpFloor(r.To, core.MinRampFrequency)
	}
	return r.To
}

// Config describes a tone generator.
type Config struct {
	Waveform  Waveform
	Frequency float64
	Ramp      Ramp
}

// StartFrequency returns the starting frequency, floored to
// core.MinRampFrequency when the ramp is exponential.
func (c Config) StartFrequency() float64 {
	if c.Ramp.Active() && c.Ramp.Kind == RampExponential {
		return core.ExpFloor(c.Frequency, core.MinRampFrequency)
	}
	return c.Frequency
}
