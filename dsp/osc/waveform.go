package osc

import (
	"fmt"
	"math"
	"strings"
)

// Waveform defines oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
)

// String returns the lower-case waveform name.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// ParseWaveform maps a name to a Waveform. "saw" is accepted for Sawtooth.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine":
		return Sine, nil
	case "square":
		return Square, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	default:
		return Sine, fmt.Errorf("osc: unknown waveform %q", name)
	}
}

// Sample evaluates w at normalized phase in [0, 1). phaseInc is the phase
// advance per sample (frequency / sample rate) and sizes the PolyBLEP
// correction applied at discontinuities of square and sawtooth.
func Sample(w Waveform, phase, phaseInc float64) float64 {
	switch w {
	case Square:
		v := 1.0
		if phase >= 0.5 {
			v = -1
		}
		v += polyBLEP(phase, phaseInc)
		v -= polyBLEP(math.Mod(phase+0.5, 1), phaseInc)
		return v
	case Sawtooth:
		return 2*phase - 1 - polyBLEP(phase, phaseInc)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// polyBLEP returns the two-sample polynomial residual for a unit step at
// phase 0.
func polyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if dt > 0.5 {
		dt = 0.5
	}
	switch {
	case t < dt:
		t /= dt
		return t + t - t*t - 1
	case t > 1-dt:
		t = (t - 1) / dt
		return t*t + t + t + 1
	default:
		return 0
	}
}
