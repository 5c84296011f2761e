package graph

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/osc"
	"github.com/cwbudde/algo-ambient/dsp/param"
)

// Oscillator is a periodic tone source.
type Oscillator struct {
	nodeBase
	timing

	cfg   osc.Config
	freq  *param.Param
	phase float64
	fbuf  []float64
}

// NewOscillator creates a tone generator. Nothing sounds until Start.
func NewOscillator(cfg osc.Config) *Oscillator {
	return &Oscillator{
		timing: newTiming(),
		cfg:    cfg,
		freq:   param.New(cfg.StartFrequency(), param.WithFloor(core.MinRampFrequency)),
	}
}

func (o *Oscillator) Kind() string { return "oscillator" }

// Waveform returns the oscillator shape.
func (o *Oscillator) Waveform() osc.Waveform { return o.cfg.Waveform }

// Frequency returns the frequency param.
func (o *Oscillator) Frequency() *param.Param { return o.freq }

// Start begins playback at time at. The start frequency is set at that time
// and the configured ramp, if any, begins there.
func (o *Oscillator) Start(at float64) *Oscillator {
	o.start = at
	o.active = true
	o.freq.SetValueAtTime(o.cfg.StartFrequency(), at)
	if r := o.cfg.Ramp; r.Active() {
		switch r.Kind {
		case osc.RampExponential:
			o.freq.ExponentialRampToValueAtTime(r.Target(), at+r.Duration)
		default:
			o.freq.LinearRampToValueAtTime(r.Target(), at+r.Duration)
		}
	}
	return o
}

// Stop ends playback at time at.
func (o *Oscillator) Stop(at float64) *Oscillator {
	o.stop = at
	return o
}

func (o *Oscillator) inputs() []Node { return nil }

// Modulate implements param.Modulator.
func (o *Oscillator) Modulate(dst []float64, t0, dt float64) { modulate(o, dst, t0, dt) }

func (o *Oscillator) process(b *block) []float64 {
	out, ok := o.cached(b)
	if ok {
		return out
	}
	o.fbuf = core.EnsureLen(o.fbuf, b.n)
	o.freq.Fill(o.fbuf, b.t0, b.dt)

	for i := range out {
		if !o.playing(b.time(i)) {
			out[i] = 0
			continue
		}
		inc := o.fbuf[i] * b.dt
		out[i] = osc.Sample(o.cfg.Waveform, o.phase, math.Abs(inc))
		o.phase += inc
		o.phase -= math.Floor(o.phase)
	}
	return out
}
