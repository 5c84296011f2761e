package effects

import (
	"fmt"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/filter"
	"github.com/cwbudde/algo-ambient/dsp/graph"
	"github.com/cwbudde/algo-ambient/dsp/noise"
	"github.com/cwbudde/algo-ambient/dsp/osc"
	"github.com/cwbudde/algo-ambient/dsp/param"
)

var (
	bootEnvelope  = param.MustEnvelope(param.At(0, 0.1), param.ExpTo(0.5, 0.001))
	hoverEnvelope = param.MustEnvelope(param.At(0, 0.01), param.ExpTo(0.02, 0.0001))
	knockEnvelope = param.MustEnvelope(param.At(0, 0), param.LinearTo(0.01, 0.4), param.ExpTo(0.15, 0.001))
	scareEnvelope = param.MustEnvelope(param.At(0, 0.5), param.ExpTo(2, 0.001))
)

// BootGlitchIntensity is the glitch layered under the boot sweep and the
// hover-over-glitch interaction.
const BootGlitchIntensity = 0.3

// NewBoot builds the CRT power-on whine: a 0.5 s exponential sine sweep from
// 12 kHz down to 50 Hz with a decaying gain, layered over a glitch burst.
func NewBoot(p Params) (*graph.Patch, error) {
	const dur = 0.5

	whine := graph.NewOscillator(osc.Config{
		Waveform:  osc.Sine,
		Frequency: 12000,
		Ramp:      osc.Ramp{To: 50, Duration: dur, Kind: osc.RampExponential},
	}).Start(p.At).Stop(p.At + dur)

	env := graph.NewGain(0, whine)
	bootEnvelope.Apply(env.Param(), p.At)

	crunch, err := glitchChain(p, BootGlitchIntensity)
	if err != nil {
		return nil, err
	}
	return graph.NewPatch(Boot, graph.NewGain(1, env, crunch)), nil
}

// NewHover builds a 30 ms square tick at a random pitch in [200, 800) Hz.
func NewHover(p Params) (*graph.Patch, error) {
	freq := 200 + p.rng().Float64()*600

	tick := graph.NewOscillator(osc.Config{Waveform: osc.Square, Frequency: freq}).
		Start(p.At).Stop(p.At + 0.03)

	env := graph.NewGain(0, tick)
	hoverEnvelope.Apply(env.Param(), p.At)

	return graph.NewPatch(Hover, env), nil
}

// NewGlitch builds a burst of highpassed white noise lasting a random
// 50-200 ms at gain intensity*0.15.
func NewGlitch(p Params) (*graph.Patch, error) {
	chain, err := glitchChain(p, p.intensity())
	if err != nil {
		return nil, err
	}
	return graph.NewPatch(Glitch, chain), nil
}

func glitchChain(p Params, intensity float64) (*graph.Gain, error) {
	if p.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", noise.ErrInvalidSampleRate, p.SampleRate)
	}
	rng := p.rng()
	dur := 0.05 + rng.Float64()*0.15

	gen := noise.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(p.SampleRate)},
		noise.WithRand(rng),
	)
	buf, err := gen.White(dur)
	if err != nil {
		return nil, err
	}

	burst := graph.NewNoiseSource(buf, false).Start(p.At)
	gain := graph.NewGain(0, graph.NewFilter(filter.Highpass, 800, 0, burst))
	gain.Param().SetValueAtTime(core.ClampUnit(intensity)*0.15, p.At)
	return gain, nil
}

// KnockSpacing is the time between knocks.
const KnockSpacing = 0.4

// NewKnock builds two knocks, plus a third half of the time, spaced
// KnockSpacing apart. Each is a lowpassed 80→40 Hz sine thump.
func NewKnock(p Params) (*graph.Patch, error) {
	count := 2
	if p.rng().Float64() < 0.5 {
		count = 3
	}

	out := graph.NewGain(1)
	for i := range count {
		t := p.At + float64(i)*KnockSpacing
		thump := graph.NewOscillator(osc.Config{
			Waveform:  osc.Sine,
			Frequency: 80,
			Ramp:      osc.Ramp{To: 40, Duration: 0.1, Kind: osc.RampExponential},
		}).Start(t).Stop(t + knockEnvelope.Duration())

		env := graph.NewGain(0, graph.NewFilter(filter.Lowpass, 200, 0, thump))
		knockEnvelope.Apply(env.Param(), t)
		out.Add(env)
	}
	return graph.NewPatch(Knock, out), nil
}

// NewScare builds two detuned oscillators falling over 2 s through a shared
// decaying gain, layered over a full-intensity glitch.
func NewScare(p Params) (*graph.Patch, error) {
	const dur = 2.0

	saw := graph.NewOscillator(osc.Config{
		Waveform:  osc.Sawtooth,
		Frequency: 440,
		Ramp:      osc.Ramp{To: 200, Duration: dur, Kind: osc.RampLinear},
	}).Start(p.At).Stop(p.At + dur)
	square := graph.NewOscillator(osc.Config{
		Waveform:  osc.Square,
		Frequency: 450,
		Ramp:      osc.Ramp{To: 210, Duration: dur, Kind: osc.RampLinear},
	}).Start(p.At).Stop(p.At + dur)

	env := graph.NewGain(0, saw, square)
	scareEnvelope.Apply(env.Param(), p.At)

	crunch, err := glitchChain(p, 1)
	if err != nil {
		return nil, err
	}
	return graph.NewPatch(Scare, graph.NewGain(1, env, crunch)), nil
}

const (
	beatSpacing = 0.3
	beatVolume  = 0.6
)

// NewHeartbeat builds a lub-dub pair of 60→30 Hz sine beats whose peak is
// intensity*0.6.
func NewHeartbeat(p Params) (*graph.Patch, error) {
	beatEnvelope, err := param.NewEnvelope(
		param.At(0, 0),
		param.LinearTo(0.05, p.intensity()*beatVolume),
		param.ExpTo(0.2, 0.001),
	)
	if err != nil {
		return nil, err
	}

	out := graph.NewGain(1)
	for i := range 2 {
		t := p.At + float64(i)*beatSpacing
		beat := graph.NewOscillator(osc.Config{
			Waveform:  osc.Sine,
			Frequency: 60,
			Ramp:      osc.Ramp{To: 30, Duration: 0.1, Kind: osc.RampExponential},
		}).Start(t).Stop(t + beatEnvelope.Duration())

		env := graph.NewGain(0, beat)
		beatEnvelope.Apply(env.Param(), t)
		out.Add(env)
	}
	return graph.NewPatch(Heartbeat, out), nil
}
