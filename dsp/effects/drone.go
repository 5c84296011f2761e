package effects

import (
	"fmt"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/filter"
	"github.com/cwbudde/algo-ambient/dsp/graph"
	"github.com/cwbudde/algo-ambient/dsp/noise"
	"github.com/cwbudde/algo-ambient/dsp/osc"
)

const (
	humFrequency    = 58
	humCutoff       = 120
	humLevel        = 0.05
	subFrequency    = 40
	subLevel        = 0.1
	breathFrequency = 0.15
	breathDepth     = 0.05
	hissSeconds     = 4
	hissLevel       = 0.03
)

// NewDrone builds the persistent background layer: a lowpassed sawtooth hum,
// a breathing sine sub-bass and a looping pink noise hiss. Intensity is
// ignored.
func NewDrone(p Params) (*graph.Patch, error) {
	if p.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", noise.ErrInvalidSampleRate, p.SampleRate)
	}
	gen := noise.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(p.SampleRate)},
		noise.WithRand(p.rng()),
	)
	hissBuf, err := gen.Pink(hissSeconds)
	if err != nil {
		return nil, err
	}

	hum := graph.NewOscillator(osc.Config{Waveform: osc.Sawtooth, Frequency: humFrequency}).Start(p.At)
	humGain := graph.NewGain(humLevel, graph.NewFilter(filter.Lowpass, humCutoff, 0, hum))

	sub := graph.NewOscillator(osc.Config{Waveform: osc.Sine, Frequency: subFrequency}).Start(p.At)
	subGain := graph.NewGain(subLevel, sub)
	breath := graph.NewOscillator(osc.Config{Waveform: osc.Sine, Frequency: breathFrequency}).Start(p.At)
	subGain.Param().Connect(graph.NewGain(breathDepth, breath))

	hiss := graph.NewNoiseSource(hissBuf, true).Start(p.At)
	hissGain := graph.NewGain(hissLevel, hiss)

	return &graph.Patch{
		Name:       Drone,
		Output:     graph.NewGain(1, humGain, subGain, hissGain),
		Persistent: true,
	}, nil
}
