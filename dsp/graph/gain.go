package graph

import (
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/param"
	"github.com/cwbudde/algo-vecmath"
)

// Gain sums its inputs and multiplies them by an automatable gain.
type Gain struct {
	nodeBase

	gain *param.Param
	ins  []Node
	gbuf []float64
}

// NewGain creates a gain stage with intrinsic gain value.
func NewGain(value float64, inputs ...Node) *Gain {
	g := &Gain{gain: param.New(value)}
	g.Add(inputs...)
	return g
}

func (g *Gain) Kind() string { return "gain" }

// Param returns the gain automation. Any node may be connected to it with
// Connect; its output is added to the scheduled gain every sample.
func (g *Gain) Param() *param.Param { return g.gain }

// Add connects more inputs.
func (g *Gain) Add(inputs ...Node) *Gain {
	for _, in := range inputs {
		if in != nil {
			g.ins = append(g.ins, in)
		}
	}
	return g
}

func (g *Gain) inputs() []Node {
	all := make([]Node, 0, len(g.ins)+1)
	all = append(all, g.ins...)
	for _, m := range g.gain.Modulators() {
		if n, ok := m.(Node); ok {
			all = append(all, n)
		}
	}
	return all
}

// Modulate implements param.Modulator.
func (g *Gain) Modulate(dst []float64, t0, dt float64) { modulate(g, dst, t0, dt) }

func (g *Gain) process(b *block) []float64 {
	out, ok := g.cached(b)
	if ok {
		return out
	}
	core.Zero(out)
	for _, in := range g.ins {
		vecmath.AddBlockInPlace(out, in.process(b))
	}
	g.gbuf = core.EnsureLen(g.gbuf, b.n)
	g.gain.Fill(g.gbuf, b.t0, b.dt)
	vecmath.MulBlockInPlace(out, g.gbuf)
	return out
}
