package graph

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// Node is a signal processing unit with one output. Implementations are
// *Oscillator, *NoiseSource, *Filter and *Gain.
type Node interface {
	// Kind returns a short type name used in logs and statistics.
	Kind() string

	process(b *block) []float64
	inputs() []Node
}

// source is a node with its own start and stop time.
type source interface {
	Node
	started() bool
	stopTime() float64
}

// block describes the render window a node is pulled for.
type block struct {
	frame int64
	t0    float64
	dt    float64
	n     int
}

func (b *block) time(i int) float64 {
	return b.t0 + float64(i)*b.dt
}

// nodeBase caches one block of output.
type nodeBase struct {
	out   []float64
	frame int64
	valid bool
}

// cached returns the output buffer and whether it already holds this block.
func (nb *nodeBase) cached(b *block) ([]float64, bool) {
	if nb.valid && nb.frame == b.frame && len(nb.out) == b.n {
		return nb.out, true
	}
	nb.out = core.EnsureLen(nb.out, b.n)
	nb.frame = b.frame
	nb.valid = true
	return nb.out, false
}

// modulate adds n's output for the window [t0, t0+len(dst)*dt) into dst.
func modulate(n Node, dst []float64, t0, dt float64) {
	if dt <= 0 || len(dst) == 0 {
		return
	}
	b := block{frame: int64(math.Round(t0 / dt)), t0: t0, dt: dt, n: len(dst)}
	out := n.process(&b)
	for i := range dst {
		dst[i] += out[i]
	}
}

// timing holds start/stop state shared by source nodes.
type timing struct {
	start  float64
	stop   float64
	active bool
}

func newTiming() timing {
	return timing{stop: math.Inf(1)}
}

func (tm *timing) started() bool     { return tm.active }
func (tm *timing) stopTime() float64 { return tm.stop }

func (tm *timing) playing(t float64) bool {
	return tm.active && t >= tm.start && t < tm.stop
}
