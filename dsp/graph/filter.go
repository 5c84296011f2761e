package graph

import "github.com/cwbudde/algo-ambient/dsp/filter"

// Filter is a biquad lowpass or highpass stage with one input.
type Filter struct {
	nodeBase

	kind   filter.Kind
	cutoff float64
	q      float64
	in     Node
	bq     *filter.Biquad
	sr     float64
}

// NewFilter filters in. A non-positive q selects filter.DefaultQ.
// Coefficients are designed on the first block, once the sample rate is known.
func NewFilter(kind filter.Kind, cutoff, q float64, in Node) *Filter {
	if q <= 0 {
		q = filter.DefaultQ
	}
	return &Filter{kind: kind, cutoff: cutoff, q: q, in: in}
}

func (f *Filter) Kind() string { return f.kind.String() }

// Cutoff returns the cutoff frequency in Hz.
func (f *Filter) Cutoff() float64 { return f.cutoff }

// Q returns the quality factor.
func (f *Filter) Q() float64 { return f.q }

func (f *Filter) inputs() []Node {
	if f.in == nil {
		return nil
	}
	return []Node{f.in}
}

// Modulate implements param.Modulator.
func (f *Filter) Modulate(dst []float64, t0, dt float64) { modulate(f, dst, t0, dt) }

func (f *Filter) process(b *block) []float64 {
	out, ok := f.cached(b)
	if ok {
		return out
	}
	if f.in == nil {
		for i := range out {
			out[i] = 0
		}
		return out
	}
	if sr := 1 / b.dt; f.bq == nil || sr != f.sr {
		f.bq = filter.New(f.kind, f.cutoff, f.q, sr)
		f.sr = sr
	}
	copy(out, f.in.process(b))
	f.bq.ProcessBlock(out)
	return out
}
