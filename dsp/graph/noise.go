package graph

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/noise"
)

// NoiseSource plays a prerendered noise buffer, optionally looping.
type NoiseSource struct {
	nodeBase
	timing

	buf  *noise.Buffer
	loop bool
	pos  int
}

// NewNoiseSource wraps buf. The buffer is shared, never modified.
func NewNoiseSource(buf *noise.Buffer, loop bool) *NoiseSource {
	return &NoiseSource{timing: newTiming(), buf: buf, loop: loop}
}

func (s *NoiseSource) Kind() string { return "noise" }

// Loop reports whether the buffer repeats.
func (s *NoiseSource) Loop() bool { return s.loop }

// Start begins playback at time at. A non-looping source stops by itself
// once the buffer is exhausted.
func (s *NoiseSource) Start(at float64) *NoiseSource {
	s.start = at
	s.active = true
	s.pos = 0
	if !s.loop {
		s.stop = at + s.buf.Duration()
	}
	return s
}

// Stop ends playback at time at, if earlier than the buffer end.
func (s *NoiseSource) Stop(at float64) *NoiseSource {
	s.stop = math.Min(s.stop, at)
	return s
}

func (s *NoiseSource) inputs() []Node { return nil }

// Modulate implements param.Modulator.
func (s *NoiseSource) Modulate(dst []float64, t0, dt float64) { modulate(s, dst, t0, dt) }

func (s *NoiseSource) process(b *block) []float64 {
	out, ok := s.cached(b)
	if ok {
		return out
	}
	n := s.buf.Len()
	for i := range out {
		if n == 0 || !s.playing(b.time(i)) {
			out[i] = 0
			continue
		}
		if s.pos >= n {
			if !s.loop {
				out[i] = 0
				continue
			}
			s.pos = 0
		}
		out[i] = s.buf.At(s.pos)
		s.pos++
	}
	return out
}
