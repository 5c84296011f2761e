package noise

// Buffer is an immutable mono sample buffer.
type Buffer struct {
	samples    []float64
	sampleRate float64
}

func newBuffer(samples []float64, sampleRate float64) *Buffer {
	return &Buffer{samples: samples, sampleRate: sampleRate}
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.samples)
}

// At returns sample i. It panics if i is out of range.
func (b *Buffer) At(i int) float64 { return b.samples[i] }

// SampleRate returns the rate the buffer was generated for.
func (b *Buffer) SampleRate() float64 { return b.sampleRate }

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.sampleRate <= 0 {
		return 0
	}
	return float64(len(b.samples)) / b.sampleRate
}

// Samples returns a copy of the buffer contents.
func (b *Buffer) Samples() []float64 {
	out := make([]float64, b.Len())
	copy(out, b.samples)
	return out
}

// CopyFrom copies samples starting at offset into dst and returns the count
// copied. Offsets past the end copy nothing.
func (b *Buffer) CopyFrom(dst []float64, offset int) int {
	if offset < 0 || offset >= b.Len() {
		return 0
	}
	return copy(dst, b.samples[offset:])
}
