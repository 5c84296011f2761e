package output

import (
	"sync"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// Null is a device without hardware. It renders only when pumped.
type Null struct {
	mu     sync.Mutex
	rate   float64
	slot   rendererSlot
	closed bool
	frames int64
}

// NewNull returns a null device running at sampleRate.
func NewNull(sampleRate float64) *Null {
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	return &Null{rate: sampleRate}
}

func (n *Null) Name() string        { return BackendNull }
func (n *Null) SampleRate() float64 { return n.rate }

// Start installs r.
func (n *Null) Start(r Renderer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrUnavailable
	}
	n.slot.set(r)
	return nil
}

// Pump renders frames samples, as a hardware callback would.
func (n *Null) Pump(frames int) []float32 {
	buf := make([]float32, max(0, frames))
	n.PumpInto(buf)
	return buf
}

// PumpInto renders len(dst) samples into dst.
func (n *Null) PumpInto(dst []float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		core.Silence(dst)
		return
	}
	n.slot.render(dst)
	n.frames += int64(len(dst))
}

// Frames returns the total frames pumped.
func (n *Null) Frames() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.frames
}

// Close detaches the renderer.
func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.slot.set(nil)
	return nil
}
