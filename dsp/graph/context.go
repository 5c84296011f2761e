package graph

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// ErrClosed is returned when scheduling on a closed context.
var ErrClosed = errors.New("graph: context closed")

// Stats is a snapshot of the context's voice bookkeeping.
type Stats struct {
	LiveVoices int
	LiveNodes  int
	Scheduled  uint64
	Reaped     uint64
}

// Voice is a scheduled patch.
type Voice struct {
	id    uint64
	patch *Patch
	nodes int
	end   float64
	done  atomic.Bool
}

// ID returns a context-unique voice number.
func (v *Voice) ID() uint64 { return v.id }

// Name returns the patch name.
func (v *Voice) Name() string { return v.patch.Name }

// End returns the time the voice is released, +Inf for persistent voices.
func (v *Voice) End() float64 { return v.end }

// Persistent reports whether the voice is exempt from reaping.
func (v *Voice) Persistent() bool { return v.patch.Persistent }

// Done reports whether the voice has been reaped or its context closed.
func (v *Voice) Done() bool { return v.done.Load() }

// Context renders scheduled voices through the master bus. Scheduling and
// rendering may happen on different goroutines; a mutex serializes them.
type Context struct {
	mu sync.Mutex

	cfg    core.ProcessorConfig
	frame  int64
	master *Bus
	voices []*Voice
	closed bool

	nextID    uint64
	scheduled uint64
	reaped    uint64

	mix []float64
}

// NewContext creates a context with the master bus at DefaultMasterLevel.
func NewContext(opts ...core.ProcessorOption) *Context {
	cfg := core.ApplyProcessorOptions(opts...)
	return &Context{
		cfg:    cfg,
		master: newBus(DefaultMasterLevel),
		mix:    make([]float64, cfg.BlockSize),
	}
}

// SampleRate returns the rendering sample rate.
func (c *Context) SampleRate() float64 { return c.cfg.SampleRate }

// BlockSize returns the maximum frames rendered per internal block.
func (c *Context) BlockSize() int { return c.cfg.BlockSize }

// Master returns the master bus.
func (c *Context) Master() *Bus { return c.master }

// CurrentTime returns the time of the next frame to be rendered, in seconds.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

func (c *Context) now() float64 {
	return core.FramesToSeconds(c.frame, c.cfg.SampleRate)
}

// Do runs fn with the current time while rendering is held off.
func (c *Context) Do(fn func(now float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.now())
}

// Schedule validates p and attaches it to the master bus.
func (c *Context) Schedule(p *Patch) (*Voice, error) {
	comp, err := p.compile()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	c.nextID++
	v := &Voice{id: c.nextID, patch: p, nodes: len(comp.order), end: comp.end}
	if p.Persistent {
		v.end = math.Inf(1)
	}
	c.voices = append(c.voices, v)
	c.scheduled++
	return v, nil
}

// Stats returns current voice statistics.
func (c *Context) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{LiveVoices: len(c.voices), Scheduled: c.scheduled, Reaped: c.reaped}
	for _, v := range c.voices {
		s.LiveNodes += v.nodes
	}
	return s
}

// Voices returns the names of the live voices in scheduling order.
func (c *Context) Voices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.voices))
	for i, v := range c.voices {
		names[i] = v.patch.Name
	}
	return names
}

// Render fills dst with the next len(dst) mono frames and advances the clock.
// After each internal block, voices whose end time has passed are released.
// A closed context renders silence.
func (c *Context) Render(dst []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		core.Silence(dst)
		return
	}

	bs := c.cfg.BlockSize
	for off := 0; off < len(dst); off += bs {
		n := min(bs, len(dst)-off)
		c.renderBlock(dst[off:off+n], n)
	}
}

func (c *Context) renderBlock(dst []float32, n int) {
	sr := c.cfg.SampleRate
	b := block{frame: c.frame, t0: c.now(), dt: 1 / sr, n: n}

	c.mix = core.EnsureLen(c.mix, n)
	mix := c.mix
	core.Zero(mix)
	for _, v := range c.voices {
		vecmath.AddBlockInPlace(mix, v.patch.Output.process(&b))
	}

	bus := c.master
	bus.gbuf = core.EnsureLen(bus.gbuf, n)
	bus.gain.Fill(bus.gbuf, b.t0, b.dt)
	vecmath.MulBlockInPlace(mix, bus.gbuf)

	for i, x := range mix {
		dst[i] = float32(softClip(x))
	}

	c.frame += int64(n)
	c.reap()
}

// reap drops transient voices that have ended.
func (c *Context) reap() {
	now := c.now()
	live := c.voices[:0]
	for _, v := range c.voices {
		if !v.patch.Persistent && v.end <= now {
			v.done.Store(true)
			c.reaped++
			continue
		}
		live = append(live, v)
	}
	for i := len(live); i < len(c.voices); i++ {
		c.voices[i] = nil
	}
	c.voices = live
}

// Close releases every voice. Subsequent renders are silent and Schedule
// returns ErrClosed.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, v := range c.voices {
		v.done.Store(true)
	}
	c.voices = nil
}

const clipKnee = 0.9

// softClip passes |x| <= clipKnee unchanged and bends larger values
// smoothly toward ±1.
func softClip(x float64) float64 {
	a := math.Abs(x)
	if a <= clipKnee {
		return x
	}
	y := clipKnee + (1-clipKnee)*math.Tanh((a-clipKnee)/(1-clipKnee))
	return math.Copysign(y, x)
}
