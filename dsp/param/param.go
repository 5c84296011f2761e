package param

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// Kind identifies how a scheduled value is reached.
type Kind int

const (
	// Set jumps to the value at the event time.
	Set Kind = iota
	// Linear ramps linearly from the previous event to the value.
	Linear
	// Exponential ramps geometrically from the previous event to the value.
	Exponential
	// Target approaches the value exponentially from the event time on.
	Target
)

func (k Kind) String() string {
	switch k {
	case Set:
		return "set"
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	case Target:
		return "target"
	default:
		return "unknown"
	}
}

type event struct {
	kind  Kind
	time  float64
	value float64
	tau   float64
}

// Modulator adds a signal to a param's intrinsic value, block by block.
// Implementations add (not write) into dst for the block starting at t0.
type Modulator interface {
	Modulate(dst []float64, t0, dt float64)
}

// Param is an automatable value. It is not safe for concurrent use; the
// owning graph serializes access.
type Param struct {
	value    float64
	min, max float64
	floor    float64
	events   []event
	mods     []Modulator
}

// Option configures a Param.
type Option func(*Param)

// WithRange clamps every scheduled and rendered value to [min, max].
func WithRange(min, max float64) Option {
	return func(p *Param) {
		if min > max {
			min, max = max, min
		}
		p.min, p.max = min, max
	}
}

// WithFloor sets the smallest magnitude an exponential ramp may reach.
func WithFloor(floor float64) Option {
	return func(p *Param) {
		if floor > 0 {
			p.floor = floor
		}
	}
}

// New returns a param whose intrinsic value is value.
func New(value float64, opts ...Option) *Param {
	p := &Param{
		min:   math.Inf(-1),
		max:   math.Inf(1),
		floor: core.MinRampGain,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.value = p.clamp(value)
	return p
}

// Value returns the intrinsic value used before the first event.
func (p *Param) Value() float64 { return p.value }

// Floor returns the exponential floor.
func (p *Param) Floor() float64 { return p.floor }

// Len returns the number of scheduled events.
func (p *Param) Len() int { return len(p.events) }

// SetValueAtTime jumps to value at time t.
func (p *Param) SetValueAtTime(value, t float64) {
	p.insert(event{kind: Set, time: t, value: p.clamp(value)})
}

// LinearRampToValueAtTime ramps linearly from the previous event to value,
// arriving at t.
func (p *Param) LinearRampToValueAtTime(value, t float64) {
	p.insert(event{kind: Linear, time: t, value: p.clamp(value)})
}

// ExponentialRampToValueAtTime ramps geometrically from the previous event to
// value, arriving at t. value is raised to the param floor so the curve is
// always defined.
func (p *Param) ExponentialRampToValueAtTime(value, t float64) {
	p.insert(event{kind: Exponential, time: t, value: core.ExpFloor(p.clamp(value), p.floor)})
}

// SetTargetAtTime approaches value from time t on with time constant tau.
// A non-positive tau behaves like SetValueAtTime.
func (p *Param) SetTargetAtTime(value, t, tau float64) {
	if tau <= 0 {
		p.SetValueAtTime(value, t)
		return
	}
	p.insert(event{kind: Target, time: t, value: p.clamp(value), tau: tau})
}

// CancelScheduledValues removes every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time >= t })
	p.events = p.events[:i]
}

// Connect adds m's output to the param value.
func (p *Param) Connect(m Modulator) {
	if m != nil {
		p.mods = append(p.mods, m)
	}
}

// Modulated reports whether any modulator is connected.
func (p *Param) Modulated() bool { return len(p.mods) > 0 }

// Modulators returns the connected modulators.
func (p *Param) Modulators() []Modulator {
	out := make([]Modulator, len(p.mods))
	copy(out, p.mods)
	return out
}

// insert keeps events sorted; equal times keep scheduling order.
func (p *Param) insert(e event) {
	if math.IsNaN(e.time) || math.IsNaN(e.value) {
		return
	}
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > e.time })
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

func (p *Param) clamp(v float64) float64 {
	if v < p.min {
		return p.min
	}
	if v > p.max {
		return p.max
	}
	return v
}

// curve is the timeline segment in effect after an event.
type curve struct {
	target bool
	t0, v0 float64
	goal   float64
	tau    float64
}

func (c curve) at(t float64) float64 {
	if !c.target || t <= c.t0 {
		return c.v0
	}
	return c.goal + (c.v0-c.goal)*math.Exp(-(t-c.t0)/c.tau)
}

// ValueAt returns the automation value at time t, excluding modulators.
// A ramp with no preceding event holds the intrinsic value until it ends.
func (p *Param) ValueAt(t float64) float64 {
	c := curve{v0: p.value, t0: math.Inf(-1)}
	for _, e := range p.events {
		if e.time > t {
			switch e.kind {
			case Linear:
				return p.clamp(linearAt(c, e, t))
			case Exponential:
				return p.clamp(p.exponentialAt(c, e, t))
			}
			return p.clamp(c.at(t))
		}
		c = advance(c, e)
	}
	return p.clamp(c.at(t))
}

func advance(c curve, e event) curve {
	if e.kind == Target {
		return curve{target: true, t0: e.time, v0: c.at(e.time), goal: e.value, tau: e.tau}
	}
	return curve{t0: e.time, v0: e.value}
}

func linearAt(c curve, e event, t float64) float64 {
	if math.IsInf(c.t0, -1) || e.time <= c.t0 {
		return c.v0
	}
	frac := (t - c.t0) / (e.time - c.t0)
	return c.v0 + (e.value-c.v0)*frac
}

func (p *Param) exponentialAt(c curve, e event, t float64) float64 {
	if math.IsInf(c.t0, -1) || e.time <= c.t0 {
		return c.v0
	}
	v0 := core.ExpFloor(c.v0, p.floor)
	if (v0 > 0) != (e.value > 0) {
		return c.v0
	}
	frac := (t - c.t0) / (e.time - c.t0)
	return v0 * math.Pow(e.value/v0, frac)
}

// Fill writes len(dst) values starting at t0 spaced dt apart, then adds the
// connected modulators. Events that can no longer influence times at or
// after t0 are collapsed first.
func (p *Param) Fill(dst []float64, t0, dt float64) {
	p.compact(t0)
	for i := range dst {
		dst[i] = p.ValueAt(t0 + float64(i)*dt)
	}
	for _, m := range p.mods {
		m.Modulate(dst, t0, dt)
	}
}

// compact replaces events at or before t with an equivalent minimal prefix so
// long-running params such as the master gain do not grow without bound.
func (p *Param) compact(t float64) {
	n := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > t })
	if n < 2 {
		return
	}
	c := curve{v0: p.value, t0: math.Inf(-1)}
	for _, e := range p.events[:n] {
		c = advance(c, e)
	}
	var prefix []event
	if c.target {
		prefix = []event{
			{kind: Set, time: c.t0, value: c.v0},
			{kind: Target, time: c.t0, value: c.goal, tau: c.tau},
		}
	} else {
		prefix = []event{{kind: Set, time: c.t0, value: c.v0}}
	}
	if len(prefix) >= n {
		return
	}
	rest := p.events[n:]
	p.events = append(append(make([]event, 0, len(prefix)+len(rest)), prefix...), rest...)
}
