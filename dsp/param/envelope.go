package param

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoInitialValue is returned when an envelope does not start with a Set
// breakpoint at offset zero.
var ErrNoInitialValue = errors.New("param: envelope must start with a set at offset 0")

// Breakpoint is one envelope stage. Offset is seconds after the trigger.
// TimeConstant is only used by Target breakpoints.
type Breakpoint struct {
	Offset       float64
	Value        float64
	Kind         Kind
	TimeConstant float64
}

// At is shorthand for a Set breakpoint.
func At(offset, value float64) Breakpoint {
	return Breakpoint{Offset: offset, Value: value, Kind: Set}
}

// LinearTo is shorthand for a Linear breakpoint.
func LinearTo(offset, value float64) Breakpoint {
	return Breakpoint{Offset: offset, Value: value, Kind: Linear}
}

// ExpTo is shorthand for an Exponential breakpoint.
func ExpTo(offset, value float64) Breakpoint {
	return Breakpoint{Offset: offset, Value: value, Kind: Exponential}
}

// Envelope is an immutable, validated breakpoint list.
type Envelope struct {
	points []Breakpoint
}

// NewEnvelope sorts points by offset and validates them.
func NewEnvelope(points ...Breakpoint) (Envelope, error) {
	if len(points) == 0 {
		return Envelope{}, ErrNoInitialValue
	}
	sorted := make([]Breakpoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	if first := sorted[0]; first.Kind != Set || first.Offset != 0 {
		return Envelope{}, ErrNoInitialValue
	}
	for _, bp := range sorted {
		if bp.Offset < 0 {
			return Envelope{}, fmt.Errorf("param: negative breakpoint offset %v", bp.Offset)
		}
		if bp.Kind == Target && bp.TimeConstant <= 0 {
			return Envelope{}, fmt.Errorf("param: target breakpoint at %v needs a positive time constant", bp.Offset)
		}
	}
	return Envelope{points: sorted}, nil
}

// MustEnvelope is like NewEnvelope but panics on error. It is meant for
// package-level recipe tables.
func MustEnvelope(points ...Breakpoint) Envelope {
	env, err := NewEnvelope(points...)
	if err != nil {
		panic(err)
	}
	return env
}

// Apply schedules the envelope on p starting at time at.
func (e Envelope) Apply(p *Param, at float64) {
	e.ApplyScaled(p, at, 1)
}

// ApplyScaled schedules the envelope with every value multiplied by scale.
func (e Envelope) ApplyScaled(p *Param, at, scale float64) {
	for _, bp := range e.points {
		t := at + bp.Offset
		v := bp.Value * scale
		switch bp.Kind {
		case Set:
			p.SetValueAtTime(v, t)
		case Linear:
			p.LinearRampToValueAtTime(v, t)
		case Exponential:
			p.ExponentialRampToValueAtTime(v, t)
		case Target:
			p.SetTargetAtTime(v, t, bp.TimeConstant)
		}
	}
}

// Duration returns the offset of the last breakpoint.
func (e Envelope) Duration() float64 {
	if len(e.points) == 0 {
		return 0
	}
	return e.points[len(e.points)-1].Offset
}

// Points returns a copy of the breakpoints.
func (e Envelope) Points() []Breakpoint {
	out := make([]Breakpoint, len(e.points))
	copy(out, e.points)
	return out
}
