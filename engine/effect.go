package engine

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-ambient/dsp/effects"
)

// Effect names a one-shot sound.
type Effect int

const (
	Boot Effect = iota
	Hover
	Glitch
	Knock
	Scare
	Heartbeat
)

var effectNames = [...]string{
	Boot:      effects.Boot,
	Hover:     effects.Hover,
	Glitch:    effects.Glitch,
	Knock:     effects.Knock,
	Scare:     effects.Scare,
	Heartbeat: effects.Heartbeat,
}

// Effects lists every triggerable effect.
func Effects() []Effect {
	return []Effect{Boot, Hover, Glitch, Knock, Scare, Heartbeat}
}

func (e Effect) String() string {
	if e < 0 || int(e) >= len(effectNames) {
		return fmt.Sprintf("Effect(%d)", int(e))
	}
	return effectNames[e]
}

// ParseEffect maps a recipe name to an Effect. The drone is not
// triggerable and is rejected.
func ParseEffect(name string) (Effect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range effectNames {
		if n == name {
			return Effect(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", effects.ErrUnknownEffect, name)
}
