package engine

import (
	"math/rand"
	"time"

	"github.com/cwbudde/algo-ambient/dsp/effects"
	"github.com/cwbudde/algo-ambient/dsp/graph"
	"github.com/cwbudde/algo-ambient/output"
	"github.com/rs/zerolog"
)

// Opener opens the output device at Initialize time.
type Opener func() (output.Device, error)

// Narrator is a speech output that muting silences.
type Narrator interface {
	Cancel()
}

type noNarrator struct{}

func (noNarrator) Cancel() {}

// DefaultSmoothing is the mute fade time constant in seconds.
const DefaultSmoothing = 0.1

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithOpener sets how the device is opened.
func WithOpener(open Opener) Option {
	return func(e *Engine) {
		if open != nil {
			e.open = open
		}
	}
}

// WithOutput opens the device from cfg.
func WithOutput(cfg output.Config) Option {
	return WithOpener(func() (output.Device, error) { return output.Open(cfg) })
}

// WithRegistry replaces the effect catalog. It must contain a drone recipe.
func WithRegistry(reg *effects.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.reg = reg
		}
	}
}

// WithNarrator installs the speech hook cancelled on mute.
func WithNarrator(n Narrator) Option {
	return func(e *Engine) {
		if n != nil {
			e.narrator = n
		}
	}
}

// WithRand sets the random source for every recipe.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithMasterLevel sets the nominal (unmuted) master gain, clamped to [0, 1].
func WithMasterLevel(level float64) Option {
	return func(e *Engine) {
		if level >= 0 && level <= 1 {
			e.level = level
		}
	}
}

// WithSmoothing sets the mute fade time constant.
func WithSmoothing(tau time.Duration) Option {
	return func(e *Engine) {
		if tau > 0 {
			e.smoothing = tau.Seconds()
		}
	}
}

// WithBlockSize sets the graph render block size.
func WithBlockSize(frames int) Option {
	return func(e *Engine) {
		if frames > 0 {
			e.blockSize = frames
		}
	}
}

func defaults(e *Engine) {
	e.log = zerolog.Nop()
	e.open = func() (output.Device, error) { return output.Open(output.Config{}) }
	e.reg = effects.DefaultRegistry()
	e.narrator = noNarrator{}
	e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	e.level = graph.DefaultMasterLevel
	e.smoothing = DefaultSmoothing
	e.blockSize = 512
}
